package nodes

import (
	"context"
	"fmt"
	"strings"

	"computerx_chatbot/internal/core"
	"computerx_chatbot/internal/textutil"
	"computerx_chatbot/pkg"
)

// timeOfDayWords in the order they are checked against the input
var timeOfDayWords = []string{"morning", "afternoon", "evening", "night"}

// TimeOfDay buckets an hour: 5-11 morning, 12-16 afternoon, 17-21 evening, else night
func TimeOfDay(hour int) string {
	switch {
	case hour >= 5 && hour < 12:
		return "morning"
	case hour >= 12 && hour < 17:
		return "afternoon"
	case hour >= 17 && hour < 22:
		return "evening"
	default:
		return "night"
	}
}

func mentionedTimeOfDay(input string) string {
	for _, word := range timeOfDayWords {
		if strings.Contains(input, word) {
			return word
		}
	}
	return ""
}

// TimeGreetingRule answers any input that mentions a time of day, confirming it or
// pointing out the actual time of day.
type TimeGreetingRule struct {
	clock Clock
}

// NewTimeGreetingRule creates the time-of-day rule
func NewTimeGreetingRule(clock Clock) *TimeGreetingRule {
	return &TimeGreetingRule{clock: clock}
}

func (r *TimeGreetingRule) GetName() string { return "time_greeting" }

func (r *TimeGreetingRule) GetType() core.RuleType { return core.RuleTypeGreeting }

func (r *TimeGreetingRule) Match(input core.RuleInput) bool {
	return mentionedTimeOfDay(input.Normalized) != ""
}

func (r *TimeGreetingRule) Execute(ctx context.Context, input core.RuleInput) (pkg.Response, error) {
	said := mentionedTimeOfDay(input.Normalized)
	actual := TimeOfDay(r.clock().Hour())

	if said == actual {
		return pkg.NewResponse(fmt.Sprintf("Good %s to you too!", actual), pkg.MoodNormal, true), nil
	}
	msg := fmt.Sprintf("Actually, it's %s here, but good %s to you anyway!", actual, said)
	return pkg.NewResponse(msg, pkg.MoodNormal, true), nil
}

// IdentityRule introduces the bot and, when the user's name is unknown, asks for it
type IdentityRule struct {
	persona Persona
}

// NewIdentityRule creates the identity rule
func NewIdentityRule(persona Persona) *IdentityRule {
	return &IdentityRule{persona: persona}
}

func (r *IdentityRule) GetName() string { return "identity" }

func (r *IdentityRule) GetType() core.RuleType { return core.RuleTypeIdentity }

func (r *IdentityRule) Match(input core.RuleInput) bool {
	return textutil.ContainsAny(input.Normalized, "who are you", "what is your name")
}

func (r *IdentityRule) Execute(ctx context.Context, input core.RuleInput) (pkg.Response, error) {
	if input.Session != nil && input.Session.HasUserName() {
		msg := fmt.Sprintf("My name is %s. It's nice chatting with you, %s!", r.persona.Name, input.Session.UserName)
		return pkg.NewResponse(msg, pkg.MoodNormal, false), nil
	}

	if input.Session != nil {
		input.Session.AwaitingUserName = true
	}
	msg := fmt.Sprintf("I am %s, a virtual assistant for %s. What's your name?", r.persona.Name, r.persona.Company)
	return pkg.NewResponse(msg, pkg.MoodNormal, false), nil
}

// FixedPhraseRule handles greetings, thanks, farewells and "how are you"
type FixedPhraseRule struct {
	picker Picker
}

// NewFixedPhraseRule creates the fixed-phrase rule
func NewFixedPhraseRule(picker Picker) *FixedPhraseRule {
	return &FixedPhraseRule{picker: picker}
}

func (r *FixedPhraseRule) GetName() string { return "fixed_phrase" }

func (r *FixedPhraseRule) GetType() core.RuleType { return core.RuleTypeSmallTalk }

func isGreeting(s string) bool { return textutil.EqualsAny(s, "hi", "hello") }

func isThanks(s string) bool { return textutil.EqualsAny(s, "thanks", "thank you") }

func isFarewell(s string) bool { return textutil.EqualsAny(s, "bye", "exit", "quit") }

func isStatusQuestion(s string) bool { return strings.Contains(s, "how are you") }

func (r *FixedPhraseRule) Match(input core.RuleInput) bool {
	s := input.Normalized
	return isGreeting(s) || isThanks(s) || isFarewell(s) || isStatusQuestion(s)
}

func (r *FixedPhraseRule) Execute(ctx context.Context, input core.RuleInput) (pkg.Response, error) {
	s := input.Normalized
	switch {
	case isGreeting(s):
		return pkg.NewResponse(Pick(r.picker, GreetingReplies...), pkg.MoodNormal, true), nil
	case isThanks(s):
		return pkg.NewResponse(Pick(r.picker, ThanksReplies...), pkg.MoodNormal, true), nil
	case isFarewell(s):
		resp := pkg.NewResponse(Pick(r.picker, FarewellReplies...), pkg.MoodNormal, true)
		resp.EndConversation = true
		return resp, nil
	default:
		return pkg.NewResponse(Pick(r.picker, StatusReplies...), pkg.MoodNormal, true), nil
	}
}
