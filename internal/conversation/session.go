package conversation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"computerx_chatbot/internal/core"
	"computerx_chatbot/internal/knowledge"
	"computerx_chatbot/internal/logger"
	"computerx_chatbot/internal/nodes"
	"computerx_chatbot/internal/textutil"
	"computerx_chatbot/pkg"
)

var (
	// ErrBlankAnswer is returned when a teaching answer is empty
	ErrBlankAnswer = errors.New("learned answer cannot be blank")
	// ErrNotLearning is returned when Learn is called without a pending question
	ErrNotLearning = errors.New("no question is waiting to be learned")
)

// DefaultPersonalizeProbability is the chance a personalizable reply gets the user's name
const DefaultPersonalizeProbability = 0.7

// NeverPersonalize turns personalization off where a zero probability means "use the default"
const NeverPersonalize = -1.0

// repetition thresholds
const (
	repeatNoteAt  = 3
	annoyedAbove  = 3
	apologyPhrase = "sorry"
)

// Reply sets used by the session itself
var (
	ApologyReplies = []string{"It's okay. No problem.", "Apology accepted."}
	AnnoyedReplies = []string{
		"I've already answered that. Please ask a different question.",
		"Why do you keep asking the same thing? Let's move on.",
	}
	RepeatNotes = []string{
		"\n\n(By the way, you've asked me that a few times now.)",
		"\n\n(Just letting you know, I believe I've answered this already.)",
	}
)

const (
	DeclineMessage  = "Okay, I won't learn that for now."
	LearnedMessage  = "Thank you! I've learned that."
	askNameAgain    = "I didn't catch your name. What should I call you?"
	nameCapturedFmt = "It's a pleasure to meet you, %s!"
)

// Learner records a taught question/answer pair. *knowledge.Store implements it.
type Learner interface {
	RecordLearned(question, answer string) error
}

// Session wraps the router with the per-conversation state machine: name capture,
// repetition tracking, personalization and the teaching handshake.
type Session struct {
	state   *pkg.SessionState
	router  *core.Router
	learner Learner
	picker  nodes.Picker
	// personalizeOutOf100 is the personalization chance in percent
	personalizeOutOf100 int
}

// Option configures a Session
type Option func(*Session)

// WithPicker sets the random source used for reply variation and personalization
func WithPicker(p nodes.Picker) Option {
	return func(s *Session) {
		if p != nil {
			s.picker = p
		}
	}
}

// WithPersonalizeProbability sets the chance, in [0, 1], that a personalizable reply
// is addressed to the user by name
func WithPersonalizeProbability(p float64) Option {
	return func(s *Session) {
		s.personalizeOutOf100 = int(math.Round(math.Max(0, math.Min(1, p)) * 100))
	}
}

// NewSession creates a session over state. The state is updated in place on every turn.
func NewSession(state *pkg.SessionState, router *core.Router, learner Learner, opts ...Option) *Session {
	s := &Session{
		state:               state,
		router:              router,
		learner:             learner,
		picker:              nodes.DefaultPicker(),
		personalizeOutOf100: int(DefaultPersonalizeProbability * 100),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns a copy of the session state
func (s *Session) State() pkg.SessionState {
	return *s.state
}

// PendingQuestion returns the question the last turn could not answer, if any
func (s *Session) PendingQuestion() (string, bool) {
	return s.state.PendingQuestion, s.state.PendingQuestion != ""
}

// Respond runs one turn
func (s *Session) Respond(ctx context.Context, text string) pkg.Response {
	normalized := textutil.Normalize(text)
	s.state.PendingQuestion = ""

	if s.state.AwaitingUserName {
		return s.captureName(text)
	}

	if normalized != "" && normalized == s.state.LastInput {
		s.state.RepetitionCount++
	} else {
		s.state.LastInput = normalized
		s.state.RepetitionCount = 1
	}

	if normalized == apologyPhrase {
		s.state.ResetRepetition()
		return finalize(pkg.NewResponse(nodes.Pick(s.picker, ApologyReplies...), pkg.MoodNormal, true))
	}

	resp, ruleName := s.router.Route(ctx, core.RuleInput{
		Raw:        text,
		Normalized: normalized,
		Session:    s.state,
	})

	resp = s.personalize(resp)
	resp = s.applyRepetition(resp)

	if resp.Mood == pkg.MoodLearning {
		s.state.PendingQuestion = normalized
	}

	logger.Debug().
		Str("session_id", s.state.SessionID).
		Str("rule", ruleName).
		Int("repetition", s.state.RepetitionCount).
		Str("mood", string(resp.Mood)).
		Msg("Turn complete")

	return finalize(resp)
}

func (s *Session) captureName(text string) pkg.Response {
	name := textutil.Capitalize(strings.TrimSpace(text))
	if name == "" {
		return finalize(pkg.NewResponse(askNameAgain, pkg.MoodNormal, false))
	}

	s.state.UserName = name
	s.state.AwaitingUserName = false
	logger.Debug().Str("session_id", s.state.SessionID).Msg("User name captured")
	return finalize(pkg.NewResponse(fmt.Sprintf(nameCapturedFmt, name), pkg.MoodNormal, false))
}

func (s *Session) personalize(resp pkg.Response) pkg.Response {
	if !resp.Personalizable || !s.state.HasUserName() {
		return resp
	}
	if s.picker.IntN(100) >= s.personalizeOutOf100 {
		return resp
	}

	msg := resp.Message
	if strings.HasSuffix(msg, ".") || strings.HasSuffix(msg, "!") || strings.HasSuffix(msg, "?") {
		msg = msg[:len(msg)-1]
	}
	resp.Message = msg + ", " + s.state.UserName + "."
	return resp
}

func (s *Session) applyRepetition(resp pkg.Response) pkg.Response {
	if resp.EndConversation {
		return resp
	}

	switch count := s.state.RepetitionCount; {
	case count > annoyedAbove:
		resp.Message = nodes.Pick(s.picker, AnnoyedReplies...)
		resp.Mood = pkg.MoodAnnoyed
	case count == repeatNoteAt:
		resp.Message += nodes.Pick(s.picker, RepeatNotes...)
	}
	return resp
}

// finalize clears the personalizable flag so callers never decorate a reply twice
func finalize(resp pkg.Response) pkg.Response {
	resp.Personalizable = false
	return resp
}

// Learn teaches the bot the answer to question. It is only valid right after a turn
// that answered with the LEARNING mood; a blank question means the pending one.
// A failure to persist the answer is logged and does not fail the call, since the
// answer is already in memory.
func (s *Session) Learn(ctx context.Context, question, answer string) error {
	pending, ok := s.PendingQuestion()
	if !ok {
		return ErrNotLearning
	}
	if strings.TrimSpace(answer) == "" {
		return ErrBlankAnswer
	}
	if strings.TrimSpace(question) == "" {
		question = pending
	}

	if err := s.learner.RecordLearned(question, answer); err != nil {
		if errors.Is(err, knowledge.ErrBlankQuestion) || errors.Is(err, knowledge.ErrDelimiterInQuestion) {
			return err
		}
		logger.Warn().Err(err).Str("session_id", s.state.SessionID).Msg("Learned answer kept in memory only")
	}

	s.state.PendingQuestion = ""
	logger.Info().Str("session_id", s.state.SessionID).Str("question", question).Msg("Learned new answer")
	return nil
}

// Decline abandons the pending question and returns the acknowledgement to show
func (s *Session) Decline() string {
	s.state.PendingQuestion = ""
	return DeclineMessage
}
