package core

import (
	"context"

	"computerx_chatbot/pkg"
)

// Rule is one step of the intent chain: a predicate plus the handler that runs when
// the predicate holds.
type Rule interface {
	GetName() string
	GetType() RuleType
	Match(input RuleInput) bool
	Execute(ctx context.Context, input RuleInput) (pkg.Response, error)
}

// RuleType groups rules by the kind of intent they serve
type RuleType string

const (
	RuleTypeGreeting  RuleType = "greeting"
	RuleTypeIdentity  RuleType = "identity"
	RuleTypeSmallTalk RuleType = "small_talk"
	RuleTypeCatalog   RuleType = "catalog"
	RuleTypeKnowledge RuleType = "knowledge"
	RuleTypeFallback  RuleType = "fallback"
)

// RuleInput is what every rule sees for a turn
type RuleInput struct {
	// Raw is the text as typed by the user
	Raw string
	// Normalized is Raw lower-cased and trimmed
	Normalized string
	// Session is the conversation state; rules may set flags on it
	Session *pkg.SessionState
}

// Priorities of the default chain; lower runs first
const (
	PriorityTimeGreeting = 10 * (iota + 1)
	PriorityIdentity
	PriorityFixedPhrase
	PriorityCatalogMeta
	PriorityKnowledge
	PriorityListing
	PriorityPrice
	PriorityStock
	PriorityAvailability
	PriorityFallback
)

// Entry binds a rule to its position in the chain
type Entry struct {
	Rule     Rule
	Priority int
}
