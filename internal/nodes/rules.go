package nodes

import (
	"time"

	"computerx_chatbot/internal/core"
)

// Persona is how the bot introduces itself
type Persona struct {
	Name    string
	Company string
}

// Dependencies holds what the default chain needs
type Dependencies struct {
	Persona   Persona
	Catalog   Catalog
	Knowledge Knowledge
	Clock     Clock
	Picker    Picker
}

func (d Dependencies) withDefaults() Dependencies {
	if d.Clock == nil {
		d.Clock = time.Now
	}
	if d.Picker == nil {
		d.Picker = DefaultPicker()
	}
	return d
}

// DefaultRules returns the ten rules of the intent chain with their priorities
func DefaultRules(deps Dependencies) []core.Entry {
	deps = deps.withDefaults()
	return []core.Entry{
		{Rule: NewTimeGreetingRule(deps.Clock), Priority: core.PriorityTimeGreeting},
		{Rule: NewIdentityRule(deps.Persona), Priority: core.PriorityIdentity},
		{Rule: NewFixedPhraseRule(deps.Picker), Priority: core.PriorityFixedPhrase},
		{Rule: NewCatalogMetaRule(deps.Catalog), Priority: core.PriorityCatalogMeta},
		{Rule: NewKnowledgeRule(deps.Knowledge), Priority: core.PriorityKnowledge},
		{Rule: NewListingRule(deps.Catalog), Priority: core.PriorityListing},
		{Rule: NewPriceRule(deps.Catalog), Priority: core.PriorityPrice},
		{Rule: NewStockRule(deps.Catalog), Priority: core.PriorityStock},
		{Rule: NewAvailabilityRule(deps.Catalog), Priority: core.PriorityAvailability},
		{Rule: NewFallbackRule(), Priority: core.PriorityFallback},
	}
}

// NewDefaultRouter builds a router over DefaultRules
func NewDefaultRouter(deps Dependencies) (*core.Router, error) {
	return core.NewRouter(DefaultRules(deps)...)
}
