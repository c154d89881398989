package core

import (
	"context"
	"fmt"
	"sort"
	"time"

	"computerx_chatbot/internal/logger"
	"computerx_chatbot/pkg"
)

// UnknownMessage is returned when a rule fails unexpectedly
const UnknownMessage = "I'm not sure how to answer that."

// NoRule names the outcome when no rule produced the response
const NoRule = "none"

// Router evaluates rules top to bottom; the first rule whose predicate holds produces
// the response and nothing after it runs.
type Router struct {
	entries []Entry
}

// NewRouter creates a router. Entries are ordered by priority; entries with equal
// priority keep the order they were given in.
func NewRouter(entries ...Entry) (*Router, error) {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)

	seen := make(map[string]bool, len(sorted))
	for _, entry := range sorted {
		if entry.Rule == nil {
			return nil, fmt.Errorf("rule cannot be nil")
		}
		name := entry.Rule.GetName()
		if name == "" {
			return nil, fmt.Errorf("rule name cannot be empty")
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate rule: %s", name)
		}
		seen[name] = true
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority < sorted[j].Priority
	})

	return &Router{entries: sorted}, nil
}

// Rules returns the rule names in evaluation order
func (r *Router) Rules() []string {
	names := make([]string, 0, len(r.entries))
	for _, entry := range r.entries {
		names = append(names, entry.Rule.GetName())
	}
	return names
}

// Route runs the chain for one turn and returns the response together with the name
// of the rule that produced it. A panicking or failing rule degrades to the generic
// "not sure" response instead of ending the turn with a fault.
func (r *Router) Route(ctx context.Context, input RuleInput) (resp pkg.Response, ruleName string) {
	startTime := time.Now()
	ruleName = NoRule

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error().
				Str("rule", ruleName).
				Interface("panic", rec).
				Msg("Rule panicked, answering with fallback")
			resp = unknownResponse()
		}
	}()

	for _, entry := range r.entries {
		rule := entry.Rule
		if !rule.Match(input) {
			continue
		}
		ruleName = rule.GetName()

		out, err := rule.Execute(ctx, input)
		if err != nil {
			logger.Error().Err(err).Str("rule", ruleName).Msg("Rule failed, answering with fallback")
			return unknownResponse(), ruleName
		}

		logger.Debug().
			Str("rule", ruleName).
			Str("type", string(rule.GetType())).
			Str("mood", string(out.Mood)).
			Dur("elapsed", time.Since(startTime)).
			Msg("Rule matched")
		return out, ruleName
	}

	logger.Warn().Str("input", input.Normalized).Msg("No rule matched")
	return unknownResponse(), ruleName
}

func unknownResponse() pkg.Response {
	return pkg.NewResponse(UnknownMessage, pkg.MoodNormal, false)
}
