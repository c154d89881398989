package nodes

import (
	"context"

	"computerx_chatbot/internal/core"
	"computerx_chatbot/pkg"
)

// Knowledge is the lookup surface of the knowledge store
type Knowledge interface {
	FindSmallTalk(key string) (string, bool)
	FindLearned(question string) (string, bool)
}

// KnowledgeRule answers from the small-talk table first, then from learned answers
type KnowledgeRule struct {
	knowledge Knowledge
}

// NewKnowledgeRule creates the knowledge rule
func NewKnowledgeRule(knowledge Knowledge) *KnowledgeRule {
	return &KnowledgeRule{knowledge: knowledge}
}

func (r *KnowledgeRule) GetName() string { return "knowledge" }

func (r *KnowledgeRule) GetType() core.RuleType { return core.RuleTypeKnowledge }

func (r *KnowledgeRule) lookup(input string) (string, bool) {
	if answer, ok := r.knowledge.FindSmallTalk(input); ok {
		return answer, true
	}
	return r.knowledge.FindLearned(input)
}

func (r *KnowledgeRule) Match(input core.RuleInput) bool {
	_, ok := r.lookup(input.Normalized)
	return ok
}

func (r *KnowledgeRule) Execute(ctx context.Context, input core.RuleInput) (pkg.Response, error) {
	answer, ok := r.lookup(input.Normalized)
	if !ok {
		// entry vanished between Match and Execute
		return pkg.NewResponse(FallbackMessage, pkg.MoodLearning, false), nil
	}
	return pkg.NewResponse(answer, pkg.MoodNormal, false), nil
}

// FallbackRule matches everything and asks the user to teach the answer
type FallbackRule struct{}

// NewFallbackRule creates the fallback rule
func NewFallbackRule() *FallbackRule {
	return &FallbackRule{}
}

func (r *FallbackRule) GetName() string { return "fallback" }

func (r *FallbackRule) GetType() core.RuleType { return core.RuleTypeFallback }

func (r *FallbackRule) Match(core.RuleInput) bool { return true }

func (r *FallbackRule) Execute(ctx context.Context, input core.RuleInput) (pkg.Response, error) {
	return pkg.NewResponse(FallbackMessage, pkg.MoodLearning, false), nil
}
