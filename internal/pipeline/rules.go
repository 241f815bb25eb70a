package pipeline

import "github.com/hrumbles/candidate-pipeline/internal/domain"

// Rules classifies the sub statuses of one pipeline.
type Rules interface {
	Pipeline() domain.Pipeline
	Interaction(sub domain.StatusDefinition) domain.InteractionType
	Terminal(sub domain.StatusDefinition) bool
}

// RulesFor returns the rule set of a pipeline; unknown pipelines use the
// recruitment rules.
func RulesFor(p domain.Pipeline) Rules {
	if p == domain.PipelineBgv {
		return BgvRules{}
	}
	return RecruitmentRules{}
}

// RecruitmentRules classifies recruitment statuses by name.
type RecruitmentRules struct{}

// Pipeline implements Rules.
func (RecruitmentRules) Pipeline() domain.Pipeline { return domain.PipelineRecruitment }

// Interaction implements Rules.
func (RecruitmentRules) Interaction(sub domain.StatusDefinition) domain.InteractionType {
	return RequiredInteractionType("", sub.Name)
}

// Terminal implements Rules.
func (RecruitmentRules) Terminal(sub domain.StatusDefinition) bool {
	return IsTerminalStatus(sub.Name)
}
