package domain

import "time"

// StatusType separates pipeline stages from the fine-grained states inside them.
type StatusType string

const (
	StatusTypeMain StatusType = "main"
	StatusTypeSub  StatusType = "sub"
)

// Pipeline names an independent status catalog layered on the candidate record.
type Pipeline string

const (
	PipelineRecruitment Pipeline = "recruitment"
	PipelineBgv         Pipeline = "bgv"
)

// Valid reports whether p is a known pipeline.
func (p Pipeline) Valid() bool {
	return p == PipelineRecruitment || p == PipelineBgv
}

// Scope pins every catalog and store call to one organization and pipeline.
type Scope struct {
	OrganizationID string
	Pipeline       Pipeline
}

// StatusDefinition is a main or sub status configured by an organization.
type StatusDefinition struct {
	ID             string
	OrganizationID string
	Pipeline       Pipeline
	Name           string
	Type           StatusType
	ParentID       *string
	DisplayOrder   int
	Color          *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsMain reports whether the definition is a top-level stage.
func (s StatusDefinition) IsMain() bool { return s.Type == StatusTypeMain }

// IsSub reports whether the definition is a sub status with a parent.
func (s StatusDefinition) IsSub() bool { return s.Type == StatusTypeSub && s.ParentID != nil }

// EffectiveColor returns the status color, falling back to the parent's for subs.
func (s StatusDefinition) EffectiveColor(parent *StatusDefinition) string {
	if s.Color != nil && *s.Color != "" {
		return *s.Color
	}
	if parent != nil && parent.Color != nil {
		return *parent.Color
	}
	return ""
}

// MainStatus is a main status together with its ordered sub statuses.
type MainStatus struct {
	StatusDefinition
	Subs []StatusDefinition
}
