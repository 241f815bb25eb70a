package pipeline

import "github.com/hrumbles/candidate-pipeline/internal/domain"

// Classification is everything the engine needs to know about one status.
type Classification struct {
	Status      domain.StatusDefinition
	Parent      *domain.StatusDefinition
	Interaction domain.InteractionType
	Terminal    bool
	Round       string
}

// Index maps status ids to their classification. It is built once per catalog
// load so transitions are classified by stable id rather than display name.
type Index struct {
	rules   Rules
	entries map[string]Classification
}

// NewIndex classifies every status of a catalog with the given rules.
func NewIndex(defs []domain.StatusDefinition, rules Rules) *Index {
	byID := make(map[string]domain.StatusDefinition, len(defs))
	for _, def := range defs {
		byID[def.ID] = def
	}

	idx := &Index{rules: rules, entries: make(map[string]Classification, len(defs))}
	for _, def := range defs {
		entry := Classification{Status: def, Interaction: domain.InteractionNone}
		if def.IsSub() {
			if parent, ok := byID[*def.ParentID]; ok && parent.IsMain() {
				p := parent
				entry.Parent = &p
			}
			entry.Interaction = rules.Interaction(def)
			entry.Terminal = rules.Terminal(def)
			entry.Round = InterviewRoundName(def.Name)
		}
		idx.entries[def.ID] = entry
	}
	return idx
}

// Pipeline returns the pipeline the index was built for.
func (i *Index) Pipeline() domain.Pipeline { return i.rules.Pipeline() }

// Lookup returns the classification of a status id.
func (i *Index) Lookup(id string) (Classification, bool) {
	entry, ok := i.entries[id]
	return entry, ok
}

// Sub returns the classification of a sub status whose parent main status is
// part of the same catalog.
func (i *Index) Sub(id string) (Classification, bool) {
	entry, ok := i.Lookup(id)
	if !ok || !entry.Status.IsSub() || entry.Parent == nil {
		return Classification{}, false
	}
	return entry, true
}

// IsTerminal reports whether the status id is terminal. Unknown ids are not.
func (i *Index) IsTerminal(id string) bool {
	return i.entries[id].Terminal
}

// Interaction returns the side data category for a move to the status id.
func (i *Index) Interaction(id string) domain.InteractionType {
	entry, ok := i.Lookup(id)
	if !ok {
		return domain.InteractionNone
	}
	return entry.Interaction
}

// Len returns the number of indexed statuses.
func (i *Index) Len() int { return len(i.entries) }
