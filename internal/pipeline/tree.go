package pipeline

import (
	"sort"

	"github.com/hrumbles/candidate-pipeline/internal/domain"
)

// BuildStatusTree groups a flat status list into main statuses with their subs.
// Both levels are sorted by DisplayOrder, then name. Subs whose parent is not a
// main status in the list are returned as orphans.
func BuildStatusTree(defs []domain.StatusDefinition) (tree []domain.MainStatus, orphans []domain.StatusDefinition) {
	index := make(map[string]int)
	for _, def := range defs {
		if def.IsMain() {
			index[def.ID] = len(tree)
			tree = append(tree, domain.MainStatus{StatusDefinition: def})
		}
	}
	for _, def := range defs {
		if def.IsMain() {
			continue
		}
		if !def.IsSub() {
			orphans = append(orphans, def)
			continue
		}
		pos, ok := index[*def.ParentID]
		if !ok {
			orphans = append(orphans, def)
			continue
		}
		tree[pos].Subs = append(tree[pos].Subs, def)
	}

	sort.SliceStable(tree, func(i, j int) bool {
		return lessStatus(tree[i].StatusDefinition, tree[j].StatusDefinition)
	})
	for i := range tree {
		subs := tree[i].Subs
		sort.SliceStable(subs, func(a, b int) bool { return lessStatus(subs[a], subs[b]) })
	}
	return tree, orphans
}

func lessStatus(a, b domain.StatusDefinition) bool {
	if a.DisplayOrder != b.DisplayOrder {
		return a.DisplayOrder < b.DisplayOrder
	}
	return a.Name < b.Name
}
