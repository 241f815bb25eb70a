package pipeline

// TransitionRule is one allowed sub status move configured for an organization.
type TransitionRule struct {
	FromSubStatusID string
	ToSubStatusID   string
}

// Graph is an optional table of allowed sub status moves. An empty graph
// allows every move.
type Graph struct {
	edges map[string]map[string]struct{}
}

// NewGraph builds a graph from configured rules.
func NewGraph(rules []TransitionRule) *Graph {
	g := &Graph{edges: make(map[string]map[string]struct{})}
	for _, rule := range rules {
		targets, ok := g.edges[rule.FromSubStatusID]
		if !ok {
			targets = make(map[string]struct{})
			g.edges[rule.FromSubStatusID] = targets
		}
		targets[rule.ToSubStatusID] = struct{}{}
	}
	return g
}

// Open reports whether the graph places no restriction on moves.
func (g *Graph) Open() bool {
	return g == nil || len(g.edges) == 0
}

// Allows reports whether moving from one sub status to another is permitted.
// Re-applying the current status and leaving an unpositioned candidate are
// always allowed.
func (g *Graph) Allows(from, to string) bool {
	if g.Open() || from == "" || from == to {
		return true
	}
	_, ok := g.edges[from][to]
	return ok
}
