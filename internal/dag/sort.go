package dag

import (
	"fmt"
	"sort"
	"strings"
)

// CycleError reports that the graph is not realizable. Members lists every
// node that remains on a cycle, in lexical order.
type CycleError struct {
	Members []string
}

// Error implements the error interface for CycleError.
func (e *CycleError) Error() string {
	return fmt.Sprintf("cyclic dependency between: %s", strings.Join(e.Members, ", "))
}

// TopoSort returns all node IDs in a valid topological order: every node
// appears after all of its dependencies. When several orders are valid,
// ties are broken by lexical node ID, so the result is stable across runs
// with identical input. If the graph contains a cycle, a *CycleError naming
// the cycle's members is returned.
func (g *Graph) TopoSort() ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	// Kahn's algorithm with a sorted ready set. The ready set is re-sorted
	// on every insertion, which keeps equal-rank nodes in lexical order
	// rather than appending them in discovery order.
	pending := make(map[string]int, len(g.nodes))
	var ready []string
	for id, n := range g.nodes {
		pending[id] = len(n.deps)
		if len(n.deps) == 0 {
			ready = append(ready, id)
		}
	}
	sort.Strings(ready)

	order := make([]string, 0, len(g.nodes))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)

		released := false
		for depID := range g.nodes[id].dependents {
			pending[depID]--
			if pending[depID] == 0 {
				ready = append(ready, depID)
				released = true
			}
		}
		if released {
			sort.Strings(ready)
		}
	}

	if len(order) < len(g.nodes) {
		var members []string
		for id := range g.nodes {
			if pending[id] > 0 {
				members = append(members, id)
			}
		}
		sort.Strings(members)
		return nil, &CycleError{Members: members}
	}

	return order, nil
}
