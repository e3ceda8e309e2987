package dag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopoSort_OrdersDependenciesFirst(t *testing.T) {
	g := New()
	g.AddNode("network")
	g.AddNode("vault")
	g.AddNode("database")
	require.NoError(t, g.AddEdge("network", "vault"))
	require.NoError(t, g.AddEdge("vault", "database"))

	order, err := g.TopoSort()
	require.NoError(t, err)
	assert.Equal(t, []string{"network", "vault", "database"}, order)
}

func TestTopoSort_LexicalTieBreak(t *testing.T) {
	g := New()
	// No edges at all: only the tie-break determines the order.
	for _, id := range []string{"zeta", "alpha", "mid"} {
		g.AddNode(id)
	}

	order, err := g.TopoSort()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, order)
}

func TestTopoSort_TieBreakWithinRanks(t *testing.T) {
	g := New()
	for _, id := range []string{"root", "b", "a", "z"} {
		g.AddNode(id)
	}
	require.NoError(t, g.AddEdge("root", "b"))
	require.NoError(t, g.AddEdge("root", "a"))
	require.NoError(t, g.AddEdge("root", "z"))

	order, err := g.TopoSort()
	require.NoError(t, err)
	assert.Equal(t, []string{"root", "a", "b", "z"}, order)
}

func TestTopoSort_Deterministic(t *testing.T) {
	build := func() *Graph {
		g := New()
		for _, id := range []string{"d", "c", "b", "a"} {
			g.AddNode(id)
		}
		_ = g.AddEdge("a", "c")
		_ = g.AddEdge("b", "c")
		_ = g.AddEdge("c", "d")
		return g
	}

	first, err := build().TopoSort()
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		next, err := build().TopoSort()
		require.NoError(t, err)
		assert.Equal(t, first, next)
	}
}

func TestTopoSort_CycleNamesMembers(t *testing.T) {
	g := New()
	g.AddNode("a")
	g.AddNode("b")
	g.AddNode("standalone")
	require.NoError(t, g.AddEdge("a", "b"))
	require.NoError(t, g.AddEdge("b", "a"))

	_, err := g.TopoSort()
	require.Error(t, err)

	var cycleErr *CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.Equal(t, []string{"a", "b"}, cycleErr.Members)
	assert.ErrorContains(t, err, "cyclic dependency between: a, b")
}
