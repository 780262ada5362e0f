package comps

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ttpr0/go-contractor/structs"
	. "github.com/ttpr0/go-contractor/util"
)

func _TestEdge(source, target, weight int32) structs.EdgeBasedEdge {
	return structs.EdgeBasedEdge{
		Source:  source,
		Target:  target,
		TurnID:  source*100 + target,
		Weight:  weight,
		Forward: true,
	}
}

func TestSymmetricStorage(t *testing.T) {
	edges := NewList[structs.EdgeBasedEdge](2)
	edges.Add(_TestEdge(0, 1, 5))
	graph := NewContractorGraph(3, edges)

	out_count := 0
	graph.ForOutEdges(0, func(target int32, data structs.EdgeData) {
		out_count += 1
		require.Equal(t, int32(1), target)
		require.Equal(t, int32(5), data.Weight)
	})
	require.Equal(t, 1, out_count)

	// the reverse marker at node 1 carries swapped direction flags
	in_count := 0
	graph.ForInEdges(1, func(target int32, data structs.EdgeData) {
		in_count += 1
		require.Equal(t, int32(0), target)
	})
	require.Equal(t, 1, in_count)

	// no forward edge exists at node 1
	graph.ForOutEdges(1, func(target int32, data structs.EdgeData) {
		t.Errorf("unexpected out edge at node 1 to %v", target)
	})
}

func TestFindEdge(t *testing.T) {
	edges := NewList[structs.EdgeBasedEdge](2)
	edges.Add(_TestEdge(0, 1, 5))
	graph := NewContractorGraph(2, edges)

	data, ok := graph.FindEdge(0, 1, true, false)
	require.True(t, ok)
	require.Equal(t, int32(5), data.Weight)

	_, ok = graph.FindEdge(0, 1, false, true)
	require.False(t, ok)
	_, ok = graph.FindEdge(1, 0, true, false)
	require.False(t, ok)
}

func TestInsertReplacesLowerWeight(t *testing.T) {
	edges := NewList[structs.EdgeBasedEdge](2)
	edges.Add(_TestEdge(0, 1, 5))
	graph := NewContractorGraph(2, edges)

	// cheaper parallel edge replaces the data in place
	graph.InsertEdge(0, 1, structs.EdgeData{Weight: 3, OriginalEdges: 1, Forward: true})
	count := 0
	graph.ForOutEdges(0, func(target int32, data structs.EdgeData) {
		count += 1
		require.Equal(t, int32(3), data.Weight)
	})
	require.Equal(t, 1, count)

	// a more expensive one is appended as a parallel entry
	graph.InsertEdge(0, 1, structs.EdgeData{Weight: 7, OriginalEdges: 1, Forward: true, Shortcut: true})
	count = 0
	graph.ForOutEdges(0, func(target int32, data structs.EdgeData) {
		count += 1
	})
	require.Equal(t, 2, count)
}

func TestInsertShortcutDomination(t *testing.T) {
	edges := NewList[structs.EdgeBasedEdge](1)
	edges.Add(_TestEdge(0, 1, 2))
	graph := NewContractorGraph(2, edges)

	// dominated by the existing cheaper edge
	graph.InsertShortcut(0, 1, structs.EdgeData{Weight: 4, Shortcut: true, Forward: true})
	count := 0
	graph.ForOutEdges(0, func(target int32, data structs.EdgeData) {
		count += 1
		require.Equal(t, int32(2), data.Weight)
		require.False(t, data.Shortcut)
	})
	require.Equal(t, 1, count)

	// cheaper shortcut replaces the edge data
	graph.InsertShortcut(0, 1, structs.EdgeData{Weight: 1, ID: 7, Shortcut: true, Forward: true})
	count = 0
	graph.ForOutEdges(0, func(target int32, data structs.EdgeData) {
		count += 1
		require.Equal(t, int32(1), data.Weight)
		require.True(t, data.Shortcut)
	})
	require.Equal(t, 1, count)
}

func TestRetireNode(t *testing.T) {
	edges := NewList[structs.EdgeBasedEdge](2)
	edges.Add(_TestEdge(0, 1, 1))
	edges.Add(_TestEdge(1, 2, 1))
	graph := NewContractorGraph(3, edges)

	graph.RetireNode(1)

	graph.ForOutEdges(1, func(target int32, data structs.EdgeData) {
		t.Errorf("retired node still has an edge to %v", target)
	})
	graph.ForOutEdges(0, func(target int32, data structs.EdgeData) {
		t.Errorf("neighbour still links the retired node (%v)", target)
	})
	graph.ForInEdges(2, func(target int32, data structs.EdgeData) {
		t.Errorf("neighbour still links the retired node (%v)", target)
	})

	// the retired entries survive in the edge output
	edges_out := graph.Edges()
	retained := 0
	for _, edge := range edges_out {
		if edge.Source == 1 {
			retained += 1
		}
	}
	require.Equal(t, 2, retained)
}

func TestFilteredView(t *testing.T) {
	edges := NewList[structs.EdgeBasedEdge](3)
	edges.Add(_TestEdge(0, 1, 1))
	edges.Add(_TestEdge(0, 2, 1))
	graph := NewContractorGraph(3, edges)

	predicate := NewArray[bool](3)
	predicate[0] = true
	predicate[1] = true
	view := graph.Filter(predicate)

	targets := NewList[int32](2)
	view.ForOutEdges(0, func(target int32, data structs.EdgeData) {
		targets.Add(target)
	})
	require.Equal(t, 1, targets.Length())
	require.Equal(t, int32(1), targets[0])

	_, ok := view.FindEdge(0, 2, true, false)
	require.False(t, ok)

	extracted := view.ExtractSubgraph()
	extracted.ForOutEdges(0, func(target int32, data structs.EdgeData) {
		require.Equal(t, int32(1), target)
	})
	// mutating the extraction leaves the source graph untouched
	extracted.RetireNode(1)
	count := 0
	graph.ForOutEdges(0, func(target int32, data structs.EdgeData) {
		count += 1
	})
	require.Equal(t, 2, count)
}
