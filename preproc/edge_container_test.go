package preproc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ttpr0/go-contractor/structs"
	. "github.com/ttpr0/go-contractor/util"
)

func _QueryEdge(source, target, weight int32) structs.QueryEdge {
	return structs.QueryEdge{
		Source: source,
		Target: target,
		Data: structs.EdgeData{
			Weight:  weight,
			Forward: true,
		},
	}
}

func TestMergeIdempotence(t *testing.T) {
	// merging the same list twice yields the same edges flagged 0b11
	edges := NewList[structs.QueryEdge](3)
	edges.Add(_QueryEdge(0, 1, 1))
	edges.Add(_QueryEdge(1, 2, 2))
	edges.Add(_QueryEdge(2, 0, 3))

	container := NewContractedEdgeContainer()
	first := NewList[structs.QueryEdge](3)
	second := NewList[structs.QueryEdge](3)
	for _, edge := range edges {
		first.Add(edge)
		second.Add(edge)
	}
	container.Merge(first)
	container.Merge(second)

	require.Equal(t, 3, container.EdgeCount())
	for _, flag := range container.Flags() {
		require.Equal(t, uint8(0b11), flag)
	}
}

func TestMergeTwoFilters(t *testing.T) {
	e0 := _QueryEdge(0, 1, 1)
	e1 := _QueryEdge(1, 2, 2)
	e2 := _QueryEdge(2, 3, 3)

	filter0 := NewList[structs.QueryEdge](2)
	filter0.Add(e0)
	filter0.Add(e1)
	filter1 := NewList[structs.QueryEdge](2)
	filter1.Add(e1)
	filter1.Add(e2)

	container := NewContractedEdgeContainer()
	container.Merge(filter0)
	container.Merge(filter1)

	require.Equal(t, 3, container.EdgeCount())
	merged := container.Edges()
	flags := container.Flags()
	for i, edge := range merged {
		switch edge.Source {
		case 0:
			require.Equal(t, uint8(0b01), flags[i])
		case 1:
			require.Equal(t, uint8(0b11), flags[i])
		case 2:
			require.Equal(t, uint8(0b10), flags[i])
		}
	}

	columns := container.MakeEdgeFilters()
	require.Equal(t, 2, columns.Length())
	for i := range merged {
		require.Equal(t, flags[i]&1 != 0, columns[0][i])
		require.Equal(t, flags[i]&2 != 0, columns[1][i])
	}
}

func TestMergeSortsAndDeduplicates(t *testing.T) {
	edges := NewList[structs.QueryEdge](4)
	edges.Add(_QueryEdge(2, 0, 3))
	edges.Add(_QueryEdge(0, 1, 1))
	edges.Add(_QueryEdge(0, 1, 1))
	edges.Add(_QueryEdge(1, 2, 2))

	container := NewContractedEdgeContainer()
	container.Merge(edges)

	require.Equal(t, 3, container.EdgeCount())
	merged := container.Edges()
	for i := 1; i < merged.Length(); i++ {
		require.True(t, structs.MergeCompare(merged[i-1], merged[i]))
	}
}

func TestMergeKeyDistinguishesDirections(t *testing.T) {
	fwd := _QueryEdge(0, 1, 1)
	bwd := _QueryEdge(0, 1, 1)
	bwd.Data.Forward = false
	bwd.Data.Backward = true

	list := NewList[structs.QueryEdge](2)
	list.Add(fwd)
	list.Add(bwd)
	container := NewContractedEdgeContainer()
	container.Merge(list)
	require.Equal(t, 2, container.EdgeCount())
}

func TestMergeLimit(t *testing.T) {
	container := NewContractedEdgeContainer()
	for i := 0; i < MAX_MERGED_FILTERS; i++ {
		list := NewList[structs.QueryEdge](1)
		list.Add(_QueryEdge(0, 1, 1))
		container.Merge(list)
	}
	require.Panics(t, func() {
		list := NewList[structs.QueryEdge](1)
		list.Add(_QueryEdge(0, 1, 1))
		container.Merge(list)
	})
}
