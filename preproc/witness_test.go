package preproc

import (
	"testing"

	"github.com/stretchr/testify/require"

	. "github.com/ttpr0/go-contractor/util"
)

func TestWitnessSearchFindsTargets(t *testing.T) {
	// 0 -> 1 -> 2 and a direct 0 -> 2
	graph := _BuildGraph(4, [][3]int32{{0, 1, 1}, {1, 2, 1}, {0, 2, 5}})
	space := _NewSearchSpace(4)
	is_contracted := NewArray[bool](4)

	targets := NewList[int32](1)
	targets.Add(2)
	_RunWitnessSearch(graph, 0, 3, targets, 10, 10, space, is_contracted)
	require.Equal(t, int32(2), _GetSearchDistance(space, 2))
}

func TestWitnessSearchAvoidsForbidden(t *testing.T) {
	graph := _BuildGraph(4, [][3]int32{{0, 1, 1}, {1, 2, 1}, {0, 2, 5}})
	space := _NewSearchSpace(4)
	is_contracted := NewArray[bool](4)

	targets := NewList[int32](1)
	targets.Add(2)
	_RunWitnessSearch(graph, 0, 1, targets, 10, 10, space, is_contracted)
	require.Equal(t, int32(5), _GetSearchDistance(space, 2))
}

func TestWitnessSearchSkipsContracted(t *testing.T) {
	graph := _BuildGraph(4, [][3]int32{{0, 1, 1}, {1, 2, 1}})
	space := _NewSearchSpace(4)
	is_contracted := NewArray[bool](4)
	is_contracted[1] = true

	targets := NewList[int32](1)
	targets.Add(2)
	_RunWitnessSearch(graph, 0, 3, targets, 10, 10, space, is_contracted)
	require.Equal(t, _INFINITE_WEIGHT, _GetSearchDistance(space, 2))
}

func TestWitnessSearchHopLimit(t *testing.T) {
	// target is 3 hops away, a hop limit of 2 must not reach it
	graph := _BuildGraph(4, [][3]int32{{0, 1, 1}, {1, 2, 1}, {2, 3, 1}})
	space := _NewSearchSpace(4)
	is_contracted := NewArray[bool](4)

	targets := NewList[int32](1)
	targets.Add(3)
	_RunWitnessSearch(graph, 0, -1, targets, 10, 2, space, is_contracted)
	require.Equal(t, _INFINITE_WEIGHT, _GetSearchDistance(space, 3))

	_RunWitnessSearch(graph, 0, -1, targets, 10, 3, space, is_contracted)
	require.Equal(t, int32(3), _GetSearchDistance(space, 3))
}

func TestWitnessSearchWeightLimit(t *testing.T) {
	graph := _BuildGraph(3, [][3]int32{{0, 1, 4}, {1, 2, 4}})
	space := _NewSearchSpace(3)
	is_contracted := NewArray[bool](3)

	targets := NewList[int32](1)
	targets.Add(2)
	// the search stops once the minimum label exceeds the limit
	_RunWitnessSearch(graph, 0, -1, targets, 3, 10, space, is_contracted)
	require.Greater(t, _GetSearchDistance(space, 2), int32(3))
}
