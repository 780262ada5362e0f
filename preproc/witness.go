package preproc

import (
	"github.com/ttpr0/go-contractor/comps"
	"github.com/ttpr0/go-contractor/structs"
	. "github.com/ttpr0/go-contractor/util"
)

const _INFINITE_WEIGHT int32 = 1 << 30

//*******************************************
// witness search
//*******************************************

type _FlagSH struct {
	curr_length int32
	curr_hops   int32
	visited     bool
	_is_target  bool
}

// Thread-local dijkstra state. Never shared between workers.
type _SearchSpace struct {
	heap  PriorityQueue[int32, int32]
	flags Flags[_FlagSH]
}

func _NewSearchSpace(node_count int) *_SearchSpace {
	return &_SearchSpace{
		heap:  NewPriorityQueue[int32, int32](100),
		flags: NewFlags[_FlagSH](int32(node_count), _FlagSH{curr_length: _INFINITE_WEIGHT}),
	}
}

// Forward dijkstra from start that avoids the forbidden node and every
// already contracted node. Halts once the queue is empty, the minimum
// label exceeds limit or all targets have been settled. Nodes at
// hop_limit are not expanded, so distances beyond it may be
// overestimated (never underestimated).
func _RunWitnessSearch(graph comps.IContractorGraph, start, forbidden int32, targets List[int32], limit, hop_limit int32, space *_SearchSpace, is_contracted Array[bool]) {
	space.heap.Clear()
	space.flags.Reset()

	target_count := 0
	for _, target := range targets {
		flag := space.flags.Get(target)
		if !flag._is_target {
			flag._is_target = true
			target_count += 1
		}
	}
	start_flag := space.flags.Get(start)
	start_flag.curr_length = 0
	space.heap.Enqueue(start, 0)

	found_count := 0
	for {
		curr_id, ok := space.heap.Dequeue()
		if !ok {
			break
		}
		curr_flag := space.flags.Get(curr_id)
		if curr_flag.visited {
			continue
		}
		curr_flag.visited = true
		if curr_flag.curr_length > limit {
			break
		}
		if curr_flag._is_target {
			found_count += 1
			if found_count >= target_count {
				break
			}
		}
		if curr_flag.curr_hops >= hop_limit {
			continue
		}
		curr_length := curr_flag.curr_length
		curr_hops := curr_flag.curr_hops
		graph.ForOutEdges(curr_id, func(other_id int32, data structs.EdgeData) {
			if other_id == forbidden || is_contracted[other_id] {
				return
			}
			other_flag := space.flags.Get(other_id)
			if other_flag.visited {
				return
			}
			new_length := curr_length + data.Weight
			if new_length < other_flag.curr_length {
				other_flag.curr_length = new_length
				other_flag.curr_hops = curr_hops + 1
				space.heap.Enqueue(other_id, new_length)
			}
		})
	}
}

// Best known distance to node after a witness search, or infinite.
// Unsettled labels are genuine path weights, so they are usable as
// witness proofs.
func _GetSearchDistance(space *_SearchSpace, node int32) int32 {
	if !space.flags.IsSet(node) {
		return _INFINITE_WEIGHT
	}
	return space.flags.Get(node).curr_length
}
