package preproc

import (
	"runtime"
	"sync"

	"golang.org/x/exp/slices"
	"golang.org/x/exp/slog"

	"github.com/ttpr0/go-contractor/comps"
	"github.com/ttpr0/go-contractor/structs"
	. "github.com/ttpr0/go-contractor/util"
)

// Nodes carrying this weight can never be traversed and are pinned to
// the core.
const INVALID_NODE_WEIGHT int32 = _INFINITE_WEIGHT

// Candidates within this band of the queue minimum are extracted
// together into one round.
const _PRIORITY_SLACK float32 = 1e-3

//*******************************************
// contraction engine
//*******************************************

type _ShortcutCandidate struct {
	From int32
	To   int32
	Data structs.EdgeData
}

type _ContractionResult struct {
	priority  float32
	shortcuts List[_ShortcutCandidate]
}

type _Contractor struct {
	graph          comps.IContractorGraph
	always_allowed Array[bool]
	node_weights   Array[int32]

	is_contracted   Array[bool]
	node_priorities Array[float32]
	node_depths     Array[int32]
	node_levels     Array[float32]
	cached_priority bool

	queue     PriorityQueue[int32, float32]
	spaces    []*_SearchSpace
	threads   int
	hop_limit int32

	// live graph statistics driving the hop-limit escalation
	edge_count int
	node_count int
}

// Contracts core_factor of the admissible nodes of the graph in place,
// inserting shortcuts as needed. Returns per-node levels and the core
// marker (true for every node left uncontracted, admissible or not).
//
// If cached levels are supplied they fix the contraction order and no
// priorities are computed.
func ContractGraph(graph comps.IContractorGraph, always_allowed Array[bool], cached_levels Optional[Array[float32]], node_weights Array[int32], core_factor float64, threads int) (Array[float32], Array[bool]) {
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	node_count := graph.NodeCount()

	contractor := &_Contractor{
		graph:           graph,
		always_allowed:  always_allowed,
		node_weights:    node_weights,
		is_contracted:   NewArray[bool](node_count),
		node_priorities: NewArray[float32](node_count),
		node_depths:     NewArray[int32](node_count),
		node_levels:     NewArray[float32](node_count),
		cached_priority: cached_levels.HasValue(),
		queue:           NewPriorityQueue[int32, float32](node_count),
		threads:         threads,
		hop_limit:       5,
		node_count:      node_count,
	}
	for i := 0; i < threads; i++ {
		contractor.spaces = append(contractor.spaces, _NewSearchSpace(node_count))
	}

	admissible := NewList[int32](node_count)
	for i := 0; i < node_count; i++ {
		if !always_allowed[i] {
			continue
		}
		if node_weights.Length() > 0 && node_weights[i] == INVALID_NODE_WEIGHT {
			continue
		}
		admissible.Add(int32(i))
	}
	contractor.edge_count = _CountAdjacencies(graph, admissible, contractor.is_contracted)

	// seed the queue
	if contractor.cached_priority {
		levels := cached_levels.Value()
		for _, node := range admissible {
			contractor.node_priorities[node] = levels[node]
			contractor.queue.Enqueue(node, levels[node])
		}
	} else {
		slog.Info("computing initial priorities", "nodes", admissible.Length())
		results := contractor._RunParallel(admissible, false)
		for i, node := range admissible {
			contractor.node_priorities[node] = results[i].priority
			contractor.queue.Enqueue(node, results[i].priority)
		}
	}

	to_contract := int(core_factor * float64(admissible.Length()))
	slog.Info("contracting graph", "admissible", admissible.Length(), "target", to_contract)

	contracted := 0
	level_counter := float32(0)
	candidates := NewList[int32](100)
	selected := NewList[int32](100)
	selected_marks := NewFlags[bool](int32(node_count), false)
	for contracted < to_contract {
		candidates.Clear()
		selected.Clear()
		selected_marks.Reset()

		// pop the minimum priority band
		_, min_prio, ok := contractor._PeekValid()
		if !ok {
			break
		}
		for {
			node, prio, ok := contractor._PeekValid()
			if !ok || prio > min_prio+_PRIORITY_SLACK {
				break
			}
			contractor.queue.Dequeue()
			candidates.Add(node)
			if candidates.Length() >= _BatchLimit(contractor.threads) {
				break
			}
		}

		// deterministic independent set, ties broken by node id
		slices.Sort(candidates)
		for _, node := range candidates {
			// a node can have several valid queue entries with the same
			// priority; it joins the round only once
			if selected_marks.IsSet(node) && *selected_marks.Get(node) {
				continue
			}
			if contractor._IsIndependent(node, &selected_marks) {
				*selected_marks.Get(node) = true
				selected.Add(node)
			} else {
				contractor.queue.Enqueue(node, contractor.node_priorities[node])
			}
		}
		if selected.Length() == 0 {
			continue
		}

		// parallel shortcut enumeration with per-worker buffers
		results := contractor._RunParallel(selected, true)

		// lazy recheck against the new queue minimum, then apply
		_, threshold, has_more := contractor._PeekValid()
		dirty := NewList[int32](100)
		for i, node := range selected {
			if !contractor.cached_priority && has_more && results[i].priority > threshold {
				contractor.node_priorities[node] = results[i].priority
				contractor.queue.Enqueue(node, results[i].priority)
				continue
			}
			contractor._ApplyContraction(node, results[i], level_counter, &dirty)
			contracted += 1
			if contracted >= to_contract {
				break
			}
		}
		level_counter += 1

		// refresh the 2-hop neighbourhood of contracted nodes
		if !contractor.cached_priority && dirty.Length() > 0 {
			slices.Sort(dirty)
			dirty = _Deduplicate(dirty)
			update := NewList[int32](dirty.Length())
			for _, node := range dirty {
				if contractor.is_contracted[node] || !contractor._IsAdmissible(node) {
					continue
				}
				update.Add(node)
			}
			update_results := contractor._RunParallel(update, false)
			for i, node := range update {
				contractor.node_priorities[node] = update_results[i].priority
				contractor.queue.Enqueue(node, update_results[i].priority)
			}
		}

		if contracted%10000 < selected.Length() {
			slog.Info("contraction progress", "contracted", contracted, "target", to_contract)
		}
	}

	// uncontracted nodes sit above every contracted one
	is_core := NewArray[bool](node_count)
	for i := 0; i < node_count; i++ {
		if contractor.is_contracted[i] {
			continue
		}
		is_core[i] = true
		contractor.node_levels[i] = level_counter
	}
	slog.Info("finished contraction", "contracted", contracted, "core", node_count-contracted)
	return contractor.node_levels, is_core
}

func _BatchLimit(threads int) int {
	return Max(64, threads*64)
}

//*******************************************
// contractor internals
//*******************************************

func (self *_Contractor) _IsAdmissible(node int32) bool {
	if !self.always_allowed[node] {
		return false
	}
	if self.node_weights.Length() > 0 && self.node_weights[node] == INVALID_NODE_WEIGHT {
		return false
	}
	return true
}

// Peeks the queue minimum, dropping contracted and stale entries.
func (self *_Contractor) _PeekValid() (int32, float32, bool) {
	for {
		node, prio, ok := self.queue.Peek()
		if !ok {
			return -1, 0, false
		}
		if self.is_contracted[node] || prio != self.node_priorities[node] {
			self.queue.Dequeue()
			continue
		}
		return node, prio, true
	}
}

// A node joins the round only if no already selected node lies within
// two hops.
func (self *_Contractor) _IsIndependent(node int32, selected_marks *Flags[bool]) bool {
	independent := true
	seen := NewList[int32](8)
	self.graph.ForOutEdges(node, func(nb int32, _ structs.EdgeData) {
		if Contains(seen, nb) {
			return
		}
		seen.Add(nb)
	})
	self.graph.ForInEdges(node, func(nb int32, _ structs.EdgeData) {
		if Contains(seen, nb) {
			return
		}
		seen.Add(nb)
	})
	for _, nb := range seen {
		if selected_marks.IsSet(nb) && *selected_marks.Get(nb) {
			independent = false
			break
		}
		self.graph.ForOutEdges(nb, func(nb2 int32, _ structs.EdgeData) {
			if nb2 == node {
				return
			}
			if selected_marks.IsSet(nb2) && *selected_marks.Get(nb2) {
				independent = false
			}
		})
		self.graph.ForInEdges(nb, func(nb2 int32, _ structs.EdgeData) {
			if nb2 == node {
				return
			}
			if selected_marks.IsSet(nb2) && *selected_marks.Get(nb2) {
				independent = false
			}
		})
		if !independent {
			break
		}
	}
	return independent
}

// Fans the nodes out over the worker search spaces. Workers only read
// the graph; results land in a slice indexed like nodes.
func (self *_Contractor) _RunParallel(nodes List[int32], collect bool) []_ContractionResult {
	results := make([]_ContractionResult, nodes.Length())
	if nodes.Length() == 0 {
		return results
	}
	workers := self.threads
	if workers > nodes.Length() {
		workers = nodes.Length()
	}
	var wg sync.WaitGroup
	chunk := (nodes.Length() + workers - 1) / workers
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > nodes.Length() {
			end = nodes.Length()
		}
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(start, end int, space *_SearchSpace) {
			defer wg.Done()
			for i := start; i < end; i++ {
				results[i] = self._SimulateContraction(nodes[i], space, collect)
			}
		}(start, end, self.spaces[w])
	}
	wg.Wait()
	return results
}

// Enumerates the necessary shortcuts of node and derives its priority
// (edge difference + depth + original edge count). With collect the
// shortcut buffer is kept for application.
func (self *_Contractor) _SimulateContraction(node int32, space *_SearchSpace, collect bool) _ContractionResult {
	in_neighbours, out_neighbours := self._FindNeighbours(node)

	out_targets := NewList[int32](out_neighbours.Length())
	for _, out := range out_neighbours {
		out_targets.Add(out.A)
	}

	shortcut_count := 0
	original_edges := 0
	var shortcuts List[_ShortcutCandidate]
	if collect {
		shortcuts = NewList[_ShortcutCandidate](4)
	}

	for _, in := range in_neighbours {
		from := in.A
		in_data := in.B
		if out_targets.Length() == 0 {
			continue
		}
		limit := int32(0)
		for _, out := range out_neighbours {
			via_weight := in_data.Weight + out.B.Weight
			if via_weight > limit {
				limit = via_weight
			}
		}
		_RunWitnessSearch(self.graph, from, node, out_targets, limit, self.hop_limit, space, self.is_contracted)
		for _, out := range out_neighbours {
			to := out.A
			out_data := out.B
			if from == to {
				continue
			}
			via_weight := in_data.Weight + out_data.Weight
			if _GetSearchDistance(space, to) <= via_weight {
				continue
			}
			shortcut_count += 1
			original_edges += int(in_data.OriginalEdges + out_data.OriginalEdges)
			if collect {
				shortcuts.Add(_ShortcutCandidate{
					From: from,
					To:   to,
					Data: structs.EdgeData{
						Weight:        via_weight,
						Duration:      in_data.Duration + out_data.Duration,
						ID:            node,
						OriginalEdges: in_data.OriginalEdges + out_data.OriginalEdges,
						Shortcut:      true,
						Forward:       true,
						Backward:      false,
					},
				})
			}
		}
	}

	edge_difference := shortcut_count - in_neighbours.Length() - out_neighbours.Length()
	priority := float32(edge_difference) + float32(self.node_depths[node]) + float32(original_edges)
	return _ContractionResult{
		priority:  priority,
		shortcuts: shortcuts,
	}
}

// In- and out-neighbours of node with the cheapest connecting edge
// each, skipping contracted nodes and self-loops.
func (self *_Contractor) _FindNeighbours(node int32) (List[Tuple[int32, structs.EdgeData]], List[Tuple[int32, structs.EdgeData]]) {
	in_neighbours := NewList[Tuple[int32, structs.EdgeData]](4)
	self.graph.ForInEdges(node, func(other_id int32, data structs.EdgeData) {
		if other_id == node || self.is_contracted[other_id] {
			return
		}
		for i := 0; i < in_neighbours.Length(); i++ {
			if in_neighbours[i].A != other_id {
				continue
			}
			if data.Weight < in_neighbours[i].B.Weight {
				in_neighbours[i] = MakeTuple(other_id, data)
			}
			return
		}
		in_neighbours.Add(MakeTuple(other_id, data))
	})
	out_neighbours := NewList[Tuple[int32, structs.EdgeData]](4)
	self.graph.ForOutEdges(node, func(other_id int32, data structs.EdgeData) {
		if other_id == node || self.is_contracted[other_id] {
			return
		}
		for i := 0; i < out_neighbours.Length(); i++ {
			if out_neighbours[i].A != other_id {
				continue
			}
			if data.Weight < out_neighbours[i].B.Weight {
				out_neighbours[i] = MakeTuple(other_id, data)
			}
			return
		}
		out_neighbours.Add(MakeTuple(other_id, data))
	})
	return in_neighbours, out_neighbours
}

// Applies one contraction: buffered shortcuts, node retirement, level
// and depth bookkeeping. Only the coordinator calls this.
func (self *_Contractor) _ApplyContraction(node int32, result _ContractionResult, level float32, dirty *List[int32]) {
	// collect the 2-hop neighbourhood before the edges disappear
	neighbours := NewList[int32](8)
	self.graph.ForOutEdges(node, func(nb int32, _ structs.EdgeData) {
		if nb != node && !Contains(neighbours, nb) {
			neighbours.Add(nb)
		}
	})
	self.graph.ForInEdges(node, func(nb int32, _ structs.EdgeData) {
		if nb != node && !Contains(neighbours, nb) {
			neighbours.Add(nb)
		}
	})
	for _, nb := range neighbours {
		dirty.Add(nb)
		self.graph.ForOutEdges(nb, func(nb2 int32, _ structs.EdgeData) {
			if nb2 != node {
				dirty.Add(nb2)
			}
		})
		self.graph.ForInEdges(nb, func(nb2 int32, _ structs.EdgeData) {
			if nb2 != node {
				dirty.Add(nb2)
			}
		})
	}

	for _, sc := range result.shortcuts {
		self.graph.InsertShortcut(sc.From, sc.To, sc.Data)
		mirror := sc.Data
		mirror.Forward = sc.Data.Backward
		mirror.Backward = sc.Data.Forward
		self.graph.InsertShortcut(sc.To, sc.From, mirror)
	}
	self.graph.RetireNode(node)
	self.is_contracted[node] = true
	self.node_levels[node] = level

	for _, nb := range neighbours {
		self.node_depths[nb] = Max(self.node_depths[nb], self.node_depths[node]+1)
	}

	// escalate the hop limit as the live graph densifies
	self.edge_count += result.shortcuts.Length() - neighbours.Length()
	self.node_count -= 1
	if self.node_count > 0 {
		ratio := 2 * self.edge_count / self.node_count
		if ratio > 10 {
			self.hop_limit = _INFINITE_WEIGHT
		} else if ratio > 5 {
			self.hop_limit = 10
		}
	}
}

//*******************************************
// helpers
//*******************************************

func _CountAdjacencies(graph comps.IContractorGraph, nodes List[int32], is_contracted Array[bool]) int {
	count := 0
	for _, node := range nodes {
		graph.ForOutEdges(node, func(other int32, _ structs.EdgeData) {
			if !is_contracted[other] {
				count += 1
			}
		})
	}
	return count
}

func _Deduplicate(sorted List[int32]) List[int32] {
	if sorted.Length() == 0 {
		return sorted
	}
	kept := sorted[:1]
	for i := 1; i < sorted.Length(); i++ {
		if sorted[i] != kept[len(kept)-1] {
			kept = append(kept, sorted[i])
		}
	}
	return kept
}
