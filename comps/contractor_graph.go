package comps

import (
	"github.com/ttpr0/go-contractor/structs"
	. "github.com/ttpr0/go-contractor/util"
)

//*******************************************
// contractor graph interface
//*******************************************

type IContractorGraph interface {
	NodeCount() int
	// Iterates entries traversable away from node.
	ForOutEdges(node int32, callback func(target int32, data structs.EdgeData))
	// Iterates entries traversable towards node.
	ForInEdges(node int32, callback func(target int32, data structs.EdgeData))
	FindEdge(from, to int32, forward, backward bool) (structs.EdgeData, bool)
	InsertShortcut(from, to int32, data structs.EdgeData)
	RetireNode(node int32)
}

//*******************************************
// contractor graph
//*******************************************

type _EdgeEntry struct {
	Target int32
	Data   structs.EdgeData
}

var _ IContractorGraph = &ContractorGraph{}

// Directed multigraph with per-node contiguous edge lists.
//
// Storage is symmetric: every input edge a->b is stored at a and, with
// swapped direction flags, at b. Backward searches therefore need no
// reverse index. Contracted nodes move their entries into a retained
// arena, so each entry is held either in a live list or in the arena;
// the arena grows with every retired node and is kept until the end.
type ContractorGraph struct {
	node_count int
	adjacency  Array[List[_EdgeEntry]]
	retained   List[structs.QueryEdge]
}

// Builds the graph from an edge-expanded edge list. The list is consumed.
func NewContractorGraph(node_count int, edges List[structs.EdgeBasedEdge]) *ContractorGraph {
	adjacency := NewArray[List[_EdgeEntry]](node_count)
	for i := 0; i < node_count; i++ {
		adjacency[i] = NewList[_EdgeEntry](2)
	}
	graph := &ContractorGraph{
		node_count: node_count,
		adjacency:  adjacency,
		retained:   NewList[structs.QueryEdge](100),
	}
	for _, edge := range edges {
		data := structs.EdgeData{
			Weight:        edge.Weight,
			Duration:      edge.Duration,
			ID:            edge.TurnID,
			OriginalEdges: 1,
			Shortcut:      false,
			Forward:       edge.Forward,
			Backward:      edge.Backward,
		}
		graph.InsertEdge(edge.Source, edge.Target, data)
	}
	edges.Clear()
	return graph
}

func NewEmptyContractorGraph(node_count int) *ContractorGraph {
	adjacency := NewArray[List[_EdgeEntry]](node_count)
	for i := 0; i < node_count; i++ {
		adjacency[i] = NewList[_EdgeEntry](2)
	}
	return &ContractorGraph{
		node_count: node_count,
		adjacency:  adjacency,
		retained:   NewList[structs.QueryEdge](100),
	}
}

func (self *ContractorGraph) NodeCount() int {
	return self.node_count
}

func (self *ContractorGraph) ForOutEdges(node int32, callback func(target int32, data structs.EdgeData)) {
	entries := self.adjacency[node]
	for i := 0; i < entries.Length(); i++ {
		entry := entries[i]
		if !entry.Data.Forward {
			continue
		}
		callback(entry.Target, entry.Data)
	}
}

func (self *ContractorGraph) ForInEdges(node int32, callback func(target int32, data structs.EdgeData)) {
	entries := self.adjacency[node]
	for i := 0; i < entries.Length(); i++ {
		entry := entries[i]
		if !entry.Data.Backward {
			continue
		}
		callback(entry.Target, entry.Data)
	}
}

// Locates the cheapest edge from->to matching the given direction flags.
func (self *ContractorGraph) FindEdge(from, to int32, forward, backward bool) (structs.EdgeData, bool) {
	entries := self.adjacency[from]
	found := false
	var best structs.EdgeData
	for i := 0; i < entries.Length(); i++ {
		entry := entries[i]
		if entry.Target != to {
			continue
		}
		if entry.Data.Forward != forward || entry.Data.Backward != backward {
			continue
		}
		if !found || entry.Data.Weight < best.Weight {
			best = entry.Data
			found = true
		}
	}
	return best, found
}

// Appends the edge at both endpoints. If an entry with equal
// (forward, backward, shortcut) already exists and the new weight is
// lower its data is replaced instead.
func (self *ContractorGraph) InsertEdge(from, to int32, data structs.EdgeData) {
	self._InsertHalfEdge(from, to, data)
	if from == to {
		return
	}
	mirror := data
	mirror.Forward = data.Backward
	mirror.Backward = data.Forward
	self._InsertHalfEdge(to, from, mirror)
}

func (self *ContractorGraph) _InsertHalfEdge(from, to int32, data structs.EdgeData) {
	entries := &self.adjacency[from]
	for i := 0; i < entries.Length(); i++ {
		entry := (*entries)[i]
		if entry.Target != to {
			continue
		}
		if entry.Data.Forward != data.Forward || entry.Data.Backward != data.Backward || entry.Data.Shortcut != data.Shortcut {
			continue
		}
		if data.Weight < entry.Data.Weight {
			(*entries)[i].Data = data
		} else {
			continue
		}
		return
	}
	entries.Add(_EdgeEntry{Target: to, Data: data})
}

// Inserts one directed half of a shortcut. An existing entry with the
// same direction flags dominates the shortcut if it is at most as
// expensive; a more expensive one has its data replaced.
func (self *ContractorGraph) InsertShortcut(from, to int32, data structs.EdgeData) {
	entries := &self.adjacency[from]
	for i := 0; i < entries.Length(); i++ {
		entry := (*entries)[i]
		if entry.Target != to {
			continue
		}
		if entry.Data.Forward != data.Forward || entry.Data.Backward != data.Backward {
			continue
		}
		if entry.Data.Weight <= data.Weight {
			return
		}
		(*entries)[i].Data = data
		return
	}
	entries.Add(_EdgeEntry{Target: to, Data: data})
}

// Moves the node's entries into the retained arena and unlinks the
// symmetric markers at its neighbours. The node has no accessible
// edges afterwards.
func (self *ContractorGraph) RetireNode(node int32) {
	entries := self.adjacency[node]
	for i := 0; i < entries.Length(); i++ {
		entry := entries[i]
		self.retained.Add(structs.QueryEdge{
			Source: node,
			Target: entry.Target,
			Data:   entry.Data,
		})
		if entry.Target != node {
			self._RemoveEntriesTo(entry.Target, node)
		}
	}
	self.adjacency[node] = NewList[_EdgeEntry](0)
}

func (self *ContractorGraph) _RemoveEntriesTo(node, target int32) {
	entries := self.adjacency[node]
	kept := entries[:0]
	for i := 0; i < entries.Length(); i++ {
		if entries[i].Target == target {
			continue
		}
		kept = append(kept, entries[i])
	}
	self.adjacency[node] = kept
}

// Returns a borrowed view that skips edges touching excluded nodes.
func (self *ContractorGraph) Filter(predicate Array[bool]) FilteredGraph {
	return FilteredGraph{
		graph:     self,
		predicate: predicate,
	}
}

// All edges of the hierarchy: entries of live nodes plus the retained
// entries of contracted nodes.
func (self *ContractorGraph) Edges() List[structs.QueryEdge] {
	edges := NewList[structs.QueryEdge](self.retained.Length())
	for node := 0; node < self.node_count; node++ {
		entries := self.adjacency[node]
		for i := 0; i < entries.Length(); i++ {
			entry := entries[i]
			edges.Add(structs.QueryEdge{
				Source: int32(node),
				Target: entry.Target,
				Data:   entry.Data,
			})
		}
	}
	for _, edge := range self.retained {
		edges.Add(edge)
	}
	return edges
}

//*******************************************
// filtered view
//*******************************************

var _ IContractorGraph = FilteredGraph{}

// Borrowed reference plus node predicate. Iteration short-circuits on
// inadmissible endpoints; mutations go to the underlying graph.
type FilteredGraph struct {
	graph     *ContractorGraph
	predicate Array[bool]
}

func (self FilteredGraph) NodeCount() int {
	return self.graph.NodeCount()
}

func (self FilteredGraph) ForOutEdges(node int32, callback func(target int32, data structs.EdgeData)) {
	if !self.predicate[node] {
		return
	}
	self.graph.ForOutEdges(node, func(target int32, data structs.EdgeData) {
		if !self.predicate[target] {
			return
		}
		callback(target, data)
	})
}

func (self FilteredGraph) ForInEdges(node int32, callback func(target int32, data structs.EdgeData)) {
	if !self.predicate[node] {
		return
	}
	self.graph.ForInEdges(node, func(target int32, data structs.EdgeData) {
		if !self.predicate[target] {
			return
		}
		callback(target, data)
	})
}

func (self FilteredGraph) FindEdge(from, to int32, forward, backward bool) (structs.EdgeData, bool) {
	if !self.predicate[from] || !self.predicate[to] {
		return structs.EdgeData{}, false
	}
	return self.graph.FindEdge(from, to, forward, backward)
}

func (self FilteredGraph) InsertShortcut(from, to int32, data structs.EdgeData) {
	self.graph.InsertShortcut(from, to, data)
}

func (self FilteredGraph) RetireNode(node int32) {
	self.graph.RetireNode(node)
}

// Materializes the view into an independent graph. A contraction pass
// mutates its input, so sequential per-filter passes each work on their
// own extraction.
func (self FilteredGraph) ExtractSubgraph() *ContractorGraph {
	extracted := NewEmptyContractorGraph(self.graph.NodeCount())
	for node := 0; node < self.graph.NodeCount(); node++ {
		if !self.predicate[node] {
			continue
		}
		entries := self.graph.adjacency[node]
		for i := 0; i < entries.Length(); i++ {
			entry := entries[i]
			if !self.predicate[entry.Target] {
				continue
			}
			extracted.adjacency[node].Add(entry)
		}
	}
	return extracted
}
