package preproc

import (
	"golang.org/x/exp/slices"

	"github.com/ttpr0/go-contractor/structs"
	. "github.com/ttpr0/go-contractor/util"
)

//*******************************************
// contracted edge container
//*******************************************

// Width of the per-edge merge flags. Bit k marks membership in the
// k-th merged edge list.
const MAX_MERGED_FILTERS = 8

// Coalesces the edge lists of independent per-filter contractions into
// one canonical sorted sequence with a bitmask per edge.
type ContractedEdgeContainer struct {
	index int
	edges List[structs.QueryEdge]
	flags List[uint8]
}

func NewContractedEdgeContainer() *ContractedEdgeContainer {
	return &ContractedEdgeContainer{
		edges: NewList[structs.QueryEdge](100),
		flags: NewList[uint8](100),
	}
}

func (self *ContractedEdgeContainer) EdgeCount() int {
	return self.edges.Length()
}
func (self *ContractedEdgeContainer) MergeCount() int {
	return self.index
}
func (self *ContractedEdgeContainer) Edges() List[structs.QueryEdge] {
	return self.edges
}
func (self *ContractedEdgeContainer) Flags() List[uint8] {
	return self.flags
}

// Merges the edge list into the container under the next flag bit.
// The list is sorted in place; edges equal under the merge order are
// coalesced and their flags combined.
func (self *ContractedEdgeContainer) Merge(new_edges List[structs.QueryEdge]) {
	if self.index >= MAX_MERGED_FILTERS {
		panic("contracted edge container supports at most 8 merged lists")
	}
	flag := uint8(1) << self.index
	self.index += 1

	slices.SortFunc(new_edges, func(a, b structs.QueryEdge) int {
		if structs.MergeCompare(a, b) {
			return -1
		}
		if structs.MergeCompare(b, a) {
			return 1
		}
		return 0
	})

	// collapse in-list duplicates so every merge key occurs once
	deduped := new_edges[:0]
	for k := 0; k < new_edges.Length(); k++ {
		if len(deduped) > 0 && structs.Mergable(new_edges[k], deduped[len(deduped)-1]) {
			continue
		}
		deduped = append(deduped, new_edges[k])
	}
	new_edges = List[structs.QueryEdge](deduped)

	merged_edges := NewList[structs.QueryEdge](self.edges.Length() + new_edges.Length())
	merged_flags := NewList[uint8](self.flags.Length() + new_edges.Length())

	i := 0
	j := 0
	for i < self.edges.Length() && j < new_edges.Length() {
		if structs.MergeCompare(self.edges[i], new_edges[j]) {
			merged_edges.Add(self.edges[i])
			merged_flags.Add(self.flags[i])
			i += 1
		} else if structs.MergeCompare(new_edges[j], self.edges[i]) {
			merged_edges.Add(new_edges[j])
			merged_flags.Add(flag)
			j += 1
		} else {
			merged_edges.Add(self.edges[i])
			merged_flags.Add(self.flags[i] | flag)
			i += 1
			j += 1
		}
	}
	for ; i < self.edges.Length(); i++ {
		merged_edges.Add(self.edges[i])
		merged_flags.Add(self.flags[i])
	}
	for ; j < new_edges.Length(); j++ {
		merged_edges.Add(new_edges[j])
		merged_flags.Add(flag)
	}

	self.edges = merged_edges
	self.flags = merged_flags
}

// Expands the flag bits into one boolean column per merged list.
func (self *ContractedEdgeContainer) MakeEdgeFilters() List[Array[bool]] {
	filters := NewList[Array[bool]](self.index)
	for k := 0; k < self.index; k++ {
		mask := uint8(1) << k
		column := NewArray[bool](self.flags.Length())
		for e, flag := range self.flags {
			column[e] = flag&mask != 0
		}
		filters.Add(column)
	}
	return filters
}
