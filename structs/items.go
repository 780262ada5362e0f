package structs

//*******************************************
// graph structs
//*******************************************

// Edge of the edge-expanded input graph.
type EdgeBasedEdge struct {
	Source   int32
	Target   int32
	TurnID   int32
	Weight   int32
	Duration int32
	Forward  bool
	Backward bool
}

// Payload of an edge held by the contractor graph.
//
// ID carries the turn-id for original edges and the middle node for
// shortcuts. OriginalEdges counts how many input edges the entry
// represents (1 for original edges).
type EdgeData struct {
	Weight        int32
	Duration      int32
	ID            int32
	OriginalEdges int32
	Shortcut      bool
	Forward       bool
	Backward      bool
}

// Directed edge of the finished hierarchy.
type QueryEdge struct {
	Source int32
	Target int32
	Data   EdgeData
}

//*******************************************
// merge ordering
//*******************************************

// Strict total order used to coalesce per-filter edge lists:
// (source, target, shortcut, id, weight, duration, forward, backward).
func MergeCompare(lhs, rhs QueryEdge) bool {
	if lhs.Source != rhs.Source {
		return lhs.Source < rhs.Source
	}
	if lhs.Target != rhs.Target {
		return lhs.Target < rhs.Target
	}
	if lhs.Data.Shortcut != rhs.Data.Shortcut {
		return !lhs.Data.Shortcut
	}
	if lhs.Data.ID != rhs.Data.ID {
		return lhs.Data.ID < rhs.Data.ID
	}
	if lhs.Data.Weight != rhs.Data.Weight {
		return lhs.Data.Weight < rhs.Data.Weight
	}
	if lhs.Data.Duration != rhs.Data.Duration {
		return lhs.Data.Duration < rhs.Data.Duration
	}
	if lhs.Data.Forward != rhs.Data.Forward {
		return !lhs.Data.Forward
	}
	if lhs.Data.Backward != rhs.Data.Backward {
		return !lhs.Data.Backward
	}
	return false
}

// True iff both edges are equal under MergeCompare.
func Mergable(lhs, rhs QueryEdge) bool {
	return !MergeCompare(lhs, rhs) && !MergeCompare(rhs, lhs)
}
