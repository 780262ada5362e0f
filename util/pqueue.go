package util

import (
	"golang.org/x/exp/constraints"
)

//*******************************************
// priority queue
//*******************************************

type _PQItem[T any, P constraints.Ordered] struct {
	item     T
	priority P
}

// Binary min-heap keyed by priority.
//
// Decrease-key is handled lazily: stale entries are left in the heap and
// have to be filtered by the caller after Dequeue.
type PriorityQueue[T any, P constraints.Ordered] struct {
	items []_PQItem[T, P]
}

func NewPriorityQueue[T any, P constraints.Ordered](capacity int) PriorityQueue[T, P] {
	return PriorityQueue[T, P]{
		items: make([]_PQItem[T, P], 0, capacity),
	}
}

func (self *PriorityQueue[T, P]) Length() int {
	return len(self.items)
}

func (self *PriorityQueue[T, P]) Clear() {
	self.items = self.items[:0]
}

func (self *PriorityQueue[T, P]) Enqueue(item T, priority P) {
	self.items = append(self.items, _PQItem[T, P]{item: item, priority: priority})
	self._SiftUp(len(self.items) - 1)
}

func (self *PriorityQueue[T, P]) Dequeue() (T, bool) {
	if len(self.items) == 0 {
		var none T
		return none, false
	}
	item := self.items[0].item
	last := len(self.items) - 1
	self.items[0] = self.items[last]
	self.items = self.items[:last]
	if len(self.items) > 0 {
		self._SiftDown(0)
	}
	return item, true
}

// Returns the minimum entry without removing it.
func (self *PriorityQueue[T, P]) Peek() (T, P, bool) {
	if len(self.items) == 0 {
		var none T
		var zero P
		return none, zero, false
	}
	return self.items[0].item, self.items[0].priority, true
}

func (self *PriorityQueue[T, P]) _SiftUp(index int) {
	for index > 0 {
		parent := (index - 1) / 2
		if self.items[parent].priority <= self.items[index].priority {
			break
		}
		self.items[parent], self.items[index] = self.items[index], self.items[parent]
		index = parent
	}
}

func (self *PriorityQueue[T, P]) _SiftDown(index int) {
	count := len(self.items)
	for {
		smallest := index
		left := 2*index + 1
		right := 2*index + 2
		if left < count && self.items[left].priority < self.items[smallest].priority {
			smallest = left
		}
		if right < count && self.items[right].priority < self.items[smallest].priority {
			smallest = right
		}
		if smallest == index {
			break
		}
		self.items[smallest], self.items[index] = self.items[index], self.items[smallest]
		index = smallest
	}
}
