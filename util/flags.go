package util

//*******************************************
// flags
//*******************************************

// Dense per-node scratch state with O(1) reset.
//
// Every slot is lazily re-initialized to the default value after Reset,
// so repeated searches over the same graph avoid re-allocation.
type Flags[T any] struct {
	data     []T
	versions []int32
	version  int32
	_default T
}

func NewFlags[T any](size int32, _default T) Flags[T] {
	return Flags[T]{
		data:     make([]T, size),
		versions: make([]int32, size),
		version:  1,
		_default: _default,
	}
}

func (self *Flags[T]) Get(index int32) *T {
	if self.versions[index] != self.version {
		self.data[index] = self._default
		self.versions[index] = self.version
	}
	return &self.data[index]
}

// Returns true if the slot has been touched since the last Reset.
func (self *Flags[T]) IsSet(index int32) bool {
	return self.versions[index] == self.version
}

func (self *Flags[T]) Reset() {
	self.version += 1
}

//*******************************************
// small helpers
//*******************************************

func Max[T int | int8 | int16 | int32 | int64 | float32 | float64](a, b T) T {
	if a > b {
		return a
	}
	return b
}

func Min[T int | int8 | int16 | int32 | int64 | float32 | float64](a, b T) T {
	if a < b {
		return a
	}
	return b
}
