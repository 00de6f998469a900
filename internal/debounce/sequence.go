package debounce

import "sync/atomic"

// Sequence hands out monotonically increasing request generations so a
// response can be checked against the latest request before it is applied.
type Sequence struct {
	n atomic.Uint64
}

func (s *Sequence) Next() uint64 {
	return s.n.Add(1)
}

func (s *Sequence) Current() uint64 {
	return s.n.Load()
}

// IsCurrent reports whether seq is still the newest generation issued.
func (s *Sequence) IsCurrent(seq uint64) bool {
	return s.n.Load() == seq
}
