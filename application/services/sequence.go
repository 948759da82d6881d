package services

import "sync/atomic"

// Sequence hands out progress numbers for "Test-N" log lines
type Sequence struct {
	n atomic.Int64
}

// Next returns the next number, starting at 1
func (s *Sequence) Next() int64 {
	return s.n.Add(1)
}

// Current returns the last number handed out
func (s *Sequence) Current() int64 {
	return s.n.Load()
}
