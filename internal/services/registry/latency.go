package registry

import (
	"math"
	"slices"
	"sync"
)

// Sampler accumulates raw latency observations per category between
// report ticks. Draining computes the mean and clears the buffer in one
// step, so each observation contributes to exactly one report.
type Sampler struct {
	mu      sync.Mutex
	buffers map[string][]float64
}

func NewSampler() *Sampler {
	return &Sampler{
		buffers: make(map[string][]float64),
	}
}

// Observe appends a duration in milliseconds to the named buffer.
// Negative or non-finite durations violate the caller contract and are
// dropped so they cannot corrupt subsequent averaging.
func (s *Sampler) Observe(category string, durationMs float64) {
	if durationMs < 0 || math.IsNaN(durationMs) || math.IsInf(durationMs, 0) {
		return
	}
	s.mu.Lock()
	s.buffers[category] = append(s.buffers[category], durationMs)
	s.mu.Unlock()
}

// DrainMean computes the arithmetic mean of the category's buffer and
// clears it as a single step. ok is false when the buffer was empty.
func (s *Sampler) DrainMean(category string) (mean float64, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := s.buffers[category]
	if len(buf) == 0 {
		return 0, false
	}
	var sum float64
	for _, v := range buf {
		sum += v
	}
	delete(s.buffers, category)
	return sum / float64(len(buf)), true
}

// Categories lists, in sorted order, the categories that currently hold
// observations.
func (s *Sampler) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.buffers))
	for cat, buf := range s.buffers {
		if len(buf) > 0 {
			out = append(out, cat)
		}
	}
	slices.Sort(out)
	return out
}
