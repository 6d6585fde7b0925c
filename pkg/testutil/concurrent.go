// Package testutil holds helpers shared by store and service tests.
package testutil

import (
	"errors"
	"sync"

	"vcissuer/internal/sentinel"
	dErrors "vcissuer/pkg/domain-errors"
)

// Outcome buckets the result of one racing call.
type Outcome string

const (
	Success   Outcome = "success"
	Conflict  Outcome = "conflict"
	NotFound  Outcome = "not_found"
	Retryable Outcome = "retryable"
	Failed    Outcome = "failed"
)

// Classify maps err onto an Outcome using store sentinels and domain codes.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return Success
	case errors.Is(err, sentinel.ErrConflict), dErrors.HasCode(err, dErrors.CodeConflict):
		return Conflict
	case errors.Is(err, sentinel.ErrNotFound), dErrors.HasCode(err, dErrors.CodeNotFound):
		return NotFound
	case dErrors.IsRetryable(err):
		return Retryable
	default:
		return Failed
	}
}

// Tally counts outcomes of a Race. Failed calls keep their errors so a test
// can print them.
type Tally struct {
	mu     sync.Mutex
	counts map[Outcome]int
	failed []error
}

func (t *Tally) record(o Outcome, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.counts[o]++
	if o == Failed {
		t.failed = append(t.failed, err)
	}
}

// Count returns how many calls ended with o.
func (t *Tally) Count(o Outcome) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counts[o]
}

// Total returns the number of calls made.
func (t *Tally) Total() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, c := range t.counts {
		n += c
	}
	return n
}

// Failures returns the errors of calls classified as Failed.
func (t *Tally) Failures() []error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]error(nil), t.failed...)
}

// RaceOption customizes Race.
type RaceOption func(*raceConfig)

type raceConfig struct {
	classify func(error) Outcome
}

// WithClassifier replaces Classify for one Race.
func WithClassifier(fn func(error) Outcome) RaceOption {
	return func(c *raceConfig) { c.classify = fn }
}

// Race releases n goroutines at once, each calling fn with its index, and
// waits for all of them.
func Race(n int, fn func(idx int) error, opts ...RaceOption) *Tally {
	cfg := raceConfig{classify: Classify}
	for _, opt := range opts {
		opt(&cfg)
	}

	tally := &Tally{counts: make(map[Outcome]int)}
	gate := make(chan struct{})
	var wg sync.WaitGroup
	for i := range n {
		wg.Go(func() {
			<-gate
			err := fn(i)
			tally.record(cfg.classify(err), err)
		})
	}
	close(gate)
	wg.Wait()
	return tally
}
