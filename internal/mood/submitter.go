package mood

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	ErrEmptyInput = errors.New("mood: text is empty")
	ErrBusy       = errors.New("mood: an analysis is already running")
	ErrStale      = errors.New("mood: result superseded")
)

// Analyzer is implemented by Pipeline.
type Analyzer interface {
	Analyze(ctx context.Context, text string) Result
}

// Submitter fronts an Analyzer for one interactive session: one analysis at
// a time, and results from before the last Invalidate are dropped.
// Cancelling the context of a running Submit invalidates it.
type Submitter struct {
	analyzer Analyzer

	mu         sync.Mutex
	inFlight   bool
	generation uint64
}

func NewSubmitter(a Analyzer) *Submitter {
	return &Submitter{analyzer: a}
}

func (s *Submitter) Submit(ctx context.Context, text string) (Result, error) {
	if strings.TrimSpace(text) == "" {
		return Result{}, ErrEmptyInput
	}

	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return Result{}, ErrBusy
	}
	s.inFlight = true
	gen := s.generation
	s.mu.Unlock()

	invalidated := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		s.Invalidate()
		close(invalidated)
	})
	res := s.analyzer.Analyze(ctx, text)
	if !stop() {
		<-invalidated
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrStale, err)
	}
	if gen != s.generation {
		return Result{}, ErrStale
	}
	return res, nil
}

// Invalidate discards the result of any analysis currently running.
func (s *Submitter) Invalidate() {
	s.mu.Lock()
	s.generation++
	s.mu.Unlock()
}
