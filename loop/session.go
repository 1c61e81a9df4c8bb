// Run session state - explicit per-run state owned by the Controller.
//
// Information Hiding:
// - Context buffer and accepted-ideas list are mutable only through the
//   Controller's accept path; callers read them via accessors.
// - Iteration count clamping

package loop

import (
	"fmt"

	"github.com/google/uuid"
)

// Iteration count bounds for a single run.
const (
	MinIterations = 1
	MaxIterations = 10
)

// Session holds the state of one brainstorming run: the seed text, the
// growing context buffer, and everything accepted or observed along the way.
// A Session is used for exactly one run and is not safe for concurrent use.
type Session struct {
	id         string
	seed       string
	iterations int

	context  string
	accepted []string
	records  []IterationRecord
}

// NewSession creates a session for a run over the given seed text.
// The iteration count is clamped to [MinIterations, MaxIterations].
func NewSession(seed string, iterations int) (*Session, error) {
	if seed == "" {
		return nil, fmt.Errorf("seed text must not be empty")
	}

	if iterations < MinIterations {
		iterations = MinIterations
	}
	if iterations > MaxIterations {
		iterations = MaxIterations
	}

	return &Session{
		id:         uuid.NewString(),
		seed:       seed,
		iterations: iterations,
		context:    seed,
	}, nil
}

// ID returns the unique run identifier.
func (s *Session) ID() string {
	return s.id
}

// Seed returns the original input text.
func (s *Session) Seed() string {
	return s.seed
}

// Iterations returns the clamped iteration count for this run.
func (s *Session) Iterations() int {
	return s.iterations
}

// Context returns the current context buffer: the seed plus one extension
// block per accepted iteration. It only ever grows.
func (s *Session) Context() string {
	return s.context
}

// AcceptedIdeas returns the improved versions accepted so far, in order.
func (s *Session) AcceptedIdeas() []string {
	out := make([]string, len(s.accepted))
	copy(out, s.accepted)
	return out
}

// Records returns the iteration log entries recorded so far, in order.
func (s *Session) Records() []IterationRecord {
	out := make([]IterationRecord, len(s.records))
	copy(out, s.records)
	return out
}

// accept folds an accepted improved version into the context and the
// accepted-ideas list. index is the 1-based iteration number.
func (s *Session) accept(index int, improved string) {
	s.accepted = append(s.accepted, improved)
	s.context += fmt.Sprintf("\n\n[Extension %d]: %s", index, improved)
}

// record appends an iteration log entry.
func (s *Session) record(rec IterationRecord) {
	s.records = append(s.records, rec)
}
