// Package loop implements the generate/critique/accept brainstorming loop.
//
// Each run takes a seed text and drives a fixed number of iterations. Every
// iteration asks a creative high-temperature model for one novel extension,
// asks a strict low-temperature model to score and rewrite it, and folds the
// rewritten version back into the running context when the score clears the
// acceptance threshold.
package loop

// Review is the reviewer's structured verdict on a candidate extension.
type Review struct {
	Score           int    `json:"score"`
	Critique        string `json:"critique"`
	ImprovedVersion string `json:"improved_version"`
}

// ReviewAttempt records one reviewer model tried for a candidate.
// Err is non-nil when the request or decode failed and the next model
// in the fallback order was tried.
type ReviewAttempt struct {
	Provider string
	Model    string
	Err      error
}

// IterationRecord is the observation log entry for a single iteration.
type IterationRecord struct {
	Index        int             // 1-based iteration index
	Candidate    string          // generator output, or an error description when generation failed
	Review       Review          // zero review when the generator failed
	Accepted     bool            // score cleared the acceptance threshold
	GeneratorErr string          // non-empty when the generator call failed
	Attempts     []ReviewAttempt // reviewer models tried, in order
}

// Observer receives progress events while a run executes.
// Events arrive strictly sequentially; implementations need no locking.
type Observer interface {
	// IterationStarted fires before the generator call of iteration index (1-based).
	IterationStarted(index, total int)

	// CandidateReady fires after a successful generator call, before review.
	CandidateReady(index int, candidate string)

	// IterationDone fires once the iteration's record is final.
	IterationDone(record IterationRecord)
}

// ChunkObserver is an optional extension of Observer. When implemented,
// the generator streams its draft and forwards chunks as they arrive.
type ChunkObserver interface {
	CandidateChunk(index int, chunk string)
}

// NopObserver ignores all events.
type NopObserver struct{}

func (NopObserver) IterationStarted(int, int)     {}
func (NopObserver) CandidateReady(int, string)    {}
func (NopObserver) IterationDone(IterationRecord) {}

// Verify NopObserver implements Observer
var _ Observer = NopObserver{}
