// Loop Controller - drives the fixed-N generate/critique/accept sequence.

package loop

import (
	"context"
	"fmt"
)

// AcceptThreshold is the minimum review score required to fold a
// candidate's improved version into the context.
const AcceptThreshold = 7

// Controller runs the brainstorming loop over a Session. Iterations are
// strictly sequential: the generator call, the review, and the accept
// decision of iteration i complete before iteration i+1 begins. Every
// iteration runs regardless of prior outcomes; per-iteration failures
// degrade to a rejected iteration, never to an aborted run.
type Controller struct {
	generator *Generator
	critic    *Critic
	observer  Observer
}

// NewController creates a controller over a generator and a critic.
func NewController(generator *Generator, critic *Critic) *Controller {
	return &Controller{
		generator: generator,
		critic:    critic,
		observer:  NopObserver{},
	}
}

// WithObserver sets the progress observer.
func (c *Controller) WithObserver(observer Observer) *Controller {
	c.observer = observer
	return c
}

// Run executes the session's iterations and returns the iteration records.
// The session's context buffer and accepted-ideas list are mutated only
// here; after Run returns, session.Context() is the final artifact.
func (c *Controller) Run(ctx context.Context, session *Session) []IterationRecord {
	total := session.Iterations()

	for i := 1; i <= total; i++ {
		c.observer.IterationStarted(i, total)

		candidate, err := c.generate(ctx, i, session)
		if err != nil {
			// Redesigned failure path: a failed generation is rejected and
			// logged instead of feeding an error string to the reviewer.
			rec := IterationRecord{
				Index:        i,
				Candidate:    fmt.Sprintf("generation failed: %v", err),
				GeneratorErr: err.Error(),
			}
			session.record(rec)
			c.observer.IterationDone(rec)
			continue
		}
		c.observer.CandidateReady(i, candidate)

		review, attempts := c.critic.Critique(ctx, candidate, session.Context())

		// Provider-reported score is compared as-is; out-of-range values
		// are recorded verbatim rather than clamped.
		accepted := review.Score >= AcceptThreshold
		if accepted {
			session.accept(i, review.ImprovedVersion)
		}

		rec := IterationRecord{
			Index:     i,
			Candidate: candidate,
			Review:    review,
			Accepted:  accepted,
			Attempts:  attempts,
		}
		session.record(rec)
		c.observer.IterationDone(rec)
	}

	return session.Records()
}

func (c *Controller) generate(ctx context.Context, index int, session *Session) (string, error) {
	if chunked, ok := c.observer.(ChunkObserver); ok {
		return c.generator.GenerateStream(ctx, session.Context(), session.AcceptedIdeas(), func(chunk string) {
			chunked.CandidateChunk(index, chunk)
		})
	}
	return c.generator.Generate(ctx, session.Context(), session.AcceptedIdeas())
}
