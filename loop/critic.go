// Critic - scores and rewrites candidates with an ordered model fallback.
//
// Information Hiding:
// - Review prompt and response schema
// - Fallback order across reviewer model handles
// - Decode of the structured response, with a synthetic zero-score
//   review when every handle fails

package loop

import (
	"context"
	gojson "encoding/json"
	"fmt"
	"strings"

	"github.com/richinex/conjecture/internal/json"
	"github.com/richinex/conjecture/llm"
)

// CriticTemperature keeps the reviewer deterministic.
const CriticTemperature = 0.1

const criticSystemPrompt = "You are a strict mathematics reviewer. " +
	"You evaluate ideas for rigor, novelty, and clarity. " +
	"You output structured JSON data only."

// reviewSchema is the fixed three-field shape requested from the provider.
var reviewSchema = gojson.RawMessage(`{
	"type": "object",
	"properties": {
		"score": {"type": "integer", "description": "1-10 rating for novelty and rigor"},
		"critique": {"type": "string", "description": "brief explanation of the score"},
		"improved_version": {"type": "string", "description": "formal rewrite of the idea"}
	},
	"required": ["score", "critique", "improved_version"]
}`)

// Critic evaluates candidates against the running context. It holds an
// explicit ordered list of low-temperature provider handles; each candidate
// is sent to the first handle, falling through to the next on any request
// or decode failure.
type Critic struct {
	providers []llm.Provider
}

// NewCritic creates a critic over the given fallback order.
// At least one provider handle is required.
func NewCritic(providers ...llm.Provider) *Critic {
	return &Critic{providers: providers}
}

// Critique evaluates a candidate and returns the structured review plus the
// list of failed attempts that preceded it. It never returns an error: when
// every handle fails, the review is synthetic with score 0, a diagnostic
// critique naming each failing model, and the unmodified candidate as the
// improved version — so the candidate text is not lost, and a score of 0
// guarantees rejection.
func (c *Critic) Critique(ctx context.Context, candidate, runContext string) (Review, []ReviewAttempt) {
	messages := []llm.ChatMessage{
		llm.SystemMessage(criticSystemPrompt),
		llm.UserMessage(buildReviewPrompt(candidate, runContext)),
	}
	format := llm.NewJSONSchemaFormat("review", reviewSchema)

	var attempts []ReviewAttempt
	for _, provider := range c.providers {
		response, err := provider.ChatWithFormat(ctx, messages, format)
		if err != nil {
			attempts = append(attempts, ReviewAttempt{
				Provider: provider.Name(),
				Model:    provider.Model(),
				Err:      err,
			})
			continue
		}

		review, err := json.ExtractJSONFromResponse[Review](response.Content)
		if err != nil {
			attempts = append(attempts, ReviewAttempt{
				Provider: provider.Name(),
				Model:    provider.Model(),
				Err:      fmt.Errorf("decode failed: %w", err),
			})
			continue
		}

		return review, attempts
	}

	return Review{
		Score:           0,
		Critique:        describeAttempts(attempts),
		ImprovedVersion: candidate,
	}, attempts
}

func buildReviewPrompt(candidate, runContext string) string {
	return fmt.Sprintf(`CONTEXT:
%q

PROPOSED IDEA:
%q

TASK:
Evaluate this idea.
1. Score it from 1-10 based on novelty and rigor.
2. Write a brief critique explaining the score.
3. Rewrite the idea into an "improved_version" using formal academic tone and correct LaTeX.`,
		runContext, candidate)
}

// describeAttempts builds the diagnostic critique for a synthetic review.
func describeAttempts(attempts []ReviewAttempt) string {
	if len(attempts) == 0 {
		return "review failed: no reviewer models configured"
	}
	parts := make([]string, len(attempts))
	for i, a := range attempts {
		parts[i] = fmt.Sprintf("%s/%s: %v", a.Provider, a.Model, a.Err)
	}
	return "review failed (" + strings.Join(parts, "; ") + ")"
}
