// Generator - proposes one novel extension per iteration.
//
// Information Hiding:
// - Prompt construction for the creative model
// - Streaming vs. blocking request selection

package loop

import (
	"context"
	"fmt"
	"strings"

	"github.com/richinex/conjecture/llm"
)

// GeneratorTemperature biases the generator toward diverse, novel output.
const GeneratorTemperature = 0.9

const generatorSystemPrompt = "You are a creative mathematical researcher. " +
	"Your goal is to propose NOVEL, non-obvious conjectures or research directions."

// Generator produces one candidate extension per call using a
// high-temperature model handle.
type Generator struct {
	client *llm.Client
}

// NewGenerator creates a generator around the given provider handle.
// The handle should be built with GeneratorTemperature.
func NewGenerator(provider llm.Provider) *Generator {
	return &Generator{client: llm.NewClient(provider)}
}

// Generate asks the model for one novel extension of the running context.
// The accepted ideas so far are embedded in the prompt so the model avoids
// repeating them. The raw response text is returned verbatim; any request
// failure is returned as an error rather than folded into the text.
func (g *Generator) Generate(ctx context.Context, runContext string, acceptedIdeas []string) (string, error) {
	messages := g.buildMessages(runContext, acceptedIdeas)

	candidate, err := g.client.Chat(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("generator request failed: %w", err)
	}
	return candidate, nil
}

// GenerateStream behaves like Generate but streams the draft through onChunk
// as it arrives, returning the assembled text once the stream ends.
func (g *Generator) GenerateStream(ctx context.Context, runContext string, acceptedIdeas []string, onChunk func(string)) (string, error) {
	messages := g.buildMessages(runContext, acceptedIdeas)

	chunks := make(chan string)
	done := make(chan struct{})
	var sb strings.Builder

	go func() {
		defer close(done)
		for chunk := range chunks {
			sb.WriteString(chunk)
			if onChunk != nil {
				onChunk(chunk)
			}
		}
	}()

	_, err := g.client.StreamChat(ctx, messages, chunks)
	close(chunks)
	<-done

	if err != nil {
		return "", fmt.Errorf("generator request failed: %w", err)
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("generator returned empty response")
	}
	return sb.String(), nil
}

func (g *Generator) buildMessages(runContext string, acceptedIdeas []string) []llm.ChatMessage {
	prompt := fmt.Sprintf(`ORIGINAL CONTEXT:
%q

PREVIOUSLY ACCEPTED IDEAS:
%s

TASK:
Propose ONE new, novel research follow-up or conjecture based on the context.
- Be bold and creative.
- Connect disparate mathematical concepts if possible.
- Keep it concise (3-4 sentences).
- Use standard LaTeX for math (e.g., $x^2$).`,
		runContext, formatAcceptedIdeas(acceptedIdeas))

	return []llm.ChatMessage{
		llm.SystemMessage(generatorSystemPrompt),
		llm.UserMessage(prompt),
	}
}

func formatAcceptedIdeas(ideas []string) string {
	if len(ideas) == 0 {
		return "(none yet)"
	}
	var sb strings.Builder
	for i, idea := range ideas {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("- ")
		sb.WriteString(idea)
	}
	return sb.String()
}
