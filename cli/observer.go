// Progress rendering for brainstorming runs.
//
// Information Hiding:
// - Terminal styling details
// - Verbose vs. compact output selection

package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/richinex/conjecture/loop"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))

	acceptedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#2ECC71"))

	rejectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B"))

	critiqueStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#AAAAAA"))

	draftStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
)

// runObserver renders per-iteration progress to stdout.
type runObserver struct {
	verbose bool
}

func newRunObserver(verbose bool) *runObserver {
	return &runObserver{verbose: verbose}
}

func (o *runObserver) IterationStarted(index, total int) {
	fmt.Println(headerStyle.Render(fmt.Sprintf("Cycle %d/%d", index, total)))
}

func (o *runObserver) CandidateReady(index int, candidate string) {
	if o.verbose {
		fmt.Printf("%s %s\n", draftStyle.Render("Draft:"), strings.TrimSpace(candidate))
	}
}

func (o *runObserver) IterationDone(rec loop.IterationRecord) {
	if rec.GeneratorErr != "" {
		fmt.Printf("%s %s\n\n", rejectedStyle.Render("✗ Generation failed:"), rec.GeneratorErr)
		return
	}

	fmt.Printf("Score: %d/10\n", rec.Review.Score)
	if rec.Review.Critique != "" {
		fmt.Println(critiqueStyle.Render(rec.Review.Critique))
	}
	for _, attempt := range rec.Attempts {
		fmt.Println(draftStyle.Render(fmt.Sprintf("(reviewer %s/%s failed: %v)", attempt.Provider, attempt.Model, attempt.Err)))
	}

	if rec.Accepted {
		fmt.Printf("%s\n\n", acceptedStyle.Render("✓ Accepted & added to context"))
	} else {
		fmt.Printf("%s\n\n", rejectedStyle.Render("✗ Rejected"))
	}
}

// Verify runObserver implements Observer
var _ loop.Observer = (*runObserver)(nil)

// streamObserver additionally renders the generator's draft as it streams.
type streamObserver struct {
	*runObserver
	started bool
}

func newStreamObserver(verbose bool) *streamObserver {
	return &streamObserver{runObserver: newRunObserver(verbose)}
}

func (o *streamObserver) CandidateChunk(_ int, chunk string) {
	if !o.started {
		fmt.Print(draftStyle.Render("Draft: "))
		o.started = true
	}
	fmt.Print(chunk)
}

func (o *streamObserver) CandidateReady(index int, candidate string) {
	if o.started {
		fmt.Println()
		o.started = false
	}
}

// Verify streamObserver implements ChunkObserver
var _ loop.ChunkObserver = (*streamObserver)(nil)
