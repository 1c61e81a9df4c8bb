// Command execution for CLI commands.
//
// Information Hiding:
// - Provider and reviewer fallback setup hidden
// - Run wiring (session, controller, observer) hidden
// - Artifact export and optional run-log persistence hidden

package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/richinex/conjecture/config"
	"github.com/richinex/conjecture/export"
	"github.com/richinex/conjecture/llm"
	"github.com/richinex/conjecture/loop"
	"github.com/richinex/conjecture/storage"
)

// Options holds CLI execution options.
type Options struct {
	Provider   string
	Iterations int
	OutPath    string
	HTMLPath   string
	DBPath     string
	Stream     bool
	Verbose    bool
}

// DefaultOptions returns default CLI options.
func DefaultOptions() Options {
	return Options{
		Provider: "gemini",
		OutPath:  export.DefaultFileName,
	}
}

// Run executes one brainstorming run over the seed text and exports the
// final notes.
func Run(ctx context.Context, seed string, opts Options) error {
	provider := opts.Provider
	if provider == "" {
		provider = "gemini"
	}

	settings, err := config.New(provider)
	if err != nil {
		return err
	}

	// Credential check is the only fatal error: no run starts without a key.
	apiKey, err := config.APIKeyFor(provider)
	if err != nil {
		return fmt.Errorf("cannot start run: %w", err)
	}

	generator, critic, err := buildAgents(settings, apiKey)
	if err != nil {
		return err
	}

	iterations := opts.Iterations
	if iterations == 0 {
		iterations = settings.Run.Iterations
	}

	session, err := loop.NewSession(seed, iterations)
	if err != nil {
		return err
	}

	var observer loop.Observer
	if opts.Stream {
		observer = newStreamObserver(opts.Verbose)
	} else {
		observer = newRunObserver(opts.Verbose)
	}

	fmt.Printf("Starting research loop (%d iterations, provider %s)...\n\n", session.Iterations(), settings.LLM.Provider)

	records := loop.NewController(generator, critic).
		WithObserver(observer).
		Run(ctx, session)

	accepted := len(session.AcceptedIdeas())
	fmt.Printf("Research loop complete: %d/%d iterations accepted\n", accepted, len(records))

	outPath := opts.OutPath
	if outPath == "" {
		outPath = export.DefaultFileName
	}
	if err := export.WriteNotes(outPath, session.Context()); err != nil {
		return err
	}
	fmt.Printf("Notes written to %s\n", outPath)

	if opts.HTMLPath != "" {
		if err := export.WriteHTML(opts.HTMLPath, session.Context()); err != nil {
			return err
		}
		fmt.Printf("HTML written to %s\n", opts.HTMLPath)
	}

	if opts.DBPath != "" {
		if err := saveRunLog(ctx, opts.DBPath, session, records); err != nil {
			// Persistence is an audit trail; the artifact already exists
			fmt.Fprintf(os.Stderr, "Warning: failed to save run log: %v\n", err)
		} else {
			fmt.Printf("Run log saved as %s\n", session.ID())
		}
	}

	return nil
}

// saveRunLog persists the session outcome and per-iteration records.
func saveRunLog(ctx context.Context, dbPath string, session *loop.Session, records []loop.IterationRecord) error {
	store, err := storage.OpenSqlite(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	return store.SaveRun(ctx, storage.RunRecord{
		ID:           session.ID(),
		Seed:         session.Seed(),
		Iterations:   session.Iterations(),
		FinalContext: session.Context(),
	}, records)
}

// ListRuns prints the run IDs stored in the given database.
func ListRuns(ctx context.Context, dbPath string) error {
	store, err := storage.OpenSqlite(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	runs, err := store.ListRuns(ctx)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No stored runs.")
		return nil
	}
	for _, id := range runs {
		fmt.Println(id)
	}
	return nil
}

// ShowRun prints the final notes of a stored run.
func ShowRun(ctx context.Context, dbPath, runID string) error {
	store, err := storage.OpenSqlite(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	run, records, err := store.LoadRun(ctx, runID)
	if err != nil {
		return err
	}

	fmt.Printf("Run %s (%d iterations)\n\n", run.ID, run.Iterations)
	for _, rec := range records {
		status := "rejected"
		if rec.Accepted {
			status = "accepted"
		}
		if rec.GeneratorErr != "" {
			status = "failed"
		}
		fmt.Printf("[%d] score %d (%s)\n", rec.Index, rec.Review.Score, status)
	}
	fmt.Printf("\n%s\n", run.FinalContext)
	return nil
}

// buildAgents creates the generator and the reviewer fallback chain.
// The generator and critic hold separate provider handles because the
// sampling temperature is fixed per handle.
func buildAgents(settings config.Settings, apiKey string) (*loop.Generator, *loop.Critic, error) {
	provType, err := llm.ParseProviderType(settings.LLM.Provider)
	if err != nil {
		return nil, nil, err
	}

	genProvider, err := provType.
		Model(settings.LLM.Model).
		MaxTokens(settings.LLM.MaxTokens).
		Temperature(loop.GeneratorTemperature).
		APIKey(apiKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create generator provider: %w", err)
	}

	reviewerModels, err := config.ReviewerModelsFor(settings.LLM.Provider)
	if err != nil {
		return nil, nil, err
	}

	reviewers := make([]llm.Provider, 0, len(reviewerModels))
	for _, model := range reviewerModels {
		reviewer, err := provType.
			Model(model).
			MaxTokens(settings.LLM.MaxTokens).
			Temperature(loop.CriticTemperature).
			APIKey(apiKey)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create reviewer provider %s: %w", model, err)
		}
		reviewers = append(reviewers, reviewer)
	}

	return loop.NewGenerator(genProvider), loop.NewCritic(reviewers...), nil
}
