// Package main provides the conjecture CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/richinex/conjecture/cli"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	provider string
	verbose  bool
)

func main() {
	// Load .env file if present (ignore "file not found" errors)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to load .env file: %v\n", err)
		}
	}

	rootCmd := &cobra.Command{
		Use:   "conjecture",
		Short: "Iterative research brainstorming with a generator/critic loop",
		Long: `A CLI tool that extends a piece of research text through repeated
generate-and-review cycles.

Each iteration a creative model proposes one novel extension, a strict
reviewer scores and rewrites it, and extensions scoring 7 or higher are
folded into the growing notes. The final notes are exported as markdown.`,
	}

	rootCmd.PersistentFlags().StringVarP(&provider, "provider", "p", "gemini", "LLM provider (gemini, openai, anthropic, deepseek)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show verbose output")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(runsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	var iterations int
	var seedFile string
	var outPath string
	var htmlPath string
	var dbPath string
	var stream bool

	cmd := &cobra.Command{
		Use:   "run [seed text]",
		Short: "Run the brainstorming loop over a seed text",
		Long: `Run the generate/review loop over a seed text.

The seed can be given as an argument or read from a file with --file.
Iterations are clamped to [1,10]. The final notes are written to
research_notes.md unless --out is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := resolveSeed(args, seedFile)
			if err != nil {
				return err
			}

			opts := cli.Options{
				Provider:   provider,
				Iterations: iterations,
				OutPath:    outPath,
				HTMLPath:   htmlPath,
				DBPath:     dbPath,
				Stream:     stream,
				Verbose:    verbose,
			}
			return cli.Run(context.Background(), seed, opts)
		},
	}

	cmd.Flags().IntVarP(&iterations, "iterations", "n", 0, "Brainstorming iterations (1-10, default from LOOP_ITERATIONS or 3)")
	cmd.Flags().StringVarP(&seedFile, "file", "f", "", "Read the seed text from a file")
	cmd.Flags().StringVarP(&outPath, "out", "o", "research_notes.md", "Output path for the markdown notes")
	cmd.Flags().StringVar(&htmlPath, "html", "", "Also render the notes to this HTML file")
	cmd.Flags().StringVar(&dbPath, "db", "", "Save the run log to this SQLite database")
	cmd.Flags().BoolVar(&stream, "stream", false, "Stream generator drafts as they arrive")

	return cmd
}

func runsCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List stored run logs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.ListRuns(context.Background(), dbPath)
		},
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", ".conjecture/conjecture.db", "Database path for stored runs")

	showCmd := &cobra.Command{
		Use:   "show [run-id]",
		Short: "Show a stored run's log and final notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.ShowRun(context.Background(), dbPath, args[0])
		},
	}
	cmd.AddCommand(showCmd)

	return cmd
}

// resolveSeed returns the seed text from the argument or --file.
func resolveSeed(args []string, seedFile string) (string, error) {
	if len(args) == 1 && args[0] != "" {
		return args[0], nil
	}
	if seedFile == "" {
		return "", fmt.Errorf("provide a seed text argument or --file")
	}
	data, err := os.ReadFile(seedFile)
	if err != nil {
		return "", fmt.Errorf("failed to read seed file: %w", err)
	}
	seed := strings.TrimSpace(string(data))
	if seed == "" {
		return "", fmt.Errorf("seed file %s is empty", seedFile)
	}
	return seed, nil
}
