package storage

import (
	"context"
	"testing"

	"github.com/richinex/conjecture/loop"
)

func TestSqliteSaveAndLoadRun(t *testing.T) {
	storage, err := NewSqliteInMemory()
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	defer storage.Close()

	ctx := context.Background()

	run := RunRecord{
		ID:           "run-1",
		Seed:         "A.",
		Iterations:   2,
		FinalContext: "A.\n\n[Extension 1]: A, extended.",
	}
	records := []loop.IterationRecord{
		{
			Index:     1,
			Candidate: "raw idea",
			Review:    loop.Review{Score: 8, Critique: "Good", ImprovedVersion: "A, extended."},
			Accepted:  true,
		},
		{
			Index:        2,
			Candidate:    "generation failed: quota exceeded",
			GeneratorErr: "quota exceeded",
		},
	}

	if err := storage.SaveRun(ctx, run, records); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	loadedRun, loadedRecords, err := storage.LoadRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("LoadRun failed: %v", err)
	}

	if loadedRun.FinalContext != run.FinalContext {
		t.Errorf("expected final context %q, got %q", run.FinalContext, loadedRun.FinalContext)
	}
	if len(loadedRecords) != 2 {
		t.Fatalf("expected 2 records, got %d", len(loadedRecords))
	}
	if loadedRecords[0].Review.Score != 8 {
		t.Errorf("expected score 8, got %d", loadedRecords[0].Review.Score)
	}
	if !loadedRecords[0].Accepted {
		t.Error("expected first record accepted")
	}
	if loadedRecords[1].GeneratorErr != "quota exceeded" {
		t.Errorf("expected generator error preserved, got %q", loadedRecords[1].GeneratorErr)
	}
	if loadedRecords[1].Accepted {
		t.Error("expected failed record rejected")
	}
}

func TestSqliteLoadNonexistentRun(t *testing.T) {
	storage, err := NewSqliteInMemory()
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	defer storage.Close()

	if _, _, err := storage.LoadRun(context.Background(), "nope"); err == nil {
		t.Error("expected error for missing run")
	}
}

func TestSqliteSaveRunReplacesPrevious(t *testing.T) {
	storage, err := NewSqliteInMemory()
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	defer storage.Close()

	ctx := context.Background()
	run := RunRecord{ID: "run-1", Seed: "A.", Iterations: 1, FinalContext: "A."}

	first := []loop.IterationRecord{{Index: 1, Candidate: "old"}}
	if err := storage.SaveRun(ctx, run, first); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	second := []loop.IterationRecord{{Index: 1, Candidate: "new"}}
	if err := storage.SaveRun(ctx, run, second); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	_, records, err := storage.LoadRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("LoadRun failed: %v", err)
	}
	if len(records) != 1 || records[0].Candidate != "new" {
		t.Errorf("expected replaced record, got %v", records)
	}
}

func TestSqliteListAndDeleteRuns(t *testing.T) {
	storage, err := NewSqliteInMemory()
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	defer storage.Close()

	ctx := context.Background()

	for _, id := range []string{"run-1", "run-2"} {
		run := RunRecord{ID: id, Seed: "A.", Iterations: 1, FinalContext: "A."}
		if err := storage.SaveRun(ctx, run, nil); err != nil {
			t.Fatalf("SaveRun failed: %v", err)
		}
	}

	runs, err := storage.ListRuns(ctx)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}

	if err := storage.DeleteRun(ctx, "run-1"); err != nil {
		t.Fatalf("DeleteRun failed: %v", err)
	}

	runs, err = storage.ListRuns(ctx)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 1 || runs[0] != "run-2" {
		t.Errorf("expected only run-2, got %v", runs)
	}
}
