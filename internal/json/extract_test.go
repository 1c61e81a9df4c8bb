package json

import (
	"strings"
	"testing"
)

type reviewShape struct {
	Score           int    `json:"score"`
	Critique        string `json:"critique"`
	ImprovedVersion string `json:"improved_version"`
}

func TestPureJSON(t *testing.T) {
	response := `{"score": 8, "critique": "solid", "improved_version": "Let $f$ be..."}`
	result, err := ExtractJSONFromResponse[reviewShape](response)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Score != 8 {
		t.Errorf("expected score 8, got %d", result.Score)
	}
	if result.Critique != "solid" {
		t.Errorf("expected critique 'solid', got '%s'", result.Critique)
	}
}

func TestJSONInCodeBlock(t *testing.T) {
	response := "```json\n{\"score\": 7, \"critique\": \"ok\", \"improved_version\": \"x\"}\n```"
	result, err := ExtractJSONFromResponse[reviewShape](response)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Score != 7 {
		t.Errorf("expected score 7, got %d", result.Score)
	}
}

func TestJSONWithSurroundingText(t *testing.T) {
	response := `Here is my evaluation: {"score": 3, "critique": "weak", "improved_version": "y"} Done.`
	result, err := ExtractJSONFromResponse[reviewShape](response)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Score != 3 {
		t.Errorf("expected score 3, got %d", result.Score)
	}
	if result.ImprovedVersion != "y" {
		t.Errorf("expected improved version 'y', got '%s'", result.ImprovedVersion)
	}
}

func TestNoJSON(t *testing.T) {
	response := "This is just plain text without any JSON."
	_, err := ExtractJSONFromResponse[reviewShape](response)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	// Error should contain a preview of the response
	if !strings.Contains(err.Error(), "failed to extract valid JSON") {
		t.Errorf("expected 'failed to extract valid JSON' in error, got: %v", err)
	}
}

func TestInvalidJSON(t *testing.T) {
	response := `{"score": 8, critique: }`
	_, err := ExtractJSONFromResponse[reviewShape](response)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}
