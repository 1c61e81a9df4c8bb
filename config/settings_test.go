package config

import (
	"os"
	"testing"
)

func TestNewValidProvider(t *testing.T) {
	settings, err := New("gemini")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.LLM.Provider != "gemini" {
		t.Errorf("expected provider 'gemini', got %q", settings.LLM.Provider)
	}
	if settings.LLM.FallbackModel != "gemini-1.5-pro" {
		t.Errorf("expected fallback 'gemini-1.5-pro', got %q", settings.LLM.FallbackModel)
	}
}

func TestNewWithAlias(t *testing.T) {
	settings, err := New("google")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.LLM.Provider != "gemini" {
		t.Errorf("expected provider 'gemini' (normalized from 'google'), got %q", settings.LLM.Provider)
	}
}

func TestNewUnknownProvider(t *testing.T) {
	_, err := New("unknown_provider")
	if err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestNewModelFromEnv(t *testing.T) {
	original := os.Getenv("GEMINI_MODEL")
	os.Setenv("GEMINI_MODEL", "gemini-2.0-flash")
	defer os.Setenv("GEMINI_MODEL", original)

	settings, err := New("gemini")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.LLM.Model != "gemini-2.0-flash" {
		t.Errorf("expected model from env, got %q", settings.LLM.Model)
	}
}

func TestNewInvalidIterationsEnv(t *testing.T) {
	original := os.Getenv("LOOP_ITERATIONS")
	os.Setenv("LOOP_ITERATIONS", "not-a-number")
	defer os.Setenv("LOOP_ITERATIONS", original)

	_, err := New("gemini")
	if err == nil {
		t.Error("expected error for invalid LOOP_ITERATIONS")
	}
}

func TestAPIKeyForValidProvider(t *testing.T) {
	original := os.Getenv("GEMINI_API_KEY")
	os.Setenv("GEMINI_API_KEY", "test-key")
	defer os.Setenv("GEMINI_API_KEY", original)

	key, err := APIKeyFor("gemini")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "test-key" {
		t.Errorf("expected 'test-key', got %q", key)
	}
}

func TestAPIKeyForMissing(t *testing.T) {
	original := os.Getenv("GEMINI_API_KEY")
	os.Unsetenv("GEMINI_API_KEY")
	defer os.Setenv("GEMINI_API_KEY", original)

	_, err := APIKeyFor("gemini")
	if err == nil {
		t.Error("expected error for missing API key")
	}
}

func TestReviewerModelsFor(t *testing.T) {
	original := os.Getenv("GEMINI_MODEL")
	os.Unsetenv("GEMINI_MODEL")
	defer os.Setenv("GEMINI_MODEL", original)

	models, err := ReviewerModelsFor("gemini")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(models) != 2 {
		t.Fatalf("expected 2 models, got %d", len(models))
	}
	if models[0] != "gemini-2.5-flash" || models[1] != "gemini-1.5-pro" {
		t.Errorf("expected [gemini-2.5-flash gemini-1.5-pro], got %v", models)
	}
}

func TestSupportedProviders(t *testing.T) {
	supported := SupportedProviders()
	if len(supported) != 4 {
		t.Errorf("expected 4 providers, got %d", len(supported))
	}
}
