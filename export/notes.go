// Package export writes the final research notes artifact.
package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yuin/goldmark"
)

// DefaultFileName is the markdown artifact name offered to the user.
const DefaultFileName = "research_notes.md"

// WriteNotes writes the final context as a markdown file.
// Creates parent directories if they don't exist.
func WriteNotes(path, content string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write notes: %w", err)
	}
	return nil
}

// RenderHTML converts the markdown notes to an HTML document body.
func RenderHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}

// WriteHTML renders the markdown notes and writes them as an HTML file.
func WriteHTML(path, markdown string) error {
	html, err := RenderHTML(markdown)
	if err != nil {
		return err
	}
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(html), 0644); err != nil {
		return fmt.Errorf("failed to write HTML: %w", err)
	}
	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	return nil
}
