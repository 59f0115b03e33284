// Package source retrieves the answer text to split.
package source

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/tsepang/aisplit/internal/ui"
)

// Provider determines and retrieves the source content.
type Provider struct {
	// InputPath is an explicit input file; "-" or "" means stdin/clipboard.
	InputPath string
}

// New creates a Provider for the given input argument.
func New(inputPath string) *Provider {
	return &Provider{InputPath: inputPath}
}

// GetContent retrieves content from the input file, from stdin when
// piped, or from the clipboard as a last resort.
func (p *Provider) GetContent() (string, error) {
	if p.InputPath != "" && p.InputPath != "-" {
		ui.Header("--- Reading from %s ---", p.InputPath)
		data, err := os.ReadFile(p.InputPath)
		if err != nil {
			return "", fmt.Errorf("failed to read input file: %w", err)
		}
		return string(data), nil
	}

	stat, _ := os.Stdin.Stat()
	isPiped := (stat.Mode() & os.ModeCharDevice) == 0

	if isPiped || p.InputPath == "-" {
		ui.Header("--- Reading from stdin ---")
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read from stdin: %w", err)
		}
		return string(content), nil
	}

	ui.Header("--- Reading from clipboard ---")
	content, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("failed to read from clipboard: %w", err)
	}
	if strings.TrimSpace(content) == "" {
		ui.Warning("Clipboard is empty. Nothing to process.")
		return "", nil
	}
	return content, nil
}
