// Package cli parses command-line flags.
package cli

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Config holds all the command-line flag values.
type Config struct {
	Input       string // positional input file, "-" or "" for stdin/clipboard
	OutputDir   string
	DryRun      bool
	Force       bool
	Markdown    bool
	Nvim        bool
	Undo        bool
	Redo        bool
	NoAnimation bool
	Quiet       bool
	Extensions  []string
}

// ParseFlags defines and parses command-line flags using pflag.
func ParseFlags() (*Config, error) {
	cfg := &Config{}

	pflag.StringVarP(&cfg.OutputDir, "output-dir", "o", ".", "Directory where generated files are placed.")
	pflag.BoolVarP(&cfg.DryRun, "dry-run", "n", false, "Preview files without creating them.")
	pflag.BoolVarP(&cfg.Force, "force", "f", false, "Overwrite existing files without prompting.")
	pflag.BoolVarP(&cfg.Markdown, "markdown", "m", false, "Also accept markdown fenced code blocks with a path hint.")
	pflag.BoolVar(&cfg.Nvim, "nvim", false, "Load files into a running Neovim instance instead of writing to disk.")
	pflag.BoolVar(&cfg.NoAnimation, "no-animation", false, "Disable loading spinner and summary animation.")
	pflag.BoolVarP(&cfg.Quiet, "quiet", "q", false, "Only print errors.")
	pflag.StringSliceVarP(&cfg.Extensions, "extension", "e", []string{}, "Only materialize files with these extensions (e.g., 'py', 'js').")

	// Mutually exclusive history group
	pflag.BoolVarP(&cfg.Undo, "undo", "u", false, "Undo the last operation.")
	pflag.BoolVarP(&cfg.Redo, "redo", "r", false, "Redo the last undone operation.")

	pflag.Usage = func() {
		fmt.Println("Usage: aisplit [flags] [input]")
		fmt.Println("\nSplit a structured AI answer into files. Reads the input file,")
		fmt.Println("piped stdin, or the clipboard.")
		fmt.Println("\nExample: aisplit answer.txt -o ./project")
		fmt.Println("\nFlags:")
		pflag.PrintDefaults()
	}

	pflag.Parse()
	cfg.Input = pflag.Arg(0)

	// Validate mutually exclusive flags
	if cfg.Undo && cfg.Redo {
		return nil, fmt.Errorf("error: --undo and --redo are mutually exclusive")
	}

	// Normalize extensions
	NormalizeExtensions(cfg.Extensions)

	return cfg, nil
}

// NormalizeExtensions ensures every extension carries a leading dot.
func NormalizeExtensions(exts []string) {
	for i, ext := range exts {
		if len(ext) > 0 && ext[0] != '.' {
			exts[i] = "." + ext
		}
	}
}
