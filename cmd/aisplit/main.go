package main

import (
	"fmt"
	"os"

	"github.com/tsepang/aisplit/internal/app"
	"github.com/tsepang/aisplit/internal/cli"
	"github.com/tsepang/aisplit/internal/model"
	"github.com/tsepang/aisplit/internal/tui"
	"github.com/tsepang/aisplit/internal/ui"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := cli.ParseFlags()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	ui.SetQuiet(cfg.Quiet)

	application, err := app.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		return 1
	}

	noAnimation := cfg.NoAnimation || cfg.Quiet

	// History commands take no input and run directly.
	if cfg.Undo || cfg.Redo {
		task := application.Undo
		if cfg.Redo {
			task = application.Redo
		}
		summary, err := tui.Run(task, noAnimation)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return exitCode(summary)
	}

	plan, err := application.Plan()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if plan == nil {
		ui.Warning("Nothing to do.")
		return 0
	}

	ui.Info("Found %d file(s) to process", len(plan.Blocks))

	if cfg.DryRun {
		application.DryRun(plan)
		return 0
	}

	// Overwrite prompts must happen on the plain terminal, before the
	// TUI takes over the screen.
	application.ConfirmOverwrites(plan)

	summary, err := tui.Run(func() (model.Summary, error) {
		return application.Apply(plan)
	}, noAnimation)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return exitCode(summary)
}

func exitCode(summary model.Summary) int {
	if len(summary.Failed) > 0 {
		return 1
	}
	return 0
}
