// Package ui prints colored user-facing messages to stderr.
package ui

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

var quiet bool

// SetQuiet suppresses everything except errors.
func SetQuiet(q bool) { quiet = q }

var (
	HeaderColor  = color.New(color.FgBlue, color.Bold)
	InfoColor    = color.New(color.FgCyan)
	SuccessColor = color.New(color.FgGreen)
	WarningColor = color.New(color.FgYellow)
	ErrorColor   = color.New(color.FgRed)
	PathColor    = color.New(color.FgYellow)
	PromptColor  = color.New(color.FgMagenta)
)

func Header(format string, a ...interface{}) {
	if quiet {
		return
	}
	HeaderColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Info(format string, a ...interface{}) {
	if quiet {
		return
	}
	InfoColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Success(format string, a ...interface{}) {
	if quiet {
		return
	}
	SuccessColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Warning(format string, a ...interface{}) {
	if quiet {
		return
	}
	WarningColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Error(format string, a ...interface{}) {
	ErrorColor.Fprintf(os.Stderr, format+"\n", a...)
}

func Path(format string, a ...interface{}) {
	if quiet {
		return
	}
	PathColor.Fprintf(os.Stderr, "  "+format+"\n", a...)
}

// Confirm asks a yes/no question on the terminal and returns true only
// for an explicit "y".
func Confirm(format string, a ...interface{}) bool {
	fmt.Fprint(os.Stderr, PromptColor.Sprintf(format, a...))
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		// EOF or interrupted input counts as "no".
		fmt.Fprintln(os.Stderr)
		return false
	}
	return strings.TrimSpace(strings.ToLower(response)) == "y"
}
