// Package markdown extracts file blocks from answers formatted as
// markdown fenced code blocks instead of the FILE/END FILE format.
//
// A fenced block is treated as a file block when the paragraph directly
// above it contains a backticked path hint, e.g.:
//
//	`src/utils/helpers.py`
//
//	```python
//	...
//	```
package markdown

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/tsepang/aisplit/blocks"
	"github.com/tsepang/aisplit/pathsafe"
)

var pathInHintRe = regexp.MustCompile("`([^`\n]+)`")

// Extract walks the markdown AST and returns the file blocks found.
// Fenced blocks without a usable path hint are skipped; hints that fail
// path validation are reported through skipped so the caller can warn.
func Extract(source []byte) (found []blocks.FileBlock, skipped []string, err error) {
	parser := goldmark.DefaultParser()
	root := parser.Parse(text.NewReader(source))

	walker := func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		fenced, ok := node.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		hint := precedingHint(fenced, source)
		rawPath := pathFromHint(hint)
		if rawPath == "" {
			return ast.WalkSkipChildren, nil
		}

		p, verr := pathsafe.Validate(rawPath)
		if verr != nil {
			skipped = append(skipped, rawPath)
			return ast.WalkSkipChildren, nil
		}

		var content bytes.Buffer
		lines := fenced.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			content.Write(line.Value(source))
		}

		found = append(found, blocks.FileBlock{
			Path:    p,
			Content: strings.TrimRight(content.String(), "\n"),
			Line:    lineOf(fenced, source),
		})
		return ast.WalkSkipChildren, nil
	}

	if err := ast.Walk(root, walker); err != nil {
		return nil, nil, err
	}
	return found, skipped, nil
}

// precedingHint returns the text of the paragraph directly above a
// fenced code block.
func precedingHint(node ast.Node, source []byte) string {
	prev := node.PreviousSibling()
	if prev == nil {
		return ""
	}
	p, ok := prev.(*ast.Paragraph)
	if !ok {
		return ""
	}
	return strings.TrimSpace(string(p.Text(source)))
}

// pathFromHint extracts a backticked path from a hint line. Hints
// containing spaces are rejected to avoid capturing commands like
// `go run main.go` as a path.
func pathFromHint(hint string) string {
	match := pathInHintRe.FindStringSubmatch(hint)
	if len(match) < 2 {
		return ""
	}
	path := strings.TrimSpace(match[1])
	if strings.Contains(path, " ") {
		return ""
	}
	return path
}

// lineOf returns the 1-based source line of the first content line of a
// fenced block, falling back to 1 for empty blocks.
func lineOf(fenced *ast.FencedCodeBlock, source []byte) int {
	lines := fenced.Lines()
	if lines.Len() == 0 {
		return 1
	}
	start := lines.At(0).Start
	if start > len(source) {
		start = len(source)
	}
	return bytes.Count(source[:start], []byte{'\n'}) + 1
}
