package blocks

import (
	"strings"

	"github.com/tsepang/aisplit/pathsafe"
)

const (
	headerPrefix = "FILE "
	endMarker    = "END FILE"
	minSepLen    = 10
)

// parser state over the line slice.
type state int

const (
	seekHeader state = iota
	seekOpenSeparator
	inContent
	seekEndMarker
)

// Parse scans text left to right and returns the file blocks it contains,
// in source order. It stops at the first structural error; the returned
// error is always a *ParseError carrying the offending line number.
func Parse(text string) ([]FileBlock, error) {
	lines := strings.Split(text, "\n")

	var (
		out []FileBlock

		st         = seekHeader
		rawPath    string
		headerLine int // 1-based line of the current FILE header
		sep        string
		sepLine    int
		content    []string
	)

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])

		switch st {
		case seekHeader:
			// Prose and blank lines between blocks are tolerated.
			if !strings.HasPrefix(line, headerPrefix) {
				continue
			}
			rawPath = strings.TrimSpace(line[len(headerPrefix):])
			headerLine = i + 1
			st = seekOpenSeparator

		case seekOpenSeparator:
			if line == "" {
				continue
			}
			if !isSeparator(line) {
				return nil, &ParseError{
					Kind:   MissingSeparator,
					Line:   headerLine,
					Detail: "FILE " + rawPath,
				}
			}
			// The exact separator string is the block's closing marker:
			// a shorter or differently-charactered rule inside the
			// content must not close the block.
			sep = line
			sepLine = i + 1
			content = content[:0]
			st = inContent

		case inContent:
			if line == sep {
				st = seekEndMarker
				continue
			}
			content = append(content, lines[i])

		case seekEndMarker:
			if line == "" {
				continue
			}
			if line != endMarker {
				return nil, &ParseError{
					Kind:   MissingEndMarker,
					Line:   headerLine,
					Detail: "FILE " + rawPath,
				}
			}
			p, err := pathsafe.Validate(rawPath)
			if err != nil {
				return nil, &ParseError{
					Kind:   InvalidPath,
					Line:   headerLine,
					Detail: err.Error(),
					cause:  err,
				}
			}
			out = append(out, FileBlock{
				Path:    p,
				Content: strings.Join(content, "\n"),
				Line:    headerLine,
			})
			st = seekHeader
		}
	}

	switch st {
	case seekOpenSeparator:
		return nil, &ParseError{Kind: MissingSeparator, Line: headerLine, Detail: "FILE " + rawPath}
	case inContent:
		return nil, &ParseError{Kind: UnmatchedSeparator, Line: sepLine, Detail: "FILE " + rawPath}
	case seekEndMarker:
		return nil, &ParseError{Kind: MissingEndMarker, Line: headerLine, Detail: "FILE " + rawPath}
	}

	if len(out) == 0 {
		return nil, &ParseError{Kind: EmptyInput}
	}
	return out, nil
}

// isSeparator reports whether line is a run of at least ten identical
// '=' or '-' characters and nothing else.
func isSeparator(line string) bool {
	if len(line) < minSepLen {
		return false
	}
	c := line[0]
	if c != '=' && c != '-' {
		return false
	}
	for i := 1; i < len(line); i++ {
		if line[i] != c {
			return false
		}
	}
	return true
}
