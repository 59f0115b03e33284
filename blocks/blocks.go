// Package blocks parses a structured AI answer into file blocks.
//
// The wire format is line oriented:
//
//	FILE path/to/file.py
//	================================
//	<content, verbatim>
//	================================
//	END FILE
//
// Blocks may be separated by arbitrary prose and blank lines. The
// separator is any run of ten or more '=' or '-' characters; the closing
// separator must match the opening one exactly, so a shorter or
// differently-styled rule inside the content does not terminate the block.
// There is no escape mechanism for a content line equal to the active
// separator; that is a documented limitation of the format.
package blocks

import (
	"strings"

	"github.com/tsepang/aisplit/pathsafe"
)

// FileBlock is one parsed FILE ... END FILE unit.
type FileBlock struct {
	// Path is the validated, normalized relative target path.
	Path pathsafe.Path
	// Content is the text between the separators. The single trailing
	// newline introduced by the closing separator line is stripped; all
	// other whitespace is preserved verbatim.
	Content string
	// Line is the 1-based line number of the FILE header.
	Line int
}

// Render re-serializes the block in the wire format. Parsing the result
// yields an equal block.
func (b FileBlock) Render() string {
	const sep = "================================"
	var sb strings.Builder
	sb.WriteString("FILE ")
	sb.WriteString(b.Path.String())
	sb.WriteByte('\n')
	sb.WriteString(sep)
	sb.WriteByte('\n')
	if b.Content != "" {
		sb.WriteString(b.Content)
		sb.WriteByte('\n')
	}
	sb.WriteString(sep)
	sb.WriteByte('\n')
	sb.WriteString("END FILE\n")
	return sb.String()
}
