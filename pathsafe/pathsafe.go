// Package pathsafe validates and normalizes relative paths extracted from
// untrusted text before they are joined against an output root.
package pathsafe

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Path is a validated relative path, stored as its normalized segments.
// It never contains ".." or "." segments and is never absolute, so joining
// it against any root cannot escape that root.
type Path struct {
	segs []string
}

// Error reports why a raw path was rejected.
type Error struct {
	Raw    string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid path %q: %s", e.Raw, e.Reason)
}

// Validate checks a raw path from untrusted input and returns its
// normalized form. It is a pure function: no filesystem access.
func Validate(raw string) (Path, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Path{}, &Error{Raw: raw, Reason: "empty path"}
	}

	if strings.HasPrefix(trimmed, "/") || strings.HasPrefix(trimmed, "\\") {
		return Path{}, &Error{Raw: raw, Reason: "absolute path"}
	}
	if hasDrivePrefix(trimmed) {
		return Path{}, &Error{Raw: raw, Reason: "absolute path (drive letter)"}
	}

	// Windows-style separators are accepted on input but normalized away.
	slashed := strings.ReplaceAll(trimmed, "\\", "/")

	var segs []string
	for _, seg := range strings.Split(slashed, "/") {
		switch seg {
		case "", ".":
			continue
		case "..":
			return Path{}, &Error{Raw: raw, Reason: "parent directory traversal"}
		}
		segs = append(segs, seg)
	}
	if len(segs) == 0 {
		return Path{}, &Error{Raw: raw, Reason: "empty path after normalization"}
	}

	return Path{segs: segs}, nil
}

// hasDrivePrefix reports whether the path starts with a Windows drive
// letter, e.g. "C:\x" or "c:/x".
func hasDrivePrefix(p string) bool {
	if len(p) < 2 || p[1] != ':' {
		return false
	}
	c := p[0]
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// Segments returns the normalized path segments in order. The returned
// slice is a copy; mutating it does not affect the Path.
func (p Path) Segments() []string {
	out := make([]string, len(p.segs))
	copy(out, p.segs)
	return out
}

// String returns the slash-joined form, identical on every platform.
func (p Path) String() string {
	return strings.Join(p.segs, "/")
}

// Abs joins the path against root using the platform separator. The
// result is always a descendant of root.
func (p Path) Abs(root string) string {
	return filepath.Join(append([]string{root}, p.segs...)...)
}

// Dir returns the slash-joined parent portion, or "" for a bare filename.
func (p Path) Dir() string {
	if len(p.segs) < 2 {
		return ""
	}
	return strings.Join(p.segs[:len(p.segs)-1], "/")
}
