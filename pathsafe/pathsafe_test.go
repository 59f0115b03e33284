package pathsafe

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestValidate_RejectsUnsafePaths(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"parent traversal", "../etc/passwd"},
		{"embedded traversal", "src/../../etc/passwd"},
		{"backslash traversal", "..\\x"},
		{"absolute unix", "/etc/passwd"},
		{"absolute backslash", "\\windows\\system32"},
		{"drive letter", "C:\\windows\\system32"},
		{"drive letter forward slash", "c:/x"},
		{"only dots", "./."},
		{"only slashes", "///"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Validate(tt.raw); err == nil {
				t.Fatalf("Validate(%q) succeeded, want error", tt.raw)
			}
		})
	}
}

func TestValidate_NormalizesPaths(t *testing.T) {
	tests := []struct {
		raw  string
		segs []string
	}{
		{"src/utils/helpers.py", []string{"src", "utils", "helpers.py"}},
		{"a.txt", []string{"a.txt"}},
		{"./a/./b", []string{"a", "b"}},
		{"a//b", []string{"a", "b"}},
		{"a\\b\\c.go", []string{"a", "b", "c.go"}},
		{"  spaced/path.txt  ", []string{"spaced", "path.txt"}},
		{"trailing/slash/", []string{"trailing", "slash"}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			p, err := Validate(tt.raw)
			if err != nil {
				t.Fatalf("Validate(%q) failed: %v", tt.raw, err)
			}
			if !reflect.DeepEqual(p.Segments(), tt.segs) {
				t.Fatalf("Validate(%q) = %v, want %v", tt.raw, p.Segments(), tt.segs)
			}
		})
	}
}

func TestPath_StaysUnderRoot(t *testing.T) {
	root := t.TempDir()
	p, err := Validate("a\\b/../c.txt")
	if err == nil {
		t.Fatalf("expected traversal rejection, got %v", p)
	}

	p, err = Validate("a/b/c.txt")
	if err != nil {
		t.Fatal(err)
	}
	abs := p.Abs(root)
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		t.Fatal(err)
	}
	if rel != filepath.Join("a", "b", "c.txt") {
		t.Fatalf("Abs escaped root: %q", abs)
	}
}

func TestSegments_DoesNotAliasInternalState(t *testing.T) {
	p, err := Validate("src/app/main.go")
	if err != nil {
		t.Fatal(err)
	}
	segs := p.Segments()
	segs[0] = "elsewhere"
	if p.String() != "src/app/main.go" {
		t.Fatalf("mutating Segments() result changed the path: %q", p.String())
	}
}

func TestPath_Accessors(t *testing.T) {
	p, err := Validate("src\\utils\\helpers.py")
	if err != nil {
		t.Fatal(err)
	}
	if p.String() != "src/utils/helpers.py" {
		t.Errorf("String() = %q", p.String())
	}
	if p.Dir() != "src/utils" {
		t.Errorf("Dir() = %q", p.Dir())
	}

	flat, err := Validate("main.go")
	if err != nil {
		t.Fatal(err)
	}
	if flat.Dir() != "" {
		t.Errorf("Dir() of bare filename = %q, want empty", flat.Dir())
	}
}
