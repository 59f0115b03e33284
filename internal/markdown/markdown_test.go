package markdown

import (
	"testing"
)

func TestExtract_SingleBlockWithHint(t *testing.T) {
	source := "`src/index.js`\n\n```js\nconsole.log(\"hi\");\n```\n"
	found, skipped, err := Extract([]byte(source))
	if err != nil {
		t.Fatal(err)
	}
	if len(skipped) != 0 {
		t.Fatalf("unexpected skipped paths: %v", skipped)
	}
	if len(found) != 1 {
		t.Fatalf("expected 1 block, got %d", len(found))
	}
	if got := found[0].Path.String(); got != "src/index.js" {
		t.Errorf("expected path src/index.js, got %q", got)
	}
	if found[0].Content != "console.log(\"hi\");" {
		t.Errorf("unexpected content: %q", found[0].Content)
	}
}

func TestExtract_NoHintSkipped(t *testing.T) {
	source := "```go\nfunc main() {}\n```\n"
	found, _, err := Extract([]byte(source))
	if err != nil {
		t.Fatal(err)
	}
	if len(found) != 0 {
		t.Fatalf("expected 0 blocks, got %d", len(found))
	}
}

func TestExtract_CommandHintSkipped(t *testing.T) {
	// A backticked command is not a path.
	source := "Run `go run main.go` first.\n\n```sh\necho hi\n```\n"
	found, _, err := Extract([]byte(source))
	if err != nil {
		t.Fatal(err)
	}
	if len(found) != 0 {
		t.Fatalf("expected 0 blocks, got %d", len(found))
	}
}

func TestExtract_UnsafePathReported(t *testing.T) {
	source := "`../../etc/passwd`\n\n```\nroot:x\n```\n"
	found, skipped, err := Extract([]byte(source))
	if err != nil {
		t.Fatal(err)
	}
	if len(found) != 0 {
		t.Fatalf("expected 0 blocks, got %d", len(found))
	}
	if len(skipped) != 1 || skipped[0] != "../../etc/passwd" {
		t.Fatalf("expected unsafe path to be reported, got %v", skipped)
	}
}

func TestExtract_MultipleBlocksInOrder(t *testing.T) {
	source := "`a.py`\n\n```python\nx = 1\n```\n\nSome prose.\n\n`b/c.py`\n\n```python\ny = 2\n```\n"
	found, _, err := Extract([]byte(source))
	if err != nil {
		t.Fatal(err)
	}
	if len(found) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(found))
	}
	if found[0].Path.String() != "a.py" || found[1].Path.String() != "b/c.py" {
		t.Fatalf("blocks out of order: %q, %q", found[0].Path, found[1].Path)
	}
}
