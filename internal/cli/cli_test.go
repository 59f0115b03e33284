package cli

import (
	"reflect"
	"testing"
)

func TestNormalizeExtensions(t *testing.T) {
	exts := []string{"py", ".js", "", "go"}
	NormalizeExtensions(exts)
	want := []string{".py", ".js", "", ".go"}
	if !reflect.DeepEqual(exts, want) {
		t.Fatalf("NormalizeExtensions = %v, want %v", exts, want)
	}
}
