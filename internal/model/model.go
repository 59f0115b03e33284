// Package model holds the small value types shared between the app and
// the presentation layers.
package model

// Summary holds the results of an operation for display.
type Summary struct {
	Created  []string
	Modified []string
	Skipped  []string
	Failed   []string
	Message  string
}

// Empty reports whether the summary carries no file results.
func (s Summary) Empty() bool {
	return len(s.Created) == 0 && len(s.Modified) == 0 &&
		len(s.Skipped) == 0 && len(s.Failed) == 0
}
