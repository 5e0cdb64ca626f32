package dialog

import (
	"slices"
	"strings"

	"github.com/jaakkos/backoffice/internal/domain"
)

// KeyEnter adds the pending value, like the Add button.
const KeyEnter = "Enter"

// ListInput is a text box plus the list of values it has collected (tags, image urls).
type ListInput struct {
	Value string
	Items []string
}

// NewListInput returns an input holding items, deduplicated.
func NewListInput(items ...string) ListInput {
	return ListInput{Items: domain.Dedupe(items)}
}

// Type replaces the pending text.
func (l *ListInput) Type(s string) { l.Value = s }

// Add appends the trimmed pending text unless it is empty or already listed,
// then clears the text box. It reports whether an item was added.
func (l *ListInput) Add() bool {
	v := strings.TrimSpace(l.Value)
	if v == "" || slices.Contains(l.Items, v) {
		return false
	}
	l.Items = append(slices.Clip(l.Items), v)
	l.Value = ""
	return true
}

// Key handles a key press in the text box.
func (l *ListInput) Key(key string) bool {
	if key != KeyEnter {
		return false
	}
	return l.Add()
}

// Remove drops the item equal to v.
func (l *ListInput) Remove(v string) {
	out := make([]string, 0, len(l.Items))
	for _, it := range l.Items {
		if it != v {
			out = append(out, it)
		}
	}
	l.Items = out
}

// Values returns a copy of the collected items.
func (l ListInput) Values() []string {
	return domain.Dedupe(l.Items)
}
