// Package tui provides a Bubble Tea terminal UI for the encounter query
// shell.
package tui

import "strings"

// History is a bounded command history with shell-style navigation. When
// navigation starts with text already typed, only entries beginning with
// that text are visited.
type History struct {
	entries []string
	max     int
	cursor  int    // -1 = not navigating, 0..len-1 = position in entries
	prefix  string // fixed when navigation starts
}

// NewHistory creates a history holding at most max entries.
func NewHistory(max int) *History {
	return &History{
		entries: make([]string, 0, max),
		max:     max,
		cursor:  -1,
	}
}

// Push adds a command. Consecutive duplicates are skipped and the oldest
// entry is dropped once the history is full.
func (h *History) Push(cmd string) {
	if len(h.entries) > 0 && h.entries[len(h.entries)-1] == cmd {
		return
	}
	h.entries = append(h.entries, cmd)
	if len(h.entries) > h.max {
		h.entries = h.entries[1:]
	}
}

// Prev returns the next older entry matching the prefix typed when
// navigation started. At the oldest match it stays there.
func (h *History) Prev(typed string) (string, bool) {
	if h.cursor == -1 {
		h.prefix = typed
		h.cursor = len(h.entries)
	}
	for i := h.cursor - 1; i >= 0; i-- {
		if strings.HasPrefix(h.entries[i], h.prefix) {
			h.cursor = i
			return h.entries[i], true
		}
	}
	if h.cursor < len(h.entries) {
		return h.entries[h.cursor], true
	}
	h.cursor = -1
	return "", false
}

// Next returns the next newer matching entry. Past the newest it returns
// the prefix navigation started from and false.
func (h *History) Next() (string, bool) {
	if h.cursor == -1 {
		return "", false
	}
	for i := h.cursor + 1; i < len(h.entries); i++ {
		if strings.HasPrefix(h.entries[i], h.prefix) {
			h.cursor = i
			return h.entries[i], true
		}
	}
	prefix := h.prefix
	h.ResetCursor()
	return prefix, false
}

// ResetCursor ends navigation.
func (h *History) ResetCursor() {
	h.cursor = -1
	h.prefix = ""
}

// Len returns the number of stored entries.
func (h *History) Len() int { return len(h.entries) }
