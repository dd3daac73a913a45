// Package playlist implements the ordered media list and cursor used
// by the playback controller. Entries are opaque media locators;
// duplicates are permitted, insertion order is playback order.
package playlist

import "sync"

// List holds an ordered collection of media locators and a cursor.
//
// The cursor invariant is -1 <= cursor < len(entries); -1 means the
// list is empty or nothing has been selected yet. All methods are safe
// for concurrent use; List has its own lock, narrower than the engine
// lock, so playlist mutation never serializes against engine calls.
type List struct {
	mu       sync.Mutex
	entries  []string
	cursor   int
	autoPlay bool
	repeat   bool
}

// New creates a new empty list.
func New() *List {
	return &List{cursor: -1}
}

// SetEntries replaces the whole list. The cursor moves to 0 when the
// new list is non-empty, -1 otherwise. Returns the new cursor.
func (l *List) SetEntries(entries []string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append([]string(nil), entries...)
	if len(l.entries) == 0 {
		l.cursor = -1
	} else {
		l.cursor = 0
	}
	return l.cursor
}

// Entries returns a copy of all locators.
func (l *List) Entries() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.entries...)
}

// Len returns the number of entries.
func (l *List) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// IsEmpty returns true if the list has no entries.
func (l *List) IsEmpty() bool {
	return l.Len() == 0
}

// Cursor returns the current cursor (-1 if none).
func (l *List) Cursor() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cursor
}

// Entry returns the locator at the given index.
func (l *List) Entry(index int) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.validLocked(index) {
		return "", false
	}
	return l.entries[index], true
}

// Current returns the locator at the cursor.
func (l *List) Current() (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.validLocked(l.cursor) {
		return "", false
	}
	return l.entries[l.cursor], true
}

// SetCursor moves the cursor to index. It is a no-op unless index is
// valid and differs from the current cursor.
func (l *List) SetCursor(index int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.validLocked(index) || index == l.cursor {
		return false
	}
	l.cursor = index
	return true
}

// Next advances the cursor by one. At the end of the list it wraps to
// 0 when repeat is enabled, otherwise it is a no-op. Returns the
// cursor and whether a navigation occurred.
func (l *List) Next() (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.entries) == 0 {
		return l.cursor, false
	}
	if l.cursor < len(l.entries)-1 {
		l.cursor++
		return l.cursor, true
	}
	if l.repeat {
		l.cursor = 0
		return l.cursor, true
	}
	return l.cursor, false
}

// Previous retreats the cursor by one. At the start of the list it
// wraps to the last entry when repeat is enabled, otherwise it is a
// no-op. Returns the cursor and whether a navigation occurred.
func (l *List) Previous() (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.entries) == 0 {
		return l.cursor, false
	}
	if l.cursor > 0 {
		l.cursor--
		return l.cursor, true
	}
	if l.repeat {
		l.cursor = len(l.entries) - 1
		return l.cursor, true
	}
	return l.cursor, false
}

// HasNext reports whether an entry exists after the cursor. This is a
// pure boundary check: repeat mode does not affect it.
func (l *List) HasNext() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries) > 0 && l.cursor < len(l.entries)-1
}

// HasPrevious reports whether an entry exists before the cursor.
// Repeat mode does not affect it.
func (l *List) HasPrevious() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cursor > 0
}

// AutoPlay returns whether finishing one entry starts the next.
func (l *List) AutoPlay() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.autoPlay
}

// SetAutoPlay sets the auto-play flag.
func (l *List) SetAutoPlay(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.autoPlay = enabled
}

// Repeat returns whether navigation wraps at the list boundaries.
func (l *List) Repeat() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.repeat
}

// SetRepeat sets the repeat flag.
func (l *List) SetRepeat(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.repeat = enabled
}

func (l *List) validLocked(index int) bool {
	return index >= 0 && index < len(l.entries)
}
