package playlist

import "testing"

func makeList(entries ...string) *List {
	l := New()
	l.SetEntries(entries)
	return l
}

func TestSetEntries(t *testing.T) {
	l := New()

	if cursor := l.SetEntries([]string{"a.mp3", "b.mp3"}); cursor != 0 {
		t.Errorf("cursor = %d, want 0", cursor)
	}
	if got := l.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
	if entry, ok := l.Current(); !ok || entry != "a.mp3" {
		t.Errorf("Current() = %q, %v, want %q, true", entry, ok, "a.mp3")
	}

	if cursor := l.SetEntries(nil); cursor != -1 {
		t.Errorf("cursor after clearing = %d, want -1", cursor)
	}
	if !l.IsEmpty() {
		t.Error("IsEmpty() = false after clearing")
	}
	if _, ok := l.Current(); ok {
		t.Error("Current() ok = true on empty list")
	}
}

func TestEntriesReturnsCopy(t *testing.T) {
	l := makeList("a.mp3", "b.mp3")

	entries := l.Entries()
	entries[0] = "mutated"

	if entry, _ := l.Entry(0); entry != "a.mp3" {
		t.Errorf("Entry(0) = %q after mutating the copy, want %q", entry, "a.mp3")
	}
}

func TestNext(t *testing.T) {
	l := makeList("a.mp3", "b.mp3", "c.mp3")

	if cursor, moved := l.Next(); !moved || cursor != 1 {
		t.Errorf("Next() = %d, %v, want 1, true", cursor, moved)
	}
	if cursor, moved := l.Next(); !moved || cursor != 2 {
		t.Errorf("Next() = %d, %v, want 2, true", cursor, moved)
	}
	// At the end without repeat: stay put.
	if cursor, moved := l.Next(); moved || cursor != 2 {
		t.Errorf("Next() at end = %d, %v, want 2, false", cursor, moved)
	}
}

func TestNextWrapsWithRepeat(t *testing.T) {
	l := makeList("a.mp3", "b.mp3")
	l.SetRepeat(true)
	l.Next()

	if cursor, moved := l.Next(); !moved || cursor != 0 {
		t.Errorf("Next() at end with repeat = %d, %v, want 0, true", cursor, moved)
	}
}

func TestPrevious(t *testing.T) {
	l := makeList("a.mp3", "b.mp3")
	l.Next()

	if cursor, moved := l.Previous(); !moved || cursor != 0 {
		t.Errorf("Previous() = %d, %v, want 0, true", cursor, moved)
	}
	if cursor, moved := l.Previous(); moved || cursor != 0 {
		t.Errorf("Previous() at start = %d, %v, want 0, false", cursor, moved)
	}
}

func TestPreviousWrapsWithRepeat(t *testing.T) {
	l := makeList("a.mp3", "b.mp3", "c.mp3")
	l.SetRepeat(true)

	if cursor, moved := l.Previous(); !moved || cursor != 2 {
		t.Errorf("Previous() at start with repeat = %d, %v, want 2, true", cursor, moved)
	}
}

func TestNavigationOnEmptyList(t *testing.T) {
	l := New()
	l.SetRepeat(true)

	if _, moved := l.Next(); moved {
		t.Error("Next() moved on empty list")
	}
	if _, moved := l.Previous(); moved {
		t.Error("Previous() moved on empty list")
	}
}

func TestSetCursor(t *testing.T) {
	l := makeList("a.mp3", "b.mp3", "c.mp3")

	if !l.SetCursor(2) {
		t.Error("SetCursor(2) = false")
	}
	if entry, _ := l.Current(); entry != "c.mp3" {
		t.Errorf("Current() = %q, want %q", entry, "c.mp3")
	}

	// Same index or out of range: no move.
	if l.SetCursor(2) {
		t.Error("SetCursor(2) moved when already there")
	}
	if l.SetCursor(3) {
		t.Error("SetCursor(3) = true, index out of range")
	}
	if l.SetCursor(-1) {
		t.Error("SetCursor(-1) = true")
	}
}

func TestHasNextHasPrevious(t *testing.T) {
	l := makeList("a.mp3", "b.mp3")

	if !l.HasNext() {
		t.Error("HasNext() = false at start")
	}
	if l.HasPrevious() {
		t.Error("HasPrevious() = true at start")
	}

	l.Next()

	if l.HasNext() {
		t.Error("HasNext() = true at end")
	}
	if !l.HasPrevious() {
		t.Error("HasPrevious() = false at end")
	}
}
