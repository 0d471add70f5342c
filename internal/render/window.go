package render

// RecentWindow is a bounded FIFO of recently used lines, keyed by
// category. The caller owns it and passes it into Render so repeated
// analyses for the same chat do not keep surfacing the same decoration
// lines. Not safe for concurrent use; give each chat its own window.
type RecentWindow struct {
	capacity int
	lines    map[string][]string
}

const defaultWindowCapacity = 8

// NewRecentWindow creates a window that keeps at most capacity entries
// per category, evicting the oldest first.
func NewRecentWindow(capacity int) *RecentWindow {
	if capacity <= 0 {
		capacity = defaultWindowCapacity
	}
	return &RecentWindow{
		capacity: capacity,
		lines:    make(map[string][]string),
	}
}

// Seen reports whether value is still inside the window for category.
func (w *RecentWindow) Seen(category, value string) bool {
	for _, v := range w.lines[category] {
		if v == value {
			return true
		}
	}
	return false
}

// Remember records value under category, evicting the oldest entry once
// the category is full. Remembering a value twice keeps one copy and
// refreshes its position.
func (w *RecentWindow) Remember(category, value string) {
	entries := w.lines[category]
	for i, v := range entries {
		if v == value {
			entries = append(entries[:i], entries[i+1:]...)
			break
		}
	}
	entries = append(entries, value)
	if len(entries) > w.capacity {
		entries = entries[len(entries)-w.capacity:]
	}
	w.lines[category] = entries
}

// Len returns the number of entries currently held for category.
func (w *RecentWindow) Len(category string) int {
	return len(w.lines[category])
}
