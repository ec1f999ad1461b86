package editor

import "codeberg.org/archviz/studio/internal/imageops"

func newHistory() History {
	return History{cursor: -1}
}

// replaces the history with a single entry
func (h *History) Reset(img *imageops.Image) {
	h.entries = []*imageops.Image{img}
	h.cursor = 0
}

func (h *History) Clear() {
	h.entries = nil
	h.cursor = -1
}

// drops everything ahead of the cursor, then appends
func (h *History) Push(img *imageops.Image) {
	h.entries = append(h.entries[:h.cursor+1], img)
	h.cursor = len(h.entries) - 1
}

func (h *History) Undo() (*imageops.Image, bool) {
	if h.cursor <= 0 {
		return nil, false
	}

	h.cursor--
	return h.entries[h.cursor], true
}

func (h *History) Redo() (*imageops.Image, bool) {
	if h.cursor >= len(h.entries)-1 {
		return nil, false
	}

	h.cursor++
	return h.entries[h.cursor], true
}

func (h *History) Len() int {
	return len(h.entries)
}

func (h *History) Cursor() int {
	return h.cursor
}

func (h *History) CanUndo() bool {
	return h.cursor > 0
}

func (h *History) CanRedo() bool {
	return h.cursor < len(h.entries)-1
}
