// Package history provides whole-snapshot undo/redo over a shape
// collection. Snapshots are deep copies, so restoring always reproduces
// the exact prior state at the cost of O(collection size) memory per
// entry.
package history

import "msp-bknd/internal/models"

// History holds the undo and redo stacks. A zero limit means unbounded
// depth; a positive limit drops the oldest undo entries once exceeded.
type History struct {
	undo  [][]models.Shape
	redo  [][]models.Shape
	limit int
}

// New returns a history with the given depth cap (0 = unbounded).
func New(limit int) *History {
	return &History{limit: limit}
}

// Record pushes the pre-mutation snapshot onto the undo stack and clears
// the redo stack. Call it before every mutating operation on the
// collection.
func (h *History) Record(before []models.Shape) {
	h.undo = append(h.undo, models.CloneShapes(before))
	h.redo = nil
	if h.limit > 0 && len(h.undo) > h.limit {
		h.undo = h.undo[len(h.undo)-h.limit:]
	}
}

// Undo restores the most recent snapshot, moving the current collection
// onto the redo stack. The second return is false when there is nothing
// to undo.
func (h *History) Undo(current []models.Shape) ([]models.Shape, bool) {
	if len(h.undo) == 0 {
		return nil, false
	}
	top := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, models.CloneShapes(current))
	return top, true
}

// Redo mirrors Undo against the redo stack.
func (h *History) Redo(current []models.Shape) ([]models.Shape, bool) {
	if len(h.redo) == 0 {
		return nil, false
	}
	top := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, models.CloneShapes(current))
	return top, true
}

// CanUndo reports whether an undo snapshot is available.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether a redo snapshot is available.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Depths returns the current stack depths, for status endpoints.
func (h *History) Depths() (undo, redo int) { return len(h.undo), len(h.redo) }

// Reset drops both stacks; used when a project is replaced wholesale.
func (h *History) Reset() {
	h.undo = nil
	h.redo = nil
}
