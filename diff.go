package tileedit

import (
	"log"
)

// Change is one tile's key before & after an action.
type Change struct {
	Loc Location
	Old string
	New string
}

// DiffBatch is every change made by one user action, at most one Change
// per location.
type DiffBatch []Change

// DiffRecorder collects changes into batches and keeps linear undo / redo
// history. Stacks are unbounded.
type DiffRecorder struct {
	grid  Grid
	index map[Location]int
	open  DiffBatch
	undo  []DiffBatch
	redo  []DiffBatch
}

// NewDiffRecorder returns a recorder that undoes & redoes against g.
func NewDiffRecorder(g Grid) *DiffRecorder {
	return &DiffRecorder{grid: g, index: map[Location]int{}}
}

// Record notes that l changed from old to new in the open batch.
// The first change to a location keeps its old key, later ones only move
// the new key forward.
func (d *DiffRecorder) Record(l Location, old, new string) {
	if i, ok := d.index[l]; ok {
		d.open[i].New = new
		return
	}
	d.index[l] = len(d.open)
	d.open = append(d.open, Change{Loc: l, Old: old, New: new})
}

// Pending returns the number of locations touched in the open batch.
func (d *DiffRecorder) Pending() int {
	return len(d.open)
}

// Commit closes the open batch. No-op changes are dropped and an empty
// batch is discarded (false). Otherwise the batch is pushed to the undo
// stack and redo history is cleared.
func (d *DiffRecorder) Commit() (DiffBatch, bool) {
	batch := DiffBatch{}
	for _, c := range d.open {
		if c.Old != c.New {
			batch = append(batch, c)
		}
	}
	d.open = nil
	d.index = map[Location]int{}

	if len(batch) == 0 {
		return nil, false
	}
	d.undo = append(d.undo, batch)
	d.redo = nil
	return batch, true
}

// Undo reverts the most recent batch. Returns false if there's nothing
// to undo.
func (d *DiffRecorder) Undo() (DiffBatch, bool) {
	if len(d.undo) == 0 {
		return nil, false
	}
	batch := d.undo[len(d.undo)-1]
	d.undo = d.undo[:len(d.undo)-1]
	for _, c := range batch {
		d.put(c.Loc, c.Old)
	}
	d.redo = append(d.redo, batch)
	return batch, true
}

// Redo reapplies the most recently undone batch. Returns false if there's
// nothing to redo.
func (d *DiffRecorder) Redo() (DiffBatch, bool) {
	if len(d.redo) == 0 {
		return nil, false
	}
	batch := d.redo[len(d.redo)-1]
	d.redo = d.redo[:len(d.redo)-1]
	for _, c := range batch {
		d.put(c.Loc, c.New)
	}
	d.undo = append(d.undo, batch)
	return batch, true
}

// Last returns the batch that Undo would revert.
func (d *DiffRecorder) Last() (DiffBatch, bool) {
	if len(d.undo) == 0 {
		return nil, false
	}
	return d.undo[len(d.undo)-1], true
}

// UndoDepth is the number of batches that can be undone.
func (d *DiffRecorder) UndoDepth() int {
	return len(d.undo)
}

// RedoDepth is the number of batches that can be redone.
func (d *DiffRecorder) RedoDepth() int {
	return len(d.redo)
}

func (d *DiffRecorder) put(l Location, key string) {
	// batches only ever hold in bounds locations & resident keys
	if err := d.grid.Put(l, key); err != nil {
		log.Printf("failed to restore %v: %v", l, err)
	}
}
