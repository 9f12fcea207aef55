package tileedit

import (
	"fmt"
)

// Selected returns the selected locations, sorted.
func (e *Editor) Selected() []Location {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ctx.Selection.Locations()
}

// Select adds every tile between a & b to the selection (replacing it
// unless add is set).
func (e *Editor) Select(a, b Location, add bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !add {
		e.ctx.Selection.Clear()
	}
	lo, hi := rect(a, b)
	eachInRect(lo, hi, func(l Location) {
		if e.store.Bounds().Contains(l) {
			e.ctx.Selection.Add(l)
		}
	})
}

// ClearSelection deselects everything.
func (e *Editor) ClearSelection() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ctx.Selection.Clear()
}

// Status describes the selection, eg. "3 tiles selected."
func (e *Editor) Status() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ctx.Selection.Status()
}

// DeleteSelection removes filtered content from every selected tile as
// one action.
func (e *Editor) DeleteSelection() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ready(); err != nil {
		return err
	}
	locs := e.ctx.Selection.Locations()
	if len(locs) == 0 {
		return ErrEmptySelection
	}

	e.release()
	for _, l := range locs {
		if _, err := e.store.DeleteMatching(l, e.ctx.Filter.Allows); err != nil {
			e.diffs.Commit()
			return err
		}
	}
	e.diffs.Commit()
	return nil
}

// CopySelection copies the filtered content of the selection to the
// clipboard.
func (e *Editor) CopySelection() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ready(); err != nil {
		return err
	}
	fs, err := copySelection(e.store, e.ctx.Selection.Locations(), e.ctx.Filter)
	if err != nil {
		return err
	}
	e.clipboard = fs
	return nil
}

// CutSelection copies the selection to the clipboard then deletes it, as
// one action.
func (e *Editor) CutSelection() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ready(); err != nil {
		return err
	}

	e.release()
	fs, err := liftSelection(e.store, e.ctx.Selection.Locations(), e.ctx.Filter)
	e.diffs.Commit()
	if err != nil {
		return err
	}
	e.clipboard = fs
	e.ctx.Selection.Clear()
	return nil
}

// Paste drops the clipboard as a floating block centred on l and switches
// to the select tool. The block is written down when it's next anchored.
func (e *Editor) Paste(l Location) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ready(); err != nil {
		return err
	}
	if e.clipboard == nil {
		return fmt.Errorf("%w: clipboard is empty", ErrEmptySelection)
	}

	e.release()
	sm, ok := e.mode.(*selectMode)
	if !ok {
		sm = modeTable[ModeSelect]().(*selectMode)
		e.switchMode(sm)
	}
	sm.anchor(e.ctx)
	e.diffs.Commit()

	fs := e.clipboard.clone()
	fs.Origin = Location{X: l.X - fs.Width/2, Y: l.Y - fs.Height/2, Z: l.Z}
	sm.float = fs
	e.ctx.Selection.Clear()
	return nil
}

// Floating returns the floating block (if any) as origin & size.
func (e *Editor) Floating() (Location, int, int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	sm, ok := e.mode.(*selectMode)
	if !ok || sm.float == nil {
		return Location{}, 0, 0, false
	}
	return sm.float.Origin, sm.float.Width, sm.float.Height, true
}

// AnchorFloating writes down the floating block (if any) as one action.
func (e *Editor) AnchorFloating() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.release()
	if sm, ok := e.mode.(*selectMode); ok {
		sm.anchor(e.ctx)
	}
	e.diffs.Commit()
}

// DeleteFloating throws away the floating block without writing it down.
// Content lifted off the map stays deleted.
func (e *Editor) DeleteFloating() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.release()
	if sm, ok := e.mode.(*selectMode); ok {
		sm.float = nil
	}
	e.diffs.Commit()
}

// CreatePrefab captures the selection as a new prefab & saves the
// project's prefabs.
func (e *Editor) CreatePrefab(name string) (*Prefab, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ready(); err != nil {
		return nil, err
	}
	p, err := CapturePrefab(name, e.store, e.ctx.Selection.Locations())
	if err != nil {
		return nil, err
	}
	return p, e.prefabs.Put(p)
}
