package tileedit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiffUndoRedo(t *testing.T) {
	r := testTypes()
	s := floorStore(t, r, 3, 3)
	d := NewDiffRecorder(s)
	s.Record(d)

	before := s.At(Loc(1, 1, 1))
	s.AddObject(Loc(1, 1, 1), inst(t, r, "/obj/lamp"))
	s.AddObject(Loc(2, 1, 1), inst(t, r, "/obj/lamp"))
	after := s.At(Loc(1, 1, 1))

	batch, ok := d.Commit()
	assert.True(t, ok)
	assert.Equal(t, 2, len(batch))
	assert.Equal(t, 1, d.UndoDepth())

	_, ok = d.Undo()
	assert.True(t, ok)
	assert.True(t, s.At(Loc(1, 1, 1)).Equal(before))
	assert.True(t, s.At(Loc(2, 1, 1)).Equal(before))
	assert.Equal(t, 0, d.UndoDepth())
	assert.Equal(t, 1, d.RedoDepth())

	_, ok = d.Redo()
	assert.True(t, ok)
	assert.True(t, s.At(Loc(1, 1, 1)).Equal(after))

	_, ok = d.Redo()
	assert.False(t, ok)
}

func TestDiffKeepsFirstOld(t *testing.T) {
	r := testTypes()
	s := floorStore(t, r, 2, 2)
	d := NewDiffRecorder(s)
	s.Record(d)

	orig, _ := s.Get(Loc(1, 1, 1))
	s.AddObject(Loc(1, 1, 1), inst(t, r, "/obj/lamp"))
	s.AddObject(Loc(1, 1, 1), inst(t, r, "/obj/grille"))
	final, _ := s.Get(Loc(1, 1, 1))

	batch, ok := d.Commit()
	assert.True(t, ok)
	assert.Equal(t, DiffBatch{{Loc: Loc(1, 1, 1), Old: orig, New: final}}, batch)
}

func TestDiffDropsNoops(t *testing.T) {
	r := testTypes()
	s := floorStore(t, r, 2, 2)
	d := NewDiffRecorder(s)
	s.Record(d)

	lamp := inst(t, r, "/obj/lamp")
	s.AddObject(Loc(1, 1, 1), lamp)
	s.DeleteMatching(Loc(1, 1, 1), lamp.Equal)

	_, ok := d.Commit()
	assert.False(t, ok)
	assert.Equal(t, 0, d.UndoDepth())

	_, ok = d.Undo()
	assert.False(t, ok)
}

func TestDiffCommitClearsRedo(t *testing.T) {
	r := testTypes()
	s := floorStore(t, r, 2, 2)
	d := NewDiffRecorder(s)
	s.Record(d)

	s.AddObject(Loc(1, 1, 1), inst(t, r, "/obj/lamp"))
	d.Commit()
	d.Undo()
	assert.Equal(t, 1, d.RedoDepth())

	s.AddObject(Loc(2, 2, 1), inst(t, r, "/obj/grille"))
	d.Commit()
	assert.Equal(t, 0, d.RedoDepth())
	assert.Equal(t, 1, d.UndoDepth())
}
