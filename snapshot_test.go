package tileedit

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnapshotRoundTrip(t *testing.T) {
	r := testTypes()
	s := floorStore(t, r, 4, 3)
	s.AddObject(Loc(2, 2, 1), inst(t, r, "/obj/lamp").WithVars(map[string]string{"name": `"a, b"`}))

	snap, err := OpenSnapshot(filepath.Join(t.TempDir(), "map.sqlite"))
	assert.Nil(t, err)
	if err != nil {
		return
	}
	defer snap.Close()

	assert.Nil(t, snap.Save(s))

	key, err := snap.At(Loc(2, 2, 1))
	assert.Nil(t, err)
	want, _ := s.Get(Loc(2, 2, 1))
	assert.Equal(t, want, key)

	key, err = snap.At(Loc(9, 9, 1))
	assert.Nil(t, err)
	assert.Equal(t, "", key)

	loaded, err := snap.Load(r)
	assert.Nil(t, err)
	if err != nil {
		return
	}
	assert.Equal(t, s.Bounds(), loaded.Bounds())
	assert.Equal(t, s.Keys(), loaded.Keys())
	assert.Equal(t, s.Len(), loaded.Len())
	s.Each(func(l Location, k string) {
		got, _ := loaded.Get(l)
		assert.Equal(t, k, got)
	})
	assert.Equal(t, s.At(Loc(2, 2, 1)).String(), loaded.At(Loc(2, 2, 1)).String())

	// new content gets a fresh key, not one already in use
	k := loaded.KeyFor(comp(t, r, "/turf/wall"))
	assert.NotContains(t, s.Keys(), k)
}

func TestSnapshotOverwrite(t *testing.T) {
	r := testTypes()
	s := floorStore(t, r, 3, 3)

	snap, err := NewSnapshot()
	assert.Nil(t, err)
	if err != nil {
		return
	}
	defer snap.Close()

	assert.Nil(t, snap.Save(s))
	s.Put(Loc(1, 1, 1), "")
	s.AddObject(Loc(3, 3, 1), inst(t, r, "/obj/lamp"))
	assert.Nil(t, snap.Save(s))

	loaded, err := snap.Load(r)
	assert.Nil(t, err)
	assert.Equal(t, 8, loaded.Len())
	assert.Equal(t, "/obj/lamp,/turf/floor,/area/hall", loaded.At(Loc(3, 3, 1)).String())
}

func TestSnapshotEmpty(t *testing.T) {
	snap, err := OpenSnapshot(filepath.Join(t.TempDir(), "empty.sqlite"))
	assert.Nil(t, err)
	if err != nil {
		return
	}
	defer snap.Close()

	_, err = snap.Load(testTypes())
	assert.NotNil(t, err)
}
