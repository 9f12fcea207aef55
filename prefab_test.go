package tileedit

import (
	"errors"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

// testPrefab is a 2x1 prefab: wall+lamp, then floor in an office
func testPrefab(t *testing.T, r TypeResolver) *Prefab {
	p := NewPrefab("booth", 2, 1)
	p.Tiles[Location{X: 0, Y: 0}] = comp(t, r, "/obj/lamp", "/turf/wall")
	p.Tiles[Location{X: 1, Y: 0}] = comp(t, r, "/turf/floor", "/area/office")
	return p
}

func TestPrefabStamp(t *testing.T) {
	r := testTypes()
	s := floorStore(t, r, 4, 4)
	p := testPrefab(t, r)

	assert.True(t, p.Fits(s.Bounds(), Loc(2, 2, 1)))
	assert.False(t, p.Fits(s.Bounds(), Loc(4, 2, 1)))

	n, err := p.Stamp(s, Loc(2, 2, 1))
	assert.Nil(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "/obj/lamp,/turf/wall,/area/hall", s.At(Loc(2, 2, 1)).String())
	assert.Equal(t, "/turf/floor,/area/office", s.At(Loc(3, 2, 1)).String())
}

func TestPrefabRestampIsNoop(t *testing.T) {
	r := testTypes()
	s := floorStore(t, r, 4, 4)
	d := NewDiffRecorder(s)
	s.Record(d)
	p := testPrefab(t, r)

	p.Stamp(s, Loc(1, 1, 1))
	_, ok := d.Commit()
	assert.True(t, ok)

	n, err := p.Stamp(s, Loc(1, 1, 1))
	assert.Nil(t, err)
	assert.Equal(t, 0, n)
	_, ok = d.Commit()
	assert.False(t, ok)
}

func TestPrefabStampClipsToMap(t *testing.T) {
	r := testTypes()
	s := floorStore(t, r, 4, 4)
	p := testPrefab(t, r)

	n, err := p.Stamp(s, Loc(4, 4, 1))
	assert.Nil(t, err)
	assert.Equal(t, 1, n)
}

func TestCapturePrefab(t *testing.T) {
	r := testTypes()
	s := floorStore(t, r, 5, 5)
	s.AddObject(Loc(3, 4, 1), inst(t, r, "/obj/lamp"))

	p, err := CapturePrefab("cap", s, []Location{Loc(2, 3, 1), Loc(3, 4, 1)})
	assert.Nil(t, err)
	assert.Equal(t, 2, p.Width)
	assert.Equal(t, 2, p.Height)
	assert.Equal(t, []Location{{X: 0, Y: 0}, {X: 1, Y: 1}}, p.Positions())
	assert.Equal(t, "/obj/lamp,/turf/floor,/area/hall", p.Tiles[Location{X: 1, Y: 1}].String())

	_, err = CapturePrefab("none", s, nil)
	assert.True(t, errors.Is(err, ErrEmptySelection))
}

func TestPrefabsSaveLoad(t *testing.T) {
	r := testTypes()
	dir := t.TempDir()

	ps := LoadPrefabs(dir, r)
	assert.Equal(t, 0, len(ps.Names()))

	assert.Nil(t, ps.Put(testPrefab(t, r)))
	_, err := ps.Create("empty", 3, 3)
	assert.Nil(t, err)
	assert.NotNil(t, ps.Put(NewPrefab(" ", 1, 1)))

	again := LoadPrefabs(dir, r)
	assert.Equal(t, []string{"booth", "empty"}, again.Names())

	p, ok := again.Get("booth")
	assert.True(t, ok)
	assert.Equal(t, 2, p.Width)
	assert.Equal(t, "/obj/lamp,/turf/wall", p.Tiles[Location{X: 0, Y: 0}].String())

	assert.Nil(t, again.Delete("empty"))
	assert.True(t, errors.Is(again.Delete("empty"), ErrUnknownPrefab))
	assert.Equal(t, []string{"booth"}, LoadPrefabs(dir, r).Names())
}

func TestPrefabsMalformed(t *testing.T) {
	r := testTypes()
	dir := t.TempDir()
	assert.Nil(t, ioutil.WriteFile(filepath.Join(dir, PrefabsFile), []byte(`{"prefabs": [`), 0644))

	ps := LoadPrefabs(dir, r)
	assert.Equal(t, 0, len(ps.Names()))
}

func TestPrefabsSkipBadTiles(t *testing.T) {
	r := testTypes()
	dir := t.TempDir()
	doc := `{"prefabs": [
		{"name": "odd", "width": 2, "height": 1, "tiles": {
			"0,0": "/turf/wall",
			"x,y": "/turf/floor",
			"1,0": "/obj/lamp{dir = 4"
		}},
		{"name": "", "width": 1, "height": 1, "tiles": {}}
	]}`
	assert.Nil(t, ioutil.WriteFile(filepath.Join(dir, PrefabsFile), []byte(doc), 0644))

	ps := LoadPrefabs(dir, r)
	assert.Equal(t, []string{"odd"}, ps.Names())

	p, _ := ps.Get("odd")
	assert.Equal(t, 1, len(p.Tiles))
}
