package tileedit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeFrames struct {
	missing string
}

func (f *fakeFrames) Frame(icon, state string, dir int) (Frame, bool) {
	if state == f.missing {
		return nil, false
	}
	return icon + "#" + state, true
}

func TestViewportOrder(t *testing.T) {
	r := testTypes()
	s := floorStore(t, r, 3, 3)
	s.AddObject(Loc(1, 1, 1), inst(t, r, "/obj/lamp").WithVars(map[string]string{"plane": "1"}))
	s.AddObject(Loc(1, 1, 1), inst(t, r, "/mob/cat"))

	v := &Viewport{Store: s, Frames: &fakeFrames{}}
	ds := v.Build(Loc(1, 1, 1), Loc(1, 1, 1), 1, nil)

	states := []string{}
	for _, d := range ds {
		assert.Equal(t, DrawContent, d.Kind)
		states = append(states, d.State)
	}
	assert.Equal(t, []string{"hall", "floor", "cat", "lamp"}, states)
	assert.Equal(t, "icons/obj.dmi#lamp", ds[3].Frame)
}

func TestViewportFiltersAndSkipsMissingFrames(t *testing.T) {
	r := testTypes()
	s := floorStore(t, r, 2, 2)
	s.AddObject(Loc(1, 1, 1), inst(t, r, "/obj/lamp"))

	v := &Viewport{Store: s, Filter: NewFilter("/obj", "/turf"), Frames: &fakeFrames{missing: "lamp"}}
	ds := v.Build(Loc(1, 1, 1), Loc(2, 2, 1), 1, nil)

	assert.Equal(t, 4, len(ds))
	for _, d := range ds {
		assert.Equal(t, "floor", d.State)
	}
}

func TestViewportPixelOffset(t *testing.T) {
	r := testTypes()
	s := floorStore(t, r, 2, 2)
	s.AddObject(Loc(2, 2, 1), inst(t, r, "/obj/lamp").WithVars(map[string]string{"pixel_x": "16"}))

	v := &Viewport{Store: s, Filter: NewFilter("/obj"), IconSize: 32}
	ds := v.Build(Loc(1, 1, 1), Loc(2, 2, 1), 1, nil)

	assert.Equal(t, 1, len(ds))
	assert.Equal(t, 2.5, ds[0].X)
	assert.Equal(t, 2.0, ds[0].Y)
}

func TestViewportOverlays(t *testing.T) {
	r := testTypes()
	s := floorStore(t, r, 3, 1)
	s.ReplaceObject(Loc(3, 1, 1), inst(t, r, "/area/hall"), inst(t, r, "/area/office"))

	v := &Viewport{Store: s}
	ds := v.Build(Loc(1, 1, 1), Loc(3, 1, 1), 1, func(out *Overlay) {
		out.Ghost(Loc(2, 1, 1), inst(t, r, "/obj/lamp"), 100)
		out.Box(Loc(3, 1, 1), Loc(1, 1, 1))
	})

	content := 0
	edges := map[Location]Direction{}
	for i, d := range ds {
		switch d.Kind {
		case DrawContent:
			content++
			assert.Equal(t, content-1, i)
		case DrawBoundary:
			edges[Loc(int(d.X), int(d.Y), d.Z)] = d.Edges
		case DrawGhost:
			assert.Equal(t, uint8(100), d.Alpha)
		case DrawBox:
			assert.Equal(t, 1.0, d.X)
			assert.Equal(t, Loc(3, 1, 1), d.Max)
		}
	}

	assert.Equal(t, 6, content)
	assert.Equal(t, North|South|West, edges[Loc(1, 1, 1)])
	assert.Equal(t, North|South|East, edges[Loc(2, 1, 1)])
	assert.Equal(t, North|South|East|West, edges[Loc(3, 1, 1)])
}
