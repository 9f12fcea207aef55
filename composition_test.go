package tileedit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompositionOrdering(t *testing.T) {
	r := testTypes()

	c := Composition{}
	c = c.Add(inst(t, r, "/area/hall"))
	c = c.Add(inst(t, r, "/turf/floor"))
	c = c.Add(inst(t, r, "/obj/lamp"))
	c = c.Add(inst(t, r, "/mob/cat"))

	assert.Equal(t, "/obj/lamp,/mob/cat,/turf/floor,/area/hall", c.String())
	assert.Equal(t, "/turf/floor", c.Turf().Path())
	assert.Equal(t, "/area/hall", c.Area().Path())
}

func TestCompositionMerge(t *testing.T) {
	r := testTypes()
	c := comp(t, r, "/obj/lamp", "/turf/floor", "/area/hall")

	walled := c.Merge(inst(t, r, "/turf/wall"))
	assert.Equal(t, "/obj/lamp,/turf/wall,/area/hall", walled.String())

	// the original is untouched
	assert.Equal(t, "/obj/lamp,/turf/floor,/area/hall", c.String())

	same := c.Merge(inst(t, r, "/obj/lamp"))
	assert.True(t, same.Equal(c))

	lit := c.Merge(inst(t, r, "/obj/lamp").WithVars(map[string]string{"dir": "4"}))
	assert.Equal(t, "/obj/lamp,/obj/lamp{dir = 4},/turf/floor,/area/hall", lit.String())
}

func TestCompositionMoves(t *testing.T) {
	r := testTypes()
	lamp := inst(t, r, "/obj/lamp")
	grille := inst(t, r, "/obj/grille")
	cat := inst(t, r, "/mob/cat")
	c := Composition{lamp, grille, cat, inst(t, r, "/turf/floor")}

	assert.Equal(t, "/obj/grille,/mob/cat,/obj/lamp,/turf/floor", c.MoveToTop(lamp).String())
	assert.Equal(t, "/mob/cat,/obj/lamp,/obj/grille,/turf/floor", c.MoveToBottom(cat).String())
	assert.True(t, c.MoveToTop(inst(t, r, "/obj/window")).Equal(c))
}

func TestCompositionReplace(t *testing.T) {
	r := testTypes()
	lamp := inst(t, r, "/obj/lamp")
	c := comp(t, r, "/obj/lamp", "/turf/floor")

	out := c.Replace(lamp, lamp.WithVars(map[string]string{"name": `"desk lamp"`}))
	assert.Equal(t, `/obj/lamp{name = "desk lamp"},/turf/floor`, out.String())
}

func TestLayerSorted(t *testing.T) {
	r := testTypes()
	high := inst(t, r, "/obj/grille").WithVars(map[string]string{"layer": "5"})
	c := Composition{high, inst(t, r, "/obj/lamp"), inst(t, r, "/turf/floor"), inst(t, r, "/area/hall")}

	sorted := c.LayerSorted()
	paths := []string{}
	for _, o := range sorted {
		paths = append(paths, o.Path())
	}
	assert.Equal(t, []string{"/area/hall", "/turf/floor", "/obj/lamp", "/obj/grille"}, paths)
}

func TestParseComposition(t *testing.T) {
	r := testTypes()
	in := `/obj/lamp{dir = 4; name = "a; b"},/obj/unknown,/turf/floor,/area/hall`

	c, err := ParseComposition(in, r)
	assert.Nil(t, err)
	assert.Equal(t, 3, len(c))
	assert.Equal(t, 4, c[0].Dir())

	name, ok := c[0].Var("name")
	assert.True(t, ok)
	assert.Equal(t, `"a; b"`, name)

	again, err := ParseComposition(c.String(), r)
	assert.Nil(t, err)
	assert.True(t, again.Equal(c))
}

func TestParseCompositionErrors(t *testing.T) {
	r := testTypes()

	_, err := ParseComposition("/obj/lamp{dir = 4", r)
	assert.NotNil(t, err)

	_, err = ParseComposition("/obj/lamp{dir}", r)
	assert.NotNil(t, err)

	c, err := ParseComposition("", r)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(c))
}

func TestInstanceVars(t *testing.T) {
	r := testTypes()
	lamp := inst(t, r, "/obj/lamp").WithVars(map[string]string{
		"icon_state": `"lamp_on"`,
		"pixel_x":    "16",
	})

	assert.Equal(t, "lamp_on", lamp.IconState())
	assert.Equal(t, "icons/obj.dmi", lamp.Icon())
	assert.Equal(t, int(South), lamp.Dir())
	x, y := lamp.PixelOffset()
	assert.Equal(t, 16, x)
	assert.Equal(t, 0, y)
	assert.Equal(t, `/obj/lamp{icon_state = "lamp_on"; pixel_x = 16}`, lamp.String())
}
