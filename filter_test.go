package tileedit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultFilter(t *testing.T) {
	r := testTypes()
	f := DefaultFilter()

	for _, p := range []string{"/obj/lamp", "/mob/cat", "/turf/floor", "/area/hall"} {
		assert.True(t, f.Allows(inst(t, r, p)), p)
	}
	assert.False(t, f.Allows(nil))
}

func TestFilterMostSpecificWins(t *testing.T) {
	r := testTypes()
	f := NewFilter("~/obj/effect", "/obj", "", "/turf")

	assert.Equal(t, []string{"/obj", "/turf", "~/obj/effect"}, f.Lines())
	assert.True(t, f.Allows(inst(t, r, "/obj/lamp")))
	assert.False(t, f.Allows(inst(t, r, "/obj/effect/decal")))
	assert.True(t, f.Allows(inst(t, r, "/turf/wall")))
	assert.False(t, f.Allows(inst(t, r, "/area/hall")))
}

func TestCompositionFiltered(t *testing.T) {
	r := testTypes()
	c := comp(t, r, "/obj/lamp", "/turf/floor", "/area/hall")

	out := c.Filtered(NewFilter("/turf"))
	assert.Equal(t, "/turf/floor", out.String())
}
