package tileedit

import (
	"testing"
)

// testTypes is a small type tree shared by the tests
func testTypes() *StaticResolver {
	return NewStaticResolver(
		&TypeRef{Path: "/turf", Icon: "icons/turf.dmi"},
		&TypeRef{Path: "/turf/floor", IconState: "floor"},
		&TypeRef{Path: "/turf/wall", IconState: "wall"},
		&TypeRef{Path: "/area", Icon: "icons/areas.dmi"},
		&TypeRef{Path: "/area/hall", IconState: "hall"},
		&TypeRef{Path: "/area/office", IconState: "office"},
		&TypeRef{Path: "/obj", Icon: "icons/obj.dmi"},
		&TypeRef{Path: "/obj/lamp", IconState: "lamp"},
		&TypeRef{Path: "/obj/grille", IconState: "grille"},
		&TypeRef{Path: "/obj/window", IconState: "window"},
		&TypeRef{Path: "/obj/effect/decal", IconState: "decal"},
		&TypeRef{Path: "/mob/cat", Icon: "icons/mob.dmi", IconState: "cat"},
	)
}

// inst returns a plain instance of path
func inst(t *testing.T, r TypeResolver, path string) *ObjectInstance {
	def, ok := r.Resolve(path)
	if !ok {
		t.Fatalf("unknown test type %s", path)
	}
	return NewInstance(def, nil)
}

// comp builds a composition from type paths
func comp(t *testing.T, r TypeResolver, paths ...string) Composition {
	c := Composition{}
	for _, p := range paths {
		c = c.Add(inst(t, r, p))
	}
	return c
}

// floorStore returns a w*h single level store with every tile set to
// floor + hall
func floorStore(t *testing.T, r TypeResolver, w, h int) *TileStore {
	s := NewTileStore(Bounds{Min: Loc(1, 1, 1), Max: Loc(w, h, 1)})
	if err := s.Fill(s.Bounds(), comp(t, r, "/turf/floor", "/area/hall")); err != nil {
		t.Fatal(err)
	}
	return s
}

// testEditor returns a ready editor over a w*h floor store
func testEditor(t *testing.T, w, h int) (*Editor, *StaticResolver) {
	r := testTypes()
	cfg := DefaultConfig()
	cfg.MapWidth = uint(w)
	cfg.MapHeight = uint(h)
	cfg.Seed = 42

	e := NewEditor(cfg, floorStore(t, r, w, h))
	e.SetResolver(r)
	return e, r
}
