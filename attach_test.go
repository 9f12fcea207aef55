package tileedit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	lampKey   = "icons/obj.dmi#lamp"
	grilleKey = "icons/obj.dmi#grille"
)

// place merges o at l the way a brush would & propagates
func place(t *testing.T, p *Propagator, s *TileStore, l Location, o *ObjectInstance) int {
	if _, err := s.MergeObject(l, o); err != nil {
		t.Fatal(err)
	}
	return p.Apply(l, o)
}

func TestAttachNorth(t *testing.T) {
	r := testTypes()
	s := floorStore(t, r, 5, 5)
	rules := NewRuleSet()
	rules.Set(lampKey, DirRules{North: {"/obj/grille"}})
	p := NewPropagator(s, rules, r)

	n := place(t, p, s, Loc(3, 3, 1), inst(t, r, "/obj/lamp"))

	assert.Equal(t, 1, n)
	assert.True(t, s.At(Loc(3, 4, 1)).HasExactType("/obj/grille"))
	assert.False(t, s.At(Loc(3, 2, 1)).HasExactType("/obj/grille"))
}

func TestAttachEastIsMirrored(t *testing.T) {
	r := testTypes()
	s := floorStore(t, r, 5, 5)
	rules := NewRuleSet()
	rules.Set(lampKey, DirRules{East: {"/obj/grille"}, West: {"/obj/window"}})
	p := NewPropagator(s, rules, r)

	n := place(t, p, s, Loc(3, 3, 1), inst(t, r, "/obj/lamp"))

	assert.Equal(t, 2, n)
	assert.True(t, s.At(Loc(2, 3, 1)).HasExactType("/obj/grille"))
	assert.True(t, s.At(Loc(4, 3, 1)).HasExactType("/obj/window"))
}

func TestAttachChains(t *testing.T) {
	r := testTypes()
	s := floorStore(t, r, 5, 5)
	rules := NewRuleSet()
	rules.Set(lampKey, DirRules{North: {"/obj/grille"}})
	rules.Set(grilleKey, DirRules{North: {"/obj/window"}})
	p := NewPropagator(s, rules, r)

	n := place(t, p, s, Loc(3, 1, 1), inst(t, r, "/obj/lamp"))

	assert.Equal(t, 2, n)
	assert.True(t, s.At(Loc(3, 2, 1)).HasExactType("/obj/grille"))
	assert.True(t, s.At(Loc(3, 3, 1)).HasExactType("/obj/window"))
}

func TestAttachDepthCap(t *testing.T) {
	r := testTypes()
	s := floorStore(t, r, 5, 5)
	rules := NewRuleSet()
	rules.Set(lampKey, DirRules{North: {"/obj/grille"}})
	rules.Set(grilleKey, DirRules{North: {"/obj/window"}})
	p := NewPropagator(s, rules, r)
	p.MaxDepth = 0

	n := place(t, p, s, Loc(3, 1, 1), inst(t, r, "/obj/lamp"))

	assert.Equal(t, 1, n)
	assert.False(t, s.At(Loc(3, 3, 1)).HasExactType("/obj/window"))
}

func TestAttachReciprocalTerminates(t *testing.T) {
	r := testTypes()
	s := floorStore(t, r, 6, 6)
	rules := NewRuleSet()
	rules.Set(lampKey, DirRules{North: {"/obj/grille"}})
	rules.Set(grilleKey, DirRules{South: {"/obj/lamp"}})
	p := NewPropagator(s, rules, r)

	n := place(t, p, s, Loc(3, 3, 1), inst(t, r, "/obj/lamp"))

	assert.Equal(t, 1, n)
	assert.Equal(t, "/obj/lamp,/turf/floor,/area/hall", s.At(Loc(3, 3, 1)).String())
	assert.Equal(t, "/obj/grille,/turf/floor,/area/hall", s.At(Loc(3, 4, 1)).String())
}

func TestAttachSkipsMatchingNeighbour(t *testing.T) {
	r := testTypes()
	s := floorStore(t, r, 5, 5)
	rules := NewRuleSet()
	rules.Set(lampKey, DirRules{North: {"/obj/grille"}, South: {"/obj/grille"}})
	p := NewPropagator(s, rules, r)

	lit := s.KeyFor(comp(t, r, "/obj/lamp", "/turf/floor", "/area/hall"))
	s.Put(Loc(3, 4, 1), lit)

	n := place(t, p, s, Loc(3, 3, 1), inst(t, r, "/obj/lamp"))

	assert.Equal(t, 1, n)
	assert.False(t, s.At(Loc(3, 4, 1)).HasExactType("/obj/grille"))
	assert.True(t, s.At(Loc(3, 2, 1)).HasExactType("/obj/grille"))
}

func TestAttachSkipsUnsetAndOffMap(t *testing.T) {
	r := testTypes()
	s := NewTileStore(Bounds{Min: Loc(1, 1, 1), Max: Loc(3, 3, 1)})
	s.Put(Loc(2, 3, 1), s.KeyFor(comp(t, r, "/turf/floor")))
	rules := NewRuleSet()
	rules.Set(lampKey, DirRules{North: {"/obj/grille"}, South: {"/obj/grille"}, East: {"/obj/grille"}})
	p := NewPropagator(s, rules, r)

	n := place(t, p, s, Loc(2, 3, 1), inst(t, r, "/obj/lamp"))

	assert.Equal(t, 0, n)
	assert.Equal(t, 2, len(s.Keys()))
}

func TestAttachSkipsExistingCompanion(t *testing.T) {
	r := testTypes()
	s := floorStore(t, r, 5, 5)
	rules := NewRuleSet()
	rules.Set(lampKey, DirRules{North: {"/obj/grille", "/turf/wall"}})
	p := NewPropagator(s, rules, r)
	s.AddObject(Loc(3, 4, 1), inst(t, r, "/obj/grille"))

	n := place(t, p, s, Loc(3, 3, 1), inst(t, r, "/obj/lamp"))

	// the grille is already there, only the wall goes in
	assert.Equal(t, 1, n)
	assert.Equal(t, "/obj/grille,/turf/floor,/turf/wall,/area/hall", s.At(Loc(3, 4, 1)).String())
}

func TestAttachAdversarialRulesTerminate(t *testing.T) {
	r := testTypes()
	keys := []string{lampKey, grilleKey, "icons/obj.dmi#window"}
	paths := []string{"/obj/lamp", "/obj/grille", "/obj/window"}
	origin := Loc(11, 11, 1)

	// every rule table where each type places one other type in one direction
	for seed := 0; seed < 81; seed++ {
		rules := NewRuleSet()
		n := seed
		for i, k := range keys {
			d := Cardinals[n%4]
			n /= 4
			target := paths[(i+1+n%2)%3]
			n /= 2
			rules.Set(k, DirRules{d: {target}, Cardinals[(seed+i)%4]: {paths[(i+2)%3]}})
		}

		s := floorStore(t, r, 21, 21)
		before := map[Location]string{}
		s.Each(func(l Location, k string) { before[l] = k })

		p := NewPropagator(s, rules, r)
		p.MaxDepth = 3
		placed := place(t, p, s, origin, inst(t, r, "/obj/lamp"))

		// a cascade expands at most MaxDepth+1 steps from the origin &
		// adds at most one of each movable per tile
		reach := p.MaxDepth + 1
		changed := 0
		s.Each(func(l Location, k string) {
			if k == before[l] {
				return
			}
			changed++
			dist := abs(l.X-origin.X) + abs(l.Y-origin.Y)
			assert.True(t, dist <= reach, "seed %d changed %v at distance %d", seed, l, dist)
		})
		diamond := 2*reach*(reach+1) + 1
		assert.True(t, changed <= diamond, "seed %d changed %d tiles", seed, changed)
		assert.True(t, placed <= 3*diamond, "seed %d placed %d", seed, placed)

		// and it is stable: placing again at the origin adds nothing
		assert.Equal(t, 0, p.Apply(origin, inst(t, r, "/obj/lamp")), "seed %d", seed)
	}
}
