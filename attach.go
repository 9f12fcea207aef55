package tileedit

// DefaultAttachDepth bounds how many companions deep propagation goes.
const DefaultAttachDepth = 8

// Propagator places "attached" companion objects around a newly placed
// instance according to a RuleSet, recursing into the companions' own
// rules.
//
// Reciprocal rules (A places B to the north, B places A to the south) would
// bounce forever on a uniform field, so a neighbour is skipped when
//   - its key equals the key of the tile being expanded
//   - it already holds the type being expanded
//   - its key equals the key of the tile the cascade started at
//   - it already holds the type the cascade started with
//
// and each (location, rule key) pair is expanded at most once. The depth
// cap is a backstop.
type Propagator struct {
	store    *TileStore
	rules    *RuleSet
	types    TypeResolver
	MaxDepth int
}

// NewPropagator returns a propagator editing store.
func NewPropagator(store *TileStore, rules *RuleSet, types TypeResolver) *Propagator {
	return &Propagator{store: store, rules: rules, types: types, MaxDepth: DefaultAttachDepth}
}

// visit is one expanded (location, rule key) pair
type visit struct {
	loc Location
	key string
}

// cascade holds the fixed context of one Apply call
type cascade struct {
	visited  map[visit]bool
	rootKey  string
	rootType string
	placed   int
}

// Apply propagates companions around origin, where base has just been
// placed. Returns the number of companions inserted.
func (p *Propagator) Apply(origin Location, base *ObjectInstance) int {
	if p.rules == nil || p.types == nil || base == nil {
		return 0
	}
	rootKey, _ := p.store.Get(origin)
	c := &cascade{
		visited:  map[visit]bool{},
		rootKey:  rootKey,
		rootType: base.Path(),
	}
	p.propagate(c, origin, base, 0)
	return c.placed
}

func (p *Propagator) propagate(c *cascade, loc Location, base *ObjectInstance, depth int) {
	if depth > p.MaxDepth {
		return
	}

	ruleKey := RuleKeyOf(base)
	v := visit{loc: loc, key: ruleKey}
	if c.visited[v] {
		return
	}
	c.visited[v] = true

	rules := p.rules.Get(ruleKey)
	if rules.Empty() {
		return
	}

	for _, dir := range Cardinals {
		if len(rules[dir]) == 0 {
			continue
		}

		n := loc.attachStep(dir)
		if !p.store.Bounds().Contains(n) {
			continue
		}
		nKey, ok := p.store.Get(n)
		if !ok || p.skip(c, loc, n, nKey, base) {
			continue
		}
		for _, path := range rules[dir] {
			p.place(c, n, path, depth)
		}
	}
}

// skip returns if neighbour n must be left alone while expanding base at loc
func (p *Propagator) skip(c *cascade, loc, n Location, nKey string, base *ObjectInstance) bool {
	if cur, _ := p.store.Get(loc); nKey == cur {
		return true
	}
	tile := p.store.At(n)
	if tile.HasType(p.types, base.Path()) {
		return true
	}
	if nKey == c.rootKey {
		return true
	}
	return tile.HasType(p.types, c.rootType)
}

// place adds one companion of type path at n then expands it
func (p *Propagator) place(c *cascade, n Location, path string, depth int) {
	tile := p.store.At(n)
	if tile.HasType(p.types, path) {
		return
	}
	def, ok := p.types.Resolve(path)
	if !ok {
		return
	}
	if CategoryOf(def.Path).Singleton() && tile.HasExactType(def.Path) {
		return
	}

	companion := NewInstance(def, nil)
	changed, err := p.store.AddObject(n, companion)
	if err != nil || !changed {
		return
	}
	c.placed++
	p.propagate(c, n, companion, depth+1)
}
