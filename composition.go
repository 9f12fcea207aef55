package tileedit

import (
	"fmt"
	"log"
	"sort"
	"strings"
)

// Composition is the ordered content of a single tile. By convention
// movables (objs, mobs) come first in insertion order, then the turf, then
// the area.
// Compositions are treated as values: every method returns a new slice.
type Composition []*ObjectInstance

// String is the canonical serialization, eg. /obj/lamp{dir = 4},/turf/floor,/area/hall
func (c Composition) String() string {
	parts := make([]string, len(c))
	for i, o := range c {
		parts[i] = o.String()
	}
	return strings.Join(parts, ",")
}

// Equal returns if both compositions hold equal instances in the same order.
func (c Composition) Equal(o Composition) bool {
	return c.String() == o.String()
}

// Turf returns the first turf in the tile (or nil).
func (c Composition) Turf() *ObjectInstance {
	return c.first(CategoryTurf)
}

// Area returns the first area in the tile (or nil).
func (c Composition) Area() *ObjectInstance {
	return c.first(CategoryArea)
}

func (c Composition) first(cat Category) *ObjectInstance {
	for _, o := range c {
		if o.Category() == cat {
			return o
		}
	}
	return nil
}

// HasType returns if the tile has an instance of path or one of its subtypes.
func (c Composition) HasType(r TypeResolver, path string) bool {
	for _, o := range c {
		if r.IsSubtype(o.Path(), path) {
			return true
		}
	}
	return false
}

// HasExactType returns if the tile has an instance whose type is exactly path.
func (c Composition) HasExactType(path string) bool {
	for _, o := range c {
		if o.Path() == path {
			return true
		}
	}
	return false
}

// Contains returns if an instance equal to o is in the tile.
func (c Composition) Contains(o *ObjectInstance) bool {
	return c.indexOf(o) >= 0
}

// count returns how many instances equal to o are in the tile
func (c Composition) count(o *ObjectInstance) int {
	n := 0
	for _, x := range c {
		if x.Equal(o) {
			n++
		}
	}
	return n
}

func (c Composition) indexOf(o *ObjectInstance) int {
	for i, x := range c {
		if x.Equal(o) {
			return i
		}
	}
	return -1
}

// Add inserts o at the end of its category block.
func (c Composition) Add(o *ObjectInstance) Composition {
	rank := o.Category().rank()
	at := len(c)
	for i, x := range c {
		if x.Category().rank() > rank {
			at = i
			break
		}
	}
	out := make(Composition, 0, len(c)+1)
	out = append(out, c[:at]...)
	out = append(out, o)
	return append(out, c[at:]...)
}

// Merge places o the way a brush does: a turf or area replaces the
// tile's existing turf or area, anything else is added unless an equal
// instance is already there.
func (c Composition) Merge(o *ObjectInstance) Composition {
	cat := o.Category()
	if cat.Singleton() {
		return c.Delete(func(x *ObjectInstance) bool { return x.Category() == cat }).Add(o)
	}
	if c.Contains(o) {
		return c
	}
	return c.Add(o)
}

// Delete returns the composition without instances matching fn.
func (c Composition) Delete(fn func(*ObjectInstance) bool) Composition {
	out := make(Composition, 0, len(c))
	for _, o := range c {
		if !fn(o) {
			out = append(out, o)
		}
	}
	return out
}

// Filtered returns the instances allowed by f.
func (c Composition) Filtered(f *Filter) Composition {
	return c.Delete(func(o *ObjectInstance) bool { return !f.Allows(o) })
}

// Replace swaps the first instance equal to old for replacement.
// If old isn't present the composition is returned unchanged.
func (c Composition) Replace(old, replacement *ObjectInstance) Composition {
	i := c.indexOf(old)
	if i < 0 {
		return c
	}
	out := append(Composition{}, c...)
	out[i] = replacement
	return out
}

// MoveToTop moves o to the end of its category block (drawn last among
// its peers).
func (c Composition) MoveToTop(o *ObjectInstance) Composition {
	i := c.indexOf(o)
	if i < 0 {
		return c
	}
	x := c[i]
	rest := append(append(Composition{}, c[:i]...), c[i+1:]...)
	return rest.Add(x)
}

// MoveToBottom moves o to the start of its category block.
func (c Composition) MoveToBottom(o *ObjectInstance) Composition {
	i := c.indexOf(o)
	if i < 0 {
		return c
	}
	x := c[i]
	rest := append(append(Composition{}, c[:i]...), c[i+1:]...)
	rank := x.Category().rank()
	at := len(rest)
	for j, y := range rest {
		if y.Category().rank() >= rank {
			at = j
			break
		}
	}
	out := make(Composition, 0, len(c))
	out = append(out, rest[:at]...)
	out = append(out, x)
	return append(out, rest[at:]...)
}

// LayerSorted returns the instances in draw order (plane, layer, then
// position in the tile).
func (c Composition) LayerSorted() Composition {
	out := append(Composition{}, c...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Plane() != out[j].Plane() {
			return out[i].Plane() < out[j].Plane()
		}
		return out[i].Layer() < out[j].Layer()
	})
	return out
}

// ParseComposition reads a serialized composition (see String).
// Entries naming types the resolver doesn't know are skipped.
func ParseComposition(in string, r TypeResolver) (Composition, error) {
	c := Composition{}
	for _, entry := range splitTopLevel(in, ',') {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		path := entry
		vars := varList{}
		if i := strings.Index(entry, "{"); i >= 0 {
			if !strings.HasSuffix(entry, "}") {
				return nil, fmt.Errorf("unterminated var block in %q", entry)
			}
			path = strings.TrimSpace(entry[:i])
			var err error
			vars, err = parseVarList(entry[i+1 : len(entry)-1])
			if err != nil {
				return nil, err
			}
		}

		t, ok := r.Resolve(path)
		if !ok {
			log.Printf("skipping unknown type %s", path)
			continue
		}
		c = append(c, NewInstance(t, vars.toMap()))
	}
	return c, nil
}
