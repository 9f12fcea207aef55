package tileedit

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"log"
	"path/filepath"
	"sort"
	"strings"
)

// PrefabsFile is the name of the prefab file in a project dir.
const PrefabsFile = "prefabs.json"

// Prefab is a named rectangular stamp. Tiles are keyed by their position
// relative to the stamp's origin (z is always 0).
type Prefab struct {
	Name   string
	Width  int
	Height int
	Tiles  map[Location]Composition
}

// NewPrefab returns an empty prefab.
func NewPrefab(name string, width, height int) *Prefab {
	return &Prefab{Name: name, Width: width, Height: height, Tiles: map[Location]Composition{}}
}

func (p *Prefab) String() string {
	return fmt.Sprintf("%s (%dx%d)", p.Name, p.Width, p.Height)
}

// Positions returns the relative positions of all tiles, rows low -> high.
func (p *Prefab) Positions() []Location {
	out := make([]Location, 0, len(p.Tiles))
	for l := range p.Tiles {
		out = append(out, l)
	}
	sortLocations(out)
	return out
}

// Fits returns if every tile of the prefab lands inside b when stamped
// with its origin at anchor.
func (p *Prefab) Fits(b Bounds, anchor Location) bool {
	for rel := range p.Tiles {
		if !b.Contains(anchor.Offset(rel.X, rel.Y)) {
			return false
		}
	}
	return true
}

// Stamp merges the prefab onto the store with its origin at anchor.
// A prefab tile with a turf (or area) removes the destination's turf (or
// area) first; everything else is added. Tiles that come out unchanged,
// or fall outside the map, are skipped. Returns the number of tiles changed.
func (p *Prefab) Stamp(s *TileStore, anchor Location) (int, error) {
	changed := 0
	for _, rel := range p.Positions() {
		dst := anchor.Offset(rel.X, rel.Y)
		if !s.Bounds().Contains(dst) {
			continue
		}

		src := p.Tiles[rel]
		ok, err := s.Update(dst, func(c Composition) Composition {
			return mergePrefabTile(c, src)
		})
		if err != nil {
			return changed, err
		}
		if ok {
			changed++
		}
	}
	return changed, nil
}

// mergePrefabTile lays src over dst. Movables already present are not
// doubled up: the k-th copy of an instance in src is only added if dst
// holds fewer than k copies.
func mergePrefabTile(dst, src Composition) Composition {
	out := dst
	for _, cat := range []Category{CategoryTurf, CategoryArea} {
		if src.first(cat) != nil {
			cat := cat
			out = out.Delete(func(o *ObjectInstance) bool { return o.Category() == cat })
		}
	}

	seen := map[string]int{}
	for _, o := range src {
		seen[o.String()]++
		if out.count(o) >= seen[o.String()] {
			continue
		}
		out = out.Add(o)
	}
	return out
}

// CapturePrefab copies the selected tiles out of the store into a new
// prefab sized to the selection's bounding box. Every location must be on
// the same level.
func CapturePrefab(name string, s *TileStore, locs []Location) (*Prefab, error) {
	if len(locs) == 0 {
		return nil, ErrEmptySelection
	}
	for _, l := range locs {
		if l.Z != locs[0].Z {
			return nil, fmt.Errorf("%w: z %d and %d", ErrSpansLevels, locs[0].Z, l.Z)
		}
	}

	lo, hi := locs[0], locs[0]
	for _, l := range locs {
		lo, _ = rect(lo, l)
		_, hi = rect(hi, l)
	}

	p := NewPrefab(name, hi.X-lo.X+1, hi.Y-lo.Y+1)
	for _, l := range locs {
		c := s.At(l)
		if c == nil {
			continue
		}
		p.Tiles[Location{X: l.X - lo.X, Y: l.Y - lo.Y}] = append(Composition{}, c...)
	}
	return p, nil
}

// PrefabSet is the collection of prefabs for a project.
type PrefabSet struct {
	filename string
	prefabs  map[string]*Prefab
}

// prefabDoc is the JSON layout of the prefab file
type prefabDoc struct {
	Prefabs []prefabEntry `json:"prefabs"`
}

type prefabEntry struct {
	Name   string            `json:"name"`
	Width  int               `json:"width"`
	Height int               `json:"height"`
	Tiles  map[string]string `json:"tiles"`
}

// NewPrefabSet returns an empty collection that is never saved.
func NewPrefabSet() *PrefabSet {
	return &PrefabSet{prefabs: map[string]*Prefab{}}
}

// LoadPrefabs reads the prefab file in dir, resolving tile content with r.
// A missing or malformed file gives an empty collection; a tile that
// can't be read is skipped.
func LoadPrefabs(dir string, r TypeResolver) *PrefabSet {
	s := NewPrefabSet()
	s.filename = filepath.Join(dir, PrefabsFile)

	if !fileExists(s.filename) {
		return s
	}
	data, err := ioutil.ReadFile(s.filename)
	if err != nil {
		log.Printf("failed to read %s: %v", s.filename, err)
		return s
	}

	doc := prefabDoc{}
	if err := json.Unmarshal(data, &doc); err != nil {
		log.Printf("ignoring malformed %s: %v", s.filename, err)
		return s
	}

	for _, e := range doc.Prefabs {
		if strings.TrimSpace(e.Name) == "" {
			continue
		}
		p := NewPrefab(e.Name, e.Width, e.Height)
		for pos, content := range e.Tiles {
			rel, err := parseRelKey(pos)
			if err != nil {
				log.Printf("prefab %s: %v", e.Name, err)
				continue
			}
			c, err := ParseComposition(content, r)
			if err != nil {
				log.Printf("prefab %s tile %s: %v", e.Name, pos, err)
				continue
			}
			p.Tiles[rel] = c
		}
		s.prefabs[p.Name] = p
	}
	return s
}

// Filename returns where the prefabs are saved ("" if never).
func (s *PrefabSet) Filename() string {
	return s.filename
}

// Save writes the prefab file (a no-op for a set with no file).
func (s *PrefabSet) Save() error {
	if s.filename == "" {
		return nil
	}

	doc := prefabDoc{Prefabs: []prefabEntry{}}
	for _, name := range s.Names() {
		p := s.prefabs[name]
		e := prefabEntry{Name: p.Name, Width: p.Width, Height: p.Height, Tiles: map[string]string{}}
		for rel, c := range p.Tiles {
			e.Tiles[rel.relKey()] = c.String()
		}
		doc.Prefabs = append(doc.Prefabs, e)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(s.filename, data, 0644)
}

// Get returns the named prefab.
func (s *PrefabSet) Get(name string) (*Prefab, bool) {
	p, ok := s.prefabs[name]
	return p, ok
}

// Names returns all prefab names, sorted.
func (s *PrefabSet) Names() []string {
	names := make([]string, 0, len(s.prefabs))
	for n := range s.prefabs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Put adds (or replaces) a prefab and saves.
func (s *PrefabSet) Put(p *Prefab) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("prefab name required")
	}
	s.prefabs[p.Name] = p
	return s.Save()
}

// Create adds an empty prefab and saves.
func (s *PrefabSet) Create(name string, width, height int) (*Prefab, error) {
	p := NewPrefab(strings.TrimSpace(name), width, height)
	return p, s.Put(p)
}

// Delete removes a prefab and saves.
func (s *PrefabSet) Delete(name string) error {
	if _, ok := s.prefabs[name]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPrefab, name)
	}
	delete(s.prefabs, name)
	return s.Save()
}

// sortLocations orders by z, then y, then x
func sortLocations(ls []Location) {
	sort.Slice(ls, func(i, j int) bool {
		if ls[i].Z != ls[j].Z {
			return ls[i].Z < ls[j].Z
		}
		if ls[i].Y != ls[j].Y {
			return ls[i].Y < ls[j].Y
		}
		return ls[i].X < ls[j].X
	})
}
