package tileedit

import (
	"fmt"

	"github.com/zyedidia/generic/mapset"
)

// Selection is a set of selected tiles.
type Selection struct {
	set mapset.Set[Location]
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{set: mapset.New[Location]()}
}

// Add l to the selection
func (s *Selection) Add(l Location) {
	s.set.Put(l)
}

// Remove l from the selection
func (s *Selection) Remove(l Location) {
	s.set.Remove(l)
}

// Has returns if l is selected
func (s *Selection) Has(l Location) bool {
	return s.set.Has(l)
}

// Len is the number of selected tiles
func (s *Selection) Len() int {
	return s.set.Size()
}

// Clear empties the selection
func (s *Selection) Clear() {
	s.set = mapset.New[Location]()
}

// Locations returns the selected tiles ordered by z, y, x.
func (s *Selection) Locations() []Location {
	out := make([]Location, 0, s.set.Size())
	s.set.Each(func(l Location) {
		out = append(out, l)
	})
	sortLocations(out)
	return out
}

// Status describes the selection size for display.
func (s *Selection) Status() string {
	switch n := s.Len(); n {
	case 0:
		return "No tiles selected."
	case 1:
		return "1 tile selected."
	default:
		return fmt.Sprintf("%d tiles selected.", n)
	}
}

// FloatingSelection is a block of tile content lifted off (or pasted over)
// the map, waiting to be anchored back down. Tiles are keyed relative to
// Origin.
type FloatingSelection struct {
	Origin Location
	Width  int
	Height int
	tiles  map[Location]Composition
}

// copySelection buffers the filtered content of the selected tiles without
// touching the map.
func copySelection(s *TileStore, locs []Location, f *Filter) (*FloatingSelection, error) {
	p, err := CapturePrefab("", s, locs)
	if err != nil {
		return nil, err
	}

	lo := locs[0]
	for _, l := range locs {
		lo, _ = rect(lo, l)
	}

	fs := &FloatingSelection{Origin: lo, Width: p.Width, Height: p.Height, tiles: map[Location]Composition{}}
	for rel, c := range p.Tiles {
		fs.tiles[rel] = c.Filtered(f)
	}
	return fs, nil
}

// liftSelection buffers the selected tiles' filtered content & deletes it
// from the map. Deletions are recorded.
func liftSelection(s *TileStore, locs []Location, f *Filter) (*FloatingSelection, error) {
	fs, err := copySelection(s, locs, f)
	if err != nil {
		return nil, err
	}
	for _, l := range locs {
		if _, err := s.DeleteMatching(l, f.Allows); err != nil {
			return nil, err
		}
	}
	return fs, nil
}

// Contains returns if l lies within the floating block.
func (fs *FloatingSelection) Contains(l Location) bool {
	return l.Z == fs.Origin.Z &&
		l.X >= fs.Origin.X && l.X < fs.Origin.X+fs.Width &&
		l.Y >= fs.Origin.Y && l.Y < fs.Origin.Y+fs.Height
}

// Move shifts the block by (dx,dy).
func (fs *FloatingSelection) Move(dx, dy int) {
	fs.Origin = fs.Origin.Offset(dx, dy)
}

// Positions returns relative positions of buffered tiles.
func (fs *FloatingSelection) Positions() []Location {
	out := make([]Location, 0, len(fs.tiles))
	for l := range fs.tiles {
		out = append(out, l)
	}
	sortLocations(out)
	return out
}

// Tile returns the buffered content at a relative position.
func (fs *FloatingSelection) Tile(rel Location) (Composition, bool) {
	c, ok := fs.tiles[rel]
	return c, ok
}

// clone returns an independent copy (for the clipboard)
func (fs *FloatingSelection) clone() *FloatingSelection {
	cp := &FloatingSelection{Origin: fs.Origin, Width: fs.Width, Height: fs.Height, tiles: map[Location]Composition{}}
	for l, c := range fs.tiles {
		cp.tiles[l] = append(Composition{}, c...)
	}
	return cp
}

// Anchor writes every buffered tile to the map at its current position,
// replacing whatever is there. Changes are recorded; tiles landing off the
// map are dropped.
func (fs *FloatingSelection) Anchor(s *TileStore) error {
	for _, rel := range fs.Positions() {
		dst := fs.Origin.Offset(rel.X, rel.Y)
		if !s.Bounds().Contains(dst) {
			continue
		}
		if _, err := s.Set(dst, s.KeyFor(fs.tiles[rel])); err != nil {
			return err
		}
	}
	return nil
}
