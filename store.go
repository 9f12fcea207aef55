package tileedit

import (
	"fmt"
	"sort"
)

const keyAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// TileStore is a content addressed grid. Every location maps to a key and
// every key to a composition; identical content always shares one key.
// Keys are never evicted since undo history may refer to them.
type TileStore struct {
	bounds    Bounds
	tiles     map[Location]string
	byKey     map[string]Composition
	byContent map[string]string
	next      int
	diffs     *DiffRecorder
}

// NewTileStore returns an empty store covering the given bounds.
func NewTileStore(b Bounds) *TileStore {
	return &TileStore{
		bounds:    b,
		tiles:     map[Location]string{},
		byKey:     map[string]Composition{},
		byContent: map[string]string{},
	}
}

// Bounds of the grid.
func (s *TileStore) Bounds() Bounds {
	return s.bounds
}

// Len returns the number of set tiles.
func (s *TileStore) Len() int {
	return len(s.tiles)
}

// Get returns the key at l.
func (s *TileStore) Get(l Location) (string, bool) {
	k, ok := s.tiles[l]
	return k, ok
}

// Put sets the key at l with no recording. "" clears the tile.
func (s *TileStore) Put(l Location, key string) error {
	if !s.bounds.Contains(l) {
		return fmt.Errorf("%w: %v", ErrOutOfBounds, l)
	}
	if key == "" {
		delete(s.tiles, l)
		return nil
	}
	if _, ok := s.byKey[key]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	s.tiles[l] = key
	return nil
}

// Composition returns the content stored under key.
func (s *TileStore) Composition(key string) (Composition, bool) {
	c, ok := s.byKey[key]
	return c, ok
}

// At returns the composition at l (nil if unset).
func (s *TileStore) At(l Location) Composition {
	k, ok := s.tiles[l]
	if !ok {
		return nil
	}
	return s.byKey[k]
}

// KeyFor returns the key for c, reusing the key of any structurally equal
// composition.
func (s *TileStore) KeyFor(c Composition) string {
	content := c.String()
	if k, ok := s.byContent[content]; ok {
		return k
	}

	k := s.mint()
	s.byKey[k] = append(Composition{}, c...)
	s.byContent[content] = k
	return k
}

// Intern registers c under an existing key (as read from a saved map).
// The first key seen for some content is the one KeyFor will hand out.
func (s *TileStore) Intern(key string, c Composition) error {
	if key == "" {
		return fmt.Errorf("cannot intern empty key")
	}
	if have, ok := s.byKey[key]; ok {
		if !have.Equal(c) {
			return fmt.Errorf("key %s already holds different content", key)
		}
		return nil
	}
	s.byKey[key] = append(Composition{}, c...)
	content := c.String()
	if _, ok := s.byContent[content]; !ok {
		s.byContent[content] = key
	}
	return nil
}

// Keys returns all resident keys, sorted.
func (s *TileStore) Keys() []string {
	keys := make([]string, 0, len(s.byKey))
	for k := range s.byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Each calls fn for every set tile.
func (s *TileStore) Each(fn func(Location, string)) {
	for l, k := range s.tiles {
		fn(l, k)
	}
}

// Fill sets every tile within b to c. Nothing is recorded.
func (s *TileStore) Fill(b Bounds, c Composition) error {
	key := s.KeyFor(c)
	for z := b.Min.Z; z <= b.Max.Z; z++ {
		for y := b.Min.Y; y <= b.Max.Y; y++ {
			for x := b.Min.X; x <= b.Max.X; x++ {
				if err := s.Put(Location{X: x, Y: y, Z: z}, key); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Record sends all further changes made through the store's edit
// functions to d (nil to stop recording).
func (s *TileStore) Record(d *DiffRecorder) {
	s.diffs = d
}

// AddObject adds o to the tile at l (see Composition.Add).
func (s *TileStore) AddObject(l Location, o *ObjectInstance) (bool, error) {
	return s.Update(l, func(c Composition) Composition { return c.Add(o) })
}

// MergeObject places o as a brush would (see Composition.Merge).
func (s *TileStore) MergeObject(l Location, o *ObjectInstance) (bool, error) {
	return s.Update(l, func(c Composition) Composition { return c.Merge(o) })
}

// DeleteMatching removes every instance at l for which fn returns true.
func (s *TileStore) DeleteMatching(l Location, fn func(*ObjectInstance) bool) (bool, error) {
	return s.Update(l, func(c Composition) Composition { return c.Delete(fn) })
}

// ReplaceObject swaps old for replacement at l.
func (s *TileStore) ReplaceObject(l Location, old, replacement *ObjectInstance) (bool, error) {
	return s.Update(l, func(c Composition) Composition { return c.Replace(old, replacement) })
}

// Update reads the tile at l, applies fn and stores the result, recording
// the change. An unset tile is read as empty. Returns if the key changed.
func (s *TileStore) Update(l Location, fn func(Composition) Composition) (bool, error) {
	if !s.bounds.Contains(l) {
		return false, fmt.Errorf("%w: %v", ErrOutOfBounds, l)
	}
	old, ok := s.tiles[l]
	c := fn(s.byKey[old])
	if !ok && len(c) == 0 {
		return false, nil
	}
	return s.Set(l, s.KeyFor(c))
}

// Set puts key at l and records the change. Returns if the key changed.
func (s *TileStore) Set(l Location, key string) (bool, error) {
	old, _ := s.Get(l)
	if old == key {
		return false, nil
	}
	if err := s.Put(l, key); err != nil {
		return false, err
	}
	if s.diffs != nil {
		s.diffs.Record(l, old, key)
	}
	return true, nil
}

// mint returns a new unused key: a, b, .. Z, aa, ab ..
func (s *TileStore) mint() string {
	for {
		n := s.next
		s.next++

		buf := []byte{}
		for {
			buf = append([]byte{keyAlphabet[n%len(keyAlphabet)]}, buf...)
			n = n/len(keyAlphabet) - 1
			if n < 0 {
				break
			}
		}

		k := string(buf)
		if _, taken := s.byKey[k]; !taken {
			return k
		}
	}
}
