package tileedit

// Grid is the primitive location <-> key and key <-> composition contract
// shared by the store and anything that reads or writes maps.
type Grid interface {
	// Get the key of the tile at l (false if unset)
	Get(l Location) (string, bool)

	// Put the given key at l, overwriting whatever was there.
	// Putting "" clears the tile.
	Put(l Location, key string) error

	// Composition returns the content stored under key
	Composition(key string) (Composition, bool)

	// KeyFor returns the key for c, minting one if c hasn't been seen
	KeyFor(c Composition) string
}
