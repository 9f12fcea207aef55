package tileedit

import "errors"

var (
	// ErrResolverNotReady is returned when an edit arrives before type
	// definitions have been published.
	ErrResolverNotReady = errors.New("type resolver not ready")

	// ErrOutOfBounds indicates a location outside the map.
	ErrOutOfBounds = errors.New("location out of bounds")

	// ErrUnknownKey indicates a key that isn't resident in the store.
	ErrUnknownKey = errors.New("unknown tile key")

	// ErrNoBrush indicates a placement with no current brush.
	ErrNoBrush = errors.New("no object selected")

	// ErrUnknownPrefab indicates a prefab name that isn't loaded.
	ErrUnknownPrefab = errors.New("unknown prefab")

	// ErrEmptySelection indicates a selection operation with nothing selected.
	ErrEmptySelection = errors.New("nothing selected")

	// ErrSpansLevels indicates a selection covering more than one z level.
	ErrSpansLevels = errors.New("selection spans more than one level")

	// ErrUnknownMode indicates a mode outside the known set.
	ErrUnknownMode = errors.New("unknown placement mode")
)
