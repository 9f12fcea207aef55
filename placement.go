package tileedit

import (
	"log"
	"math/rand"
)

// Modifiers are the modifier keys held when a gesture starts.
type Modifiers struct {
	Ctrl  bool
	Shift bool
	Alt   bool
}

// Any returns if any modifier is held.
func (m Modifiers) Any() bool {
	return m.Ctrl || m.Shift || m.Alt
}

// ModeKind names a placement mode.
type ModeKind int

const (
	ModeDefault ModeKind = iota
	ModeSelect
	ModeDelete
	ModePicker
	ModeRandom
	ModeRectangle
	ModeAdjacent
	ModePrefab
)

var modeNames = map[ModeKind]string{
	ModeDefault:   "default",
	ModeSelect:    "select",
	ModeDelete:    "delete",
	ModePicker:    "picker",
	ModeRandom:    "random",
	ModeRectangle: "rectangle",
	ModeAdjacent:  "adjacent",
	ModePrefab:    "prefab",
}

func (k ModeKind) String() string {
	if n, ok := modeNames[k]; ok {
		return n
	}
	return "unknown"
}

// ParseModeKind reads a mode name as printed by String.
func ParseModeKind(in string) (ModeKind, bool) {
	for k, n := range modeNames {
		if n == in {
			return k, true
		}
	}
	return 0, false
}

// modeTable builds a fresh mode for each kind.
var modeTable = map[ModeKind]func() Mode{
	ModeDefault:   func() Mode { return &defaultMode{kind: ModeDefault} },
	ModeRectangle: func() Mode { return &defaultMode{kind: ModeRectangle} },
	ModeAdjacent:  func() Mode { return &defaultMode{kind: ModeAdjacent} },
	ModeSelect:    func() Mode { return &selectMode{} },
	ModeDelete:    func() Mode { return &deleteMode{} },
	ModePicker:    func() Mode { return &pickerMode{} },
	ModeRandom:    func() Mode { return &randomMode{} },
	ModePrefab:    func() Mode { return &prefabMode{} },
}

// Context is the editing state handed to every mode & handler call.
type Context struct {
	Store     *TileStore
	Types     TypeResolver
	Attach    *Propagator
	Brush     *ObjectInstance
	Filter    *Filter
	Mods      Modifiers
	Chance    float64
	Rand      *rand.Rand
	Prefab    *Prefab
	Selection *Selection
}

// stamp places the brush at l then propagates attachments. Returns if the
// tile changed.
func (c *Context) stamp(l Location) bool {
	if c.Brush == nil || !c.Store.Bounds().Contains(l) {
		return false
	}
	changed, err := c.Store.MergeObject(l, c.Brush)
	if err != nil {
		log.Printf("failed to place %s at %v: %v", c.Brush, l, err)
		return false
	}
	if changed && c.Attach != nil {
		c.Attach.Apply(l, c.Brush)
	}
	return changed
}

// Mode decides what a pointer press does.
type Mode interface {
	// Kind of the mode
	Kind() ModeKind

	// Handler for a press at l, or nil if the press is handled on the spot
	Handler(ctx *Context, l Location) Handler

	// Visualize adds the mode's own previews
	Visualize(ctx *Context, out *Overlay)

	// Flush finishes anything the mode has pending. Called before the
	// editor switches away from the mode.
	Flush(ctx *Context)
}

// Handler runs a single press-drag-release gesture.
type Handler interface {
	// Init is called on press
	Init(ctx *Context, l Location)

	// DragTo is called once for each new tile the pointer enters
	DragTo(ctx *Context, l Location)

	// Finalize is called on release
	Finalize(ctx *Context)

	// Visualize adds previews of the gesture in progress
	Visualize(ctx *Context, out *Overlay)
}

// hoverer is implemented by modes that track the idle pointer.
type hoverer interface {
	Hover(ctx *Context, l Location)
}
