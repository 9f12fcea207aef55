package tileedit

import (
	"sort"
)

// DrawKind says what a Drawable represents.
type DrawKind int

const (
	// DrawContent is an instance on the map
	DrawContent DrawKind = iota
	// DrawBoundary marks tile edges where the area changes
	DrawBoundary
	// DrawSelection marks the outer edges of the selection
	DrawSelection
	// DrawGhost is a translucent preview of content not (yet) on the map
	DrawGhost
	// DrawBox outlines a rectangle being dragged out (Min -> Max)
	DrawBox
)

const (
	ghostPlane    = 100
	boundaryPlane = 101
)

// Frame is whatever the visual resolver hands back for an icon frame.
type Frame interface{}

// FrameResolver finds the frame for an icon, state & direction.
type FrameResolver interface {
	Frame(icon, state string, dir int) (Frame, bool)
}

// Drawable is one thing to draw, in tile coordinates.
type Drawable struct {
	Kind  DrawKind
	X     float64
	Y     float64
	Z     int
	Icon  string
	State string
	Dir   int
	Layer float64
	Plane int
	Frame Frame

	// Edges are the sides to draw for boundary & selection markers
	Edges Direction

	// Max is the far corner of a DrawBox
	Max Location

	// Alpha of ghost content (0-255)
	Alpha uint8

	order int
}

// Overlay collects editing previews contributed by modes & handlers.
type Overlay struct {
	frames FrameResolver
	size   int
	items  []Drawable
}

// Add appends a drawable to the overlay.
func (o *Overlay) Add(d Drawable) {
	o.items = append(o.items, d)
}

// Ghost adds a translucent copy of instance o drawn at l.
func (o *Overlay) Ghost(l Location, obj *ObjectInstance, alpha uint8) {
	d, ok := drawableFor(o.frames, obj, l, o.size)
	if !ok {
		return
	}
	d.Kind = DrawGhost
	d.Plane = ghostPlane
	d.Alpha = alpha
	o.Add(d)
}

// Box adds a rectangle outline between two corners.
func (o *Overlay) Box(a, b Location) {
	lo, hi := rect(a, b)
	o.Add(Drawable{Kind: DrawBox, X: float64(lo.X), Y: float64(lo.Y), Z: lo.Z, Max: hi, Plane: boundaryPlane})
}

// Items returns what has been added so far.
func (o *Overlay) Items() []Drawable {
	return o.items
}

// Viewport extracts ordered drawables from a store.
type Viewport struct {
	Store    *TileStore
	Filter   *Filter
	Frames   FrameResolver
	IconSize int
}

// Build returns drawables for the tiles between lo & hi (x,y inclusive) on
// level z: content ordered by plane, layer then creation order, followed by
// overlays from fn (if not nil) and area boundary markers.
func (v *Viewport) Build(lo, hi Location, z int, fn func(*Overlay)) []Drawable {
	lo, hi = rect(Location{X: lo.X, Y: lo.Y, Z: z}, Location{X: hi.X, Y: hi.Y, Z: z})
	size := v.IconSize
	if size <= 0 {
		size = 32
	}

	filter := v.Filter
	if filter == nil {
		filter = DefaultFilter()
	}

	content := []Drawable{}
	eachInRect(lo, hi, func(l Location) {
		tile := v.Store.At(l)
		if tile == nil {
			return
		}
		for _, o := range tile.LayerSorted() {
			if !filter.Allows(o) {
				continue
			}
			d, ok := drawableFor(v.Frames, o, l, size)
			if !ok {
				continue
			}
			d.order = len(content)
			content = append(content, d)
		}
	})
	sortDrawables(content)

	if fn == nil {
		return content
	}

	ov := &Overlay{frames: v.Frames, size: size}
	eachInRect(lo, hi, func(l Location) {
		if edges := v.areaEdges(l); edges != 0 {
			ov.Add(Drawable{Kind: DrawBoundary, X: float64(l.X), Y: float64(l.Y), Z: l.Z, Edges: edges, Plane: boundaryPlane})
		}
	})
	fn(ov)

	overlays := ov.items
	for i := range overlays {
		overlays[i].order = i
	}
	sortDrawables(overlays)
	return append(content, overlays...)
}

// areaEdges returns the sides of l whose neighbour is unset or in a
// different area
func (v *Viewport) areaEdges(l Location) Direction {
	tile := v.Store.At(l)
	if tile == nil {
		return 0
	}
	var edges Direction
	for _, d := range Cardinals {
		n := v.Store.At(l.Step(d))
		if n == nil {
			edges |= d
			continue
		}
		a1, a2 := tile.Area(), n.Area()
		if a1 != nil && a2 != nil && a1.Path() != a2.Path() {
			edges |= d
		}
	}
	return edges
}

// drawableFor builds the drawable for instance o at l. False if the frame
// resolver can't draw it.
func drawableFor(frames FrameResolver, o *ObjectInstance, l Location, size int) (Drawable, bool) {
	px, py := o.PixelOffset()
	d := Drawable{
		Kind:  DrawContent,
		X:     float64(l.X) + float64(px)/float64(size),
		Y:     float64(l.Y) + float64(py)/float64(size),
		Z:     l.Z,
		Icon:  o.Icon(),
		State: o.IconState(),
		Dir:   o.Dir(),
		Layer: o.Layer(),
		Plane: o.Plane(),
		Alpha: 255,
	}
	if frames != nil {
		f, ok := frames.Frame(d.Icon, d.State, d.Dir)
		if !ok {
			return d, false
		}
		d.Frame = f
	}
	return d, true
}

// sortDrawables orders by plane, layer then creation order
func sortDrawables(ds []Drawable) {
	sort.SliceStable(ds, func(i, j int) bool {
		if ds[i].Plane != ds[j].Plane {
			return ds[i].Plane < ds[j].Plane
		}
		if ds[i].Layer != ds[j].Layer {
			return ds[i].Layer < ds[j].Layer
		}
		return ds[i].order < ds[j].order
	})
}
