package tileedit

import (
	"log"
)

// selectMode drags out rectangular selections. Pressing inside the
// selection (no modifiers) lifts it into a floating block that follows the
// pointer and is anchored on release.
type selectMode struct {
	float *FloatingSelection
}

func (m *selectMode) Kind() ModeKind {
	return ModeSelect
}

func (m *selectMode) Handler(ctx *Context, l Location) Handler {
	if ctx.Selection.Has(l) && !ctx.Mods.Any() {
		m.anchor(ctx)
		fs, err := liftSelection(ctx.Store, ctx.Selection.Locations(), ctx.Filter)
		if err != nil {
			log.Printf("failed to lift selection: %v", err)
			return nil
		}
		m.float = fs
		ctx.Selection.Clear()
	}

	if m.float != nil {
		if m.float.Contains(l) {
			return &moveFloatHandler{mode: m}
		}
		m.anchor(ctx)
		return nil
	}

	return &selectHandler{}
}

// anchor writes down the floating block (if any)
func (m *selectMode) anchor(ctx *Context) {
	if m.float == nil {
		return
	}
	if err := m.float.Anchor(ctx.Store); err != nil {
		log.Printf("failed to anchor selection: %v", err)
	}
	m.float = nil
}

func (m *selectMode) Visualize(ctx *Context, out *Overlay) {
	for _, l := range ctx.Selection.Locations() {
		var edges Direction
		for _, d := range Cardinals {
			if !ctx.Selection.Has(l.Step(d)) {
				edges |= d
			}
		}
		if edges != 0 {
			out.Add(Drawable{Kind: DrawSelection, X: float64(l.X), Y: float64(l.Y), Z: l.Z, Edges: edges, Plane: boundaryPlane})
		}
	}

	if m.float == nil {
		return
	}
	for _, rel := range m.float.Positions() {
		c, _ := m.float.Tile(rel)
		for _, o := range c.LayerSorted() {
			out.Ghost(m.float.Origin.Offset(rel.X, rel.Y), o, 180)
		}
	}
	out.Box(m.float.Origin, m.float.Origin.Offset(m.float.Width-1, m.float.Height-1))
}

func (m *selectMode) Flush(ctx *Context) {
	m.anchor(ctx)
}

// selectHandler drags out a rectangle. On release it replaces the
// selection, or adds to it (Shift) or removes from it (Ctrl).
type selectHandler struct {
	start Location
	end   Location
}

func (h *selectHandler) Init(ctx *Context, l Location) {
	h.start = l
	h.end = l
}

func (h *selectHandler) DragTo(ctx *Context, l Location) {
	h.end = l
}

func (h *selectHandler) Finalize(ctx *Context) {
	if !ctx.Mods.Shift && !ctx.Mods.Ctrl {
		ctx.Selection.Clear()
	}
	lo, hi := rect(h.start, h.end)
	eachInRect(lo, hi, func(l Location) {
		if !ctx.Store.Bounds().Contains(l) {
			return
		}
		if ctx.Mods.Ctrl {
			ctx.Selection.Remove(l)
		} else {
			ctx.Selection.Add(l)
		}
	})
}

func (h *selectHandler) Visualize(ctx *Context, out *Overlay) {
	out.Box(h.start, h.end)
}

// moveFloatHandler drags the floating block & anchors it on release.
type moveFloatHandler struct {
	mode *selectMode
	last Location
}

func (h *moveFloatHandler) Init(ctx *Context, l Location) {
	h.last = l
}

func (h *moveFloatHandler) DragTo(ctx *Context, l Location) {
	if h.mode.float == nil {
		return
	}
	h.mode.float.Move(l.X-h.last.X, l.Y-h.last.Y)
	h.last = l
}

func (h *moveFloatHandler) Finalize(ctx *Context) {
	h.mode.anchor(ctx)
}

func (h *moveFloatHandler) Visualize(ctx *Context, out *Overlay) {}
