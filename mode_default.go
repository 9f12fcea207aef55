package tileedit

// defaultMode stamps the brush. Ctrl (or the adjacent tool) only stamps
// tiles orthogonally next to the last one, Shift (or the rectangle tool)
// stamps a straight strip on release.
type defaultMode struct {
	kind ModeKind
}

func (m *defaultMode) Kind() ModeKind {
	return m.kind
}

func (m *defaultMode) Handler(ctx *Context, l Location) Handler {
	if ctx.Brush == nil {
		return nil
	}
	switch {
	case m.kind == ModeRectangle:
		return &blockHandler{}
	case m.kind == ModeAdjacent:
		return &directionalHandler{}
	case ctx.Mods.Ctrl:
		return &directionalHandler{}
	case ctx.Mods.Shift:
		return &blockHandler{}
	}
	return &stampHandler{}
}

func (m *defaultMode) Visualize(ctx *Context, out *Overlay) {}

func (m *defaultMode) Flush(ctx *Context) {}

// stampHandler stamps every tile the pointer enters
type stampHandler struct{}

func (h *stampHandler) Init(ctx *Context, l Location) {
	ctx.stamp(l)
}

func (h *stampHandler) DragTo(ctx *Context, l Location) {
	ctx.stamp(l)
}

func (h *stampHandler) Finalize(ctx *Context) {}

func (h *stampHandler) Visualize(ctx *Context, out *Overlay) {}

// directionalHandler only stamps when the pointer moves onto an orthogonal
// neighbour of the last stamped tile, so a fast diagonal drag never leaves
// a diagonal gap.
type directionalHandler struct {
	last Location
}

func (h *directionalHandler) Init(ctx *Context, l Location) {
	h.last = l
	ctx.stamp(l)
}

func (h *directionalHandler) DragTo(ctx *Context, l Location) {
	if !h.last.Adjacent(l) || !ctx.Store.Bounds().Contains(l) {
		return
	}
	h.last = l
	ctx.stamp(l)
}

func (h *directionalHandler) Finalize(ctx *Context) {}

func (h *directionalHandler) Visualize(ctx *Context, out *Overlay) {}

// blockHandler stamps the strip from the start tile toward the release
// tile along whichever axis moved further.
type blockHandler struct {
	start Location
	end   Location
}

func (h *blockHandler) Init(ctx *Context, l Location) {
	h.start = l
	h.end = l
}

func (h *blockHandler) DragTo(ctx *Context, l Location) {
	h.end = l
}

// strip returns the ends of the line to stamp
func (h *blockHandler) strip() (Location, Location) {
	if abs(h.end.X-h.start.X) >= abs(h.end.Y-h.start.Y) {
		return rect(h.start, Location{X: h.end.X, Y: h.start.Y})
	}
	return rect(h.start, Location{X: h.start.X, Y: h.end.Y})
}

func (h *blockHandler) Finalize(ctx *Context) {
	lo, hi := h.strip()
	eachInRect(lo, hi, func(l Location) {
		ctx.stamp(l)
	})
}

func (h *blockHandler) Visualize(ctx *Context, out *Overlay) {
	lo, hi := h.strip()
	if ctx.Brush != nil {
		eachInRect(lo, hi, func(l Location) {
			out.Ghost(l, ctx.Brush, 128)
		})
	}
	out.Box(lo, hi)
}
