package tileedit

// deleteMode removes filtered instances from every tile dragged over.
type deleteMode struct{}

func (m *deleteMode) Kind() ModeKind {
	return ModeDelete
}

func (m *deleteMode) Handler(ctx *Context, l Location) Handler {
	return &deleteHandler{}
}

func (m *deleteMode) Visualize(ctx *Context, out *Overlay) {}

func (m *deleteMode) Flush(ctx *Context) {}

type deleteHandler struct{}

func (h *deleteHandler) Init(ctx *Context, l Location) {
	h.DragTo(ctx, l)
}

func (h *deleteHandler) DragTo(ctx *Context, l Location) {
	if !ctx.Store.Bounds().Contains(l) {
		return
	}
	ctx.Store.DeleteMatching(l, ctx.Filter.Allows)
}

func (h *deleteHandler) Finalize(ctx *Context) {}

func (h *deleteHandler) Visualize(ctx *Context, out *Overlay) {}

// pickerMode makes the top visible instance of the clicked tile the brush.
type pickerMode struct{}

func (m *pickerMode) Kind() ModeKind {
	return ModePicker
}

func (m *pickerMode) Handler(ctx *Context, l Location) Handler {
	if picked := pick(ctx.Store.At(l), ctx.Filter); picked != nil {
		ctx.Brush = picked
	}
	return nil
}

func (m *pickerMode) Visualize(ctx *Context, out *Overlay) {}

func (m *pickerMode) Flush(ctx *Context) {}

// pick returns the topmost instance passing f, or the topmost instance if
// none pass.
func pick(tile Composition, f *Filter) *ObjectInstance {
	var picked *ObjectInstance
	sorted := tile.LayerSorted()
	for i := len(sorted) - 1; i >= 0; i-- {
		if f.Allows(sorted[i]) {
			return sorted[i]
		}
		if picked == nil {
			picked = sorted[i]
		}
	}
	return picked
}

// randomMode drags out a rectangle & on release places the brush on each
// tile inside with probability ctx.Chance.
type randomMode struct{}

func (m *randomMode) Kind() ModeKind {
	return ModeRandom
}

func (m *randomMode) Handler(ctx *Context, l Location) Handler {
	if ctx.Brush == nil {
		return nil
	}
	return &randomHandler{}
}

func (m *randomMode) Visualize(ctx *Context, out *Overlay) {}

func (m *randomMode) Flush(ctx *Context) {}

type randomHandler struct {
	start Location
	end   Location
}

func (h *randomHandler) Init(ctx *Context, l Location) {
	h.start = l
	h.end = l
}

func (h *randomHandler) DragTo(ctx *Context, l Location) {
	h.end = l
}

func (h *randomHandler) Finalize(ctx *Context) {
	chance := ctx.Chance
	if chance < 0 {
		chance = 0
	} else if chance > 1 {
		chance = 1
	}

	lo, hi := rect(h.start, h.end)
	eachInRect(lo, hi, func(l Location) {
		if ctx.Rand.Float64() >= chance {
			return
		}
		if _, ok := ctx.Store.Get(l); !ok {
			return
		}
		ctx.stamp(l)
	})
}

func (h *randomHandler) Visualize(ctx *Context, out *Overlay) {
	lo, hi := rect(h.start, h.end)
	eachInRect(lo, hi, func(l Location) {
		out.Ghost(l, ctx.Brush, 128)
	})
	out.Box(lo, hi)
}
