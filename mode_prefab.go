package tileedit

import (
	"log"
)

// prefabMode stamps ctx.Prefab with its origin at the pressed tile and
// shows a ghost of it under the pointer.
type prefabMode struct {
	hover *Location
}

func (m *prefabMode) Kind() ModeKind {
	return ModePrefab
}

func (m *prefabMode) Handler(ctx *Context, l Location) Handler {
	if ctx.Prefab == nil {
		return nil
	}
	m.Hover(ctx, l)
	return &prefabHandler{mode: m}
}

// Hover moves the ghost
func (m *prefabMode) Hover(ctx *Context, l Location) {
	m.hover = &l
}

func (m *prefabMode) Visualize(ctx *Context, out *Overlay) {
	if m.hover == nil || ctx.Prefab == nil {
		return
	}
	for _, rel := range ctx.Prefab.Positions() {
		for _, o := range ctx.Prefab.Tiles[rel].LayerSorted() {
			out.Ghost(m.hover.Offset(rel.X, rel.Y), o, 180)
		}
	}
}

func (m *prefabMode) Flush(ctx *Context) {
	m.hover = nil
}

// prefabHandler stamps once on press. Dragging only moves the ghost.
type prefabHandler struct {
	mode *prefabMode
}

func (h *prefabHandler) Init(ctx *Context, l Location) {
	if _, err := ctx.Prefab.Stamp(ctx.Store, l); err != nil {
		log.Printf("failed to stamp prefab %s: %v", ctx.Prefab.Name, err)
	}
}

func (h *prefabHandler) DragTo(ctx *Context, l Location) {
	h.mode.Hover(ctx, l)
}

func (h *prefabHandler) Finalize(ctx *Context) {}

func (h *prefabHandler) Visualize(ctx *Context, out *Overlay) {}
