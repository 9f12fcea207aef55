package tileedit

import (
	"fmt"
	"math/rand"
	"sync"
)

// Editor owns one open map & runs every edit against it. All methods are
// safe to call from multiple goroutines; each runs to completion before
// another starts so nothing ever sees half an edit.
type Editor struct {
	mu sync.Mutex

	cfg     *Config
	store   *TileStore
	diffs   *DiffRecorder
	rules   *RuleSet
	prefabs *PrefabSet
	frames  FrameResolver

	ctx     *Context
	mode    Mode
	handler Handler
	last    Location

	clipboard *FloatingSelection
}

// NewEditor creates an editor over store (a new empty store sized by cfg
// if nil). No types are known until SetResolver is called.
func NewEditor(cfg *Config, store *TileStore) *Editor {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if store == nil {
		store = NewTileStore(cfg.Bounds())
	}

	diffs := NewDiffRecorder(store)
	store.Record(diffs)

	filter := DefaultFilter()
	if len(cfg.Filters) > 0 {
		filter = NewFilter(cfg.Filters...)
	}

	return &Editor{
		cfg:     cfg,
		store:   store,
		diffs:   diffs,
		rules:   NewRuleSet(),
		prefabs: NewPrefabSet(),
		mode:    modeTable[ModeDefault](),
		ctx: &Context{
			Store:     store,
			Filter:    filter,
			Chance:    cfg.RandomChance,
			Rand:      rand.New(rand.NewSource(cfg.Seed)),
			Selection: NewSelection(),
		},
	}
}

// SetResolver publishes the type definitions. Edits are refused until
// this has been called.
func (e *Editor) SetResolver(r TypeResolver) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ctx.Types = r
	e.rebuildPropagator()
}

func (e *Editor) rebuildPropagator() {
	if e.ctx.Types == nil {
		e.ctx.Attach = nil
		return
	}
	e.ctx.Attach = NewPropagator(e.store, e.rules, e.ctx.Types)
	if e.cfg.MaxAttachDepth > 0 {
		e.ctx.Attach.MaxDepth = e.cfg.MaxAttachDepth
	}
}

// ready returns an error if no types have been published
func (e *Editor) ready() error {
	if e.ctx.Types == nil {
		return ErrResolverNotReady
	}
	return nil
}

// LoadProject reads attachment rules & prefabs from the configured project
// dir. Bad files are logged & treated as empty.
func (e *Editor) LoadProject() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ready(); err != nil {
		return err
	}
	if e.cfg.ProjectDir == "" {
		return nil
	}

	e.rules = LoadRules(e.cfg.ProjectDir)
	e.prefabs = LoadPrefabs(e.cfg.ProjectDir, e.ctx.Types)
	e.rebuildPropagator()
	return nil
}

// Store returns the editor's tile store. Callers must not edit it directly
// and should only read it while no gesture is running; use View to read it
// while the editor may be in use.
func (e *Editor) Store() *TileStore {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store
}

// View runs fn against the tile store with no edit in progress.
func (e *Editor) View(fn func(*TileStore) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.store)
}

// Rules returns the attachment rules in use.
func (e *Editor) Rules() *RuleSet {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rules
}

// Prefabs returns the loaded prefabs.
func (e *Editor) Prefabs() *PrefabSet {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.prefabs
}

// SetFrames sets the visual resolver used by Viewport.
func (e *Editor) SetFrames(f FrameResolver) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.frames = f
}

// SetBrush sets the instance placed by the default & random tools.
func (e *Editor) SetBrush(o *ObjectInstance) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ctx.Brush = o
}

// Filter returns the category filter.
func (e *Editor) Filter() *Filter {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ctx.Filter
}

// Brush returns the current brush (or nil).
func (e *Editor) Brush() *ObjectInstance {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ctx.Brush
}

// SetFilter sets the category filter (nil for the default).
func (e *Editor) SetFilter(f *Filter) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if f == nil {
		f = DefaultFilter()
	}
	e.ctx.Filter = f
}

// SetModifiers sets the modifier keys seen by the next gesture.
func (e *Editor) SetModifiers(m Modifiers) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ctx.Mods = m
}

// SetChance sets the random tool's placement chance [0,1].
func (e *Editor) SetChance(p float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ctx.Chance = p
}

// Seed resets the random tool's generator.
func (e *Editor) Seed(seed int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ctx.Rand = rand.New(rand.NewSource(seed))
}

// Mode returns the active mode.
func (e *Editor) Mode() ModeKind {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode.Kind()
}

// SetMode switches tool. The outgoing mode is flushed first (a floating
// selection is anchored, any gesture in progress is finished).
func (e *Editor) SetMode(kind ModeKind) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ready(); err != nil {
		return err
	}
	if kind == ModePrefab && e.ctx.Prefab == nil {
		return fmt.Errorf("%w: none chosen", ErrUnknownPrefab)
	}
	ctor, ok := modeTable[kind]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownMode, kind)
	}
	e.switchMode(ctor())
	return nil
}

// SelectPrefab switches to the prefab tool stamping the named prefab.
func (e *Editor) SelectPrefab(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ready(); err != nil {
		return err
	}
	p, ok := e.prefabs.Get(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPrefab, name)
	}
	e.switchMode(modeTable[ModePrefab]())
	e.ctx.Prefab = p
	return nil
}

func (e *Editor) switchMode(m Mode) {
	e.release()
	e.mode.Flush(e.ctx)
	e.diffs.Commit()
	e.mode = m
}

// PointerDown starts a gesture at l.
func (e *Editor) PointerDown(l Location) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ready(); err != nil {
		return err
	}
	if !e.store.Bounds().Contains(l) {
		return fmt.Errorf("%w: %v", ErrOutOfBounds, l)
	}

	e.release()
	if e.ctx.Brush == nil && needsBrush(e.mode.Kind()) {
		return ErrNoBrush
	}
	h := e.mode.Handler(e.ctx, l)
	if h == nil {
		e.diffs.Commit()
		return nil
	}
	e.handler = h
	e.last = l
	h.Init(e.ctx, l)
	return nil
}

// needsBrush returns if presses in the mode place the brush
func needsBrush(k ModeKind) bool {
	switch k {
	case ModeDefault, ModeRectangle, ModeAdjacent, ModeRandom:
		return true
	}
	return false
}

// PointerMove reports the pointer over l. While a gesture is running the
// handler sees each new tile once; otherwise modes that preview under the
// pointer are told.
func (e *Editor) PointerMove(l Location) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.handler == nil {
		if h, ok := e.mode.(hoverer); ok {
			h.Hover(e.ctx, l)
		}
		return
	}
	if l == e.last {
		return
	}
	e.last = l
	e.handler.DragTo(e.ctx, l)
}

// PointerUp ends the current gesture, committing its changes as one
// undoable batch.
func (e *Editor) PointerUp() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.release()
}

// Dragging returns if a gesture is in progress.
func (e *Editor) Dragging() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.handler != nil
}

// release finalizes the running handler (if any) and commits
func (e *Editor) release() {
	if e.handler == nil {
		return
	}
	e.handler.Finalize(e.ctx)
	e.handler = nil
	e.diffs.Commit()
}

// Undo reverts the last action. Returns false if there was nothing to undo.
func (e *Editor) Undo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.release()
	_, ok := e.diffs.Undo()
	return ok
}

// Redo reapplies the last undone action. Returns false if there was
// nothing to redo.
func (e *Editor) Redo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.release()
	_, ok := e.diffs.Redo()
	return ok
}

// LastBatch returns the changes Undo would revert.
func (e *Editor) LastBatch() (DiffBatch, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.diffs.Last()
}

// History returns how many actions can be undone & redone.
func (e *Editor) History() (int, int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.diffs.UndoDepth(), e.diffs.RedoDepth()
}

// Tile returns the content at l.
func (e *Editor) Tile(l Location) Composition {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.At(l)
}

// ReplaceObject swaps old for replacement at l as one action (eg. after
// editing an instance's vars).
func (e *Editor) ReplaceObject(l Location, old, replacement *ObjectInstance) error {
	return e.tileAction(l, func(c Composition) Composition { return c.Replace(old, replacement) })
}

// MoveToTop moves o to the top of its category in the tile at l.
func (e *Editor) MoveToTop(l Location, o *ObjectInstance) error {
	return e.tileAction(l, func(c Composition) Composition { return c.MoveToTop(o) })
}

// MoveToBottom moves o to the bottom of its category in the tile at l.
func (e *Editor) MoveToBottom(l Location, o *ObjectInstance) error {
	return e.tileAction(l, func(c Composition) Composition { return c.MoveToBottom(o) })
}

func (e *Editor) tileAction(l Location, fn func(Composition) Composition) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ready(); err != nil {
		return err
	}
	e.release()
	if _, err := e.store.Update(l, fn); err != nil {
		return err
	}
	e.diffs.Commit()
	return nil
}

// Viewport returns drawables for (lo.X,lo.Y)-(hi.X,hi.Y) on level z. With
// overlays, area boundaries & previews from the active tool are appended.
func (e *Editor) Viewport(lo, hi Location, z int, overlays bool) []Drawable {
	e.mu.Lock()
	defer e.mu.Unlock()

	v := &Viewport{Store: e.store, Filter: e.ctx.Filter, Frames: e.frames, IconSize: int(e.cfg.IconSize)}
	if !overlays {
		return v.Build(lo, hi, z, nil)
	}
	return v.Build(lo, hi, z, func(out *Overlay) {
		if e.handler != nil {
			e.handler.Visualize(e.ctx, out)
		}
		e.mode.Visualize(e.ctx, out)
	})
}
