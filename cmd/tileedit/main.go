package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"

	"github.com/voidshard/tileedit"
)

const desc = `Edits tile maps saved as sqlite snapshots.

Types come from a YAML manifest (-t), attachment rules & prefabs from the
project dir named in the config (-c). Coordinates start at 1; y grows north.`

var (
	okColor    = color.New(color.FgGreen, color.Bold)
	warnColor  = color.New(color.FgYellow, color.Bold)
	labelColor = color.New(color.FgWhite, color.Bold)
	dimColor   = color.New(color.FgHiBlack)
)

var cli struct {
	Config  string `short:"c" default:"~/.tileedit.yaml" help:"editor config file"`
	Types   string `short:"t" help:"type manifest (YAML)"`
	Project string `short:"p" help:"project dir, overrides the config"`
	Map     string `short:"m" default:"map.sqlite" help:"map snapshot file"`

	Rules struct {
		List struct{} `cmd:"" help:"list attachment rules"`
		Set  struct {
			Key   string   `arg:"" help:"rule key (icon#state)"`
			Dir   string   `arg:"" help:"direction N, S, E or W"`
			Paths []string `arg:"" optional:"" help:"types to attach (none clears the direction)"`
		} `cmd:"" help:"set the types attached in one direction"`
		Clear struct {
			Key string `arg:"" help:"rule key (icon#state)"`
		} `cmd:"" help:"remove all rules for a key"`
	} `cmd:"" help:"manage attachment rules"`

	Prefabs struct {
		List struct{} `cmd:"" help:"list prefabs"`
	} `cmd:"" help:"manage prefabs"`

	Init struct {
		Turf string `help:"turf to fill the map with"`
		Area string `help:"area to fill the map with"`
	} `cmd:"" help:"create an empty map snapshot sized by the config"`

	Stamp struct {
		X      int               `arg:"" help:"x"`
		Y      int               `arg:"" help:"y"`
		Z      int               `arg:"" help:"z"`
		Path   string            `arg:"" optional:"" help:"type to place"`
		Prefab string            `help:"stamp this prefab instead of a type"`
		Vars   map[string]string `help:"var overrides for the placed instance"`
	} `cmd:"" help:"place one instance (or a prefab) at x,y,z"`

	Fill struct {
		X0     int     `arg:"" help:"x of one corner"`
		Y0     int     `arg:"" help:"y of one corner"`
		X1     int     `arg:"" help:"x of the other corner"`
		Y1     int     `arg:"" help:"y of the other corner"`
		Path   string  `arg:"" help:"type to place"`
		Z      int     `default:"1" help:"level"`
		Chance float64 `default:"1" help:"chance of placing on each tile (<1 only fills tiles that already have content)"`
	} `cmd:"" help:"place an instance on every tile in a rectangle"`

	Render struct {
		Output string `arg:"" help:"png to write"`
		Icons  string `short:"i" default:"icons" help:"dir holding <icon>/<state>.png images"`
		Z      int    `default:"1" help:"level"`
	} `cmd:"" help:"draw the map to a png"`
}

func main() {
	ctx := kong.Parse(&cli, kong.Name("tileedit"), kong.Description(desc))

	var err error
	switch ctx.Command() {
	case "rules list":
		err = rulesList()
	case "rules set <key> <dir>", "rules set <key> <dir> <paths>":
		err = rulesSet()
	case "rules clear <key>":
		err = rulesClear()
	case "prefabs list":
		err = prefabsList()
	case "init":
		err = initMap()
	case "stamp <x> <y> <z>", "stamp <x> <y> <z> <path>":
		err = stamp()
	case "fill <x-0> <y-0> <x-1> <y-1> <path>", "fill <x0> <y0> <x1> <y1> <path>":
		err = fill()
	case "render <output>":
		err = render()
	default:
		err = fmt.Errorf("unknown command %s", ctx.Command())
	}

	if err != nil {
		color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "✗ %v\n", err)
		os.Exit(1)
	}
}

// config loads the editor config, applying cli overrides
func config() (*tileedit.Config, error) {
	cfg, err := tileedit.LoadConfig(cli.Config)
	if err != nil {
		return nil, err
	}
	if cli.Project != "" {
		cfg.ProjectDir = cli.Project
	}
	if cfg.ProjectDir == "" {
		cfg.ProjectDir = "."
	}
	return cfg, nil
}

func types() (*tileedit.StaticResolver, error) {
	if cli.Types == "" {
		return nil, fmt.Errorf("a type manifest (-t) is required")
	}
	return tileedit.LoadTypes(cli.Types)
}

// open loads the map snapshot into a ready editor
func open() (*tileedit.Editor, *tileedit.Snapshot, error) {
	cfg, err := config()
	if err != nil {
		return nil, nil, err
	}
	r, err := types()
	if err != nil {
		return nil, nil, err
	}
	if !fileExists(cli.Map) {
		return nil, nil, fmt.Errorf("map %s not found, create it with init", cli.Map)
	}

	snap, err := tileedit.OpenSnapshot(cli.Map)
	if err != nil {
		return nil, nil, err
	}
	store, err := snap.Load(r)
	if err != nil {
		snap.Close()
		return nil, nil, err
	}

	ed := tileedit.NewEditor(cfg, store)
	ed.SetResolver(r)
	if err := ed.LoadProject(); err != nil {
		snap.Close()
		return nil, nil, err
	}
	return ed, snap, nil
}

func rulesList() error {
	cfg, err := config()
	if err != nil {
		return err
	}
	rs := tileedit.LoadRules(cfg.ProjectDir)
	keys := rs.Keys()
	if len(keys) == 0 {
		dimColor.Println("no rules")
		return nil
	}
	for _, k := range keys {
		labelColor.Println(k)
		rules := rs.Get(k)
		for _, d := range tileedit.Cardinals {
			if len(rules[d]) == 0 {
				continue
			}
			fmt.Printf("  %s: ", d)
			dimColor.Println(strings.Join(rules[d], ", "))
		}
	}
	return nil
}

func rulesSet() error {
	cfg, err := config()
	if err != nil {
		return err
	}
	d, ok := tileedit.ParseDirection(cli.Rules.Set.Dir)
	if !ok {
		return fmt.Errorf("unknown direction %s", cli.Rules.Set.Dir)
	}

	rs := tileedit.LoadRules(cfg.ProjectDir)
	rules := rs.Get(cli.Rules.Set.Key)
	rules[d] = cli.Rules.Set.Paths
	if err := rs.Set(cli.Rules.Set.Key, rules); err != nil {
		return err
	}
	okColor.Printf("✓ updated %s\n", rs.Filename())
	return nil
}

func rulesClear() error {
	cfg, err := config()
	if err != nil {
		return err
	}
	rs := tileedit.LoadRules(cfg.ProjectDir)
	if err := rs.Clear(cli.Rules.Clear.Key); err != nil {
		return err
	}
	okColor.Printf("✓ updated %s\n", rs.Filename())
	return nil
}

func prefabsList() error {
	cfg, err := config()
	if err != nil {
		return err
	}
	r, err := types()
	if err != nil {
		return err
	}
	ps := tileedit.LoadPrefabs(cfg.ProjectDir, r)
	names := ps.Names()
	if len(names) == 0 {
		dimColor.Println("no prefabs")
		return nil
	}
	for _, n := range names {
		p, _ := ps.Get(n)
		labelColor.Printf("%s ", p.Name)
		dimColor.Printf("%dx%d, %d tiles\n", p.Width, p.Height, len(p.Tiles))
	}
	return nil
}

func initMap() error {
	cfg, err := config()
	if err != nil {
		return err
	}
	if fileExists(cli.Map) {
		return fmt.Errorf("map %s already exists", cli.Map)
	}

	store := tileedit.NewTileStore(cfg.Bounds())
	fillWith := tileedit.Composition{}
	if cli.Init.Turf != "" || cli.Init.Area != "" {
		r, err := types()
		if err != nil {
			return err
		}
		for _, p := range []string{cli.Init.Turf, cli.Init.Area} {
			if p == "" {
				continue
			}
			t, ok := r.Resolve(p)
			if !ok {
				return fmt.Errorf("unknown type %s", p)
			}
			fillWith = fillWith.Add(tileedit.NewInstance(t, nil))
		}
	}
	if len(fillWith) > 0 {
		if err := store.Fill(store.Bounds(), fillWith); err != nil {
			return err
		}
	}

	snap, err := tileedit.OpenSnapshot(cli.Map)
	if err != nil {
		return err
	}
	defer snap.Close()
	if err := snap.Save(store); err != nil {
		return err
	}
	okColor.Printf("✓ wrote %s (%dx%dx%d)\n", cli.Map, cfg.MapWidth, cfg.MapHeight, cfg.MapLevels)
	return nil
}

// brush resolves path into an instance
func brush(ed *tileedit.Editor, r tileedit.TypeResolver, path string, vars map[string]string) error {
	t, ok := r.Resolve(path)
	if !ok {
		return fmt.Errorf("unknown type %s", path)
	}
	ed.SetBrush(tileedit.NewInstance(t, vars))
	return nil
}

func stamp() error {
	ed, snap, err := open()
	if err != nil {
		return err
	}
	defer snap.Close()

	if cli.Stamp.Prefab != "" {
		err = ed.SelectPrefab(cli.Stamp.Prefab)
	} else if cli.Stamp.Path != "" {
		r, _ := types()
		err = brush(ed, r, cli.Stamp.Path, cli.Stamp.Vars)
	} else {
		err = fmt.Errorf("give a type or --prefab")
	}
	if err != nil {
		return err
	}

	if err := ed.PointerDown(tileedit.Loc(cli.Stamp.X, cli.Stamp.Y, cli.Stamp.Z)); err != nil {
		return err
	}
	ed.PointerUp()
	return save(ed, snap)
}

func fill() error {
	ed, snap, err := open()
	if err != nil {
		return err
	}
	defer snap.Close()

	r, _ := types()
	if err := brush(ed, r, cli.Fill.Path, nil); err != nil {
		return err
	}

	mode := tileedit.ModeRectangle
	if cli.Fill.Chance < 1 {
		mode = tileedit.ModeRandom
		ed.SetChance(cli.Fill.Chance)
	}
	if err := ed.SetMode(mode); err != nil {
		return err
	}

	if err := ed.PointerDown(tileedit.Loc(cli.Fill.X0, cli.Fill.Y0, cli.Fill.Z)); err != nil {
		return err
	}
	ed.PointerMove(tileedit.Loc(cli.Fill.X1, cli.Fill.Y1, cli.Fill.Z))
	ed.PointerUp()
	return save(ed, snap)
}

// save writes the map back & reports what changed
func save(ed *tileedit.Editor, snap *tileedit.Snapshot) error {
	batch, ok := ed.LastBatch()
	if !ok {
		warnColor.Println("⚠ nothing changed")
		return nil
	}
	if err := ed.View(snap.Save); err != nil {
		return err
	}

	for _, c := range batch {
		labelColor.Printf("  %s ", c.Loc)
		dimColor.Println(ed.Tile(c.Loc).String())
	}
	okColor.Printf("✓ %d tiles changed\n", len(batch))
	return nil
}

func render() error {
	ed, snap, err := open()
	if err != nil {
		return err
	}
	defer snap.Close()

	cfg, _ := config()
	icons := tileedit.NewDirImages(cli.Render.Icons)
	ed.SetFrames(icons)

	b := ed.Store().Bounds()
	lo := tileedit.Loc(b.Min.X, b.Min.Y, cli.Render.Z)
	hi := tileedit.Loc(b.Max.X, b.Max.Y, cli.Render.Z)

	ds := ed.Viewport(lo, hi, cli.Render.Z, true)
	im := tileedit.RenderPreview(ds, lo, hi, int(cfg.IconSize), icons)
	if err := tileedit.SavePNG(cli.Render.Output, im); err != nil {
		return err
	}
	okColor.Printf("✓ wrote %s\n", cli.Render.Output)
	return nil
}

// fileExists checks if file exists
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return !info.IsDir()
}
