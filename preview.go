package tileedit

import (
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/nfnt/resize"
)

// prefabThumbScale is how much prefab previews are shrunk by
const prefabThumbScale = 0.6

// ImageSource finds the image for an icon frame.
type ImageSource interface {
	FrameImage(icon, state string, dir int) (image.Image, bool)
}

// DirImages reads icon frames from a directory tree laid out as
// <root>/<icon>/<state>.png (or <root>/<icon>/<state>_<dir>.png for
// directional frames). Images are cached once read.
type DirImages struct {
	root string

	lock  sync.Mutex
	cache map[string]image.Image
}

// NewDirImages returns an image source reading from root.
func NewDirImages(root string) *DirImages {
	return &DirImages{root: root, cache: map[string]image.Image{}}
}

// FrameImage implements ImageSource.
func (d *DirImages) FrameImage(icon, state string, dir int) (image.Image, bool) {
	d.lock.Lock()
	defer d.lock.Unlock()

	if state == "" {
		state = "default"
	}
	base := filepath.Join(d.root, filepath.FromSlash(strings.TrimPrefix(icon, "/")))
	for _, fname := range []string{
		filepath.Join(base, state+"_"+Direction(dir).String()+".png"),
		filepath.Join(base, state+".png"),
	} {
		if im, ok := d.cache[fname]; ok {
			if im == nil {
				continue
			}
			return im, true
		}
		if !fileExists(fname) {
			continue
		}
		im, err := readImage(fname)
		if err != nil {
			d.cache[fname] = nil
			continue
		}
		d.cache[fname] = im
		return im, true
	}
	return nil, false
}

// Frame lets DirImages double as a FrameResolver.
func (d *DirImages) Frame(icon, state string, dir int) (Frame, bool) {
	return d.FrameImage(icon, state, dir)
}

func readImage(fname string) (image.Image, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decode(f)
}

// decode tries each image format in turn
func decode(in io.ReadSeeker) (image.Image, error) {
	decoders := []func(io.Reader) (image.Image, error){
		png.Decode,
		gif.Decode,
		jpeg.Decode,
	}

	var lastErr error
	for _, decoder := range decoders {
		if _, err := in.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		im, err := decoder(in)
		if err == nil {
			return im, nil
		}
		lastErr = err
	}

	return nil, lastErr
}

// RenderPreview paints drawables covering lo->hi (tile coords) onto an
// image, tileSize px per tile. Higher y is drawn further up the image.
// Drawables src has no image for are skipped; markers are drawn as lines.
func RenderPreview(ds []Drawable, lo, hi Location, tileSize int, src ImageSource) image.Image {
	lo, hi = rect(lo, hi)
	ts := float64(tileSize)
	w := (hi.X - lo.X + 1) * tileSize
	h := (hi.Y - lo.Y + 1) * tileSize

	dc := gg.NewContext(w, h)
	px := func(x, y float64) (float64, float64) {
		return (x - float64(lo.X)) * ts, (float64(hi.Y) - y) * ts
	}

	for _, d := range ds {
		x, y := px(d.X, d.Y)
		switch d.Kind {
		case DrawContent, DrawGhost:
			if src == nil {
				continue
			}
			im, ok := src.FrameImage(d.Icon, d.State, d.Dir)
			if !ok {
				continue
			}
			if d.Alpha < 255 {
				im = fade(im, d.Alpha)
			}
			dc.DrawImage(im, int(x), int(y))
		case DrawBoundary, DrawSelection:
			if d.Kind == DrawBoundary {
				dc.SetRGBA255(255, 255, 255, 160)
			} else {
				dc.SetRGBA255(255, 220, 0, 255)
			}
			dc.SetLineWidth(2)
			edges(dc, x, y, ts, d.Edges)
			dc.Stroke()
		case DrawBox:
			x1, y1 := px(float64(d.Max.X), float64(d.Max.Y))
			left, right := x, x1
			if right < left {
				left, right = right, left
			}
			top, bottom := y, y1
			if bottom < top {
				top, bottom = bottom, top
			}
			dc.SetRGBA255(255, 255, 255, 255)
			dc.SetLineWidth(1)
			dc.DrawRectangle(left, top, right-left+ts, bottom-top+ts)
			dc.Stroke()
		}
	}

	return dc.Image()
}

// edges adds lines along the given sides of the tile whose top left is x,y
func edges(dc *gg.Context, x, y, ts float64, d Direction) {
	if d&North != 0 {
		dc.DrawLine(x, y, x+ts, y)
	}
	if d&South != 0 {
		dc.DrawLine(x, y+ts, x+ts, y+ts)
	}
	if d&East != 0 {
		dc.DrawLine(x+ts, y, x+ts, y+ts)
	}
	if d&West != 0 {
		dc.DrawLine(x, y, x, y+ts)
	}
}

// fade returns a copy of im at the given opacity
func fade(im image.Image, alpha uint8) image.Image {
	b := im.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.DrawMask(out, out.Bounds(), im, b.Min, image.NewUniform(color.Alpha{A: alpha}), image.Point{}, draw.Over)
	return out
}

// Thumbnail scales im by scale (0.5 = half size).
func Thumbnail(im image.Image, scale float64) image.Image {
	b := im.Bounds()
	w := uint(float64(b.Dx()) * scale)
	h := uint(float64(b.Dy()) * scale)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return resize.Resize(w, h, im, resize.Lanczos3)
}

// PrefabDrawables returns the prefab's content as drawables with its
// origin at (0,0).
func PrefabDrawables(p *Prefab, frames FrameResolver, tileSize int) []Drawable {
	ds := []Drawable{}
	for _, rel := range p.Positions() {
		for _, o := range p.Tiles[rel].LayerSorted() {
			d, ok := drawableFor(frames, o, rel, tileSize)
			if !ok {
				continue
			}
			d.order = len(ds)
			ds = append(ds, d)
		}
	}
	sortDrawables(ds)
	return ds
}

// PrefabPreview renders a shrunken picture of the named prefab.
func (e *Editor) PrefabPreview(name string, src ImageSource, tileSize int) (image.Image, error) {
	e.mu.Lock()
	p, ok := e.prefabs.Get(name)
	e.mu.Unlock()
	if !ok {
		return nil, ErrUnknownPrefab
	}

	w, h := p.Width, p.Height
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	ds := PrefabDrawables(p, nil, tileSize)
	im := RenderPreview(ds, Location{}, Location{X: w - 1, Y: h - 1}, tileSize, src)
	return Thumbnail(im, prefabThumbScale), nil
}

// SavePNG writes im to fname.
func SavePNG(fname string, im image.Image) error {
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, im)
}
