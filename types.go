package tileedit

import (
	"fmt"
	"io/ioutil"
	"os"
	"sort"
	"strings"

	"github.com/go-yaml/yaml"
	"github.com/mitchellh/go-homedir"
)

// TypeRef is a resolved type definition. TypeRefs come from a TypeResolver
// and are never modified by the editor.
type TypeRef struct {
	Path      string            `yaml:"path"`
	Icon      string            `yaml:"icon"`
	IconState string            `yaml:"state"`
	Dir       int               `yaml:"dir"`
	Layer     float64           `yaml:"layer"`
	Plane     int               `yaml:"plane"`
	Vars      map[string]string `yaml:"vars"`
}

// TypeResolver looks up type definitions by path.
type TypeResolver interface {
	// Resolve returns the type at path, if known
	Resolve(path string) (*TypeRef, bool)

	// IsSubtype returns if path is ancestor or a descendant of it
	IsSubtype(path, ancestor string) bool
}

// Category is the broad kind of a type, decided by its path root.
type Category int

const (
	CategoryOther Category = iota
	CategoryObj
	CategoryMob
	CategoryTurf
	CategoryArea
)

// CategoryOf returns the category of the given type path.
func CategoryOf(path string) Category {
	switch {
	case IsSubtypePath(path, "/area"):
		return CategoryArea
	case IsSubtypePath(path, "/turf"):
		return CategoryTurf
	case IsSubtypePath(path, "/mob"):
		return CategoryMob
	case IsSubtypePath(path, "/obj"):
		return CategoryObj
	}
	return CategoryOther
}

// Singleton returns if a tile holds at most one instance of this category.
func (c Category) Singleton() bool {
	return c == CategoryTurf || c == CategoryArea
}

// rank orders categories within a tile: movables, then the turf, then the area.
func (c Category) rank() int {
	switch c {
	case CategoryTurf:
		return 1
	case CategoryArea:
		return 2
	}
	return 0
}

// IsSubtypePath returns if path equals ancestor or lies beneath it.
func IsSubtypePath(path, ancestor string) bool {
	ancestor = strings.TrimSuffix(ancestor, "/")
	if ancestor == "" {
		return true
	}
	return path == ancestor || strings.HasPrefix(path, ancestor+"/")
}

// StaticResolver is a TypeResolver over a fixed set of types.
// Types inherit unset icon, state, layer & plane from their nearest
// registered ancestor.
type StaticResolver struct {
	types map[string]*TypeRef
}

// NewStaticResolver builds a resolver from the given definitions.
func NewStaticResolver(defs ...*TypeRef) *StaticResolver {
	r := &StaticResolver{types: map[string]*TypeRef{}}
	for _, d := range defs {
		cp := *d
		cp.Path = strings.TrimSuffix(cp.Path, "/")
		r.types[cp.Path] = &cp
	}

	// resolve parents before children so inheritance chains
	paths := r.Paths()
	for _, p := range paths {
		t := r.types[p]
		if parent := r.parentOf(p); parent != nil {
			if t.Icon == "" {
				t.Icon = parent.Icon
			}
			if t.IconState == "" {
				t.IconState = parent.IconState
			}
			if t.Layer == 0 {
				t.Layer = parent.Layer
			}
			if t.Plane == 0 {
				t.Plane = parent.Plane
			}
		}
		if t.Dir == 0 {
			t.Dir = int(South)
		}
		if t.Layer == 0 {
			t.Layer = defaultLayer(CategoryOf(p))
		}
	}
	return r
}

// parentOf finds the nearest registered ancestor of p
func (r *StaticResolver) parentOf(p string) *TypeRef {
	for {
		i := strings.LastIndex(p, "/")
		if i <= 0 {
			return nil
		}
		p = p[:i]
		if t, ok := r.types[p]; ok {
			return t
		}
	}
}

// Resolve returns the type at path.
func (r *StaticResolver) Resolve(path string) (*TypeRef, bool) {
	t, ok := r.types[strings.TrimSuffix(path, "/")]
	return t, ok
}

// IsSubtype returns if path is ancestor or beneath it.
func (r *StaticResolver) IsSubtype(path, ancestor string) bool {
	return IsSubtypePath(path, ancestor)
}

// Paths returns all known type paths, sorted (parents before children).
func (r *StaticResolver) Paths() []string {
	paths := make([]string, 0, len(r.types))
	for p := range r.types {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// typeManifest is the on disk format read by LoadTypes
type typeManifest struct {
	Types []*TypeRef `yaml:"types"`
}

// LoadTypes reads a YAML type manifest of the form
//
//	types:
//	  - path: /turf/floor
//	    icon: icons/turf/floors.dmi
//	    state: floor
func LoadTypes(fname string) (*StaticResolver, error) {
	fname, err := homedir.Expand(fname)
	if err != nil {
		return nil, err
	}

	data, err := ioutil.ReadFile(fname)
	if err != nil {
		return nil, fmt.Errorf("failed to read types: %w", err)
	}

	m := typeManifest{}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse types %s: %w", fname, err)
	}

	for i, t := range m.Types {
		if t == nil || !strings.HasPrefix(t.Path, "/") {
			return nil, fmt.Errorf("type %d in %s has invalid path", i, fname)
		}
	}

	return NewStaticResolver(m.Types...), nil
}

// fileExists checks if file exists
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

func defaultLayer(c Category) float64 {
	switch c {
	case CategoryArea:
		return 1
	case CategoryTurf:
		return 2
	case CategoryMob:
		return 4
	}
	return 3
}
