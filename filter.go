package tileedit

import (
	"sort"
	"strings"
)

// Filter decides which instances the editor acts on. Each line is a type
// path, optionally prefixed with ~ to exclude. Lines are ordered least
// specific first & the last line matching an instance decides.
type Filter struct {
	lines []filterLine
}

type filterLine struct {
	path  string
	allow bool
}

// DefaultFilter allows every area, mob, obj and turf.
func DefaultFilter() *Filter {
	return NewFilter("/area", "/mob", "/obj", "/turf")
}

// NewFilter parses filter lines. Blank lines are ignored.
func NewFilter(lines ...string) *Filter {
	f := &Filter{}
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		fl := filterLine{allow: true}
		if strings.HasPrefix(l, "~") {
			fl.allow = false
			l = l[1:]
		}
		fl.path = strings.TrimSuffix(strings.TrimSpace(l), "/")
		f.lines = append(f.lines, fl)
	}

	sort.SliceStable(f.lines, func(i, j int) bool {
		di := strings.Count(f.lines[i].path, "/")
		dj := strings.Count(f.lines[j].path, "/")
		if di != dj {
			return di < dj
		}
		return f.lines[i].path < f.lines[j].path
	})
	return f
}

// Lines returns the filter as text lines.
func (f *Filter) Lines() []string {
	out := make([]string, len(f.lines))
	for i, l := range f.lines {
		if l.allow {
			out[i] = l.path
		} else {
			out[i] = "~" + l.path
		}
	}
	return out
}

// Allows returns if the instance passes the filter. nil never passes.
func (f *Filter) Allows(o *ObjectInstance) bool {
	if o == nil {
		return false
	}
	valid := false
	for _, l := range f.lines {
		if IsSubtypePath(o.Path(), l.path) {
			valid = l.allow
		}
	}
	return valid
}
