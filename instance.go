package tileedit

import (
	"strconv"
)

// ObjectInstance is a type plus optional variable overrides.
// Instances are immutable; "modifying" one returns a new instance.
type ObjectInstance struct {
	Type *TypeRef
	vars varList
	str  string
}

// NewInstance creates an instance of t with the given overrides (may be nil).
func NewInstance(t *TypeRef, vars map[string]string) *ObjectInstance {
	o := &ObjectInstance{Type: t, vars: newVarList(vars)}
	o.str = t.Path + o.vars.String()
	return o
}

// Path returns the instance's type path.
func (o *ObjectInstance) Path() string {
	return o.Type.Path
}

// Category returns the category of the instance's type.
func (o *ObjectInstance) Category() Category {
	return CategoryOf(o.Type.Path)
}

// Overrides returns the instance's variable overrides (sorted by name).
func (o *ObjectInstance) Overrides() []Var {
	return append([]Var{}, o.vars...)
}

// WithVars returns a copy of o with vars set on top of the current overrides.
func (o *ObjectInstance) WithVars(vars map[string]string) *ObjectInstance {
	return NewInstance(o.Type, o.vars.merge(newVarList(vars)).toMap())
}

// Var returns the value of a variable: the override if set, else the
// type's default.
func (o *ObjectInstance) Var(name string) (string, bool) {
	if v, ok := o.vars.get(name); ok {
		return v, true
	}
	v, ok := o.Type.Vars[name]
	return v, ok
}

// Icon is the icon file the instance draws from.
func (o *ObjectInstance) Icon() string {
	if v, ok := o.vars.get("icon"); ok {
		return unquote(v)
	}
	return o.Type.Icon
}

// IconState is the icon state the instance draws.
func (o *ObjectInstance) IconState() string {
	if v, ok := o.vars.get("icon_state"); ok {
		return unquote(v)
	}
	return o.Type.IconState
}

// Dir is the facing of the instance.
func (o *ObjectInstance) Dir() int {
	if v, ok := o.vars.get("dir"); ok {
		if d, err := strconv.Atoi(v); err == nil {
			return d
		}
	}
	return o.Type.Dir
}

// Layer is the draw layer within a plane.
func (o *ObjectInstance) Layer() float64 {
	if v, ok := o.vars.get("layer"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return o.Type.Layer
}

// Plane is the draw plane.
func (o *ObjectInstance) Plane() int {
	if v, ok := o.vars.get("plane"); ok {
		if p, err := strconv.Atoi(v); err == nil {
			return p
		}
	}
	return o.Type.Plane
}

// PixelOffset returns pixel_x, pixel_y.
func (o *ObjectInstance) PixelOffset() (int, int) {
	px, py := 0, 0
	if v, ok := o.Var("pixel_x"); ok {
		px, _ = strconv.Atoi(v)
	}
	if v, ok := o.Var("pixel_y"); ok {
		py, _ = strconv.Atoi(v)
	}
	return px, py
}

// String is the canonical form: type path followed by sorted overrides.
func (o *ObjectInstance) String() string {
	return o.str
}

// Equal returns if both instances have the same canonical form.
func (o *ObjectInstance) Equal(p *ObjectInstance) bool {
	if o == nil || p == nil {
		return o == p
	}
	return o.str == p.str
}
