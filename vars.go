package tileedit

import (
	"fmt"
	"sort"
	"strings"
)

// Var is a single variable override on an instance. Values are kept
// exactly as written in map source (strings quoted, numbers bare).
type Var struct {
	Name  string
	Value string
}

func (v Var) String() string {
	return fmt.Sprintf("%s = %s", v.Name, v.Value)
}

// varList is a set of overrides kept sorted by name so that two instances
// with the same overrides always print the same.
type varList []Var

// newVarList builds a sorted list from a map
func newVarList(in map[string]string) varList {
	vs := varList{}
	for k, v := range in {
		vs = append(vs, Var{Name: k, Value: v})
	}
	sort.Slice(vs, func(i, j int) bool { return vs[i].Name < vs[j].Name })
	return vs
}

// get returns the override for name (if set)
func (vs varList) get(name string) (string, bool) {
	i := sort.Search(len(vs), func(i int) bool { return vs[i].Name >= name })
	if i < len(vs) && vs[i].Name == name {
		return vs[i].Value, true
	}
	return "", false
}

// merge returns a copy of vs with o set on top
func (vs varList) merge(o varList) varList {
	m := vs.toMap()
	for _, v := range o {
		m[v.Name] = v.Value
	}
	return newVarList(m)
}

// toMap turns the list back into a plain map
func (vs varList) toMap() map[string]string {
	m := make(map[string]string, len(vs))
	for _, v := range vs {
		m[v.Name] = v.Value
	}
	return m
}

func (vs varList) String() string {
	if len(vs) == 0 {
		return ""
	}
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.String()
	}
	return "{" + strings.Join(parts, "; ") + "}"
}

// parseVarList reads the inside of a {k = v; k2 = v2} block.
func parseVarList(in string) (varList, error) {
	m := map[string]string{}
	for _, part := range splitTopLevel(in, ';') {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		eq := strings.Index(part, "=")
		if eq <= 0 {
			return nil, fmt.Errorf("invalid var override %q", part)
		}
		m[strings.TrimSpace(part[:eq])] = strings.TrimSpace(part[eq+1:])
	}
	return newVarList(m), nil
}

// splitTopLevel splits on sep, ignoring seps inside quotes, braces or
// parentheses.
func splitTopLevel(in string, sep rune) []string {
	out := []string{}
	depth := 0
	var quote rune
	escaped := false
	start := 0
	for i, r := range in {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '{' || r == '(':
			depth++
		case r == '}' || r == ')':
			depth--
		case r == sep && depth == 0:
			out = append(out, in[start:i])
			start = i + 1
		}
	}
	return append(out, in[start:])
}

// unquote strips matching surrounding quotes from a var value
func unquote(in string) string {
	if len(in) >= 2 {
		first, last := in[0], in[len(in)-1]
		if (first == '"' || first == '\'') && first == last {
			return in[1 : len(in)-1]
		}
	}
	return in
}
