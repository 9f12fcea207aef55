package tileedit

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"log"
	"path/filepath"
	"sort"
	"strings"
)

// RulesFile is the name of the attachment rules file in a project dir.
const RulesFile = "attached_tiles.json"

// DirRules maps a direction to the type paths placed on that side.
type DirRules map[Direction][]string

// Empty returns if no direction has any types.
func (d DirRules) Empty() bool {
	for _, v := range d {
		if len(v) > 0 {
			return false
		}
	}
	return true
}

// RuleKey returns the rule key for an icon & state: "<icon>#<state>",
// with the icon path using forward slashes.
func RuleKey(icon, state string) string {
	return strings.ReplaceAll(icon, "\\", "/") + "#" + state
}

// RuleKeyOf returns the rule key for an instance.
func RuleKeyOf(o *ObjectInstance) string {
	return RuleKey(o.Icon(), o.IconState())
}

// RuleSet holds attachment rules keyed by icon & state.
type RuleSet struct {
	filename string
	rules    map[string]DirRules
}

// rulesDoc is the JSON layout of the rules file
type rulesDoc struct {
	Version int                            `json:"version"`
	Rules   map[string]map[string][]string `json:"rules"`
}

// NewRuleSet returns an empty rule set that is never saved.
func NewRuleSet() *RuleSet {
	return &RuleSet{rules: map[string]DirRules{}}
}

// LoadRules reads the rules file in dir. A missing file is created empty;
// an unreadable one is logged & treated as empty.
func LoadRules(dir string) *RuleSet {
	r := NewRuleSet()
	r.filename = filepath.Join(dir, RulesFile)

	if !fileExists(r.filename) {
		if err := r.Save(); err != nil {
			log.Printf("failed to create %s: %v", r.filename, err)
		}
		return r
	}

	data, err := ioutil.ReadFile(r.filename)
	if err != nil {
		log.Printf("failed to read %s: %v", r.filename, err)
		return r
	}
	if err := r.decode(data); err != nil {
		log.Printf("ignoring malformed %s: %v", r.filename, err)
		r.rules = map[string]DirRules{}
	}
	return r
}

// Filename returns where the rules are saved ("" if never).
func (r *RuleSet) Filename() string {
	return r.filename
}

func (r *RuleSet) decode(data []byte) error {
	doc := rulesDoc{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	for key, byDir := range doc.Rules {
		dr := DirRules{}
		for name, paths := range byDir {
			d, ok := ParseDirection(name)
			if !ok {
				return fmt.Errorf("rule %s: unknown direction %q", key, name)
			}
			dr[d] = cleanPaths(paths)
		}
		r.rules[key] = dr
	}
	return nil
}

// Save writes the rules file (a no-op for a rule set with no file).
func (r *RuleSet) Save() error {
	if r.filename == "" {
		return nil
	}

	doc := rulesDoc{Version: 1, Rules: map[string]map[string][]string{}}
	for key, dr := range r.rules {
		byDir := map[string][]string{}
		for _, d := range Cardinals {
			paths := dr[d]
			if paths == nil {
				paths = []string{}
			}
			byDir[d.String()] = paths
		}
		doc.Rules[key] = byDir
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return ioutil.WriteFile(r.filename, data, 0644)
}

// Get returns a copy of the rules for key. All four directions are present.
func (r *RuleSet) Get(key string) DirRules {
	out := DirRules{}
	for _, d := range Cardinals {
		out[d] = append([]string{}, r.rules[key][d]...)
	}
	return out
}

// For returns the rules that apply to an instance.
func (r *RuleSet) For(o *ObjectInstance) DirRules {
	return r.Get(RuleKeyOf(o))
}

// Set replaces the rules for key and saves.
func (r *RuleSet) Set(key string, rules DirRules) error {
	dr := DirRules{}
	for _, d := range Cardinals {
		dr[d] = cleanPaths(rules[d])
	}
	r.rules[key] = dr
	return r.Save()
}

// Clear removes the rules for key and saves.
func (r *RuleSet) Clear(key string) error {
	if _, ok := r.rules[key]; !ok {
		return nil
	}
	delete(r.rules, key)
	return r.Save()
}

// Keys returns all keys with rules, sorted.
func (r *RuleSet) Keys() []string {
	keys := make([]string, 0, len(r.rules))
	for k := range r.rules {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// cleanPaths drops blank entries
func cleanPaths(in []string) []string {
	out := []string{}
	for _, p := range in {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
