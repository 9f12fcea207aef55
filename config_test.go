package tileedit

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigMissing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))

	assert.Nil(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, Bounds{Min: Loc(1, 1, 1), Max: Loc(100, 100, 1)}, cfg.Bounds())
}

func TestLoadConfig(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "cfg.yaml")
	data := `
width: 20
height: 10
levels: 2
project_dir: /tmp/proj
random_chance: 0.25
filters:
  - /turf
  - ~/turf/wall
`
	assert.Nil(t, ioutil.WriteFile(fname, []byte(data), 0644))

	cfg, err := LoadConfig(fname)
	assert.Nil(t, err)
	assert.Equal(t, Loc(20, 10, 2), cfg.Bounds().Max)
	assert.Equal(t, "/tmp/proj", cfg.ProjectDir)
	assert.Equal(t, 0.25, cfg.RandomChance)
	assert.Equal(t, []string{"/turf", "~/turf/wall"}, cfg.Filters)
	assert.Equal(t, uint(32), cfg.IconSize)
	assert.Equal(t, DefaultAttachDepth, cfg.MaxAttachDepth)
}

func TestLoadConfigInvalid(t *testing.T) {
	for name, data := range map[string]string{
		"bad yaml":   "width: [",
		"no width":   "width: 0",
		"bad chance": "random_chance: 2",
		"bad depth":  "max_attach_depth: -1",
	} {
		fname := filepath.Join(t.TempDir(), "cfg.yaml")
		assert.Nil(t, ioutil.WriteFile(fname, []byte(data), 0644))

		_, err := LoadConfig(fname)
		assert.NotNil(t, err, name)
	}
}

func TestEditorUsesConfigFilter(t *testing.T) {
	r := testTypes()
	cfg := DefaultConfig()
	cfg.Filters = []string{"/obj"}

	e := NewEditor(cfg, nil)
	assert.True(t, e.Filter().Allows(inst(t, r, "/obj/lamp")))
	assert.False(t, e.Filter().Allows(inst(t, r, "/turf/floor")))
	assert.Equal(t, cfg.Bounds(), e.Store().Bounds())
}
