package tileedit

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const (
	sqlUpsertTile        = `INSERT INTO tiles (id, x, y, z, key) VALUES (:id, :x, :y, :z, :key) ON CONFLICT (id) DO UPDATE SET key=EXCLUDED.key;`
	sqlUpsertComposition = `INSERT INTO compositions (key, data) VALUES (:key, :data) ON CONFLICT (key) DO UPDATE SET data=EXCLUDED.data;`
	sqlUpsertMeta        = `INSERT INTO meta (name, value) VALUES (:name, :value) ON CONFLICT (name) DO UPDATE SET value=EXCLUDED.value;`

	// rows per insert, keeps us under sqlite's bound variable limit
	snapshotChunk = 150
)

// NewSnapshot creates a snapshot db with a random name in the os tempdir.
func NewSnapshot() (*Snapshot, error) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	fname := filepath.Join(os.TempDir(), fmt.Sprintf("tileedit.%d.sqlite", rng.Intn(1000000)))
	return OpenSnapshot(fname)
}

// OpenSnapshot given it's filename on disk. Will create if it doesn't exist.
func OpenSnapshot(fname string) (*Snapshot, error) {
	db, err := sqlx.Open("sqlite3", fname)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{db: db, filename: fname}
	return snap, snap.init()
}

// Snapshot persists a TileStore (bounds, key grid & the composition
// behind each key) to a sqlite file so a map can be reopened with the
// same keys.
type Snapshot struct {
	filename string
	db       *sqlx.DB
}

// Filename returns the path to the snapshot on disk
func (s *Snapshot) Filename() string {
	return s.filename
}

// Close the underlying db
func (s *Snapshot) Close() error {
	return s.db.Close()
}

// Save replaces the snapshot's content with the store's.
func (s *Snapshot) Save(store *TileStore) error {
	b := store.Bounds()
	meta := []dbMeta{
		newDBMeta("min_x", b.Min.X), newDBMeta("min_y", b.Min.Y), newDBMeta("min_z", b.Min.Z),
		newDBMeta("max_x", b.Max.X), newDBMeta("max_y", b.Max.Y), newDBMeta("max_z", b.Max.Z),
	}

	comps := []dbComposition{}
	for _, k := range store.Keys() {
		c, _ := store.Composition(k)
		comps = append(comps, dbComposition{Key: k, Data: c.String()})
	}

	tiles := []dbTile{}
	store.Each(func(l Location, k string) {
		tiles = append(tiles, newDBTile(l, k))
	})

	txn, err := s.db.Beginx()
	if err != nil {
		return err
	}

	for _, stmt := range []string{"DELETE FROM tiles;", "DELETE FROM compositions;"} {
		if _, err := txn.Exec(stmt); err != nil {
			txn.Rollback()
			return err
		}
	}

	if _, err := txn.NamedExec(sqlUpsertMeta, meta); err != nil {
		txn.Rollback()
		return err
	}
	for i := 0; i < len(comps); i += snapshotChunk {
		if _, err := txn.NamedExec(sqlUpsertComposition, comps[i:min(i+snapshotChunk, len(comps))]); err != nil {
			txn.Rollback()
			return err
		}
	}
	for i := 0; i < len(tiles); i += snapshotChunk {
		if _, err := txn.NamedExec(sqlUpsertTile, tiles[i:min(i+snapshotChunk, len(tiles))]); err != nil {
			txn.Rollback()
			return err
		}
	}

	return txn.Commit()
}

// Load reads the snapshot into a new store, resolving content with r.
// Instances of types r doesn't know are dropped (see ParseComposition).
func (s *Snapshot) Load(r TypeResolver) (*TileStore, error) {
	b, err := s.bounds()
	if err != nil {
		return nil, err
	}
	store := NewTileStore(b)

	comps := []dbComposition{}
	if err := s.db.Select(&comps, "SELECT key, data FROM compositions ORDER BY key;"); err != nil {
		return nil, err
	}
	for _, dc := range comps {
		c, err := ParseComposition(dc.Data, r)
		if err != nil {
			return nil, fmt.Errorf("composition %s: %w", dc.Key, err)
		}
		if err := store.Intern(dc.Key, c); err != nil {
			return nil, err
		}
	}

	tiles := []dbTile{}
	if err := s.db.Select(&tiles, "SELECT id, x, y, z, key FROM tiles;"); err != nil {
		return nil, err
	}
	for _, t := range tiles {
		if err := store.Put(Location{X: t.X, Y: t.Y, Z: t.Z}, t.Key); err != nil {
			return nil, err
		}
	}

	return store, nil
}

// At returns the key saved at the given location (or "" if unset)
func (s *Snapshot) At(l Location) (string, error) {
	rows, err := s.db.NamedQuery(
		"SELECT id,x,y,z,key FROM tiles WHERE x=:x0 AND y=:y0 AND z=:z0 LIMIT 1;",
		map[string]interface{}{
			"x0": l.X,
			"y0": l.Y,
			"z0": l.Z,
		},
	)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	tile := dbTile{}
	for rows.Next() { // there's at most one due to LIMIT 1
		if err := rows.StructScan(&tile); err != nil {
			return "", err
		}
	}

	return tile.Key, nil
}

// bounds reads the saved map bounds
func (s *Snapshot) bounds() (Bounds, error) {
	rows := []dbMeta{}
	if err := s.db.Select(&rows, "SELECT name, value FROM meta;"); err != nil {
		return Bounds{}, err
	}

	vals := map[string]int{}
	for _, m := range rows {
		v, err := strconv.Atoi(m.Value)
		if err != nil {
			return Bounds{}, fmt.Errorf("bad meta value %s=%s", m.Name, m.Value)
		}
		vals[m.Name] = v
	}
	for _, name := range []string{"min_x", "min_y", "min_z", "max_x", "max_y", "max_z"} {
		if _, ok := vals[name]; !ok {
			return Bounds{}, fmt.Errorf("snapshot %s has no saved map", s.filename)
		}
	}

	return Bounds{
		Min: Location{X: vals["min_x"], Y: vals["min_y"], Z: vals["min_z"]},
		Max: Location{X: vals["max_x"], Y: vals["max_y"], Z: vals["max_z"]},
	}, nil
}

// init creates some DB tables for us if they don't exist
func (s *Snapshot) init() error {
	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS tiles(
		id TEXT PRIMARY KEY,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		z INTEGER NOT NULL,
		key TEXT NOT NULL
	    );`,
		`CREATE TABLE IF NOT EXISTS compositions(
		key TEXT PRIMARY KEY,
		data TEXT NOT NULL
	    );`,
		`CREATE TABLE IF NOT EXISTS meta(
		name TEXT PRIMARY KEY,
		value TEXT NOT NULL
	    );`,
	} {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// dbTile encodes a single tile.
// The ID here is used to insert/update on a unique tile by it's (x,y,z)
// with a more straight forward query.
type dbTile struct {
	ID  string `db:"id"`
	X   int    `db:"x"`
	Y   int    `db:"y"`
	Z   int    `db:"z"`
	Key string `db:"key"`
}

func newDBTile(l Location, key string) dbTile {
	return dbTile{ID: fmt.Sprintf("%d-%d-%d", l.X, l.Y, l.Z), X: l.X, Y: l.Y, Z: l.Z, Key: key}
}

// dbComposition is the serialized content behind one key
type dbComposition struct {
	Key  string `db:"key"`
	Data string `db:"data"`
}

type dbMeta struct {
	Name  string `db:"name"`
	Value string `db:"value"`
}

func newDBMeta(name string, v int) dbMeta {
	return dbMeta{Name: name, Value: strconv.Itoa(v)}
}
