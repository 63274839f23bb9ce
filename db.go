package bedrockscan

import (
	"fmt"

	"github.com/df-mc/dragonfly/server/world/mcdb/leveldat"
	"github.com/df-mc/goleveldb/leveldb"
	"github.com/df-mc/goleveldb/leveldb/filter"
	"github.com/df-mc/goleveldb/leveldb/opt"
)

// ErrNotFound is returned when a key is not found in the database.
var ErrNotFound = leveldb.ErrNotFound

// DB is a read-only view of the LevelDB database of a Bedrock world.
type DB struct {
	conf Config
	dir  string
	ldb  *leveldb.DB
	ro   *opt.ReadOptions
	// ldat is nil if no level.dat was found next to the database.
	ldat *leveldat.Data
}

// Open opens the world database under the path passed using default options.
func Open(dir string) (*DB, error) {
	var conf Config
	return conf.Open(dir)
}

// newDB creates a new DB instance.
func newDB(conf Config, dir string) (*DB, error) {
	db := &DB{
		conf: conf,
		dir:  dir,
		ro:   &opt.ReadOptions{},
	}
	o := &opt.Options{
		BlockCacheCapacity: conf.Options.CacheSize,
		WriteBuffer:        conf.Options.WriteBufferSize,
		Compression:        conf.Options.Compression.compression(),
		DisableBufferPool:  !conf.Options.ReuseReadBuffers,
		ErrorIfMissing:     true,
		ReadOnly:           true,
	}
	if conf.Options.VerifyChecksums {
		o.Strict = opt.DefaultStrict | opt.StrictBlockChecksum
		db.ro.Strict = opt.StrictBlockChecksum
	} else {
		// The engine verifies block checksums unless told otherwise.
		o.Strict = opt.DefaultStrict &^ opt.StrictBlockChecksum
	}
	if conf.Options.BloomFilterBits > 0 {
		o.Filter = filter.NewBloomFilter(conf.Options.BloomFilterBits)
	}
	if conf.Options.CacheSize <= 0 {
		o.DisableBlockCache = true
	}

	ldb, err := leveldb.OpenFile(dir, o)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.ldb = ldb

	if p := levelDatPath(dir); fileExists(p) {
		if err := db.readLevelDat(p); err != nil {
			conf.Options.Log.Warn("failed to read level.dat", "error", err)
		}
	}
	conf.Options.Log.Debug("opened world database", "path", dir, "level_name", db.LevelName())
	return db, nil
}

// readLevelDat reads the world settings from the level.dat at path.
func (db *DB) readLevelDat(path string) error {
	ldat, err := leveldat.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read level.dat: %w", err)
	}
	data := &leveldat.Data{}
	if err := ldat.Unmarshal(data); err != nil {
		return fmt.Errorf("unmarshal level.dat: %w", err)
	}
	db.ldat = data
	return nil
}

// Dir returns the path of the LevelDB directory that was opened.
func (db *DB) Dir() string {
	return db.dir
}

// LevelName returns the name of the world, or an empty string if the world
// has no level.dat.
func (db *DB) LevelName() string {
	if db.ldat == nil {
		return ""
	}
	return db.ldat.LevelName
}

// Get returns the value stored under key. If the key does not exist,
// errors.Is(err, ErrNotFound) equals true.
func (db *DB) Get(key []byte) ([]byte, error) {
	return db.ldb.Get(key, db.ro)
}

// NewKeyIterator returns a KeyIterator for iterating over all keys within the
// range passed. A nil range includes every key.
func (db *DB) NewKeyIterator(r *IteratorRange) *KeyIterator {
	if r == nil {
		r = &IteratorRange{}
	}
	return newKeyIterator(db, r)
}

// Close closes the database.
func (db *DB) Close() error {
	if err := db.ldb.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	return nil
}
