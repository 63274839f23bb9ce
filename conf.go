package bedrockscan

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/df-mc/goleveldb/leveldb/opt"
)

// CompressionType specifies the block compression the engine is configured
// with. It only affects data written by the engine; reads decode whatever
// codec a block was written with.
type CompressionType int

const (
	// CompressionFlate uses raw zlib (flate) compression, as the game does.
	CompressionFlate CompressionType = iota
	// CompressionSnappy uses Snappy compression.
	CompressionSnappy
	// CompressionNone disables compression.
	CompressionNone
)

// Options holds configuration options for opening a world database. None of
// them change how keys are decoded.
type Options struct {
	// BloomFilterBits is the number of bits per key of the bloom filter
	// used to quickly tell if a key is in the database. Zero disables it.
	// Defaults to 10.
	BloomFilterBits int

	// CacheSize is the number of bytes of the block cache.
	// Defaults to 40MB.
	CacheSize int

	// WriteBufferSize is the size of the engine's memtable.
	// Defaults to 4MB.
	WriteBufferSize int

	// Compression specifies the compression the engine is configured with.
	// Defaults to CompressionFlate.
	Compression CompressionType

	// ReuseReadBuffers makes the engine reuse buffers for reading and
	// decompressing blocks instead of allocating them for every read.
	// Defaults to true.
	ReuseReadBuffers bool

	// VerifyChecksums enables block checksum verification on reads. If false,
	// blocks are decoded without checking their checksum.
	// Defaults to false.
	VerifyChecksums bool

	// Log is the Logger to use for debug messages and errors.
	// If nil, defaults to slog.Default().
	Log *slog.Logger
}

// DefaultOptions returns the options the game itself opens worlds with.
func DefaultOptions() *Options {
	return &Options{
		BloomFilterBits:  10,
		CacheSize:        40 * opt.MiB,
		WriteBufferSize:  4 * opt.MiB,
		Compression:      CompressionFlate,
		ReuseReadBuffers: true,
		Log:              slog.Default(),
	}
}

// MobileOptions returns options for devices with little memory.
func MobileOptions() *Options {
	return &Options{
		BloomFilterBits:  10,
		CacheSize:        8 * opt.MiB,
		WriteBufferSize:  opt.MiB,
		Compression:      CompressionFlate,
		ReuseReadBuffers: false,
		Log:              slog.Default(),
	}
}

// compression returns the engine's compression setting.
func (c CompressionType) compression() opt.Compression {
	switch c {
	case CompressionSnappy:
		return opt.SnappyCompression
	case CompressionNone:
		return opt.NoCompression
	default:
		return opt.FlateCompression
	}
}

// Config holds configuration for opening a world database.
type Config struct {
	Options *Options
}

// Open opens the world database under the path passed for reading. The path
// may either be the LevelDB directory itself or the world folder holding
// level.dat and the db directory.
func (conf Config) Open(dir string) (*DB, error) {
	if conf.Options == nil {
		conf.Options = DefaultOptions()
	}
	o := *conf.Options
	conf.Options = &o
	if conf.Options.Log == nil {
		conf.Options.Log = slog.Default()
	}
	conf.Options.Log = conf.Options.Log.With("provider", "bedrockscan")

	return newDB(conf, dbPath(dir))
}

// fileExists checks if a file exists at the given path.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// dbPath returns the LevelDB directory for a path that is either a world
// folder or a LevelDB directory.
func dbPath(dir string) string {
	if fileExists(filepath.Join(dir, "level.dat")) && fileExists(filepath.Join(dir, "db")) {
		return filepath.Join(dir, "db")
	}
	return dir
}

// levelDatPath returns the path of the level.dat belonging to a LevelDB
// directory.
func levelDatPath(dbDir string) string {
	return filepath.Join(filepath.Dir(filepath.Clean(dbDir)), "level.dat")
}
