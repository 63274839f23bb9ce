package bedrockscan

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/df-mc/goleveldb/leveldb/opt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions(t *testing.T) {
	o := DefaultOptions()
	assert.Equal(t, 10, o.BloomFilterBits)
	assert.Equal(t, 40*opt.MiB, o.CacheSize)
	assert.Equal(t, 4*opt.MiB, o.WriteBufferSize)
	assert.Less(t, MobileOptions().CacheSize, o.CacheSize)

	assert.Equal(t, opt.FlateCompression, CompressionFlate.compression())
	assert.Equal(t, opt.SnappyCompression, CompressionSnappy.compression())
	assert.Equal(t, opt.NoCompression, CompressionNone.compression())
}

func TestOpenWithoutOptions(t *testing.T) {
	dir := createTestDB(t, t.TempDir(), entry{overworldKey(0, 0, TagVersion), []byte{40}})
	o := MobileOptions()
	o.Log = nil
	o.CacheSize = 0
	o.VerifyChecksums = true

	db, err := Config{Options: o}.Open(dir)
	require.NoError(t, err)
	defer db.Close()
	assert.Empty(t, db.LevelName())

	v, err := db.Get(overworldKey(0, 0, TagVersion))
	require.NoError(t, err)
	assert.Equal(t, []byte{40}, v)
}

func TestOpenKeepsOptions(t *testing.T) {
	dir := createTestDB(t, t.TempDir(), entry{overworldKey(0, 0, TagVersion), []byte{40}})
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	o := DefaultOptions()
	o.Log = log
	want := *o

	for i := 0; i < 2; i++ {
		db, err := Config{Options: o}.Open(dir)
		require.NoError(t, err)
		assert.NotSame(t, o, db.conf.Options)
		require.NoError(t, db.Close())
	}
	assert.Same(t, log, o.Log)
	assert.Equal(t, want, *o)

	o.Log = nil
	db, err := Config{Options: o}.Open(dir)
	require.NoError(t, err)
	require.NoError(t, db.Close())
	assert.Nil(t, o.Log)
}

func TestDBPath(t *testing.T) {
	worldDir := t.TempDir()
	assert.Equal(t, worldDir, dbPath(worldDir))

	require.NoError(t, os.Mkdir(filepath.Join(worldDir, "db"), 0777))
	require.NoError(t, os.WriteFile(filepath.Join(worldDir, "level.dat"), nil, 0666))
	assert.Equal(t, filepath.Join(worldDir, "db"), dbPath(worldDir))
	assert.Equal(t, filepath.Join(worldDir, "level.dat"), levelDatPath(filepath.Join(worldDir, "db")))
}
