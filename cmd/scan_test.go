package main

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cqdetdev/bedrockscan"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/df-mc/goleveldb/leveldb"
	"github.com/df-mc/goleveldb/leveldb/opt"
	"github.com/df-mc/goleveldb/leveldb/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chunkKey creates an overworld chunk key.
func chunkKey(x, z int32, tag bedrockscan.Tag, extra ...byte) []byte {
	key := binary.LittleEndian.AppendUint32(nil, uint32(x))
	key = binary.LittleEndian.AppendUint32(key, uint32(z))
	return append(append(key, byte(tag)), extra...)
}

// createWorld writes a small database and returns its directory.
func createWorld(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	ldb, err := leveldb.OpenFile(dir, nil)
	require.NoError(t, err)
	for _, key := range [][]byte{
		[]byte("Nether"),
		chunkKey(5, -3, bedrockscan.TagEntity),
		chunkKey(0, 0, bedrockscan.TagSubChunkPrefix, 2),
	} {
		require.NoError(t, ldb.Put(key, []byte{1}, nil))
	}
	require.NoError(t, ldb.Close())
	return dir
}

// createCorruptWorld writes one uncompressed key to a table file and breaks
// the checksum of its block by flipping a byte of the value.
func createCorruptWorld(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	value := bytes.Repeat([]byte("bedrockscan"), 8)
	ldb, err := leveldb.OpenFile(dir, &opt.Options{Compression: opt.NoCompression})
	require.NoError(t, err)
	require.NoError(t, ldb.Put(chunkKey(1, 1, bedrockscan.TagEntity), value, nil))
	require.NoError(t, ldb.CompactRange(util.Range{}))
	require.NoError(t, ldb.Close())

	tables, err := filepath.Glob(filepath.Join(dir, "*.ldb"))
	require.NoError(t, err)
	require.NotEmpty(t, tables)
	for _, path := range tables {
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		i := bytes.Index(data, value)
		require.NotEqual(t, -1, i)
		data[i] ^= 0xff
		require.NoError(t, os.WriteFile(path, data, 0644))
	}
	return dir
}

func TestRunMissingPath(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 1, run([]string{"scan"}, &stdout, &stderr))
	assert.Equal(t, "Invalid database\n", stdout.String())
}

func TestRunOpenError(t *testing.T) {
	var stdout, stderr bytes.Buffer
	status := run([]string{"scan", filepath.Join(t.TempDir(), "missing")}, &stdout, &stderr)
	assert.Equal(t, 1, status)
	assert.Empty(t, stdout.String())
	assert.True(t, strings.HasPrefix(stderr.String(), "open error: "), stderr.String())
}

func TestRun(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, run([]string{"scan", createWorld(t)}, &stdout, &stderr), stderr.String())

	assert.Equal(t, []string{
		"X: 0, Z: 0, Tag: SubChunkPrefix, SubTrunkID: 2",
		"X: 5, Z: -3, Tag: Entity",
		"Nether",
	}, strings.Split(strings.TrimSuffix(stdout.String(), "\n"), "\n"))
	assert.Empty(t, stderr.String())
}

func TestRunFlags(t *testing.T) {
	var stdout, stderr bytes.Buffer
	args := []string{"scan", "--values", "--stats", "--min", "0,-5", "--max", "10,0", createWorld(t)}
	require.Equal(t, 0, run(args, &stdout, &stderr), stderr.String())

	out := stdout.String()
	assert.True(t, strings.HasPrefix(out, "X: 5, Z: -3, Tag: Entity | 1 bytes\n"), out)
	assert.NotContains(t, out, "Nether\n")
	assert.Contains(t, out, "Keys: 1\n")
}

func TestRunBadRange(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 1, run([]string{"scan", "--dimension", "aether", createWorld(t)}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "unknown dimension")
}

func TestRunVerify(t *testing.T) {
	dir := createCorruptWorld(t)

	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, run([]string{"scan", dir}, &stdout, &stderr), stderr.String())
	assert.Equal(t, "X: 1, Z: 1, Tag: Entity\n", stdout.String())

	stdout.Reset()
	stderr.Reset()
	assert.Equal(t, 1, run([]string{"scan", "--verify", dir}, &stdout, &stderr))
	assert.True(t, strings.HasPrefix(stderr.String(), "scan: iterate: "), stderr.String())
}

func TestRunFlagsAfterPath(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 1, run([]string{"scan", createWorld(t), "--stats"}, &stdout, &stderr))
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "unexpected arguments after database path: --stats")
}

func TestParseRange(t *testing.T) {
	r, err := parseRange("", "", "")
	require.NoError(t, err)
	assert.Nil(t, r)

	r, err = parseRange("Nether", "-1, 2", "3,4")
	require.NoError(t, err)
	assert.Equal(t, world.Nether, r.Dimension)
	assert.Equal(t, world.ChunkPos{-1, 2}, r.Min)
	assert.Equal(t, world.ChunkPos{3, 4}, r.Max)

	_, err = parseRange("", "1,2", "")
	assert.Error(t, err)
	_, err = parseRange("", "1", "2,3")
	assert.Error(t, err)
	_, err = parseRange("", "1,x", "2,3")
	assert.Error(t, err)
}
