package bedrockscan

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/df-mc/dragonfly/server/world"
)

// ErrMalformedKey is returned by DecodeKey when a key is too short for the
// layout its length selects.
var ErrMalformedKey = errors.New("malformed key")

// GlobalKeys holds the reserved keys that do not belong to any chunk. They are
// printed as-is and never passed through DecodeKey.
var GlobalKeys = []string{"AutonomousEntities", "Nether", "TheEnd"}

const (
	// mainKeyMaxLen is the longest key that is read as an overworld chunk key.
	// Longer keys carry a dimension qualifier before the tag.
	mainKeyMaxLen = 4 + 4 + 4 + 1
	mainTagIndex  = 8
	subTagIndex   = 24
)

// KeyKind classifies a raw key.
type KeyKind int

const (
	// KeyChunk is a key holding a record of a chunk column.
	KeyChunk KeyKind = iota
	// KeyGlobal is one of the GlobalKeys.
	KeyGlobal
	// KeyUnknown is a key whose length does not reach the tag byte.
	KeyUnknown
)

// Record is the decoded form of a raw key.
type Record struct {
	Kind KeyKind
	// Key is the raw key the record was decoded from.
	Key []byte

	Pos world.ChunkPos
	// Dimension is the dimension the chunk is in, or nil if the dimension id
	// in the key is not known.
	Dimension world.Dimension
	Tag       Tag

	// SubChunk is the sub-chunk index. It is only set if HasSubChunk is true,
	// which is the case for TagSubChunkPrefix records.
	SubChunk    int8
	HasSubChunk bool
}

// String renders the record as a single line.
func (r Record) String() string {
	switch r.Kind {
	case KeyGlobal:
		return string(r.Key)
	case KeyUnknown:
		return "Unknown key: " + string(r.Key)
	}
	if r.HasSubChunk {
		return fmt.Sprintf("X: %d, Z: %d, Tag: %v, SubTrunkID: %d", r.Pos[0], r.Pos[1], r.Tag, r.SubChunk)
	}
	return fmt.Sprintf("X: %d, Z: %d, Tag: %v", r.Pos[0], r.Pos[1], r.Tag)
}

// IsGlobalKey checks if key is exactly one of the GlobalKeys.
func IsGlobalKey(key []byte) bool {
	for _, g := range GlobalKeys {
		if string(key) == g {
			return true
		}
	}
	return false
}

// DecodeKey decodes a chunk key. Keys that are too short to reach their tag
// byte decode into a KeyUnknown record. An error wrapping ErrMalformedKey is
// returned if the key cannot hold the chunk coordinates, or if a
// TagSubChunkPrefix key lacks its sub-chunk index.
//
// DecodeKey does not special case GlobalKeys: use Describe for that.
func DecodeKey(key []byte) (Record, error) {
	if len(key) < 8 {
		return Record{}, fmt.Errorf("%w: %d bytes, need at least 8", ErrMalformedKey, len(key))
	}
	r := Record{Key: key}
	r.Pos = world.ChunkPos{
		int32(binary.LittleEndian.Uint32(key[0:4])),
		int32(binary.LittleEndian.Uint32(key[4:8])),
	}

	tagIndex := mainTagIndex
	if len(key) > mainKeyMaxLen {
		tagIndex = subTagIndex
	}
	if len(key)-1 < tagIndex {
		return Record{Kind: KeyUnknown, Key: key}, nil
	}
	r.Dimension = keyDimension(key)
	r.Tag = Tag(key[tagIndex])

	if r.Tag == TagSubChunkPrefix {
		if len(key) <= tagIndex+1 {
			return Record{}, fmt.Errorf("%w: %v key without sub-chunk index", ErrMalformedKey, r.Tag)
		}
		r.SubChunk, r.HasSubChunk = int8(key[tagIndex+1]), true
	}
	return r, nil
}

// keyDimension returns the dimension a chunk key belongs to. Overworld keys
// have no qualifier; other keys start their qualifier with the dimension id.
func keyDimension(key []byte) world.Dimension {
	if len(key) <= mainKeyMaxLen {
		return world.Overworld
	}
	dim, ok := world.DimensionByID(int(int32(binary.LittleEndian.Uint32(key[8:12]))))
	if !ok {
		return nil
	}
	return dim
}

// Classify returns the record for any key, including GlobalKeys.
func Classify(key []byte) (Record, error) {
	if IsGlobalKey(key) {
		return Record{Kind: KeyGlobal, Key: key}, nil
	}
	return DecodeKey(key)
}

// Describe returns the line printed for a key. Malformed keys are rendered as
// "MalformedKey: " followed by the hex encoded key.
func Describe(key []byte) string {
	r, err := Classify(key)
	return describe(key, r, err)
}

// describe renders a key that was already classified.
func describe(key []byte, r Record, err error) string {
	if err != nil {
		return "MalformedKey: " + hex.EncodeToString(key)
	}
	return r.String()
}
