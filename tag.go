package bedrockscan

// Tag is the single byte in a chunk key that identifies what kind of record
// the key refers to.
type Tag byte

const (
	// TagData2D holds the height map and 2D biomes of a column.
	TagData2D         Tag = 45
	// TagData2DLegacy holds the height map and biomes of a column in the pre-1.0 format.
	TagData2DLegacy   Tag = 46
	// TagSubChunkPrefix holds the blocks of one sub-chunk. The key carries the sub-chunk index.
	TagSubChunkPrefix Tag = 47
	// TagLegacyTerrain holds all blocks of a column in the pre-1.0 terrain format.
	TagLegacyTerrain  Tag = 48
	// TagBlockEntity holds the block entities of a column as NBT compounds.
	TagBlockEntity    Tag = 49
	// TagEntity holds the entities of a column as NBT compounds.
	TagEntity         Tag = 50
	// TagPendingTicks holds the scheduled block updates of a column.
	TagPendingTicks   Tag = 51
	// TagBlockExtraData holds extra block data, such as the water of waterlogged blocks.
	TagBlockExtraData Tag = 52
	// TagBiomeState holds the biome state of a column.
	TagBiomeState     Tag = 53
	// TagFinalizedState holds the generation state of a column.
	TagFinalizedState Tag = 54
	// TagVersion holds the chunk format version of a column.
	TagVersion        Tag = 118
)

// Known reports if the tag is one of the record tags listed above.
func (t Tag) Known() bool {
	return t.String() != "Unknown"
}

// String returns the name of the tag, or "Unknown" for any byte value that
// is not a known record tag.
func (t Tag) String() string {
	switch t {
	case TagData2D:
		return "Data2D"
	case TagData2DLegacy:
		return "Data2DLegacy"
	case TagSubChunkPrefix:
		return "SubChunkPrefix"
	case TagLegacyTerrain:
		return "LegacyTerrain"
	case TagBlockEntity:
		return "BlockEntity"
	case TagEntity:
		return "Entity"
	case TagPendingTicks:
		return "PendingTicks"
	case TagBlockExtraData:
		return "BlockExtraData"
	case TagBiomeState:
		return "BiomeState"
	case TagFinalizedState:
		return "FinalizedState"
	case TagVersion:
		return "Version"
	}
	return "Unknown"
}
