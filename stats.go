package bedrockscan

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/df-mc/dragonfly/server/world"
	"github.com/google/uuid"
)

// Stats holds counts gathered while scanning a database.
type Stats struct {
	Keys          int64
	GlobalKeys    int64
	ChunkKeys     int64
	UnknownKeys   int64
	MalformedKeys int64
	// Players is the number of player records, keyed by player UUID.
	Players    int64
	ValueBytes int64

	Tags       map[Tag]int64
	Dimensions map[string]int64
	columns    map[columnKey]struct{}
}

// columnKey identifies a chunk column by position and dimension name.
type columnKey struct {
	pos world.ChunkPos
	dim string
}

// newStats creates an empty Stats.
func newStats() *Stats {
	return &Stats{
		Tags:       make(map[Tag]int64),
		Dimensions: make(map[string]int64),
		columns:    make(map[columnKey]struct{}),
	}
}

// add counts a classified key and the size of its value.
func (s *Stats) add(rec Record, err error, valueSize int) {
	s.Keys++
	s.ValueBytes += int64(valueSize)
	if err != nil {
		s.MalformedKeys++
		return
	}
	if isPlayerKey(rec.Key) {
		s.Players++
		return
	}
	switch rec.Kind {
	case KeyGlobal:
		s.GlobalKeys++
	case KeyUnknown:
		s.UnknownKeys++
	case KeyChunk:
		s.ChunkKeys++
		s.Tags[rec.Tag]++
		dim := dimensionName(rec.Dimension)
		s.Dimensions[dim]++
		s.columns[columnKey{pos: rec.Pos, dim: dim}] = struct{}{}
	}
}

// Columns returns the number of distinct chunk columns seen.
func (s *Stats) Columns() int {
	return len(s.columns)
}

// isPlayerKey checks if the key holds the data of a player identified by
// UUID. Such keys are not chunk keys, but their length makes them decode as
// one.
func isPlayerKey(key []byte) bool {
	k := string(key)
	for _, prefix := range []string{"player_server_", "player_"} {
		if id, ok := strings.CutPrefix(k, prefix); ok {
			_, err := uuid.Parse(id)
			return err == nil
		}
	}
	return false
}

// dimensionName returns the name of the dimension as used in chunk keys.
func dimensionName(dim world.Dimension) string {
	if dim == nil {
		return "Unknown"
	}
	id, _ := world.DimensionID(dim)
	switch id {
	case 0:
		return "Overworld"
	case 1:
		return "Nether"
	case 2:
		return "TheEnd"
	}
	return "Unknown"
}

// WriteTo writes a human readable summary of the stats to w.
func (s *Stats) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Keys: %d\n", s.Keys)
	fmt.Fprintf(&b, "  Global: %d\n", s.GlobalKeys)
	fmt.Fprintf(&b, "  Chunk: %d\n", s.ChunkKeys)
	fmt.Fprintf(&b, "  Unknown: %d\n", s.UnknownKeys)
	fmt.Fprintf(&b, "  Malformed: %d\n", s.MalformedKeys)
	fmt.Fprintf(&b, "Columns: %d\n", s.Columns())
	fmt.Fprintf(&b, "Players: %d\n", s.Players)
	fmt.Fprintf(&b, "Value bytes: %d\n", s.ValueBytes)

	tags := make([]Tag, 0, len(s.Tags))
	for t := range s.Tags {
		tags = append(tags, t)
	}
	slices.Sort(tags)
	b.WriteString("Tags:\n")
	for _, t := range tags {
		if t.Known() {
			fmt.Fprintf(&b, "  %v: %d\n", t, s.Tags[t])
		} else {
			fmt.Fprintf(&b, "  %v (%d): %d\n", t, byte(t), s.Tags[t])
		}
	}

	dims := make([]string, 0, len(s.Dimensions))
	for d := range s.Dimensions {
		dims = append(dims, d)
	}
	slices.Sort(dims)
	b.WriteString("Dimensions:\n")
	for _, d := range dims {
		fmt.Fprintf(&b, "  %s: %d\n", d, s.Dimensions[d])
	}

	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

// Log logs the stats once.
func (s *Stats) Log(log *slog.Logger) {
	log.Info("scan complete",
		"keys", s.Keys,
		"global_keys", s.GlobalKeys,
		"chunk_keys", s.ChunkKeys,
		"unknown_keys", s.UnknownKeys,
		"malformed_keys", s.MalformedKeys,
		"columns", s.Columns(),
		"players", s.Players,
		"value_bytes", s.ValueBytes,
	)
}
