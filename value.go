package bedrockscan

import (
	"bytes"
	"fmt"

	"github.com/sandertv/gophertunnel/minecraft/nbt"
)

// ValueSummary describes the value stored under a key.
type ValueSummary struct {
	Size int
	// Compounds is the number of little endian NBT compounds the value holds.
	// It is only set for records that store NBT.
	Compounds int
	// Ticks is the number of scheduled block updates held by a
	// TagPendingTicks record.
	Ticks    int
	HasTicks bool
	// Version is the chunk version held by a TagVersion record.
	Version    byte
	HasVersion bool
}

// String renders the summary for appending to a key line.
func (s ValueSummary) String() string {
	switch {
	case s.HasVersion:
		return fmt.Sprintf("%d bytes, version %d", s.Size, s.Version)
	case s.HasTicks:
		return fmt.Sprintf("%d bytes, %d pending ticks", s.Size, s.Ticks)
	case s.Compounds > 0:
		return fmt.Sprintf("%d bytes, %d nbt compounds", s.Size, s.Compounds)
	}
	return fmt.Sprintf("%d bytes", s.Size)
}

// storesNBT checks if records with the tag hold a list of NBT compounds.
func storesNBT(t Tag) bool {
	return t == TagBlockEntity || t == TagEntity
}

// pendingTicks is the single compound stored in a TagPendingTicks record.
type pendingTicks struct {
	CurrentTick int32            `nbt:"currentTick"`
	TickList    []map[string]any `nbt:"tickList"`
}

// SummariseValue summarises the value stored under a key decoded into rec.
func SummariseValue(rec Record, value []byte) ValueSummary {
	s := ValueSummary{Size: len(value)}
	if rec.Kind != KeyChunk {
		return s
	}
	switch {
	case rec.Tag == TagVersion && len(value) > 0:
		s.Version, s.HasVersion = value[0], true
	case rec.Tag == TagPendingTicks:
		var m pendingTicks
		if err := nbt.UnmarshalEncoding(value, &m, nbt.LittleEndian); err == nil {
			s.Ticks, s.HasTicks = len(m.TickList), true
		}
	case storesNBT(rec.Tag):
		s.Compounds = countCompounds(value)
	}
	return s
}

// countCompounds counts the NBT compounds that can be decoded from data,
// stopping at the first one that fails to decode.
func countCompounds(data []byte) int {
	var n int
	buf := bytes.NewBuffer(data)
	dec := nbt.NewDecoderWithEncoding(buf, nbt.LittleEndian)
	for buf.Len() > 0 {
		m := make(map[string]any)
		if err := dec.Decode(&m); err != nil {
			break
		}
		n++
	}
	return n
}
