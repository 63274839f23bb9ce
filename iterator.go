package bedrockscan

import (
	"github.com/df-mc/dragonfly/server/world"
	"github.com/df-mc/goleveldb/leveldb/iterator"
)

// KeyIterator iterates over the keys of a DB in the order the engine stores
// them, which is ascending by raw bytes.
//
// When an error is encountered, any call to Next will return false and will
// yield no keys. The error can be queried by calling the Error method. Calling
// Release is still necessary.
//
// An iterator must be released after use, but it is not necessary to read
// an iterator until exhaustion.
type KeyIterator struct {
	r     *IteratorRange
	it    iterator.Iterator
	err   error
	key   []byte
	value []byte
	rec   Record
	// recErr is the error DecodeKey returned for the current key.
	recErr error
}

// newKeyIterator creates a new key iterator.
func newKeyIterator(db *DB, r *IteratorRange) *KeyIterator {
	return &KeyIterator{
		r:  r,
		it: db.ldb.NewIterator(nil, db.ro),
	}
}

// Next moves the iterator to the next key within the range.
// It returns false if the iterator is exhausted.
func (iter *KeyIterator) Next() bool {
	if iter.err != nil || iter.it == nil {
		return false
	}
	for iter.it.Next() {
		// The engine reuses the key and value buffers once the iterator moves.
		key := append([]byte(nil), iter.it.Key()...)
		rec, err := Classify(key)
		if !iter.r.within(rec, err) {
			continue
		}
		iter.key, iter.rec, iter.recErr = key, rec, err
		iter.value = append([]byte(nil), iter.it.Value()...)
		return true
	}
	if err := iter.it.Error(); err != nil {
		iter.err = err
	}
	iter.key, iter.value, iter.rec, iter.recErr = nil, nil, Record{}, nil
	return false
}

// Key returns the raw current key, or nil if none.
func (iter *KeyIterator) Key() []byte {
	return iter.key
}

// Value returns the value stored under the current key, or nil if none.
func (iter *KeyIterator) Value() []byte {
	return iter.value
}

// Record returns the decoded current key. An error wrapping ErrMalformedKey is
// returned if the key could not be decoded.
func (iter *KeyIterator) Record() (Record, error) {
	return iter.rec, iter.recErr
}

// Release releases resources associated with the iterator.
func (iter *KeyIterator) Release() {
	if iter.it != nil {
		iter.it.Release()
		iter.it = nil
	}
	iter.key, iter.value = nil, nil
}

// Error returns any accumulated error.
func (iter *KeyIterator) Error() error {
	return iter.err
}

// IteratorRange limits what keys are returned by a KeyIterator. If any limit
// is set, only chunk keys within the limits are returned.
type IteratorRange struct {
	// Min and Max limit what chunk positions are returned. Min is inclusive,
	// Max is exclusive. A zero value for both causes all positions to be
	// within range.
	Min, Max world.ChunkPos
	// Dimension specifies what dimension chunks should be from.
	// If nil, all dimensions are included.
	Dimension world.Dimension
}

// unbounded checks if the range has no limits set.
func (r *IteratorRange) unbounded() bool {
	return r.Dimension == nil && (r.Min == world.ChunkPos{}) && (r.Max == world.ChunkPos{})
}

// within checks if a classified key is within the IteratorRange.
func (r *IteratorRange) within(rec Record, err error) bool {
	if r.unbounded() {
		return true
	}
	if err != nil || rec.Kind != KeyChunk {
		return false
	}
	if r.Dimension != nil && rec.Dimension != r.Dimension {
		return false
	}
	pos := rec.Pos
	return ((r.Min == world.ChunkPos{}) && (r.Max == world.ChunkPos{})) ||
		pos[0] >= r.Min[0] && pos[0] < r.Max[0] && pos[1] >= r.Min[1] && pos[1] < r.Max[1]
}
