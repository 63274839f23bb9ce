package bedrockscan

import (
	"bufio"
	"fmt"
	"io"
)

// ScanOptions controls what DB.Scan writes for every key.
type ScanOptions struct {
	// Range limits the keys scanned. If nil, all keys are scanned.
	Range *IteratorRange
	// Values appends a summary of the value stored under every key.
	Values bool
}

// Scan writes one line describing every key of the database to w, in the
// order the engine stores them. Keys that cannot be decoded are written as
// malformed and do not stop the scan.
func (db *DB) Scan(w io.Writer, opts ScanOptions) (*Stats, error) {
	bw := bufio.NewWriter(w)
	stats := newStats()

	iter := db.NewKeyIterator(opts.Range)
	defer iter.Release()

	for iter.Next() {
		rec, err := iter.Record()
		stats.add(rec, err, len(iter.Value()))
		if err != nil {
			db.conf.Options.Log.Debug("malformed key", "key", fmt.Sprintf("%x", iter.Key()), "error", err)
		}

		line := describe(iter.Key(), rec, err)
		if opts.Values {
			line += " | " + SummariseValue(rec, iter.Value()).String()
		}
		if _, err := fmt.Fprintln(bw, line); err != nil {
			return stats, fmt.Errorf("scan: write: %w", err)
		}
	}
	if err := iter.Error(); err != nil {
		_ = bw.Flush()
		return stats, fmt.Errorf("scan: iterate: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return stats, fmt.Errorf("scan: write: %w", err)
	}
	stats.Log(db.conf.Options.Log)
	return stats, nil
}
