package bar

import (
	"context"
	"fmt"
	"path/filepath"
)

// CSVFeed reads one CSV file per symbol from Directory (named
// "<symbol><Suffix>") and performs a K-way merge by timestamp across all
// subscribed symbols. Dates are parsed with DateLayout (Go reference-time
// layout), defaulting to "2006-01-02". Grounded on original_source's
// PinnacleDataFeed: directory/suffix/date_format configuration and the
// linear min-timestamp scan in PinnacleDataFeed::start (small N — a
// handful to a few dozen symbols — makes a linear scan preferable to a
// heap, per spec §4.1).
type CSVFeed struct {
	Directory  string
	Suffix     string
	DateLayout string

	readers []*barReader
}

// Subscribe opens <Directory>/<symbol><Suffix> for reading. Re-subscribing
// the same symbol is a no-op.
func (f *CSVFeed) Subscribe(symbol string) error {
	for _, r := range f.readers {
		if r.symbol == symbol {
			return nil
		}
	}
	path := filepath.Join(f.Directory, symbol+f.Suffix)
	r, err := newBarReader(symbol, path, f.DateLayout)
	if err != nil {
		return err
	}
	f.readers = append(f.readers, r)
	return nil
}

// Unsubscribe drops symbol's reader, closing its file. No-op if absent.
func (f *CSVFeed) Unsubscribe(symbol string) {
	for i, r := range f.readers {
		if r.symbol == symbol {
			_ = r.Close()
			f.readers = append(f.readers[:i], f.readers[i+1:]...)
			return
		}
	}
}

// Start emits bars in global non-decreasing timestamp order until every
// reader is exhausted or ctx is cancelled.
func (f *CSVFeed) Start(ctx context.Context, onBar func(Bar)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		minIdx := -1
		var minBar Bar
		for i, r := range f.readers {
			b, ok, err := r.Peek()
			if err != nil {
				return fmt.Errorf("bar: csv feed: %w", err)
			}
			if !ok {
				continue
			}
			if minIdx == -1 || b.Timestamp.Before(minBar.Timestamp) {
				minIdx = i
				minBar = b
			}
		}

		if minIdx == -1 {
			return nil // every stream exhausted
		}

		b, _, err := f.readers[minIdx].Next()
		if err != nil {
			return fmt.Errorf("bar: csv feed: %w", err)
		}
		onBar(b)
	}
}

// Reset drops all subscriptions, closing their files.
func (f *CSVFeed) Reset() {
	for _, r := range f.readers {
		_ = r.Close()
	}
	f.readers = nil
}
