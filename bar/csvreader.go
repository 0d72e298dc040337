package bar

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// cacheSize bounds the read-ahead buffer each barReader keeps, so a feed
// over many symbols doesn't have to hold every file in memory at once.
// Ported from original_source's BarFileReader::CACHE_SIZE.
const cacheSize = 16

// barReader reads one symbol's CSV file lazily, buffering a handful of
// bars ahead so Peek can report the next timestamp without consuming it.
// Grounded on original_source's BarFileReader (peek/next/eof, CACHE_SIZE
// read-ahead).
type barReader struct {
	symbol string
	layout string
	file   *os.File
	csv    *csv.Reader
	eof    bool
	buf    []Bar
}

func newBarReader(symbol, path, layout string) (*barReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("bar: open %s: %w", path, err)
	}
	r := csv.NewReader(bufio.NewReader(f))
	r.FieldsPerRecord = -1 // allow variable column counts (volume/interest optional)
	return &barReader{symbol: symbol, layout: layout, file: f, csv: r}, nil
}

func (r *barReader) Close() error {
	return r.file.Close()
}

// fill tops the buffer up to cacheSize bars, or marks eof once the
// underlying reader is exhausted.
func (r *barReader) fill() error {
	for !r.eof && len(r.buf) < cacheSize {
		record, err := r.csv.Read()
		if err == io.EOF {
			r.eof = true
			break
		}
		if err != nil {
			return fmt.Errorf("bar: %s: read csv: %w", r.symbol, err)
		}
		b, ok, err := r.parseRecord(record)
		if err != nil {
			return err
		}
		if !ok {
			continue // header line
		}
		r.buf = append(r.buf, b)
	}
	return nil
}

func (r *barReader) parseRecord(record []string) (Bar, bool, error) {
	if len(record) < 5 {
		return Bar{}, false, fmt.Errorf("bar: %s: expected at least 5 columns, got %d", r.symbol, len(record))
	}

	layout := r.layout
	if layout == "" {
		layout = "2006-01-02"
	}
	ts, err := time.Parse(layout, record[0])
	if err != nil {
		// Tolerate a header row on the first read.
		if len(r.buf) == 0 {
			return Bar{}, false, nil
		}
		return Bar{}, false, fmt.Errorf("bar: %s: parse date %q: %w", r.symbol, record[0], err)
	}

	open, err := strconv.ParseFloat(record[1], 64)
	if err != nil {
		return Bar{}, false, fmt.Errorf("bar: %s: parse open: %w", r.symbol, err)
	}
	high, err := strconv.ParseFloat(record[2], 64)
	if err != nil {
		return Bar{}, false, fmt.Errorf("bar: %s: parse high: %w", r.symbol, err)
	}
	low, err := strconv.ParseFloat(record[3], 64)
	if err != nil {
		return Bar{}, false, fmt.Errorf("bar: %s: parse low: %w", r.symbol, err)
	}
	closePrice, err := strconv.ParseFloat(record[4], 64)
	if err != nil {
		return Bar{}, false, fmt.Errorf("bar: %s: parse close: %w", r.symbol, err)
	}

	volume := int64(0)
	if len(record) > 5 && record[5] != "" {
		volume, err = strconv.ParseInt(record[5], 10, 64)
		if err != nil {
			return Bar{}, false, fmt.Errorf("bar: %s: parse volume: %w", r.symbol, err)
		}
	}
	interest := VolumeInterestSentinel
	if len(record) > 6 && record[6] != "" {
		interest, err = strconv.ParseInt(record[6], 10, 64)
		if err != nil {
			return Bar{}, false, fmt.Errorf("bar: %s: parse open interest: %w", r.symbol, err)
		}
	}

	return Bar{
		Symbol:   r.symbol,
		Timestamp: ts,
		Open:     open,
		High:     high,
		Low:      low,
		Close:    closePrice,
		Volume:   volume,
		Interest: interest,
		Timespan: 24 * time.Hour,
	}, true, nil
}

// Peek reports the next bar without consuming it.
func (r *barReader) Peek() (Bar, bool, error) {
	if len(r.buf) < 2 {
		if err := r.fill(); err != nil {
			return Bar{}, false, err
		}
	}
	if len(r.buf) == 0 {
		return Bar{}, false, nil
	}
	return r.buf[0], true, nil
}

// Next consumes and returns the next bar, marking it IsLast if it is the
// final bar of the stream.
func (r *barReader) Next() (Bar, bool, error) {
	b, ok, err := r.Peek()
	if err != nil || !ok {
		return Bar{}, ok, err
	}
	r.buf = r.buf[1:]
	if len(r.buf) == 0 && r.eof {
		b.IsLast = true
	}
	return b, true, nil
}
