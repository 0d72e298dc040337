package bar

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeCSV(t *testing.T, dir, symbol, body string) {
	t.Helper()
	path := filepath.Join(dir, symbol+".csv")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestCSVFeedMergesSymbolsByTimestamp(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "AAA", "date,open,high,low,close,volume\n"+
		"2024-01-01,10,11,9,10.5,100\n"+
		"2024-01-03,11,12,10,11.5,110\n")
	writeCSV(t, dir, "BBB", "date,open,high,low,close,volume\n"+
		"2024-01-02,20,21,19,20.5,200\n")

	feed := &CSVFeed{Directory: dir, Suffix: ".csv"}
	if err := feed.Subscribe("AAA"); err != nil {
		t.Fatalf("subscribe AAA: %v", err)
	}
	if err := feed.Subscribe("BBB"); err != nil {
		t.Fatalf("subscribe BBB: %v", err)
	}

	var got []Bar
	if err := feed.Start(context.Background(), func(b Bar) { got = append(got, b) }); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("got %d bars, want 3: %+v", len(got), got)
	}
	wantOrder := []string{"AAA", "BBB", "AAA"}
	for i, symbol := range wantOrder {
		if got[i].Symbol != symbol {
			t.Errorf("bar[%d].Symbol = %q, want %q", i, got[i].Symbol, symbol)
		}
	}
	for i := 1; i < len(got); i++ {
		if got[i].Timestamp.Before(got[i-1].Timestamp) {
			t.Errorf("bars not in non-decreasing timestamp order at index %d", i)
		}
	}
}

func TestCSVFeedMarksLastBarOfEachStream(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "AAA", "date,open,high,low,close\n"+
		"2024-01-01,10,11,9,10.5\n"+
		"2024-01-02,11,12,10,11.5\n")

	feed := &CSVFeed{Directory: dir, Suffix: ".csv"}
	if err := feed.Subscribe("AAA"); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	var got []Bar
	if err := feed.Start(context.Background(), func(b Bar) { got = append(got, b) }); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("got %d bars, want 2", len(got))
	}
	if got[0].IsLast {
		t.Error("first bar should not be marked IsLast")
	}
	if !got[1].IsLast {
		t.Error("final bar of the stream should be marked IsLast")
	}
}

func TestCSVFeedResubscribeIsNoop(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "AAA", "date,open,high,low,close\n2024-01-01,10,11,9,10.5\n")

	feed := &CSVFeed{Directory: dir, Suffix: ".csv"}
	if err := feed.Subscribe("AAA"); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err := feed.Subscribe("AAA"); err != nil {
		t.Fatalf("re-subscribe: %v", err)
	}
	if len(feed.readers) != 1 {
		t.Fatalf("re-subscribing created %d readers, want 1", len(feed.readers))
	}
}

func TestCSVFeedUnsubscribeStopsEmitting(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "AAA", "date,open,high,low,close\n2024-01-01,10,11,9,10.5\n")
	writeCSV(t, dir, "BBB", "date,open,high,low,close\n2024-01-01,20,21,19,20.5\n")

	feed := &CSVFeed{Directory: dir, Suffix: ".csv"}
	feed.Subscribe("AAA")
	feed.Subscribe("BBB")
	feed.Unsubscribe("AAA")

	var got []Bar
	if err := feed.Start(context.Background(), func(b Bar) { got = append(got, b) }); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if len(got) != 1 || got[0].Symbol != "BBB" {
		t.Fatalf("got %+v, want only BBB", got)
	}
}
