package memhunter

import (
	"testing"
	"time"
)

func TestIndexingStatusHelpers(t *testing.T) {
	s := IndexingStatus{IsIndexing: true, Progress: 25, Total: 100}
	if s.ProgressText() != "25/100" {
		t.Fatalf("ProgressText = %q, want 25/100", s.ProgressText())
	}
	if s.Fraction() != 0.25 {
		t.Fatalf("Fraction = %v, want 0.25", s.Fraction())
	}
	if (IndexingStatus{Progress: 5}).Fraction() != 0 {
		t.Fatalf("Fraction should be 0 when Total<=0")
	}
	if (IndexingStatus{Progress: 12, Total: 10}).Fraction() != 1 {
		t.Fatalf("Fraction should clamp to 1")
	}
}

func TestSearchResultScoreText(t *testing.T) {
	cases := map[float64]string{
		0.9123: "91.2%",
		0.5:    "50.0%",
		1:      "100.0%",
		0:      "0.0%",
	}
	for score, want := range cases {
		if got := (SearchResult{Score: score}).ScoreText(); got != want {
			t.Fatalf("ScoreText(%v) = %q, want %q", score, got, want)
		}
	}
}

func TestBrowseEntryCanEnter(t *testing.T) {
	no := false
	yes := true
	if !(BrowseEntry{}).CanEnter() {
		t.Fatalf("entry without accessible flag should be enterable")
	}
	if !(BrowseEntry{Accessible: &yes}).CanEnter() {
		t.Fatalf("accessible entry should be enterable")
	}
	if (BrowseEntry{Accessible: &no}).CanEnter() {
		t.Fatalf("inaccessible entry should not be enterable")
	}
}

func TestParseTimeLayouts(t *testing.T) {
	if got := (Folder{LastScan: "2025-12-13T10:11:12Z"}).ParsedLastScan(); !got.Equal(time.Date(2025, 12, 13, 10, 11, 12, 0, time.UTC)) {
		t.Fatalf("ParsedLastScan RFC3339 = %v", got)
	}
	got := (Folder{AddedAt: "2025-12-13T10:11:12.123456"}).ParsedAddedAt()
	if got.IsZero() || got.Nanosecond() != 123456000 {
		t.Fatalf("ParsedAddedAt isoformat = %v", got)
	}
	if !(Folder{LastScan: "2025-12-13 10:11:12"}).ParsedLastScan().Equal(time.Date(2025, 12, 13, 10, 11, 12, 0, time.Local)) {
		t.Fatalf("ParsedLastScan space layout mismatch")
	}
	if !(Folder{}).ParsedLastScan().IsZero() {
		t.Fatalf("empty LastScan should parse to zero time")
	}
	if !(Folder{LastScan: "yesterday"}).ParsedLastScan().IsZero() {
		t.Fatalf("invalid LastScan should parse to zero time")
	}
}
