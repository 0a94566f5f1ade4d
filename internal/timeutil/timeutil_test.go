package timeutil

import (
	"testing"
	"time"
)

func TestMergeDateTime(t *testing.T) {
	got, err := MergeDateTime("2026-10-03", "14:30")
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	want := time.Date(2026, 10, 3, 14, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestMergeDateTimeEmptyClockMeansMidnight(t *testing.T) {
	got, err := MergeDateTime("2026-10-03", "")
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if got.Hour() != 0 || got.Minute() != 0 {
		t.Fatalf("got %v, want midnight", got)
	}
}

func TestMergeDateTimeRejectsGarbage(t *testing.T) {
	for _, tc := range [][2]string{
		{"03/10/2026", "14:30"},
		{"2026-10-03", "2:30pm"},
		{"", ""},
	} {
		if _, err := MergeDateTime(tc[0], tc[1]); err == nil {
			t.Errorf("MergeDateTime(%q, %q) accepted garbage", tc[0], tc[1])
		}
	}
}

func TestSplitDateTimeRoundTrip(t *testing.T) {
	at := time.Date(2026, 10, 3, 14, 30, 0, 0, time.UTC)
	date, clock := SplitDateTime(at)
	if date != "2026-10-03" || clock != "14:30" {
		t.Fatalf("split = %q %q", date, clock)
	}

	back, err := MergeDateTime(date, clock)
	if err != nil {
		t.Fatalf("merge back failed: %v", err)
	}
	if !back.Equal(at) {
		t.Fatalf("round trip %v != %v", back, at)
	}
}

func TestSplitDateTimeNormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	at := time.Date(2026, 10, 3, 1, 0, 0, 0, loc)
	date, clock := SplitDateTime(at)
	if date != "2026-10-02" || clock != "23:00" {
		t.Fatalf("split = %q %q, want previous day in UTC", date, clock)
	}
}

func TestParseAndFormatDate(t *testing.T) {
	parsed, err := ParseDate("2026-10-03")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if FormatDate(parsed) != "2026-10-03" {
		t.Fatalf("round trip = %s", FormatDate(parsed))
	}
	if _, err := ParseDate("not-a-date"); err == nil {
		t.Fatal("expected parse error")
	}
}
