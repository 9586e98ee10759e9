package timespec

import (
	"testing"
	"time"
)

func TestParseRelativeSeconds(t *testing.T) {
	now := time.Date(2026, 7, 29, 12, 0, 0, 0, time.UTC)
	got, err := Parse("30s", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := uint64(now.Add(-30 * time.Second).UnixNano())
	if got != want {
		t.Fatalf("got %d, want %d", got, want)
	}
}

func TestParseRelativeMinutesHoursDays(t *testing.T) {
	now := time.Date(2026, 7, 29, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		spec string
		d    time.Duration
	}{
		{"5m", 5 * time.Minute},
		{"1h", time.Hour},
		{"2d", 2 * 24 * time.Hour},
	}
	for _, c := range cases {
		got, err := Parse(c.spec, now)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", c.spec, err)
		}
		want := uint64(now.Add(-c.d).UnixNano())
		if got != want {
			t.Fatalf("%s: got %d, want %d", c.spec, got, want)
		}
	}
}

func TestParseRFC3339(t *testing.T) {
	now := time.Now()
	got, err := Parse("2024-01-01T00:00:00Z", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 1_704_067_200_000_000_000 {
		t.Fatalf("got %d, want 1704067200000000000", got)
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse("not-a-timespec", time.Now()); err == nil {
		t.Fatalf("expected error for invalid time spec")
	}
}

func TestFormatZeroIsNA(t *testing.T) {
	if got := Format(0); got != "N/A" {
		t.Fatalf("expected N/A, got %q", got)
	}
}

func TestFormatRoundTrips(t *testing.T) {
	got := Format(1_704_067_200_000_000_000)
	if got != "2024-01-01T00:00:00.000Z" {
		t.Fatalf("got %q", got)
	}
}
