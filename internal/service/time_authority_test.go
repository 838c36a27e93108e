package service

import (
	"sync"
	"testing"
	"time"
)

// fakeClock is a settable Clock for driving deadlines without sleeping.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{now: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func mustLocation(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Skipf("timezone %s unavailable: %v", name, err)
	}
	return loc
}

func TestComputeEndTime(t *testing.T) {
	ta := NewTimeAuthority(newFakeClock(time.Time{}), time.UTC)
	start := time.Date(2026, 3, 2, 9, 0, 0, 750_000_000, time.UTC)

	got := ta.ComputeEndTime(start, 60)
	want := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("ComputeEndTime = %v, want %v", got, want)
	}
}

func TestIsExpired(t *testing.T) {
	ta := NewTimeAuthority(newFakeClock(time.Time{}), time.UTC)
	endsAt := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"before deadline", endsAt.Add(-time.Minute), false},
		{"exactly at deadline", endsAt, false},
		{"within the deadline second", endsAt.Add(900 * time.Millisecond), false},
		{"one second after", endsAt.Add(time.Second), true},
		{"a minute after", endsAt.Add(time.Minute), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ta.IsExpired(tt.now, endsAt); got != tt.want {
				t.Errorf("IsExpired(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestIsWithinAvailabilityWindow(t *testing.T) {
	ta := NewTimeAuthority(newFakeClock(time.Time{}), time.UTC)
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC)

	tests := []struct {
		name     string
		now      time.Time
		from, to *time.Time
		want     bool
	}{
		{"open on both sides", from.Add(-48 * time.Hour), nil, nil, true},
		{"equal to lower bound", from, &from, &to, true},
		{"equal to upper bound", to, &from, &to, true},
		{"before lower bound", from.Add(-time.Second), &from, &to, false},
		{"after upper bound", to.Add(time.Second), &from, &to, false},
		{"only lower bound", to.Add(365 * 24 * time.Hour), &from, nil, true},
		{"only upper bound", from.Add(-365 * 24 * time.Hour), nil, &to, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ta.IsWithinAvailabilityWindow(tt.now, tt.from, tt.to); got != tt.want {
				t.Errorf("IsWithinAvailabilityWindow = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNowUsesConfiguredZoneAtSecondResolution(t *testing.T) {
	loc := mustLocation(t, "America/Santiago")
	instant := time.Date(2026, 7, 15, 14, 30, 5, 999_999_999, time.UTC)
	ta := NewTimeAuthority(newFakeClock(instant), loc)

	now := ta.Now()
	if now.Location() != loc {
		t.Fatalf("Now() location = %v, want %v", now.Location(), loc)
	}
	if now.Nanosecond() != 0 {
		t.Fatalf("Now() not truncated to seconds: %v", now)
	}
	if !now.Equal(instant.Truncate(time.Second)) {
		t.Fatalf("Now() = %v, want same instant as %v", now, instant)
	}
}

func TestRemainingSeconds(t *testing.T) {
	ta := NewTimeAuthority(newFakeClock(time.Time{}), time.UTC)
	endsAt := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	if got := ta.RemainingSeconds(endsAt.Add(-90*time.Second), endsAt); got != 90 {
		t.Errorf("RemainingSeconds = %d, want 90", got)
	}
	if got := ta.RemainingSeconds(endsAt.Add(time.Hour), endsAt); got != 0 {
		t.Errorf("RemainingSeconds past deadline = %d, want 0", got)
	}
}

func TestInZonePresentsStoredUTC(t *testing.T) {
	loc := mustLocation(t, "America/Santiago")
	ta := NewTimeAuthority(newFakeClock(testStart), loc)

	stored := time.Date(2026, 3, 2, 13, 0, 0, 0, time.UTC)
	got := ta.InZone(stored)
	if got.Location() != loc || !got.Equal(stored) {
		t.Fatalf("InZone = %v, want the same instant in %v", got, loc)
	}
}
