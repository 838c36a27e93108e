package service

import (
	"time"
)

// Clock is the single source of wall-clock time for the engine.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func NewSystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

// TimeAuthority answers every "has it started / has it expired" question.
// All instants are moved to the deployment zone and truncated to whole
// seconds before they are compared or stored.
type TimeAuthority struct {
	clock Clock
	loc   *time.Location
}

func NewTimeAuthority(clock Clock, loc *time.Location) *TimeAuthority {
	if loc == nil {
		loc = time.UTC
	}
	return &TimeAuthority{clock: clock, loc: loc}
}

func (t *TimeAuthority) Now() time.Time {
	return t.normalize(t.clock.Now())
}

func (t *TimeAuthority) normalize(ts time.Time) time.Time {
	return ts.In(t.loc).Truncate(time.Second)
}

// InZone presents a stored instant in the deployment zone.
func (t *TimeAuthority) InZone(ts time.Time) time.Time {
	return ts.In(t.loc)
}

// ComputeEndTime is startedAt + timeLimitMinutes. The result is persisted on
// the attempt once and never derived from the exam again.
func (t *TimeAuthority) ComputeEndTime(startedAt time.Time, timeLimitMinutes int) time.Time {
	return t.normalize(startedAt).Add(time.Duration(timeLimitMinutes) * time.Minute)
}

// IsExpired reports now > endsAt. The deadline second itself is still usable.
func (t *TimeAuthority) IsExpired(now, endsAt time.Time) bool {
	return t.normalize(now).After(t.normalize(endsAt))
}

// IsWithinAvailabilityWindow treats a nil bound as open on that side; both
// bounds are inclusive.
func (t *TimeAuthority) IsWithinAvailabilityWindow(now time.Time, validFrom, validTo *time.Time) bool {
	n := t.normalize(now)
	if validFrom != nil && n.Before(t.normalize(*validFrom)) {
		return false
	}
	if validTo != nil && n.After(t.normalize(*validTo)) {
		return false
	}
	return true
}

// RemainingSeconds is the whole number of seconds left before endsAt, never negative.
func (t *TimeAuthority) RemainingSeconds(now, endsAt time.Time) int64 {
	left := t.normalize(endsAt).Sub(t.normalize(now))
	if left <= 0 {
		return 0
	}
	return int64(left / time.Second)
}
