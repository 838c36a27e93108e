package service

import (
	"context"
	"testing"
	"time"

	"github.com/lshigami/ascenso/config"
	"github.com/lshigami/ascenso/internal/model"
)

func TestSweepOnceFinalizesOnlyOverdueAttempts(t *testing.T) {
	f := newExamFixture(t)
	early := f.startJoint(testUser)
	early.save(0, f.correct(0))

	f.clock.Advance(30 * time.Minute)
	late := f.startJoint(otherUser)

	n, err := f.sweeper.SweepOnce(f.ctx)
	if err != nil || n != 0 {
		t.Fatalf("sweep before any deadline = %d, %v; want 0, nil", n, err)
	}

	// The first attempt is now overdue, the second still has 29 minutes.
	f.clock.Advance(31 * time.Minute)
	n, err = f.sweeper.SweepOnce(f.ctx)
	if err != nil || n != 1 {
		t.Fatalf("sweep = %d, %v; want 1, nil", n, err)
	}

	a := early.attempt()
	if a.State != model.AttemptSubmitted || a.FinalizedBy != model.FinalizedSweep {
		t.Fatalf("overdue attempt state=%s by=%s, want submitted by sweep", a.State, a.FinalizedBy)
	}
	if a.TotalScore == nil || *a.TotalScore != 1 {
		t.Fatalf("overdue attempt score = %v, want 1", a.TotalScore)
	}
	if b := late.attempt(); b.State != model.AttemptInProgress {
		t.Fatalf("running attempt was swept: %s", b.State)
	}

	n, err = f.sweeper.SweepOnce(f.ctx)
	if err != nil || n != 0 {
		t.Fatalf("repeated sweep = %d, %v; want 0, nil", n, err)
	}
}

func TestExpireAttemptIgnoresRunningAndSubmitted(t *testing.T) {
	f := newExamFixture(t)
	v := f.startJoint(testUser)

	ok, err := f.svc.ExpireAttempt(f.ctx, v.attemptID)
	if err != nil || ok {
		t.Fatalf("ExpireAttempt on running attempt = %v, %v; want false, nil", ok, err)
	}

	f.clock.Advance(2 * time.Hour)
	if _, err := f.svc.GetState(f.ctx, v.attemptID, testUser); err != nil {
		t.Fatalf("GetState: %v", err)
	}
	ok, err = f.svc.ExpireAttempt(f.ctx, v.attemptID)
	if err != nil || ok {
		t.Fatalf("ExpireAttempt on submitted attempt = %v, %v; want false, nil", ok, err)
	}
	if a := v.attempt(); a.FinalizedBy != model.FinalizedExpiry {
		t.Fatalf("FinalizedBy = %s, want the lazy expiry that came first", a.FinalizedBy)
	}
}

func TestExpirySweeperStartStop(t *testing.T) {
	f := newExamFixture(t)
	cfg := &config.Config{Sweep: config.Sweep{Enabled: true, Interval: 10 * time.Millisecond, BatchSize: 5}}
	sweeper := NewExpirySweeper(cfg, f.attemptRepo, f.svc, f.timeAuth)

	v := f.startJoint(testUser)
	f.clock.Advance(61 * time.Minute)

	sweeper.Start()
	sweeper.Start() // second Start is a no-op

	deadline := time.Now().Add(2 * time.Second)
	for v.attempt().State != model.AttemptSubmitted {
		if time.Now().After(deadline) {
			t.Fatalf("background sweep did not finalize the attempt")
		}
		time.Sleep(10 * time.Millisecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := sweeper.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := sweeper.Stop(ctx); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
}

func TestNewExpirySweeperDefaults(t *testing.T) {
	s := NewExpirySweeper(&config.Config{}, nil, nil, nil)
	if s.interval != time.Minute || s.batchSize != 100 {
		t.Fatalf("defaults = %v / %d, want 1m / 100", s.interval, s.batchSize)
	}
}
