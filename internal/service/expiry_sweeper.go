package service

import (
	"context"
	"sync"
	"time"

	"github.com/lshigami/ascenso/config"
	"github.com/lshigami/ascenso/internal/repository"
	"github.com/rs/zerolog/log"
)

// ExpirySweeper finalizes attempts whose deadline passed without the user
// coming back. It goes through the same expiry path as lazy detection, so a
// sweep and a concurrent request on one attempt finalize it exactly once.
type ExpirySweeper struct {
	attemptRepo repository.AttemptRepository
	attempts    AttemptService
	timeAuth    *TimeAuthority
	interval    time.Duration
	batchSize   int

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewExpirySweeper(cfg *config.Config, attemptRepo repository.AttemptRepository, attempts AttemptService, timeAuth *TimeAuthority) *ExpirySweeper {
	interval := cfg.Sweep.Interval
	if interval <= 0 {
		interval = time.Minute
	}
	batch := cfg.Sweep.BatchSize
	if batch <= 0 {
		batch = 100
	}
	return &ExpirySweeper{
		attemptRepo: attemptRepo,
		attempts:    attempts,
		timeAuth:    timeAuth,
		interval:    interval,
		batchSize:   batch,
	}
}

// SweepOnce finalizes one batch of overdue attempts and returns how many it
// moved to submitted. A failure on one attempt is logged and skipped.
func (s *ExpirySweeper) SweepOnce(ctx context.Context) (int, error) {
	ids, err := s.attemptRepo.FindExpiredIDs(ctx, s.timeAuth.Now(), s.batchSize)
	if err != nil {
		log.Error().Err(err).Msg("ExpirySweeper: failed to list overdue attempts")
		return 0, err
	}

	finalized := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			return finalized, ctx.Err()
		}
		ok, err := s.attempts.ExpireAttempt(ctx, id)
		if err != nil {
			log.Error().Err(err).Uint("attemptID", id).Msg("ExpirySweeper: failed to finalize attempt")
			continue
		}
		if ok {
			finalized++
		}
	}
	if finalized > 0 {
		log.Info().Int("finalized", finalized).Msg("ExpirySweeper: overdue attempts finalized")
	}
	return finalized, nil
}

// Start runs SweepOnce every interval until Stop is called.
func (s *ExpirySweeper) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go func(done chan struct{}) {
		defer close(done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := s.SweepOnce(ctx); err != nil && ctx.Err() == nil {
					log.Warn().Err(err).Msg("ExpirySweeper: sweep failed")
				}
			}
		}
	}(s.done)
	log.Info().Dur("interval", s.interval).Int("batch", s.batchSize).Msg("ExpirySweeper started")
}

// Stop cancels the loop and waits for an in-flight sweep, or for ctx.
func (s *ExpirySweeper) Stop(ctx context.Context) error {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	select {
	case <-done:
		log.Info().Msg("ExpirySweeper stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
