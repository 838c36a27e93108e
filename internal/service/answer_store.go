package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/lshigami/ascenso/internal/model"
	"github.com/lshigami/ascenso/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// UpsertResult tells the caller whether the selection was stored. An expired
// attempt is reported with Expired=true and a nil error: the write is dropped
// without failing the request.
type UpsertResult struct {
	Answer  *model.Answer
	Saved   bool
	Expired bool
}

// AnswerStore persists the selected options of each (attempt, question).
type AnswerStore interface {
	Upsert(ctx context.Context, tx *gorm.DB, attempt *model.Attempt, questionID uint, selected []uint) (*UpsertResult, error)
	HasAnswer(ctx context.Context, tx *gorm.DB, attemptID, questionID uint) (bool, error)
	ListAnswered(ctx context.Context, tx *gorm.DB, attemptID uint) (map[uint]bool, error)
}

type answerStore struct {
	answerRepo  repository.AnswerRepository
	attemptRepo repository.AttemptRepository
	timeAuth    *TimeAuthority
}

func NewAnswerStore(answerRepo repository.AnswerRepository, attemptRepo repository.AttemptRepository, timeAuth *TimeAuthority) AnswerStore {
	return &answerStore{answerRepo: answerRepo, attemptRepo: attemptRepo, timeAuth: timeAuth}
}

func (s *answerStore) Upsert(ctx context.Context, tx *gorm.DB, attempt *model.Attempt, questionID uint, selected []uint) (*UpsertResult, error) {
	if attempt.State != model.AttemptInProgress {
		return nil, ErrAttemptNotActive
	}
	if s.timeAuth.IsExpired(s.timeAuth.Now(), attempt.EndsAt) {
		log.Info().Uint("attemptID", attempt.ID).Uint("questionID", questionID).Msg("AnswerStore: write dropped, attempt expired")
		return &UpsertResult{Expired: true}, nil
	}

	answer := &model.Answer{
		AttemptID:         attempt.ID,
		QuestionID:        questionID,
		SelectedOptionIDs: uniqueSorted(selected),
	}
	if err := s.answerRepo.Upsert(ctx, tx, answer); err != nil {
		log.Error().Err(err).Uint("attemptID", attempt.ID).Uint("questionID", questionID).Msg("AnswerStore: upsert failed")
		return nil, fmt.Errorf("save answer for question %d: %w", questionID, err)
	}
	if err := s.attemptRepo.UpdateLastSeen(ctx, tx, attempt.ID, questionID); err != nil {
		return nil, fmt.Errorf("record last seen question: %w", err)
	}
	attempt.LastSeenQuestionID = &questionID

	return &UpsertResult{Answer: answer, Saved: true}, nil
}

func (s *answerStore) HasAnswer(ctx context.Context, tx *gorm.DB, attemptID, questionID uint) (bool, error) {
	answer, err := s.answerRepo.FindOne(ctx, tx, attemptID, questionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return answer.HasSelection(), nil
}

// ListAnswered returns the questions that hold a non-empty selection.
func (s *answerStore) ListAnswered(ctx context.Context, tx *gorm.DB, attemptID uint) (map[uint]bool, error) {
	answers, err := s.answerRepo.FindByAttempt(ctx, tx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("list answers of attempt %d: %w", attemptID, err)
	}
	return answeredSet(answers), nil
}

func answeredSet(answers []model.Answer) map[uint]bool {
	set := make(map[uint]bool, len(answers))
	for _, a := range answers {
		if a.HasSelection() {
			set[a.QuestionID] = true
		}
	}
	return set
}
