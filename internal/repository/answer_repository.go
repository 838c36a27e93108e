package repository

import (
	"context"

	"github.com/lshigami/ascenso/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AnswerRepository interface {
	Upsert(ctx context.Context, tx *gorm.DB, answer *model.Answer) error
	FindByAttempt(ctx context.Context, tx *gorm.DB, attemptID uint) ([]model.Answer, error)
	FindOne(ctx context.Context, tx *gorm.DB, attemptID, questionID uint) (*model.Answer, error)
	UpdateScores(ctx context.Context, tx *gorm.DB, answers []model.Answer) error
}

type answerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

// Upsert replaces the selection stored for (attempt, question). No history is kept.
func (r *answerRepository) Upsert(ctx context.Context, tx *gorm.DB, answer *model.Answer) error {
	return conn(r.db, tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "attempt_id"}, {Name: "question_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"selected_option_ids", "updated_at"}),
		}).
		Create(answer).Error
}

func (r *answerRepository) FindByAttempt(ctx context.Context, tx *gorm.DB, attemptID uint) ([]model.Answer, error) {
	var answers []model.Answer
	err := conn(r.db, tx).WithContext(ctx).
		Where("attempt_id = ?", attemptID).
		Order("id ASC").
		Find(&answers).Error
	return answers, err
}

func (r *answerRepository) FindOne(ctx context.Context, tx *gorm.DB, attemptID, questionID uint) (*model.Answer, error) {
	var answer model.Answer
	err := conn(r.db, tx).WithContext(ctx).
		Where("attempt_id = ? AND question_id = ?", attemptID, questionID).
		First(&answer).Error
	if err != nil {
		return nil, err
	}
	return &answer, nil
}

// UpdateScores writes the scoring columns of already persisted answers.
func (r *answerRepository) UpdateScores(ctx context.Context, tx *gorm.DB, answers []model.Answer) error {
	db := conn(r.db, tx).WithContext(ctx)
	for _, a := range answers {
		err := db.Model(&model.Answer{}).
			Where("id = ?", a.ID).
			Updates(map[string]interface{}{
				"is_correct":     a.IsCorrect,
				"points_awarded": a.PointsAwarded,
			}).Error
		if err != nil {
			return err
		}
	}
	return nil
}
