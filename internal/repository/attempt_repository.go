package repository

import (
	"context"
	"time"

	"github.com/lshigami/ascenso/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AttemptRepository interface {
	Create(ctx context.Context, tx *gorm.DB, attempt *model.Attempt) error
	FindByID(ctx context.Context, tx *gorm.DB, id uint) (*model.Attempt, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*model.Attempt, error)
	FindByExamAndUser(ctx context.Context, tx *gorm.DB, examID, userID uint) (*model.Attempt, error)
	FindAllByUser(ctx context.Context, userID uint, examID *uint) ([]model.Attempt, error)
	FindExpiredIDs(ctx context.Context, now time.Time, limit int) ([]uint, error)
	UpdateLastSeen(ctx context.Context, tx *gorm.DB, id, questionID uint) error
	MarkSubmitted(ctx context.Context, tx *gorm.DB, attempt *model.Attempt) (bool, error)
	UpdateFeedback(ctx context.Context, id uint, feedback string) error
}

type attemptRepository struct {
	db *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

// Create stores the attempt with its instants in UTC.
func (r *attemptRepository) Create(ctx context.Context, tx *gorm.DB, attempt *model.Attempt) error {
	attempt.StartedAt = attempt.StartedAt.UTC()
	attempt.EndsAt = attempt.EndsAt.UTC()
	return conn(r.db, tx).WithContext(ctx).Create(attempt).Error
}

func (r *attemptRepository) FindByID(ctx context.Context, tx *gorm.DB, id uint) (*model.Attempt, error) {
	var attempt model.Attempt
	if err := conn(r.db, tx).WithContext(ctx).First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

// FindByIDForUpdate takes a row lock held until tx ends. Dialects without
// row locking (SQLite) drop the clause; there the in-process attempt lock and
// the single writer connection provide the same serialisation.
func (r *attemptRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*model.Attempt, error) {
	var attempt model.Attempt
	err := conn(r.db, tx).WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&attempt, id).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindByExamAndUser(ctx context.Context, tx *gorm.DB, examID, userID uint) (*model.Attempt, error) {
	var attempt model.Attempt
	err := conn(r.db, tx).WithContext(ctx).
		Where("exam_id = ? AND user_id = ?", examID, userID).
		First(&attempt).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindAllByUser(ctx context.Context, userID uint, examID *uint) ([]model.Attempt, error) {
	var attempts []model.Attempt
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if examID != nil {
		query = query.Where("exam_id = ?", *examID)
	}
	err := query.Order("started_at DESC").Find(&attempts).Error
	return attempts, err
}

// FindExpiredIDs returns in-progress attempts whose deadline passed before now.
func (r *attemptRepository) FindExpiredIDs(ctx context.Context, now time.Time, limit int) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&model.Attempt{}).
		Where("state = ? AND ends_at < ?", model.AttemptInProgress, now.UTC()).
		Order("ends_at ASC").
		Limit(limit).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *attemptRepository) UpdateLastSeen(ctx context.Context, tx *gorm.DB, id, questionID uint) error {
	return conn(r.db, tx).WithContext(ctx).
		Model(&model.Attempt{}).
		Where("id = ?", id).
		Update("last_seen_question_id", questionID).Error
}

// MarkSubmitted moves an in-progress attempt to submitted along with its
// scores. It reports false when the attempt was no longer in progress, so a
// concurrent finalizer can never overwrite a terminal row.
func (r *attemptRepository) MarkSubmitted(ctx context.Context, tx *gorm.DB, attempt *model.Attempt) (bool, error) {
	if attempt.SubmittedAt != nil {
		at := attempt.SubmittedAt.UTC()
		attempt.SubmittedAt = &at
	}
	res := conn(r.db, tx).WithContext(ctx).
		Model(&model.Attempt{}).
		Where("id = ? AND state = ?", attempt.ID, model.AttemptInProgress).
		Updates(map[string]interface{}{
			"state":        model.AttemptSubmitted,
			"submitted_at": attempt.SubmittedAt,
			"total_score":  attempt.TotalScore,
			"is_approved":  attempt.IsApproved,
			"finalized_by": attempt.FinalizedBy,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *attemptRepository) UpdateFeedback(ctx context.Context, id uint, feedback string) error {
	return r.db.WithContext(ctx).
		Model(&model.Attempt{}).
		Where("id = ?", id).
		Update("feedback", feedback).Error
}
