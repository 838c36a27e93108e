package repository

import (
	"context"

	"github.com/lshigami/ascenso/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubTestResultRepository interface {
	ReplaceForAttempt(ctx context.Context, tx *gorm.DB, attemptID uint, results []model.SubTestResult) error
	FindByAttempt(ctx context.Context, tx *gorm.DB, attemptID uint) ([]model.SubTestResult, error)
}

type subTestResultRepository struct {
	db *gorm.DB
}

func NewSubTestResultRepository(db *gorm.DB) SubTestResultRepository {
	return &subTestResultRepository{db: db}
}

// ReplaceForAttempt makes results the exact set of rows stored for the
// attempt: existing (attempt, sub-test) rows are overwritten and rows for
// sub-tests that are no longer evaluated are removed.
func (r *subTestResultRepository) ReplaceForAttempt(ctx context.Context, tx *gorm.DB, attemptID uint, results []model.SubTestResult) error {
	db := conn(r.db, tx).WithContext(ctx)

	keep := make([]uint, 0, len(results))
	for i := range results {
		results[i].AttemptID = attemptID
		keep = append(keep, results[i].SubTestID)
	}

	stale := db.Where("attempt_id = ?", attemptID)
	if len(keep) > 0 {
		stale = stale.Where("sub_test_id NOT IN ?", keep)
	}
	if err := stale.Delete(&model.SubTestResult{}).Error; err != nil {
		return err
	}
	if len(results) == 0 {
		return nil
	}

	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "attempt_id"}, {Name: "sub_test_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"score_obtained", "minimum_required", "is_approved",
			"correct_count", "total_questions", "updated_at",
		}),
	}).Create(&results).Error
}

func (r *subTestResultRepository) FindByAttempt(ctx context.Context, tx *gorm.DB, attemptID uint) ([]model.SubTestResult, error) {
	var results []model.SubTestResult
	err := conn(r.db, tx).WithContext(ctx).
		Where("attempt_id = ?", attemptID).
		Order("sub_test_id ASC").
		Find(&results).Error
	return results, err
}
