package repository

import (
	"context"

	"github.com/lshigami/ascenso/internal/model"
	"gorm.io/gorm"
)

// ExamRepository reads the exam definitions authored elsewhere.
type ExamRepository interface {
	FindByIDWithQuestions(ctx context.Context, tx *gorm.DB, id uint) (*model.Exam, error)
	FindTrack(ctx context.Context, tx *gorm.DB, trackID uint) (*model.Track, error)
	IsAssigned(ctx context.Context, tx *gorm.DB, examID, userID uint) (bool, error)
	FindTitles(ctx context.Context, ids []uint) (map[uint]string, error)
}

type examRepository struct {
	db *gorm.DB
}

func NewExamRepository(db *gorm.DB) ExamRepository {
	return &examRepository{db: db}
}

// FindByIDWithQuestions loads an exam with its sub-tests and its questions in
// exam order, each question carrying its options.
func (r *examRepository) FindByIDWithQuestions(ctx context.Context, tx *gorm.DB, id uint) (*model.Exam, error) {
	var exam model.Exam
	err := conn(r.db, tx).WithContext(ctx).
		Preload("SubTests", func(db *gorm.DB) *gorm.DB {
			return db.Order("sub_tests.id ASC")
		}).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("exam_questions.order_in_exam ASC, exam_questions.id ASC")
		}).
		Preload("Questions.Question").
		Preload("Questions.Question.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_options.position ASC, question_options.id ASC")
		}).
		First(&exam, id).Error
	if err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *examRepository) FindTrack(ctx context.Context, tx *gorm.DB, trackID uint) (*model.Track, error) {
	var track model.Track
	err := conn(r.db, tx).WithContext(ctx).
		Preload("ScoringRules").
		First(&track, trackID).Error
	if err != nil {
		return nil, err
	}
	return &track, nil
}

func (r *examRepository) IsAssigned(ctx context.Context, tx *gorm.DB, examID, userID uint) (bool, error) {
	var count int64
	err := conn(r.db, tx).WithContext(ctx).
		Model(&model.ExamAssignment{}).
		Where("exam_id = ? AND user_id = ?", examID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *examRepository) FindTitles(ctx context.Context, ids []uint) (map[uint]string, error) {
	titles := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return titles, nil
	}
	var exams []model.Exam
	if err := r.db.WithContext(ctx).Select("id", "title").Where("id IN ?", ids).Find(&exams).Error; err != nil {
		return nil, err
	}
	for _, e := range exams {
		titles[e.ID] = e.Title
	}
	return titles, nil
}
