package service

import (
	"context"

	"github.com/lshigami/ascenso/internal/model"
	"github.com/lshigami/ascenso/internal/repository"
	"gorm.io/gorm"
)

// AccessPolicy is the visibility predicate for exams: public exams are seen
// by everyone, restricted ones only by users on the assignment list.
type AccessPolicy interface {
	CanSee(ctx context.Context, tx *gorm.DB, exam *model.Exam, userID uint) (bool, error)
}

type assignmentAccessPolicy struct {
	examRepo repository.ExamRepository
}

func NewAccessPolicy(examRepo repository.ExamRepository) AccessPolicy {
	return &assignmentAccessPolicy{examRepo: examRepo}
}

func (p *assignmentAccessPolicy) CanSee(ctx context.Context, tx *gorm.DB, exam *model.Exam, userID uint) (bool, error) {
	if exam.AccessMode != model.AccessModeRestricted {
		return true, nil
	}
	return p.examRepo.IsAssigned(ctx, tx, exam.ID, userID)
}
