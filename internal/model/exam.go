package model

import (
	"time"

	"gorm.io/gorm"
)

type ExamStatus string

const (
	ExamStatusDraft     ExamStatus = "draft"
	ExamStatusPublished ExamStatus = "published"
	ExamStatusClosed    ExamStatus = "closed"
)

type AccessMode string

const (
	AccessModePublic     AccessMode = "public"
	AccessModeRestricted AccessMode = "restricted"
)

type Exam struct {
	ID               uint           `gorm:"primarykey" json:"id"`
	Title            string         `json:"title" gorm:"not null"`
	TimeLimitMinutes int            `json:"time_limit_minutes" gorm:"not null;check:time_limit_minutes > 0"`
	ValidFrom        *time.Time     `json:"valid_from,omitempty"` // nil means no lower bound
	ValidTo          *time.Time     `json:"valid_to,omitempty"`   // nil means no upper bound
	AccessMode       AccessMode     `json:"access_mode" gorm:"type:varchar(16);not null;default:'public'"`
	Status           ExamStatus     `json:"status" gorm:"type:varchar(16);not null;default:'draft'"`
	SubTests         []SubTest      `json:"sub_tests,omitempty" gorm:"foreignKey:ExamID"`
	Questions        []ExamQuestion `json:"questions,omitempty" gorm:"foreignKey:ExamID"`
	Tracks           []Track        `json:"tracks,omitempty" gorm:"foreignKey:ExamID"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// SubTest is a scored section of an exam.
type SubTest struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	ExamID    uint      `json:"exam_id" gorm:"not null;index"`
	Name      string    `json:"name" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ExamQuestion places a question inside an exam, at a position, under one sub-test.
type ExamQuestion struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	ExamID      uint      `json:"exam_id" gorm:"not null;uniqueIndex:idx_exam_question"`
	QuestionID  uint      `json:"question_id" gorm:"not null;uniqueIndex:idx_exam_question"`
	Question    Question  `json:"question" gorm:"foreignKey:QuestionID"`
	SubTestID   uint      `json:"sub_test_id" gorm:"not null;index"`
	OrderInExam int       `json:"order_in_exam" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
}

// ExamAssignment lists the users allowed to see a restricted exam.
type ExamAssignment struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	ExamID    uint      `json:"exam_id" gorm:"not null;uniqueIndex:idx_exam_assignment"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_exam_assignment"`
	CreatedAt time.Time `json:"created_at"`
}
