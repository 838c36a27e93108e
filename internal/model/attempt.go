package model

import "time"

type AttemptState string

const (
	AttemptInProgress AttemptState = "in_progress"
	AttemptSubmitted  AttemptState = "submitted"
)

// FinalizedBy records which path moved an attempt to submitted.
type FinalizedBy string

const (
	FinalizedManual FinalizedBy = "manual"
	FinalizedExpiry FinalizedBy = "expiry"
	FinalizedSweep  FinalizedBy = "sweep"
)

// Attempt is one user's timed run through one exam. The unique (exam, user)
// index means a user gets exactly one attempt per exam over its lifetime.
type Attempt struct {
	ID                 uint            `gorm:"primarykey" json:"id"`
	ExamID             uint            `json:"exam_id" gorm:"not null;uniqueIndex:idx_attempt_exam_user"`
	UserID             uint            `json:"user_id" gorm:"not null;uniqueIndex:idx_attempt_exam_user;index"`
	TrackID            uint            `json:"track_id" gorm:"not null"`
	SubTestID          *uint           `json:"sub_test_id,omitempty"` // set only for independent tracks
	StartedAt          time.Time       `json:"started_at" gorm:"not null"`
	EndsAt             time.Time       `json:"ends_at" gorm:"not null;index"`
	LastSeenQuestionID *uint           `json:"last_seen_question_id,omitempty"`
	State              AttemptState    `json:"state" gorm:"type:varchar(16);not null;default:'in_progress';index"`
	SubmittedAt        *time.Time      `json:"submitted_at,omitempty"`
	TotalScore         *float64        `json:"total_score,omitempty"`
	IsApproved         *bool           `json:"is_approved,omitempty"`
	FinalizedBy        FinalizedBy     `json:"finalized_by,omitempty" gorm:"type:varchar(16)"`
	Feedback           string          `json:"feedback,omitempty" gorm:"type:text"`
	Answers            []Answer        `json:"answers,omitempty" gorm:"foreignKey:AttemptID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	SubTestResults     []SubTestResult `json:"sub_test_results,omitempty" gorm:"foreignKey:AttemptID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

func (a *Attempt) IsSubmitted() bool {
	return a.State == AttemptSubmitted
}

// SubTestResult is the per-section outcome written at finalization.
type SubTestResult struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	AttemptID       uint      `json:"attempt_id" gorm:"not null;uniqueIndex:idx_result_attempt_sub_test"`
	SubTestID       uint      `json:"sub_test_id" gorm:"not null;uniqueIndex:idx_result_attempt_sub_test"`
	ScoreObtained   float64   `json:"score_obtained" gorm:"not null"`
	MinimumRequired *float64  `json:"minimum_required,omitempty"`
	IsApproved      bool      `json:"is_approved" gorm:"not null"`
	CorrectCount    int       `json:"correct_count" gorm:"not null;default:0"`
	TotalQuestions  int       `json:"total_questions" gorm:"not null;default:0"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
