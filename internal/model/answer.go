package model

import (
	"time"

	"gorm.io/datatypes"
)

// Answer holds the current selection for one question of an attempt.
// An empty selection means "seen but unanswered".
type Answer struct {
	ID                uint                      `gorm:"primarykey" json:"id"`
	AttemptID         uint                      `json:"attempt_id" gorm:"not null;uniqueIndex:idx_answer_attempt_question"`
	QuestionID        uint                      `json:"question_id" gorm:"not null;uniqueIndex:idx_answer_attempt_question"`
	SelectedOptionIDs datatypes.JSONSlice[uint] `json:"selected_option_ids"`
	IsCorrect         *bool                     `json:"is_correct,omitempty"`     // populated by scoring
	PointsAwarded     *float64                  `json:"points_awarded,omitempty"` // populated by scoring
	CreatedAt         time.Time                 `json:"created_at"`
	UpdatedAt         time.Time                 `json:"updated_at"`
}

func (a *Answer) HasSelection() bool {
	return len(a.SelectedOptionIDs) > 0
}
