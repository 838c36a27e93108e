package model

import (
	"time"

	"gorm.io/gorm"
)

type Question struct {
	ID          uint             `gorm:"primarykey" json:"id"`
	Prompt      string           `json:"prompt" gorm:"type:text;not null"`
	MultiSelect bool             `json:"multi_select" gorm:"not null;default:false"`
	Options     []QuestionOption `json:"options,omitempty" gorm:"foreignKey:QuestionID"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	DeletedAt   gorm.DeletedAt   `gorm:"index" json:"-"`
}

type QuestionOption struct {
	ID         uint   `gorm:"primarykey" json:"id"`
	QuestionID uint   `json:"question_id" gorm:"not null;index"`
	Label      string `json:"label" gorm:"type:text;not null"`
	IsCorrect  bool   `json:"-" gorm:"not null;default:false"`
	Position   int    `json:"position" gorm:"not null;default:0"`
}

// CorrectOptionIDs returns the ids of every option flagged as correct.
func (q *Question) CorrectOptionIDs() []uint {
	var ids []uint
	for _, o := range q.Options {
		if o.IsCorrect {
			ids = append(ids, o.ID)
		}
	}
	return ids
}

// HasOption reports whether optionID belongs to the question.
func (q *Question) HasOption(optionID uint) bool {
	for _, o := range q.Options {
		if o.ID == optionID {
			return true
		}
	}
	return false
}
