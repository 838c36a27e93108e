package model

import "time"

type ApprovalMode string

const (
	// ApprovalJoint requires every sub-test with a minimum to pass.
	ApprovalJoint ApprovalMode = "joint"
	// ApprovalIndependent evaluates a single sub-test chosen by the applicant.
	ApprovalIndependent ApprovalMode = "independent"
)

// Track is an application category ("postulación") with its own scoring rules.
type Track struct {
	ID           uint          `gorm:"primarykey" json:"id"`
	ExamID       uint          `json:"exam_id" gorm:"not null;index"`
	Name         string        `json:"name" gorm:"not null"`
	ApprovalMode ApprovalMode  `json:"approval_mode" gorm:"type:varchar(16);not null;default:'joint'"`
	ScoringRules []ScoringRule `json:"scoring_rules,omitempty" gorm:"foreignKey:TrackID"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

type ScoringRule struct {
	ID                   uint     `gorm:"primarykey" json:"id"`
	TrackID              uint     `json:"track_id" gorm:"not null;uniqueIndex:idx_rule_track_sub_test"`
	SubTestID            uint     `json:"sub_test_id" gorm:"not null;uniqueIndex:idx_rule_track_sub_test"`
	PointsCorrect        float64  `json:"points_correct" gorm:"not null;default:0"`
	PointsIncorrect      float64  `json:"points_incorrect" gorm:"not null;default:0"`
	PointsBlank          float64  `json:"points_blank" gorm:"not null;default:0"`
	MinimumRequiredScore *float64 `json:"minimum_required_score,omitempty"` // nil: always satisfied
}

// RuleFor returns the track's rule for a sub-test, if any.
func (t *Track) RuleFor(subTestID uint) (ScoringRule, bool) {
	for _, r := range t.ScoringRules {
		if r.SubTestID == subTestID {
			return r, true
		}
	}
	return ScoringRule{}, false
}
