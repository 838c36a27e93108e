package dto

import "time"

// StartAttemptRequest starts or resumes the caller's attempt on an exam.
// SubTestID is required for tracks with independent approval.
type StartAttemptRequest struct {
	TrackID   uint  `json:"track_id" binding:"required"`
	SubTestID *uint `json:"sub_test_id"`
}

// SaveAnswerRequest replaces the selection for one question. An empty list
// clears it ("seen but unanswered").
type SaveAnswerRequest struct {
	SelectedOptionIDs []uint `json:"selected_option_ids" binding:"omitempty,dive,gt=0"`
}

type NavigationDTO struct {
	ReachableIndices  []int `json:"reachable_indices"`
	NextRequiredIndex int   `json:"next_required_index"`
}

type AnswerDTO struct {
	QuestionID        uint   `json:"question_id"`
	SelectedOptionIDs []uint `json:"selected_option_ids"`
}

// AttemptView is the current state of an attempt as the exam UI needs it.
type AttemptView struct {
	AttemptID           uint        `json:"attempt_id"`
	ExamID              uint        `json:"exam_id"`
	TrackID             uint        `json:"track_id"`
	SubTestID           *uint       `json:"sub_test_id,omitempty"`
	State               string      `json:"state"`
	StartedAt           time.Time   `json:"started_at"`
	EndsAt              time.Time   `json:"ends_at"`
	RemainingSeconds    int64       `json:"remaining_seconds"`
	LastSeenQuestion    *uint       `json:"last_seen_question,omitempty"`
	TotalQuestions      int         `json:"total_questions"`
	AnsweredQuestionIDs []uint      `json:"answered_question_ids"`
	ReachableIndices    []int       `json:"reachable_indices"`
	NextRequiredIndex   int         `json:"next_required_index"`
	Answers             []AnswerDTO `json:"answers"`
}

// SaveResult is returned even when time ran out: Saved=false, Expired=true.
type SaveResult struct {
	Saved      bool          `json:"saved"`
	Expired    bool          `json:"expired"`
	Navigation NavigationDTO `json:"navigation"`
}

type OptionDTO struct {
	ID    uint   `json:"id"`
	Label string `json:"label"`
}

// QuestionView is a question as shown during an attempt; correctness is never exposed.
type QuestionView struct {
	Index             int           `json:"index"`
	QuestionID        uint          `json:"question_id"`
	SubTestID         uint          `json:"sub_test_id"`
	SubTestName       string        `json:"sub_test_name"`
	Prompt            string        `json:"prompt"`
	MultiSelect       bool          `json:"multi_select"`
	Options           []OptionDTO   `json:"options"`
	SelectedOptionIDs []uint        `json:"selected_option_ids"`
	Navigation        NavigationDTO `json:"navigation"`
}

type SubTestResultDTO struct {
	SubTestID       uint     `json:"sub_test_id"`
	SubTestName     string   `json:"sub_test_name,omitempty"`
	ScoreObtained   float64  `json:"score_obtained"`
	MinimumRequired *float64 `json:"minimum_required,omitempty"`
	IsApproved      bool     `json:"is_approved"`
	CorrectCount    int      `json:"correct_count"`
	TotalQuestions  int      `json:"total_questions"`
}

type ResultView struct {
	AttemptID   uint               `json:"attempt_id"`
	ExamID      uint               `json:"exam_id"`
	TotalScore  float64            `json:"total_score"`
	IsApproved  bool               `json:"is_approved"`
	FinalizedBy string             `json:"finalized_by"`
	SubmittedAt *time.Time         `json:"submitted_at,omitempty"`
	PerSubTest  []SubTestResultDTO `json:"per_sub_test"`
	Feedback    string             `json:"feedback,omitempty"`
}

// AttemptSummaryDTO lists a caller's attempts.
type AttemptSummaryDTO struct {
	ID          uint       `json:"id"`
	ExamID      uint       `json:"exam_id"`
	ExamTitle   string     `json:"exam_title,omitempty"`
	State       string     `json:"state"`
	StartedAt   time.Time  `json:"started_at"`
	EndsAt      time.Time  `json:"ends_at"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	TotalScore  *float64   `json:"total_score,omitempty"`
	IsApproved  *bool      `json:"is_approved,omitempty"`
}

type SweepResponse struct {
	Finalized int `json:"finalized"`
}
