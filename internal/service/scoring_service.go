package service

import (
	"fmt"
	"math"
	"sort"

	"github.com/lshigami/ascenso/internal/model"
)

// ScoringInput is everything needed to score one attempt. Questions must be
// the exam's question placements with Question.Options loaded.
type ScoringInput struct {
	Track           model.Track
	ChosenSubTestID *uint
	SubTests        []model.SubTest
	Questions       []model.ExamQuestion
	Answers         map[uint]model.Answer // by question id
}

type QuestionScore struct {
	QuestionID uint
	SubTestID  uint
	Answered   bool
	IsCorrect  bool
	Points     float64
}

type SubTestScore struct {
	SubTestID       uint
	ScoreObtained   float64
	MinimumRequired *float64
	IsApproved      bool
	CorrectCount    int
	TotalQuestions  int
}

type ScoringOutcome struct {
	TotalScore float64
	IsApproved bool
	SubTests   []SubTestScore
	Questions  []QuestionScore
}

// ScoringService computes per-sub-test and overall results. It is a pure
// function of its input and keeps no memory of earlier runs.
type ScoringService interface {
	Score(in ScoringInput) (*ScoringOutcome, error)
}

type scoringService struct{}

func NewScoringService() ScoringService {
	return &scoringService{}
}

func (s *scoringService) Score(in ScoringInput) (*ScoringOutcome, error) {
	evaluated, err := evaluatedSubTests(in)
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]*SubTestScore, len(evaluated))
	raw := make(map[uint]float64, len(evaluated))
	outcome := &ScoringOutcome{SubTests: make([]SubTestScore, 0, len(evaluated))}
	for _, sid := range evaluated {
		rule, _ := in.Track.RuleFor(sid)
		outcome.SubTests = append(outcome.SubTests, SubTestScore{SubTestID: sid, MinimumRequired: rule.MinimumRequiredScore})
	}
	for i := range outcome.SubTests {
		byID[outcome.SubTests[i].SubTestID] = &outcome.SubTests[i]
	}

	for _, eq := range in.Questions {
		st, ok := byID[eq.SubTestID]
		if !ok {
			continue
		}
		rule, _ := in.Track.RuleFor(eq.SubTestID)
		qs := QuestionScore{QuestionID: eq.QuestionID, SubTestID: eq.SubTestID}

		answer, has := in.Answers[eq.QuestionID]
		switch {
		case !has || !answer.HasSelection():
			qs.Points = rule.PointsBlank
		case sameOptionSet(answer.SelectedOptionIDs, eq.Question.CorrectOptionIDs()):
			qs.Answered, qs.IsCorrect = true, true
			qs.Points = rule.PointsCorrect
			st.CorrectCount++
		default:
			qs.Answered = true
			qs.Points = rule.PointsIncorrect
		}

		st.TotalQuestions++
		raw[eq.SubTestID] += qs.Points
		outcome.Questions = append(outcome.Questions, qs)
	}

	total := 0.0
	approved := true
	for i := range outcome.SubTests {
		st := &outcome.SubTests[i]
		// Rounding is for display only; the minimum applies to the raw sum.
		st.ScoreObtained = roundHalfUp(raw[st.SubTestID])
		st.IsApproved = st.MinimumRequired == nil || raw[st.SubTestID] >= *st.MinimumRequired
		total += raw[st.SubTestID]
		if !st.IsApproved {
			approved = false
		}
	}
	outcome.TotalScore = roundHalfUp(total)

	// Independent tracks evaluate exactly one sub-test, so the same loop
	// yields "that sub-test's approval"; joint tracks need all of them.
	outcome.IsApproved = approved
	return outcome, nil
}

// evaluatedSubTests picks the sub-tests that count for the track, in exam order.
func evaluatedSubTests(in ScoringInput) ([]uint, error) {
	switch in.Track.ApprovalMode {
	case model.ApprovalIndependent:
		if in.ChosenSubTestID == nil {
			return nil, ErrSubTestRequired
		}
		if _, ok := in.Track.RuleFor(*in.ChosenSubTestID); !ok {
			return nil, fmt.Errorf("%w: sub-test %d", ErrSubTestInvalid, *in.ChosenSubTestID)
		}
		return []uint{*in.ChosenSubTestID}, nil
	case model.ApprovalJoint:
		var ids []uint
		for _, st := range in.SubTests {
			if _, ok := in.Track.RuleFor(st.ID); ok {
				ids = append(ids, st.ID)
			}
		}
		return ids, nil
	default:
		return nil, fmt.Errorf("%w: unknown approval mode %q", ErrTrackInvalid, in.Track.ApprovalMode)
	}
}

// sameOptionSet is exact set equality; single-select is the one-element case.
func sameOptionSet(selected, correct []uint) bool {
	a := uniqueSorted(selected)
	b := uniqueSorted(correct)
	if len(a) == 0 || len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func uniqueSorted(ids []uint) []uint {
	out := make([]uint, 0, len(ids))
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// roundHalfUp rounds to two decimals, halves away from zero. The tiny nudge
// absorbs binary representation error such as 1.005*100 = 100.49999...
func roundHalfUp(v float64) float64 {
	return math.Round(v*100+math.Copysign(1e-9, v)) / 100
}
