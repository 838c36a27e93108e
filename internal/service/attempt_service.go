package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jinzhu/copier"
	"github.com/lshigami/ascenso/internal/dto"
	"github.com/lshigami/ascenso/internal/model"
	"github.com/lshigami/ascenso/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const feedbackTimeout = 45 * time.Second

type StartAttemptInput struct {
	ExamID    uint
	UserID    uint
	TrackID   uint
	SubTestID *uint
}

type SaveAnswerInput struct {
	AttemptID         uint
	UserID            uint
	QuestionID        uint
	SelectedOptionIDs []uint
}

// AttemptService drives an attempt from creation to submission. Every
// operation on an existing attempt runs under the per-attempt lock and one
// database transaction that holds the attempt row lock.
type AttemptService interface {
	// StartOrResume reports created=true when a new attempt was opened.
	StartOrResume(ctx context.Context, in StartAttemptInput) (*dto.AttemptView, bool, error)
	GetState(ctx context.Context, attemptID, userID uint) (*dto.AttemptView, error)
	GetQuestion(ctx context.Context, attemptID, userID uint, index int) (*dto.QuestionView, error)
	SaveAnswer(ctx context.Context, in SaveAnswerInput) (*dto.SaveResult, error)
	Finalize(ctx context.Context, attemptID, userID uint) (*dto.ResultView, error)
	GetResult(ctx context.Context, attemptID, userID uint) (*dto.ResultView, error)
	ListMyAttempts(ctx context.Context, userID uint, examID *uint) ([]dto.AttemptSummaryDTO, error)
	// ExpireAttempt finalizes an overdue in-progress attempt on behalf of the
	// sweeper. It reports false when there was nothing to do.
	ExpireAttempt(ctx context.Context, attemptID uint) (bool, error)
}

type attemptService struct {
	db          *gorm.DB
	examRepo    repository.ExamRepository
	attemptRepo repository.AttemptRepository
	answerRepo  repository.AnswerRepository
	resultRepo  repository.SubTestResultRepository
	answers     AnswerStore
	scoring     ScoringService
	access      AccessPolicy
	timeAuth    *TimeAuthority
	locker      *AttemptLocker
	feedback    FeedbackGenerator
}

func NewAttemptService(
	db *gorm.DB,
	examRepo repository.ExamRepository,
	attemptRepo repository.AttemptRepository,
	answerRepo repository.AnswerRepository,
	resultRepo repository.SubTestResultRepository,
	answers AnswerStore,
	scoring ScoringService,
	access AccessPolicy,
	timeAuth *TimeAuthority,
	locker *AttemptLocker,
	feedback FeedbackGenerator,
) AttemptService {
	return &attemptService{
		db:          db,
		examRepo:    examRepo,
		attemptRepo: attemptRepo,
		answerRepo:  answerRepo,
		resultRepo:  resultRepo,
		answers:     answers,
		scoring:     scoring,
		access:      access,
		timeAuth:    timeAuth,
		locker:      locker,
		feedback:    feedback,
	}
}

// finalized carries what the post-commit feedback step needs.
type finalized struct {
	exam   *model.Exam
	track  *model.Track
	result *dto.ResultView
}

func (s *attemptService) StartOrResume(ctx context.Context, in StartAttemptInput) (*dto.AttemptView, bool, error) {
	unlock := s.locker.LockStart(in.ExamID, in.UserID)
	defer unlock()

	existing, err := s.attemptRepo.FindByExamAndUser(ctx, nil, in.ExamID, in.UserID)
	if err == nil {
		view, err := s.resume(ctx, existing.ID)
		return view, false, err
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("look up attempt: %w", err)
	}

	var view *dto.AttemptView
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exam, err := s.loadExam(ctx, tx, in.ExamID)
		if err != nil {
			return err
		}
		now := s.timeAuth.Now()
		if err := s.checkAvailable(exam, now); err != nil {
			return err
		}
		visible, err := s.access.CanSee(ctx, tx, exam, in.UserID)
		if err != nil {
			return fmt.Errorf("check exam visibility: %w", err)
		}
		if !visible {
			return ErrNotVisible
		}
		subTestID, err := s.validateTrack(ctx, tx, exam, in.TrackID, in.SubTestID)
		if err != nil {
			return err
		}
		if len(exam.Questions) == 0 {
			return ErrNoQuestions
		}

		attempt := &model.Attempt{
			ExamID:    exam.ID,
			UserID:    in.UserID,
			TrackID:   in.TrackID,
			SubTestID: subTestID,
			StartedAt: now,
			EndsAt:    s.timeAuth.ComputeEndTime(now, exam.TimeLimitMinutes),
			State:     model.AttemptInProgress,
		}
		if err := s.attemptRepo.Create(ctx, tx, attempt); err != nil {
			return err
		}
		log.Info().Uint("attemptID", attempt.ID).Uint("examID", exam.ID).Uint("userID", in.UserID).
			Time("endsAt", attempt.EndsAt).Msg("Attempt created")
		view = s.attemptView(attempt, exam, nil, now)
		return nil
	})
	if err == nil {
		return view, true, nil
	}

	// Another node may have created the pair's attempt between our lookup and insert.
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		if existing, findErr := s.attemptRepo.FindByExamAndUser(ctx, nil, in.ExamID, in.UserID); findErr == nil {
			view, err := s.resume(ctx, existing.ID)
			return view, false, err
		}
	}
	return nil, false, err
}

// resume returns the current view of the caller's existing attempt. Track and
// sub-test arguments of the start request are ignored here.
func (s *attemptService) resume(ctx context.Context, attemptID uint) (*dto.AttemptView, error) {
	unlock := s.locker.LockAttempt(attemptID)
	defer unlock()

	var (
		view    *dto.AttemptView
		expired bool
		done    *finalized
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		attempt, err := s.attemptRepo.FindByIDForUpdate(ctx, tx, attemptID)
		if err != nil {
			return fmt.Errorf("load attempt %d: %w", attemptID, err)
		}
		if attempt.IsSubmitted() {
			return ErrAlreadyCompleted
		}
		exam, err := s.loadExam(ctx, tx, attempt.ExamID)
		if err != nil {
			return err
		}
		now := s.timeAuth.Now()
		if s.timeAuth.IsExpired(now, attempt.EndsAt) {
			// Commit the expiry finalization, then report Expired.
			done, err = s.finalizeLocked(ctx, tx, attempt, exam, model.FinalizedExpiry)
			expired = true
			return err
		}
		answers, err := s.answerRepo.FindByAttempt(ctx, tx, attempt.ID)
		if err != nil {
			return fmt.Errorf("load answers: %w", err)
		}
		log.Info().Uint("attemptID", attempt.ID).Uint("userID", attempt.UserID).Msg("Attempt resumed")
		view = s.attemptView(attempt, exam, answers, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.afterFinalize(done)
	if expired {
		return nil, ErrExpired
	}
	return view, nil
}

func (s *attemptService) GetState(ctx context.Context, attemptID, userID uint) (*dto.AttemptView, error) {
	unlock := s.locker.LockAttempt(attemptID)
	defer unlock()

	var (
		view *dto.AttemptView
		done *finalized
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		attempt, exam, err := s.loadOwned(ctx, tx, attemptID, userID)
		if err != nil {
			return err
		}
		now := s.timeAuth.Now()
		if done, err = s.expireIfDue(ctx, tx, attempt, exam, now); err != nil {
			return err
		}
		answers, err := s.answerRepo.FindByAttempt(ctx, tx, attempt.ID)
		if err != nil {
			return fmt.Errorf("load answers: %w", err)
		}
		view = s.attemptView(attempt, exam, answers, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.afterFinalize(done)
	return view, nil
}

func (s *attemptService) GetQuestion(ctx context.Context, attemptID, userID uint, index int) (*dto.QuestionView, error) {
	unlock := s.locker.LockAttempt(attemptID)
	defer unlock()

	var (
		view *dto.QuestionView
		done *finalized
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		attempt, exam, err := s.loadOwned(ctx, tx, attemptID, userID)
		if err != nil {
			return err
		}
		if done, err = s.expireIfDue(ctx, tx, attempt, exam, s.timeAuth.Now()); err != nil {
			return err
		}
		answers, err := s.answerRepo.FindByAttempt(ctx, tx, attempt.ID)
		if err != nil {
			return fmt.Errorf("load answers: %w", err)
		}

		gate := NewNavigationGate(questionIDs(exam), answeredSet(answers))
		if index < 0 || index >= gate.Len() {
			return fmt.Errorf("%w: index %d", ErrUnknownQuestion, index)
		}
		// Submitted attempts are open for review in any order.
		if !attempt.IsSubmitted() && !gate.CanNavigateTo(index) {
			return ErrQuestionLocked
		}
		view = s.questionView(exam, index, answers, gate)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.afterFinalize(done)
	return view, nil
}

func (s *attemptService) SaveAnswer(ctx context.Context, in SaveAnswerInput) (*dto.SaveResult, error) {
	unlock := s.locker.LockAttempt(in.AttemptID)
	defer unlock()

	var (
		result *dto.SaveResult
		done   *finalized
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		attempt, exam, err := s.loadOwned(ctx, tx, in.AttemptID, in.UserID)
		if err != nil {
			return err
		}
		answers, err := s.answerRepo.FindByAttempt(ctx, tx, attempt.ID)
		if err != nil {
			return fmt.Errorf("load answers: %w", err)
		}
		answered := answeredSet(answers)
		gate := NewNavigationGate(questionIDs(exam), answered)

		if attempt.IsSubmitted() {
			// Time ran out, whichever path finalized the attempt.
			if s.finalizedByDeadline(attempt) {
				result = &dto.SaveResult{Saved: false, Expired: true, Navigation: navigationDTO(gate)}
				return nil
			}
			return ErrAttemptNotActive
		}

		if s.timeAuth.IsExpired(s.timeAuth.Now(), attempt.EndsAt) {
			done, err = s.finalizeLocked(ctx, tx, attempt, exam, model.FinalizedExpiry)
			if err != nil {
				return err
			}
			result = &dto.SaveResult{Saved: false, Expired: true, Navigation: navigationDTO(gate)}
			return nil
		}

		idx, ok := gate.IndexOf(in.QuestionID)
		if !ok {
			return fmt.Errorf("%w: question %d", ErrUnknownQuestion, in.QuestionID)
		}
		if !gate.CanNavigateTo(idx) {
			return ErrQuestionLocked
		}
		if err := validateSelection(&exam.Questions[idx].Question, in.SelectedOptionIDs); err != nil {
			return err
		}

		res, err := s.answers.Upsert(ctx, tx, attempt, in.QuestionID, in.SelectedOptionIDs)
		if err != nil {
			return err
		}
		if res.Expired {
			// The deadline passed between the check above and the write.
			done, err = s.finalizeLocked(ctx, tx, attempt, exam, model.FinalizedExpiry)
			if err != nil {
				return err
			}
			result = &dto.SaveResult{Saved: false, Expired: true, Navigation: navigationDTO(gate)}
			return nil
		}

		answered[in.QuestionID] = res.Answer.HasSelection()
		result = &dto.SaveResult{
			Saved:      true,
			Navigation: navigationDTO(NewNavigationGate(questionIDs(exam), answered)),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.afterFinalize(done)
	return result, nil
}

func (s *attemptService) Finalize(ctx context.Context, attemptID, userID uint) (*dto.ResultView, error) {
	unlock := s.locker.LockAttempt(attemptID)
	defer unlock()

	var done *finalized
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		attempt, exam, err := s.loadOwned(ctx, tx, attemptID, userID)
		if err != nil {
			return err
		}
		if attempt.IsSubmitted() {
			return ErrAlreadyCompleted
		}

		by := model.FinalizedManual
		if s.timeAuth.IsExpired(s.timeAuth.Now(), attempt.EndsAt) {
			// Past the deadline the attempt is scored as it stands.
			by = model.FinalizedExpiry
		} else {
			answered, err := s.answers.ListAnswered(ctx, tx, attempt.ID)
			if err != nil {
				return err
			}
			if !NewNavigationGate(questionIDs(exam), answered).AllAnswered() {
				return ErrIncompleteAttempt
			}
		}

		done, err = s.finalizeLocked(ctx, tx, attempt, exam, by)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.afterFinalize(done)
	return done.result, nil
}

func (s *attemptService) GetResult(ctx context.Context, attemptID, userID uint) (*dto.ResultView, error) {
	unlock := s.locker.LockAttempt(attemptID)
	defer unlock()

	var (
		view *dto.ResultView
		done *finalized
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		attempt, exam, err := s.loadOwned(ctx, tx, attemptID, userID)
		if err != nil {
			return err
		}
		if done, err = s.expireIfDue(ctx, tx, attempt, exam, s.timeAuth.Now()); err != nil {
			return err
		}
		if done != nil {
			view = done.result
			return nil
		}
		if !attempt.IsSubmitted() {
			return ErrNotSubmitted
		}
		results, err := s.resultRepo.FindByAttempt(ctx, tx, attempt.ID)
		if err != nil {
			return fmt.Errorf("load sub-test results: %w", err)
		}
		view = s.resultView(attempt, exam, results)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.afterFinalize(done)
	return view, nil
}

func (s *attemptService) ListMyAttempts(ctx context.Context, userID uint, examID *uint) ([]dto.AttemptSummaryDTO, error) {
	attempts, err := s.attemptRepo.FindAllByUser(ctx, userID, examID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("Failed to list attempts")
		return nil, err
	}

	ids := make([]uint, 0, len(attempts))
	for _, a := range attempts {
		ids = append(ids, a.ExamID)
	}
	titles, err := s.examRepo.FindTitles(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load exam titles: %w", err)
	}

	summaries := make([]dto.AttemptSummaryDTO, 0, len(attempts))
	if err := copier.Copy(&summaries, &attempts); err != nil {
		return nil, fmt.Errorf("map attempts: %w", err)
	}
	for i := range summaries {
		summaries[i].ExamTitle = titles[summaries[i].ExamID]
		summaries[i].StartedAt = s.timeAuth.InZone(summaries[i].StartedAt)
		summaries[i].EndsAt = s.timeAuth.InZone(summaries[i].EndsAt)
		if at := summaries[i].SubmittedAt; at != nil {
			local := s.timeAuth.InZone(*at)
			summaries[i].SubmittedAt = &local
		}
	}
	return summaries, nil
}

func (s *attemptService) ExpireAttempt(ctx context.Context, attemptID uint) (bool, error) {
	unlock := s.locker.LockAttempt(attemptID)
	defer unlock()

	var done *finalized
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		attempt, err := s.attemptRepo.FindByIDForUpdate(ctx, tx, attemptID)
		if err != nil {
			return fmt.Errorf("load attempt %d: %w", attemptID, err)
		}
		if attempt.IsSubmitted() || !s.timeAuth.IsExpired(s.timeAuth.Now(), attempt.EndsAt) {
			return nil
		}
		exam, err := s.loadExam(ctx, tx, attempt.ExamID)
		if err != nil {
			return err
		}
		done, err = s.finalizeLocked(ctx, tx, attempt, exam, model.FinalizedSweep)
		return err
	})
	if errors.Is(err, ErrAlreadyCompleted) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	s.afterFinalize(done)
	return done != nil, nil
}

// loadOwned locks the attempt row and checks it belongs to userID.
func (s *attemptService) loadOwned(ctx context.Context, tx *gorm.DB, attemptID, userID uint) (*model.Attempt, *model.Exam, error) {
	attempt, err := s.attemptRepo.FindByIDForUpdate(ctx, tx, attemptID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load attempt %d: %w", attemptID, err)
	}
	if attempt.UserID != userID {
		log.Warn().Uint("attemptID", attemptID).Uint("userID", userID).Msg("Attempt accessed by another user")
		return nil, nil, ErrNotOwner
	}
	exam, err := s.loadExam(ctx, tx, attempt.ExamID)
	if err != nil {
		return nil, nil, err
	}
	return attempt, exam, nil
}

func (s *attemptService) loadExam(ctx context.Context, tx *gorm.DB, examID uint) (*model.Exam, error) {
	exam, err := s.examRepo.FindByIDWithQuestions(ctx, tx, examID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrExamNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load exam %d: %w", examID, err)
	}
	return exam, nil
}

func (s *attemptService) checkAvailable(exam *model.Exam, now time.Time) error {
	switch exam.Status {
	case model.ExamStatusPublished:
	case model.ExamStatusClosed:
		return ErrExamClosed
	default:
		return ErrNotPublished
	}
	if s.timeAuth.IsWithinAvailabilityWindow(now, exam.ValidFrom, exam.ValidTo) {
		return nil
	}
	if exam.ValidFrom != nil && now.Before(*exam.ValidFrom) {
		return ErrNotAvailableYet
	}
	return ErrExamClosed
}

// validateTrack returns the sub-test to store on the attempt: the chosen one
// for independent tracks, nil for joint ones.
func (s *attemptService) validateTrack(ctx context.Context, tx *gorm.DB, exam *model.Exam, trackID uint, subTestID *uint) (*uint, error) {
	track, err := s.examRepo.FindTrack(ctx, tx, trackID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTrackInvalid
	}
	if err != nil {
		return nil, fmt.Errorf("load track %d: %w", trackID, err)
	}
	if track.ExamID != exam.ID {
		return nil, ErrTrackInvalid
	}

	switch track.ApprovalMode {
	case model.ApprovalIndependent:
		if subTestID == nil {
			return nil, ErrSubTestRequired
		}
		if !examHasSubTest(exam, *subTestID) {
			return nil, ErrSubTestInvalid
		}
		if _, ok := track.RuleFor(*subTestID); !ok {
			return nil, ErrSubTestInvalid
		}
		id := *subTestID
		return &id, nil
	case model.ApprovalJoint:
		if len(track.ScoringRules) == 0 {
			return nil, ErrTrackInvalid
		}
		return nil, nil
	default:
		return nil, ErrTrackInvalid
	}
}

// expireIfDue applies lazy expiry: an overdue in-progress attempt is
// finalized before anything is read from it.
func (s *attemptService) expireIfDue(ctx context.Context, tx *gorm.DB, attempt *model.Attempt, exam *model.Exam, now time.Time) (*finalized, error) {
	if attempt.IsSubmitted() || !s.timeAuth.IsExpired(now, attempt.EndsAt) {
		return nil, nil
	}
	return s.finalizeLocked(ctx, tx, attempt, exam, model.FinalizedExpiry)
}

// finalizeLocked scores the attempt and moves it to submitted. The caller
// holds the attempt lock and tx holds its row lock.
func (s *attemptService) finalizeLocked(ctx context.Context, tx *gorm.DB, attempt *model.Attempt, exam *model.Exam, by model.FinalizedBy) (*finalized, error) {
	track, err := s.examRepo.FindTrack(ctx, tx, attempt.TrackID)
	if err != nil {
		return nil, fmt.Errorf("load track %d: %w", attempt.TrackID, err)
	}
	answers, err := s.answerRepo.FindByAttempt(ctx, tx, attempt.ID)
	if err != nil {
		return nil, fmt.Errorf("load answers: %w", err)
	}
	byQuestion := make(map[uint]model.Answer, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a
	}

	outcome, err := s.scoring.Score(ScoringInput{
		Track:           *track,
		ChosenSubTestID: attempt.SubTestID,
		SubTests:        exam.SubTests,
		Questions:       exam.Questions,
		Answers:         byQuestion,
	})
	if err != nil {
		return nil, err
	}

	scored := make([]model.Answer, 0, len(answers))
	for _, q := range outcome.Questions {
		a, ok := byQuestion[q.QuestionID]
		if !ok {
			continue
		}
		correct, points := q.IsCorrect, q.Points
		a.IsCorrect = &correct
		a.PointsAwarded = &points
		scored = append(scored, a)
	}
	if err := s.answerRepo.UpdateScores(ctx, tx, scored); err != nil {
		return nil, fmt.Errorf("store answer scores: %w", err)
	}

	results := make([]model.SubTestResult, 0, len(outcome.SubTests))
	for _, st := range outcome.SubTests {
		results = append(results, model.SubTestResult{
			SubTestID:       st.SubTestID,
			ScoreObtained:   st.ScoreObtained,
			MinimumRequired: st.MinimumRequired,
			IsApproved:      st.IsApproved,
			CorrectCount:    st.CorrectCount,
			TotalQuestions:  st.TotalQuestions,
		})
	}
	if err := s.resultRepo.ReplaceForAttempt(ctx, tx, attempt.ID, results); err != nil {
		return nil, fmt.Errorf("store sub-test results: %w", err)
	}

	now := s.timeAuth.Now()
	total, approved := outcome.TotalScore, outcome.IsApproved
	attempt.SubmittedAt = &now
	attempt.TotalScore = &total
	attempt.IsApproved = &approved
	attempt.FinalizedBy = by
	ok, err := s.attemptRepo.MarkSubmitted(ctx, tx, attempt)
	if err != nil {
		return nil, fmt.Errorf("mark attempt submitted: %w", err)
	}
	if !ok {
		return nil, ErrAlreadyCompleted
	}
	attempt.State = model.AttemptSubmitted

	log.Info().Uint("attemptID", attempt.ID).Uint("examID", attempt.ExamID).Uint("userID", attempt.UserID).
		Str("finalizedBy", string(by)).Float64("totalScore", total).Bool("approved", approved).
		Msg("Attempt submitted")

	return &finalized{exam: exam, track: track, result: s.resultView(attempt, exam, results)}, nil
}

// afterFinalize kicks off optional feedback generation once the submission
// is committed.
func (s *attemptService) afterFinalize(done *finalized) {
	if done == nil || s.feedback == nil || !s.feedback.Enabled() {
		return
	}
	in := FeedbackInput{
		ExamTitle:    done.exam.Title,
		TrackName:    done.track.Name,
		ApprovalMode: string(done.track.ApprovalMode),
		Result:       *done.result,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), feedbackTimeout)
		defer cancel()

		text, err := s.feedback.Generate(ctx, in)
		if err != nil {
			log.Warn().Err(err).Uint("attemptID", in.Result.AttemptID).Msg("Feedback generation failed")
			return
		}
		if err := s.attemptRepo.UpdateFeedback(ctx, in.Result.AttemptID, text); err != nil {
			log.Error().Err(err).Uint("attemptID", in.Result.AttemptID).Msg("Failed to store feedback")
		}
	}()
}

func (s *attemptService) finalizedByDeadline(attempt *model.Attempt) bool {
	if attempt.FinalizedBy == model.FinalizedExpiry || attempt.FinalizedBy == model.FinalizedSweep {
		return true
	}
	return s.timeAuth.IsExpired(s.timeAuth.Now(), attempt.EndsAt)
}

func (s *attemptService) attemptView(attempt *model.Attempt, exam *model.Exam, answers []model.Answer, now time.Time) *dto.AttemptView {
	view := &dto.AttemptView{}
	if err := copier.Copy(view, attempt); err != nil {
		log.Error().Err(err).Uint("attemptID", attempt.ID).Msg("Failed to map attempt view")
	}
	view.AttemptID = attempt.ID
	view.StartedAt = s.timeAuth.InZone(attempt.StartedAt)
	view.EndsAt = s.timeAuth.InZone(attempt.EndsAt)
	view.State = string(attempt.State)
	view.LastSeenQuestion = attempt.LastSeenQuestionID
	if !attempt.IsSubmitted() {
		view.RemainingSeconds = s.timeAuth.RemainingSeconds(now, attempt.EndsAt)
	}

	answered := answeredSet(answers)
	gate := NewNavigationGate(questionIDs(exam), answered)
	view.TotalQuestions = gate.Len()
	view.ReachableIndices = gate.Reachable()
	view.NextRequiredIndex = gate.NextRequiredIndex()

	view.AnsweredQuestionIDs = make([]uint, 0, len(answered))
	for _, eq := range exam.Questions {
		if answered[eq.QuestionID] {
			view.AnsweredQuestionIDs = append(view.AnsweredQuestionIDs, eq.QuestionID)
		}
	}
	view.Answers = make([]dto.AnswerDTO, 0, len(answers))
	for _, a := range answers {
		view.Answers = append(view.Answers, dto.AnswerDTO{
			QuestionID:        a.QuestionID,
			SelectedOptionIDs: append([]uint{}, a.SelectedOptionIDs...),
		})
	}
	return view
}

func (s *attemptService) questionView(exam *model.Exam, index int, answers []model.Answer, gate *NavigationGate) *dto.QuestionView {
	eq := exam.Questions[index]
	view := &dto.QuestionView{
		Index:             index,
		QuestionID:        eq.QuestionID,
		SubTestID:         eq.SubTestID,
		SubTestName:       subTestName(exam, eq.SubTestID),
		Prompt:            eq.Question.Prompt,
		MultiSelect:       eq.Question.MultiSelect,
		Options:           make([]dto.OptionDTO, 0, len(eq.Question.Options)),
		SelectedOptionIDs: []uint{},
		Navigation:        navigationDTO(gate),
	}
	for _, o := range eq.Question.Options {
		view.Options = append(view.Options, dto.OptionDTO{ID: o.ID, Label: o.Label})
	}
	for _, a := range answers {
		if a.QuestionID == eq.QuestionID {
			view.SelectedOptionIDs = append(view.SelectedOptionIDs, a.SelectedOptionIDs...)
			break
		}
	}
	return view
}

func (s *attemptService) resultView(attempt *model.Attempt, exam *model.Exam, results []model.SubTestResult) *dto.ResultView {
	view := &dto.ResultView{
		AttemptID:   attempt.ID,
		ExamID:      attempt.ExamID,
		FinalizedBy: string(attempt.FinalizedBy),
		Feedback:    attempt.Feedback,
		PerSubTest:  make([]dto.SubTestResultDTO, 0, len(results)),
	}
	if attempt.SubmittedAt != nil {
		at := s.timeAuth.InZone(*attempt.SubmittedAt)
		view.SubmittedAt = &at
	}
	if attempt.TotalScore != nil {
		view.TotalScore = *attempt.TotalScore
	}
	if attempt.IsApproved != nil {
		view.IsApproved = *attempt.IsApproved
	}
	if err := copier.Copy(&view.PerSubTest, &results); err != nil {
		log.Error().Err(err).Uint("attemptID", attempt.ID).Msg("Failed to map sub-test results")
	}
	for i := range view.PerSubTest {
		view.PerSubTest[i].SubTestName = subTestName(exam, view.PerSubTest[i].SubTestID)
	}
	return view
}

func validateSelection(q *model.Question, selected []uint) error {
	ids := uniqueSorted(selected)
	if !q.MultiSelect && len(ids) > 1 {
		return ErrInvalidSelection
	}
	for _, id := range ids {
		if !q.HasOption(id) {
			return fmt.Errorf("%w: option %d", ErrUnknownOption, id)
		}
	}
	return nil
}

func navigationDTO(gate *NavigationGate) dto.NavigationDTO {
	return dto.NavigationDTO{
		ReachableIndices:  gate.Reachable(),
		NextRequiredIndex: gate.NextRequiredIndex(),
	}
}

func questionIDs(exam *model.Exam) []uint {
	ids := make([]uint, len(exam.Questions))
	for i, eq := range exam.Questions {
		ids[i] = eq.QuestionID
	}
	return ids
}

func examHasSubTest(exam *model.Exam, subTestID uint) bool {
	for _, st := range exam.SubTests {
		if st.ID == subTestID {
			return true
		}
	}
	return false
}

func subTestName(exam *model.Exam, subTestID uint) string {
	for _, st := range exam.SubTests {
		if st.ID == subTestID {
			return st.Name
		}
	}
	return ""
}
