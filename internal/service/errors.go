package service

import "errors"

// Business outcomes of the attempt engine. Callers branch on them with
// errors.Is; none of them indicates an infrastructure failure.
var (
	// ownership / lookup
	ErrNotFound = errors.New("attempt not found")
	ErrNotOwner = errors.New("attempt does not belong to the caller")

	// state conflicts
	ErrAlreadyCompleted  = errors.New("attempt already submitted")
	ErrIncompleteAttempt = errors.New("every question must be answered before finalizing")
	ErrAttemptNotActive  = errors.New("attempt is not in progress")
	ErrNotSubmitted      = errors.New("attempt has not been submitted yet")

	// timing
	ErrNotAvailableYet = errors.New("exam is not available yet")
	ErrExamClosed      = errors.New("exam is closed")
	ErrExpired         = errors.New("attempt time has expired")

	// start validation
	ErrExamNotFound    = errors.New("exam not found")
	ErrNotPublished    = errors.New("exam is not published")
	ErrNotVisible      = errors.New("exam is not visible to the caller")
	ErrTrackInvalid    = errors.New("track does not belong to the exam or has no scoring rules")
	ErrSubTestRequired = errors.New("track requires choosing a sub-test")
	ErrSubTestInvalid  = errors.New("sub-test does not belong to the exam or has no scoring rule for the track")
	ErrNoQuestions     = errors.New("exam has no questions")

	// answer validation
	ErrUnknownQuestion  = errors.New("question is not part of the exam")
	ErrUnknownOption    = errors.New("option does not belong to the question")
	ErrInvalidSelection = errors.New("single-select question accepts at most one option")
	ErrQuestionLocked   = errors.New("previous question must be answered first")
)
