package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/ascenso/internal/dto"
	"github.com/lshigami/ascenso/internal/middleware"
	"github.com/lshigami/ascenso/internal/service"
	"github.com/rs/zerolog/log"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

// errorTable maps business outcomes to HTTP status and a stable code. The
// first match wins, so more specific errors come first.
var errorTable = []errorMapping{
	{service.ErrNotOwner, http.StatusForbidden, "NOT_OWNER"},
	{service.ErrNotVisible, http.StatusForbidden, "NOT_VISIBLE"},
	{service.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{service.ErrExamNotFound, http.StatusNotFound, "EXAM_NOT_FOUND"},

	{service.ErrAlreadyCompleted, http.StatusConflict, "ALREADY_COMPLETED"},
	{service.ErrIncompleteAttempt, http.StatusConflict, "INCOMPLETE_ATTEMPT"},
	{service.ErrAttemptNotActive, http.StatusConflict, "ATTEMPT_NOT_ACTIVE"},
	{service.ErrNotSubmitted, http.StatusConflict, "NOT_SUBMITTED"},
	{service.ErrNotAvailableYet, http.StatusConflict, "NOT_AVAILABLE_YET"},
	{service.ErrExamClosed, http.StatusConflict, "EXAM_CLOSED"},
	{service.ErrExpired, http.StatusConflict, "EXPIRED"},
	{service.ErrNotPublished, http.StatusConflict, "NOT_PUBLISHED"},
	{service.ErrQuestionLocked, http.StatusConflict, "QUESTION_LOCKED"},

	{service.ErrTrackInvalid, http.StatusUnprocessableEntity, "TRACK_INVALID"},
	{service.ErrSubTestRequired, http.StatusUnprocessableEntity, "SUB_TEST_REQUIRED"},
	{service.ErrSubTestInvalid, http.StatusUnprocessableEntity, "SUB_TEST_INVALID"},
	{service.ErrNoQuestions, http.StatusUnprocessableEntity, "NO_QUESTIONS"},
	{service.ErrUnknownQuestion, http.StatusBadRequest, "UNKNOWN_QUESTION"},
	{service.ErrUnknownOption, http.StatusBadRequest, "UNKNOWN_OPTION"},
	{service.ErrInvalidSelection, http.StatusBadRequest, "INVALID_SELECTION"},
}

// StatusFor returns the HTTP status and code for err; unknown errors are 500.
func StatusFor(err error) (int, string) {
	for _, m := range errorTable {
		if errors.Is(err, m.err) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, "INTERNAL"
}

// RespondError writes err as an ErrorResponse. Business outcomes are logged
// at Warn, anything unexpected at Error with its cause hidden from the client.
func RespondError(ctx *gin.Context, op string, err error) {
	status, code := StatusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("op", op).Str("request_id", middleware.GetRequestID(ctx)).Msg("Request failed")
		ctx.JSON(status, dto.ErrorResponse{Message: "Internal server error", Code: code})
		return
	}
	log.Warn().Err(err).Str("op", op).Str("code", code).Str("request_id", middleware.GetRequestID(ctx)).Msg("Request rejected")
	ctx.JSON(status, dto.ErrorResponse{Message: err.Error(), Code: code})
}

// BadRequest replies 400 for malformed input.
func BadRequest(ctx *gin.Context, message string, details ...string) {
	ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: message, Code: "BAD_REQUEST", Details: details})
}

// ParseIDParam reads a positive integer path parameter.
func ParseIDParam(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil || id == 0 {
		BadRequest(ctx, "Invalid "+name+" format")
		return 0, false
	}
	return uint(id), true
}

// CurrentUser returns the caller set by the identity middleware.
func CurrentUser(ctx *gin.Context) (uint, bool) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Missing caller identity", Code: "UNAUTHENTICATED"})
		return 0, false
	}
	return userID, true
}
