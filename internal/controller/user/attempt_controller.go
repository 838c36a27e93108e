package user

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/ascenso/internal/controller"
	"github.com/lshigami/ascenso/internal/dto"
	"github.com/lshigami/ascenso/internal/service"
	"github.com/rs/zerolog/log"
)

type AttemptController struct {
	attemptService service.AttemptService
}

func NewAttemptController(attemptService service.AttemptService) *AttemptController {
	return &AttemptController{attemptService: attemptService}
}

// RegisterRoutes mounts the attempt endpoints on an authenticated group.
func (c *AttemptController) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/exams/:exam_id/attempts", c.StartOrResume)
	api.GET("/attempts/:attempt_id", c.GetState)
	api.GET("/attempts/:attempt_id/questions/:index", c.GetQuestion)
	api.PUT("/attempts/:attempt_id/answers/:question_id", c.SaveAnswer)
	api.POST("/attempts/:attempt_id/finalize", c.Finalize)
	api.GET("/attempts/:attempt_id/result", c.GetResult)
	api.GET("/me/attempts", c.ListMyAttempts)
}

// StartOrResume godoc
// @Summary Start or resume an exam attempt
// @Description Opens the caller's attempt on an exam, or returns the one already in progress. Track and sub-test are ignored when resuming.
// @Tags Attempts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param exam_id path int true "Exam ID"
// @Param request body dto.StartAttemptRequest true "Track and, for independent tracks, the sub-test"
// @Success 201 {object} dto.AttemptView "Attempt created"
// @Success 200 {object} dto.AttemptView "Attempt resumed"
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 403 {object} dto.ErrorResponse "Exam not visible to the caller"
// @Failure 409 {object} dto.ErrorResponse "Already completed, not available, closed or expired"
// @Failure 422 {object} dto.ErrorResponse "Invalid track or sub-test"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /exams/{exam_id}/attempts [post]
func (c *AttemptController) StartOrResume(ctx *gin.Context) {
	userID, ok := controller.CurrentUser(ctx)
	if !ok {
		return
	}
	examID, ok := controller.ParseIDParam(ctx, "exam_id")
	if !ok {
		return
	}

	var req dto.StartAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("StartOrResume: Failed to bind JSON")
		controller.BadRequest(ctx, "Invalid request body", err.Error())
		return
	}

	view, created, err := c.attemptService.StartOrResume(ctx.Request.Context(), service.StartAttemptInput{
		ExamID:    examID,
		UserID:    userID,
		TrackID:   req.TrackID,
		SubTestID: req.SubTestID,
	})
	if err != nil {
		controller.RespondError(ctx, "StartOrResume", err)
		return
	}
	if created {
		ctx.JSON(http.StatusCreated, view)
		return
	}
	ctx.JSON(http.StatusOK, view)
}

// GetState godoc
// @Summary Get the current state of an attempt
// @Description Remaining time, saved answers and navigation. An overdue attempt is finalized before it is returned.
// @Tags Attempts
// @Produce json
// @Security BearerAuth
// @Param attempt_id path int true "Attempt ID"
// @Success 200 {object} dto.AttemptView
// @Failure 403 {object} dto.ErrorResponse "Attempt belongs to another user"
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /attempts/{attempt_id} [get]
func (c *AttemptController) GetState(ctx *gin.Context) {
	userID, ok := controller.CurrentUser(ctx)
	if !ok {
		return
	}
	attemptID, ok := controller.ParseIDParam(ctx, "attempt_id")
	if !ok {
		return
	}

	view, err := c.attemptService.GetState(ctx.Request.Context(), attemptID, userID)
	if err != nil {
		controller.RespondError(ctx, "GetState", err)
		return
	}
	ctx.JSON(http.StatusOK, view)
}

// GetQuestion godoc
// @Summary Open the question at an index
// @Description Only reachable indices can be opened while the attempt is in progress. Correct answers are never included.
// @Tags Attempts
// @Produce json
// @Security BearerAuth
// @Param attempt_id path int true "Attempt ID"
// @Param index path int true "Zero-based question index"
// @Success 200 {object} dto.QuestionView
// @Failure 400 {object} dto.ErrorResponse "Index out of range"
// @Failure 403 {object} dto.ErrorResponse "Attempt belongs to another user"
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Failure 409 {object} dto.ErrorResponse "Previous question not answered yet"
// @Router /attempts/{attempt_id}/questions/{index} [get]
func (c *AttemptController) GetQuestion(ctx *gin.Context) {
	userID, ok := controller.CurrentUser(ctx)
	if !ok {
		return
	}
	attemptID, ok := controller.ParseIDParam(ctx, "attempt_id")
	if !ok {
		return
	}
	index, err := strconv.Atoi(ctx.Param("index"))
	if err != nil || index < 0 {
		controller.BadRequest(ctx, "Invalid index format")
		return
	}

	view, err := c.attemptService.GetQuestion(ctx.Request.Context(), attemptID, userID, index)
	if err != nil {
		controller.RespondError(ctx, "GetQuestion", err)
		return
	}
	ctx.JSON(http.StatusOK, view)
}

// SaveAnswer godoc
// @Summary Save the selection for one question
// @Description Replaces the stored selection; an empty list clears it. When time has run out the write is dropped and the reply carries expired=true with status 200.
// @Tags Attempts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param attempt_id path int true "Attempt ID"
// @Param question_id path int true "Question ID"
// @Param request body dto.SaveAnswerRequest true "Selected option ids"
// @Success 200 {object} dto.SaveResult
// @Failure 400 {object} dto.ErrorResponse "Unknown question or option"
// @Failure 403 {object} dto.ErrorResponse "Attempt belongs to another user"
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Failure 409 {object} dto.ErrorResponse "Attempt not in progress or question locked"
// @Router /attempts/{attempt_id}/answers/{question_id} [put]
func (c *AttemptController) SaveAnswer(ctx *gin.Context) {
	userID, ok := controller.CurrentUser(ctx)
	if !ok {
		return
	}
	attemptID, ok := controller.ParseIDParam(ctx, "attempt_id")
	if !ok {
		return
	}
	questionID, ok := controller.ParseIDParam(ctx, "question_id")
	if !ok {
		return
	}

	var req dto.SaveAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("SaveAnswer: Failed to bind JSON")
		controller.BadRequest(ctx, "Invalid request body", err.Error())
		return
	}

	result, err := c.attemptService.SaveAnswer(ctx.Request.Context(), service.SaveAnswerInput{
		AttemptID:         attemptID,
		UserID:            userID,
		QuestionID:        questionID,
		SelectedOptionIDs: req.SelectedOptionIDs,
	})
	if err != nil {
		controller.RespondError(ctx, "SaveAnswer", err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// Finalize godoc
// @Summary Submit an attempt for scoring
// @Description Every question must be answered unless the deadline has already passed, in which case the attempt is scored as it stands.
// @Tags Attempts
// @Produce json
// @Security BearerAuth
// @Param attempt_id path int true "Attempt ID"
// @Success 200 {object} dto.ResultView
// @Failure 403 {object} dto.ErrorResponse "Attempt belongs to another user"
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Failure 409 {object} dto.ErrorResponse "Already completed or incomplete"
// @Router /attempts/{attempt_id}/finalize [post]
func (c *AttemptController) Finalize(ctx *gin.Context) {
	userID, ok := controller.CurrentUser(ctx)
	if !ok {
		return
	}
	attemptID, ok := controller.ParseIDParam(ctx, "attempt_id")
	if !ok {
		return
	}

	result, err := c.attemptService.Finalize(ctx.Request.Context(), attemptID, userID)
	if err != nil {
		controller.RespondError(ctx, "Finalize", err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// GetResult godoc
// @Summary Get the result of a submitted attempt
// @Tags Attempts
// @Produce json
// @Security BearerAuth
// @Param attempt_id path int true "Attempt ID"
// @Success 200 {object} dto.ResultView
// @Failure 403 {object} dto.ErrorResponse "Attempt belongs to another user"
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Failure 409 {object} dto.ErrorResponse "Attempt still in progress"
// @Router /attempts/{attempt_id}/result [get]
func (c *AttemptController) GetResult(ctx *gin.Context) {
	userID, ok := controller.CurrentUser(ctx)
	if !ok {
		return
	}
	attemptID, ok := controller.ParseIDParam(ctx, "attempt_id")
	if !ok {
		return
	}

	result, err := c.attemptService.GetResult(ctx.Request.Context(), attemptID, userID)
	if err != nil {
		controller.RespondError(ctx, "GetResult", err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// ListMyAttempts godoc
// @Summary List the caller's attempts
// @Tags Attempts
// @Produce json
// @Security BearerAuth
// @Param exam_id query int false "Only attempts on this exam"
// @Success 200 {array} dto.AttemptSummaryDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid exam_id"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /me/attempts [get]
func (c *AttemptController) ListMyAttempts(ctx *gin.Context) {
	userID, ok := controller.CurrentUser(ctx)
	if !ok {
		return
	}

	var examID *uint
	if raw := ctx.Query("exam_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			controller.BadRequest(ctx, "Invalid exam_id format")
			return
		}
		v := uint(id)
		examID = &v
	}

	attempts, err := c.attemptService.ListMyAttempts(ctx.Request.Context(), userID, examID)
	if err != nil {
		controller.RespondError(ctx, "ListMyAttempts", err)
		return
	}
	ctx.JSON(http.StatusOK, attempts)
}
