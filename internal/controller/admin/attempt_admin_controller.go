package admin

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/ascenso/internal/controller"
	"github.com/lshigami/ascenso/internal/dto"
	"github.com/rs/zerolog/log"
)

// Sweeper is the part of the expiry sweeper the admin API needs.
type Sweeper interface {
	SweepOnce(ctx context.Context) (int, error)
}

type AttemptAdminController struct {
	sweeper Sweeper
}

func NewAttemptAdminController(sweeper Sweeper) *AttemptAdminController {
	return &AttemptAdminController{sweeper: sweeper}
}

// RegisterRoutes mounts the admin endpoints. The group is expected to be
// guarded by middleware.RequireUsers.
func (c *AttemptAdminController) RegisterRoutes(admin *gin.RouterGroup) {
	admin.POST("/attempts/sweep", c.Sweep)
}

// Sweep godoc
// @Summary (Admin) Finalize overdue attempts now
// @Description Runs one expiry sweep and reports how many attempts were moved to submitted.
// @Tags Admin - Attempts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SweepResponse
// @Failure 403 {object} dto.ErrorResponse "Caller is not an admin"
// @Failure 500 {object} dto.ErrorResponse "Sweep failed"
// @Router /admin/attempts/sweep [post]
func (c *AttemptAdminController) Sweep(ctx *gin.Context) {
	n, err := c.sweeper.SweepOnce(ctx.Request.Context())
	if err != nil {
		controller.RespondError(ctx, "Sweep", err)
		return
	}
	log.Info().Int("finalized", n).Msg("Admin sweep completed")
	ctx.JSON(http.StatusOK, dto.SweepResponse{Finalized: n})
}
