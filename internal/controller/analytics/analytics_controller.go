package analytics

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/feedback-survey/internal/controller"
	"github.com/lshigami/feedback-survey/internal/middleware"
	"github.com/lshigami/feedback-survey/internal/service"
)

type AnalyticsController struct {
	analyticsService service.AnalyticsService
}

func NewAnalyticsController(analyticsService service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{analyticsService: analyticsService}
}

// Overview godoc
// @Summary (Teacher/Admin) Analytics overview
// @Description Access-controlled placeholder; no statistics are computed yet.
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.AnalyticsOverviewDTO
// @Failure 401 {object} dto.ErrorResponse "Not logged in"
// @Failure 403 {object} dto.ErrorResponse "Students are not allowed"
// @Router /analytics/ [get]
func (c *AnalyticsController) Overview(ctx *gin.Context) {
	resp, err := c.analyticsService.Overview(middleware.CurrentUser(ctx))
	if err != nil {
		controller.Error(ctx, err, nil)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
