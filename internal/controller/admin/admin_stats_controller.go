package admin

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/olympiadquiz/server/internal/controller"
	"github.com/olympiadquiz/server/internal/service"
)

// StatsController serves the admin dashboard numbers and the attempt export.
type StatsController struct {
	statsService service.StatsService
}

func NewStatsController(statsService service.StatsService) *StatsController {
	return &StatsController{statsService: statsService}
}

// GetStatistics godoc
// @Summary Platform statistics
// @Description Totals, average score percentage, average attempt duration and the five most active users.
// @Tags Admin
// @Produce json
// @Success 200 {object} dto.StatisticsDTO
// @Security BearerAuth
// @Router /admin/statistics [get]
func (c *StatsController) GetStatistics(ctx *gin.Context) {
	stats, err := c.statsService.Statistics()
	if err != nil {
		controller.Fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, stats)
}

// ListAttempts godoc
// @Summary List every recorded attempt, newest first
// @Tags Admin
// @Produce json
// @Success 200 {array} dto.AdminAttemptDTO
// @Security BearerAuth
// @Router /admin/attempts [get]
func (c *StatsController) ListAttempts(ctx *gin.Context) {
	attempts, err := c.statsService.AllAttempts()
	if err != nil {
		controller.Fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, attempts)
}

// ExportAttempts godoc
// @Summary Download every recorded attempt as a CSV file
// @Tags Admin
// @Produce text/csv
// @Success 200 {string} string "CSV payload"
// @Security BearerAuth
// @Router /admin/attempts/export [get]
func (c *StatsController) ExportAttempts(ctx *gin.Context) {
	payload, err := c.statsService.ExportAttemptsCSV()
	if err != nil {
		controller.Fail(ctx, err)
		return
	}
	filename := fmt.Sprintf("quiz_results_%s.csv", time.Now().Format("20060102_150405"))
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Data(http.StatusOK, "text/csv", payload)
}
