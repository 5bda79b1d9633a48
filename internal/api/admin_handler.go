package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"alcyxob/trainer-scheduler/internal/service"
)

// AdminHandler serves read-only oversight of every trainer.
type AdminHandler struct {
	adminService service.AdminService
	logger       *zap.Logger
}

func NewAdminHandler(adminService service.AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{adminService: adminService, logger: logger}
}

// ListTrainers godoc
// @Summary List trainers with session counts
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param search query string false "matches name, username or email"
// @Success 200 {object} gin.H "trainers"
// @Router /admin/trainers [get]
func (h *AdminHandler) ListTrainers(c *gin.Context) {
	trainers, err := h.adminService.ListTrainers(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"trainers": nonNil(trainers)})
}

// TrainerSessions godoc
// @Summary List one trainer's sessions
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trainer ID"
// @Success 200 {object} gin.H "sessions"
// @Failure 404 {object} gin.H "Trainer not found"
// @Router /admin/trainers/{id}/sessions [get]
func (h *AdminHandler) TrainerSessions(c *gin.Context) {
	entries, err := h.adminService.TrainerSessions(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"sessions": nonNil(entries)})
}

// TrainerCalendar godoc
// @Summary One trainer's calendar
// @Description Same views as the trainer calendar, without hiding elapsed sessions.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trainer ID"
// @Param view query string false "month, week or day"
// @Param date query string false "reference date YYYY-MM-DD"
// @Param nav query int false "-1, 0 or 1"
// @Success 200 {object} gin.H "calendar"
// @Failure 404 {object} gin.H "Trainer not found"
// @Router /admin/trainers/{id}/calendar [get]
func (h *AdminHandler) TrainerCalendar(c *gin.Context) {
	state, err := calendarQuery(c, c.Param("id"), h.adminService.Today())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	view, err := h.adminService.TrainerCalendar(c.Request.Context(), state)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"calendar": view})
}

// TrainerStats godoc
// @Summary One trainer's session counts by status
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Trainer ID"
// @Success 200 {object} gin.H "stats"
// @Failure 404 {object} gin.H "Trainer not found"
// @Router /admin/trainers/{id}/stats [get]
func (h *AdminHandler) TrainerStats(c *gin.Context) {
	stats, err := h.adminService.TrainerStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"stats": stats})
}
