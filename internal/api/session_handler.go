package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"alcyxob/trainer-scheduler/internal/domain"
	"alcyxob/trainer-scheduler/internal/schedule"
	"alcyxob/trainer-scheduler/internal/service"
)

// SessionHandler serves the trainer dashboard. The trainer is always the
// authenticated user.
type SessionHandler struct {
	sessionService service.SessionService
	exportService  service.ExportService
	logger         *zap.Logger
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(sessionService service.SessionService, exportService service.ExportService, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		exportService:  exportService,
		logger:         logger,
	}
}

// CreateSessionsRequest is the recurring-session form.
type CreateSessionsRequest struct {
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Weekdays    []int  `json:"weekdays"`
	Title       string `json:"title"`
	ClientName  string `json:"client_name"`
	SessionType string `json:"session_type"`
	Description string `json:"description"`
}

// toRecurrence parses the wire fields. Empty fields are left zero for
// RecurrenceRequest.Validate to report.
func (r CreateSessionsRequest) toRecurrence() (schedule.RecurrenceRequest, error) {
	req := schedule.RecurrenceRequest{
		Weekdays:    r.Weekdays,
		Title:       r.Title,
		ClientName:  r.ClientName,
		SessionType: r.SessionType,
		Description: r.Description,
	}

	var err error
	if r.StartDate != "" {
		if req.StartDate, err = domain.ParseDate(r.StartDate); err != nil {
			return req, &schedule.ValidationError{Field: "start_date", Reason: "must be YYYY-MM-DD"}
		}
	}
	if r.EndDate != "" {
		if req.EndDate, err = domain.ParseDate(r.EndDate); err != nil {
			return req, &schedule.ValidationError{Field: "end_date", Reason: "must be YYYY-MM-DD"}
		}
	}
	if req.StartTime, err = domain.ParseTimeOfDay(r.StartTime); err != nil {
		return req, &schedule.ValidationError{Field: "start_time", Reason: "must be HH:MM"}
	}
	if req.EndTime, err = domain.ParseTimeOfDay(r.EndTime); err != nil {
		return req, &schedule.ValidationError{Field: "end_time", Reason: "must be HH:MM"}
	}
	return req, nil
}

// CreateSessions godoc
// @Summary Create recurring sessions
// @Tags Trainer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateSessionsRequest true "Recurrence"
// @Success 201 {object} gin.H "sessions and count"
// @Failure 400 {object} gin.H "Validation error"
// @Router /trainer/sessions [post]
func (h *SessionHandler) CreateSessions(c *gin.Context) {
	trainerID, ok := h.trainerID(c)
	if !ok {
		return
	}

	var body CreateSessionsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	req, err := body.toRecurrence()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	created, err := h.sessionService.CreateRecurring(c.Request.Context(), trainerID, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusCreated, gin.H{"sessions": created, "count": len(created)})
}

// ListSessions godoc
// @Summary List the trainer's sessions
// @Description Removes elapsed sessions that were never started first, when cleanup is enabled.
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Success 200 {object} gin.H "sessions and removed count"
// @Router /trainer/sessions [get]
func (h *SessionHandler) ListSessions(c *gin.Context) {
	trainerID, ok := h.trainerID(c)
	if !ok {
		return
	}
	entries, removed, err := h.sessionService.List(c.Request.Context(), trainerID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"sessions": nonNil(entries), "removed": removed})
}

// DeleteSession godoc
// @Summary Delete a session
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} gin.H "Session deleted successfully"
// @Failure 404 {object} gin.H "Session not found"
// @Router /trainer/sessions/{id} [delete]
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	trainerID, ok := h.trainerID(c)
	if !ok {
		return
	}
	if err := h.sessionService.Delete(c.Request.Context(), trainerID, c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"message": "Session deleted successfully"})
}

// StartSession godoc
// @Summary Start a session
// @Description Allowed any time before the session's scheduled end.
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} gin.H "session with its effective status"
// @Failure 404 {object} gin.H "Session not found"
// @Failure 409 {object} gin.H "Illegal status transition"
// @Router /trainer/sessions/{id}/start [post]
func (h *SessionHandler) StartSession(c *gin.Context) {
	h.transition(c, h.sessionService.Start)
}

// EndSession godoc
// @Summary End a started session
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} gin.H "session with its effective status"
// @Failure 404 {object} gin.H "Session not found"
// @Failure 409 {object} gin.H "Illegal status transition"
// @Router /trainer/sessions/{id}/end [post]
func (h *SessionHandler) EndSession(c *gin.Context) {
	h.transition(c, h.sessionService.End)
}

type transitionFunc func(ctx context.Context, trainerID, sessionID string) (*schedule.Entry, error)

// transition runs a start or end for the session named in the path.
func (h *SessionHandler) transition(c *gin.Context, apply transitionFunc) {
	trainerID, ok := h.trainerID(c)
	if !ok {
		return
	}
	entry, err := apply(c.Request.Context(), trainerID, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"session": entry})
}

// Calendar godoc
// @Summary Trainer calendar
// @Description Month, week or day view. Sessions whose time ran out before they were started are hidden.
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Param view query string false "month, week or day"
// @Param date query string false "reference date YYYY-MM-DD"
// @Param nav query int false "-1, 0 or 1"
// @Success 200 {object} gin.H "calendar"
// @Router /trainer/calendar [get]
func (h *SessionHandler) Calendar(c *gin.Context) {
	trainerID, ok := h.trainerID(c)
	if !ok {
		return
	}
	state, err := calendarQuery(c, trainerID, h.sessionService.Today())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	view, err := h.sessionService.Calendar(c.Request.Context(), state)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"calendar": view})
}

// Stats godoc
// @Summary Session counts by status
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Success 200 {object} gin.H "stats"
// @Router /trainer/stats [get]
func (h *SessionHandler) Stats(c *gin.Context) {
	trainerID, ok := h.trainerID(c)
	if !ok {
		return
	}
	stats, err := h.sessionService.Stats(c.Request.Context(), trainerID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"stats": stats})
}

// Export godoc
// @Summary Export sessions as iCalendar
// @Description Uploads an .ics file and returns a presigned download link.
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Success 200 {object} gin.H "url, expires_at and count"
// @Failure 503 {object} gin.H "Export is not configured"
// @Router /trainer/sessions/export [post]
func (h *SessionHandler) Export(c *gin.Context) {
	trainerID, ok := h.trainerID(c)
	if !ok {
		return
	}
	export, err := h.exportService.ExportCalendar(c.Request.Context(), trainerID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"url": export.URL, "expires_at": export.ExpiresAt, "count": export.Count})
}

func (h *SessionHandler) trainerID(c *gin.Context) (string, bool) {
	id, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify trainer from token.")
		return "", false
	}
	return id, true
}

// nonNil keeps empty lists as [] on the wire.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
