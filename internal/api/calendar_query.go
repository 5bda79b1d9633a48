package api

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"alcyxob/trainer-scheduler/internal/domain"
	"alcyxob/trainer-scheduler/internal/schedule"
)

// calendarQuery reads ?view=month|week|day&date=YYYY-MM-DD&nav=-1|0|1.
// A missing date means today; nav then moves one period from there.
func calendarQuery(c *gin.Context, trainerID string, today domain.Date) (schedule.ViewState, error) {
	g, err := schedule.ParseGranularity(c.Query("view"))
	if err != nil {
		return schedule.ViewState{}, &schedule.ValidationError{Field: "view", Reason: err.Error()}
	}

	ref := today
	if raw := c.Query("date"); raw != "" {
		if ref, err = domain.ParseDate(raw); err != nil {
			return schedule.ViewState{}, &schedule.ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
		}
	}

	state := schedule.ViewState{TrainerID: trainerID}.WithGranularity(g).WithDate(ref)

	if raw := c.Query("nav"); raw != "" {
		nav, err := strconv.Atoi(raw)
		if err != nil || nav < -1 || nav > 1 {
			return schedule.ViewState{}, &schedule.ValidationError{Field: "nav", Reason: fmt.Sprintf("must be -1, 0 or 1, got %q", raw)}
		}
		state = state.Navigate(nav)
	}
	return state, nil
}
