package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"alcyxob/trainer-scheduler/internal/schedule"
	"alcyxob/trainer-scheduler/internal/service"
)

// respondError maps service and engine errors onto HTTP statuses. Store
// failures are logged and hidden behind a generic message.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var (
		verr *schedule.ValidationError
		terr *schedule.TransitionError
		serr *service.StoreError
	)
	switch {
	case errors.As(err, &verr):
		abortWithError(c, http.StatusBadRequest, verr.Error())
	case errors.As(err, &terr):
		abortWithError(c, http.StatusConflict, terr.Error())
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrTrainerNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrAuthenticationFailed):
		abortWithError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrUserAlreadyExists):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrExportDisabled):
		abortWithError(c, http.StatusServiceUnavailable, err.Error())
	case errors.As(err, &serr):
		_ = c.Error(err)
		logger.Error("Store operation failed", zap.String("op", serr.Op), zap.Error(serr.Err))
		abortWithError(c, http.StatusInternalServerError, "A storage error occurred, please try again")
	default:
		_ = c.Error(err)
		logger.Error("Unexpected error", zap.Error(err))
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
