package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"clinic-scheduling-server/internal/logger"
	"clinic-scheduling-server/internal/middleware"
	"clinic-scheduling-server/internal/scheduling"
	"clinic-scheduling-server/internal/utils"
)

// respondError maps a service error onto its status code. Unexpected errors are
// logged and reported without detail.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	switch {
	case errors.Is(err, scheduling.ErrValidation):
		utils.BadRequest(c, err.Error())
	case errors.Is(err, scheduling.ErrNotFound):
		utils.NotFound(c, err.Error())
	case errors.Is(err, scheduling.ErrConflict):
		utils.Conflict(c, err.Error())
	default:
		_ = c.Error(err)
		log.WithRequestID(middleware.GetRequestID(c)).WithError(err).
			WithField("path", c.FullPath()).Error("request failed")
		utils.Error(c, http.StatusInternalServerError, "Internal server error")
	}
}
