package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/frontline-pass/frontline/internal/connector"
	"github.com/frontline-pass/frontline/internal/db"
	"github.com/frontline-pass/frontline/internal/vip"
)

// writeError maps a service error to a status code and JSON body.
func (s *Server) writeError(c *gin.Context, err error) {
	var dup *db.DuplicatePlayerIDError
	if errors.As(err, &dup) {
		c.JSON(http.StatusConflict, gin.H{
			"error":            err.Error(),
			"player_id":        dup.PlayerID,
			"existing_user_id": dup.ExistingUserID,
		})
		return
	}

	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Warn().Err(err).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Msg("api request failed")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	var rconErr *connector.RconError
	var httpErr *connector.VipHTTPError

	switch {
	case errors.Is(err, db.ErrEmptyID),
		errors.Is(err, vip.ErrInvalidExpiration),
		errors.Is(err, vip.ErrInvalidDuration):
		return http.StatusBadRequest
	case errors.Is(err, vip.ErrNotRegistered), errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &rconErr), errors.As(err, &httpErr):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
