package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/frontline-pass/frontline/internal/vip"
)

type grantBody struct {
	PlayerID   string `json:"player_id" binding:"required"`
	Comment    string `json:"comment"`
	Expiration string `json:"expiration"`
	PlayerName string `json:"player_name"`
}

type requestBody struct {
	UserID      string `json:"user_id" binding:"required"`
	DisplayName string `json:"display_name"`
}

type durationBody struct {
	Hours *float64 `json:"hours" binding:"required"`
}

// handleGrant grants VIP to an explicit player id.
func (s *Server) handleGrant(c *gin.Context) {
	var body grantBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "player_id is required")
		return
	}

	outcome, err := s.vip.Grant(c.Request.Context(), vip.GrantRequest{
		PlayerID:   body.PlayerID,
		Comment:    body.Comment,
		Expiration: body.Expiration,
		PlayerName: body.PlayerName,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

// handleRequestVip grants VIP to the player linked to a user, for the
// configured duration.
func (s *Server) handleRequestVip(c *gin.Context) {
	var body requestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "user_id is required")
		return
	}

	outcome, err := s.vip.RequestVip(c.Request.Context(), body.UserID, body.DisplayName)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

func (s *Server) handleGetDuration(c *gin.Context) {
	hours := s.vip.Duration(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"hours":     hours,
		"formatted": vip.FormatHours(hours),
	})
}

func (s *Server) handleSetDuration(c *gin.Context) {
	var body durationBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "hours is required")
		return
	}

	if err := s.vip.SetDuration(c.Request.Context(), *body.Hours); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"hours":     *body.Hours,
		"formatted": vip.FormatHours(*body.Hours),
	})
}

// handleResetDuration drops the runtime override so the configured default
// applies again.
func (s *Server) handleResetDuration(c *gin.Context) {
	hours, err := s.vip.ResetDuration(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"hours":     hours,
		"formatted": vip.FormatHours(hours),
	})
}
