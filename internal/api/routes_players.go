package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/frontline-pass/frontline/internal/directory"
)

const (
	defaultSearchLimit = 25
	maxSearchLimit     = 100
)

type registerBody struct {
	UserID     string `json:"user_id" binding:"required"`
	PlayerID   string `json:"player_id" binding:"required"`
	PlayerName string `json:"player_name"`
}

// handleSearchPlayers returns players whose name starts with prefix.
func (s *Server) handleSearchPlayers(c *gin.Context) {
	prefix := strings.TrimSpace(c.Query("prefix"))
	if prefix == "" {
		badRequest(c, "prefix is required")
		return
	}

	limit := defaultSearchLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			badRequest(c, "limit must be a positive integer")
			return
		}
		limit = min(n, maxSearchLimit)
	}

	players := s.players.SearchPlayers(c.Request.Context(), prefix, limit)
	if players == nil {
		players = []directory.Player{}
	}
	c.JSON(http.StatusOK, gin.H{
		"players": players,
		"count":   len(players),
	})
}

// handleRegister links a user to a player id.
func (s *Server) handleRegister(c *gin.Context) {
	var body registerBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "user_id and player_id are required")
		return
	}

	outcome, err := s.vip.Register(c.Request.Context(), body.UserID, body.PlayerID, body.PlayerName)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, outcome)
}

func (s *Server) handleGetPlayer(c *gin.Context) {
	link, err := s.vip.Player(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, link)
}

// handlePlayerOwner answers which user a player id is linked to.
func (s *Server) handlePlayerOwner(c *gin.Context) {
	link, err := s.vip.PlayerOwner(c.Request.Context(), c.Param("player_id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, link)
}
