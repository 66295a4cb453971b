package api

import (
	"net/http"
	"runtime"

	"github.com/gin-gonic/gin"
)

func (s *Server) handlePing(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "frontline",
		"version": s.version,
	})
}

func (s *Server) handleVersion(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":     "Frontline",
		"version":  s.version,
		"go":       runtime.Version(),
		"platform": runtime.GOOS + "/" + runtime.GOARCH,
	})
}

// handleHealth returns the health report. A degraded report is still 200;
// only a failure to build one is an error.
func (s *Server) handleHealth(c *gin.Context) {
	report, err := s.health.Report(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
