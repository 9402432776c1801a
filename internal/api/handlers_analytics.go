package api

import (
	"github.com/gin-gonic/gin"

	"github.com/manav03panchal/daymark/internal/analytics"
)

// handleAnalyticsQuery aggregates field, counter or timer series.
func (s *Server) handleAnalyticsQuery(c *gin.Context) {
	var req analytics.Request
	if !bind(c, &req) {
		return
	}
	resp, err := s.analytics.Query(userID(c), req)
	respond(c, resp, err)
}

// handleAnalyticsTasks aggregates task completion.
func (s *Server) handleAnalyticsTasks(c *gin.Context) {
	var req analytics.Request
	if !bind(c, &req) {
		return
	}
	resp, err := s.analytics.QueryTasks(userID(c), req)
	respond(c, resp, err)
}
