package api

import (
	"github.com/gin-gonic/gin"

	"github.com/manav03panchal/daymark/internal/journal"
	"github.com/manav03panchal/daymark/internal/model"
	"github.com/manav03panchal/daymark/internal/snapshot"
)

// =============================================================================
// Day state
// =============================================================================

// handleGetDay serves /day (today) and /day/:date.
func (s *Server) handleGetDay(c *gin.Context) {
	state, err := s.journal.GetStateForDate(userID(c), c.Param("date"))
	respond(c, state, err)
}

func (s *Server) handleSetSleep(c *gin.Context) {
	var req journal.SleepUpdate
	if !bind(c, &req) {
		return
	}
	log, err := s.journal.SetSleep(userID(c), c.Param("date"), req)
	respond(c, log, err)
}

type fieldValueRequest struct {
	Value string `json:"value"`
}

func (s *Server) handleSetFieldValue(c *gin.Context) {
	var req fieldValueRequest
	if !bind(c, &req) {
		return
	}
	v, err := s.journal.SetFieldValue(userID(c), c.Param("date"), c.Param("key"), req.Value)
	respond(c, v, err)
}

type dailyFieldRequest struct {
	FieldType string `json:"fieldType"`
	Value     string `json:"value"`
}

func (s *Server) handleSetDailyField(c *gin.Context) {
	var req dailyFieldRequest
	if !bind(c, &req) {
		return
	}
	v, err := s.journal.SetDailyField(userID(c), c.Param("date"), c.Param("key"), req.FieldType, req.Value)
	respond(c, v, err)
}

func (s *Server) handleDeleteDailyField(c *gin.Context) {
	if err := s.journal.DeleteDailyField(userID(c), c.Param("date"), c.Param("key")); err != nil {
		fail(c, err)
		return
	}
	noContent(c)
}

// =============================================================================
// Settings
// =============================================================================

func (s *Server) handleGetSettings(c *gin.Context) {
	user, err := s.journal.Settings(userID(c))
	respond(c, user, err)
}

func (s *Server) handleUpdateSettings(c *gin.Context) {
	var req journal.SettingsUpdate
	if !bind(c, &req) {
		return
	}
	user, err := s.journal.UpdateSettings(userID(c), req)
	respond(c, user, err)
}

// =============================================================================
// Templates
// =============================================================================

type templateRequest struct {
	FieldKey  string `json:"fieldKey"`
	FieldType string `json:"fieldType"`
}

func (s *Server) handleListTemplates(c *gin.Context) {
	templates, err := s.journal.ListTemplates(userID(c))
	respond(c, templates, err)
}

func (s *Server) handleCreateTemplate(c *gin.Context) {
	var req templateRequest
	if !bind(c, &req) {
		return
	}
	tmpl, err := s.journal.CreateTemplate(userID(c), req.FieldKey, req.FieldType)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, tmpl)
}

func (s *Server) handleUpdateTemplate(c *gin.Context) {
	var req templateRequest
	if !bind(c, &req) {
		return
	}
	tmpl, err := s.journal.UpdateTemplateType(userID(c), c.Param("id"), req.FieldType)
	respond(c, tmpl, err)
}

func (s *Server) handleDeleteTemplate(c *gin.Context) {
	if err := s.journal.DeleteTemplate(userID(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	noContent(c)
}

// =============================================================================
// Ordering
// =============================================================================

type reorderRequest struct {
	Table   model.Table         `json:"table"`
	Updates []model.OrderUpdate `json:"updates"`
}

func (s *Server) handleReorder(c *gin.Context) {
	var req reorderRequest
	if !bind(c, &req) {
		return
	}
	if err := s.journal.Reorder(userID(c), req.Table, req.Updates); err != nil {
		fail(c, err)
		return
	}
	noContent(c)
}

// =============================================================================
// Snapshots
// =============================================================================

func (s *Server) handleListSnapshots(c *gin.Context) {
	infos, err := s.journal.ListSnapshots(userID(c))
	respond(c, infos, err)
}

func (s *Server) handleSaveSnapshot(c *gin.Context) {
	state, err := s.journal.SaveSnapshot(userID(c), c.Param("date"))
	if err != nil {
		fail(c, err)
		return
	}
	created(c, state)
}

func (s *Server) handleGetSnapshot(c *gin.Context) {
	state, err := s.journal.GetSnapshot(userID(c), c.Param("date"))
	respond(c, state, err)
}

func (s *Server) handleDeleteSnapshot(c *gin.Context) {
	if err := s.journal.DeleteSnapshot(userID(c), c.Param("date")); err != nil {
		fail(c, err)
		return
	}
	noContent(c)
}

func (s *Server) handleGetRetention(c *gin.Context) {
	policy, err := s.journal.RetentionPolicy(userID(c))
	respond(c, policy, err)
}

func (s *Server) handleSetRetention(c *gin.Context) {
	var req snapshot.Policy
	if !bind(c, &req) {
		return
	}
	pruned, err := s.journal.SetRetentionPolicy(userID(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"policy": req, "pruned": pruned})
}

// =============================================================================
// Administration
// =============================================================================

func (s *Server) handleCacheStats(c *gin.Context) {
	ok(c, s.journal.CacheStats())
}

func (s *Server) handleClearCache(c *gin.Context) {
	s.journal.ClearCache()
	noContent(c)
}
