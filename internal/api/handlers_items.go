package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/manav03panchal/daymark/internal/journal"
)

// =============================================================================
// Tasks
// =============================================================================

func (s *Server) handleAddTask(c *gin.Context) {
	var req journal.TaskInput
	if !bind(c, &req) {
		return
	}
	task, err := s.journal.AddTask(userID(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, task)
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	var req journal.TaskPatch
	if !bind(c, &req) {
		return
	}
	task, err := s.journal.UpdateTask(userID(c), c.Param("id"), req)
	respond(c, task, err)
}

type doneRequest struct {
	Done bool `json:"done"`
}

func (s *Server) handleSetTaskDone(c *gin.Context) {
	var req doneRequest
	if !bind(c, &req) {
		return
	}
	task, err := s.journal.SetTaskDone(userID(c), c.Param("id"), req.Done)
	respond(c, task, err)
}

func (s *Server) handleToggleTask(c *gin.Context) {
	task, err := s.journal.ToggleTask(userID(c), c.Param("id"))
	respond(c, task, err)
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	if err := s.journal.DeleteTask(userID(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	noContent(c)
}

// =============================================================================
// Entries
// =============================================================================

type entryRequest struct {
	Date     string `json:"date"`
	Text     string `json:"text"`
	ImageRef string `json:"imageRef"`
}

func (s *Server) handleAddEntry(c *gin.Context) {
	var req entryRequest
	if !bind(c, &req) {
		return
	}
	entry, err := s.journal.AddEntry(userID(c), req.Date, req.Text, req.ImageRef)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, entry)
}

func (s *Server) handleUpdateEntry(c *gin.Context) {
	var req journal.EntryPatch
	if !bind(c, &req) {
		return
	}
	entry, err := s.journal.UpdateEntry(userID(c), c.Param("id"), req)
	respond(c, entry, err)
}

func (s *Server) handleDeleteEntry(c *gin.Context) {
	if err := s.journal.DeleteEntry(userID(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	noContent(c)
}

// =============================================================================
// Counters
// =============================================================================

type nameRequest struct {
	Name string `json:"name"`
}

type counterValueRequest struct {
	Date  string `json:"date"`
	Delta int    `json:"delta"`
	Value int    `json:"value"`
}

func (s *Server) handleListCounters(c *gin.Context) {
	counters, err := s.journal.ListCounters(userID(c))
	respond(c, counters, err)
}

func (s *Server) handleCreateCounter(c *gin.Context) {
	var req nameRequest
	if !bind(c, &req) {
		return
	}
	counter, err := s.journal.CreateCounter(userID(c), req.Name)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, counter)
}

// handleIncrementCounter adds delta (1 when omitted or zero) to a date's value.
func (s *Server) handleIncrementCounter(c *gin.Context) {
	var req counterValueRequest
	if !bind(c, &req) {
		return
	}
	if req.Delta == 0 {
		req.Delta = 1
	}
	value, err := s.journal.IncrementCounter(userID(c), c.Param("id"), req.Date, req.Delta)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"value": value})
}

func (s *Server) handleSetCounterValue(c *gin.Context) {
	var req counterValueRequest
	if !bind(c, &req) {
		return
	}
	if err := s.journal.SetCounterValue(userID(c), c.Param("id"), req.Date, req.Value); err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"value": req.Value})
}

func (s *Server) handleDeleteCounter(c *gin.Context) {
	if err := s.journal.DeleteCounter(userID(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	noContent(c)
}

// =============================================================================
// Duration trackers
// =============================================================================

type lockRequest struct {
	Locked bool `json:"locked"`
}

func (s *Server) handleListDurationTrackers(c *gin.Context) {
	trackers, err := s.journal.ListDurationTrackers(userID(c))
	respond(c, trackers, err)
}

func (s *Server) handleCreateDurationTracker(c *gin.Context) {
	var req nameRequest
	if !bind(c, &req) {
		return
	}
	tracker, err := s.journal.CreateDurationTracker(userID(c), req.Name)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, tracker)
}

func (s *Server) handleStartTracker(c *gin.Context) {
	tracker, err := s.journal.StartTracker(userID(c), c.Param("id"))
	respond(c, tracker, err)
}

func (s *Server) handleStopTracker(c *gin.Context) {
	tracker, err := s.journal.StopTracker(userID(c), c.Param("id"))
	respond(c, tracker, err)
}

func (s *Server) handleResetTracker(c *gin.Context) {
	tracker, err := s.journal.ResetTracker(userID(c), c.Param("id"))
	respond(c, tracker, err)
}

func (s *Server) handleLockTracker(c *gin.Context) {
	var req lockRequest
	if !bind(c, &req) {
		return
	}
	tracker, err := s.journal.SetTrackerLocked(userID(c), c.Param("id"), req.Locked)
	respond(c, tracker, err)
}

func (s *Server) handleDeleteDurationTracker(c *gin.Context) {
	if err := s.journal.DeleteDurationTracker(userID(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	noContent(c)
}

// =============================================================================
// Time-since trackers
// =============================================================================

type timeSinceRequest struct {
	Name  string     `json:"name"`
	Since *time.Time `json:"since"`
}

func (s *Server) handleListTimeSince(c *gin.Context) {
	trackers, err := s.journal.ListTimeSinceTrackers(userID(c))
	respond(c, trackers, err)
}

func (s *Server) handleCreateTimeSince(c *gin.Context) {
	var req timeSinceRequest
	if !bind(c, &req) {
		return
	}
	tracker, err := s.journal.CreateTimeSinceTracker(userID(c), req.Name, req.Since)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, tracker)
}

func (s *Server) handleResetTimeSince(c *gin.Context) {
	tracker, err := s.journal.ResetTimeSince(userID(c), c.Param("id"))
	respond(c, tracker, err)
}

func (s *Server) handleDeleteTimeSince(c *gin.Context) {
	if err := s.journal.DeleteTimeSinceTracker(userID(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	noContent(c)
}
