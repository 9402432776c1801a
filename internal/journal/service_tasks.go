package journal

import (
	"github.com/manav03panchal/daymark/internal/model"
	"github.com/manav03panchal/daymark/internal/validate"
)

// =============================================================================
// Tasks
// =============================================================================

// TaskInput describes a task to add. A task with ParentTaskID becomes a
// sub-task and lands on its parent's date.
type TaskInput struct {
	Date         string `json:"date"`
	Title        string `json:"title"`
	ParentTaskID string `json:"parentTaskId"`
	DueDate      string `json:"dueDate"`
	Points       int    `json:"points"`
	Pinned       bool   `json:"pinned"`
	Recurring    bool   `json:"recurring"`
}

// TaskPatch carries optional changes to a task.
type TaskPatch struct {
	Title     *string `json:"title"`
	DueDate   *string `json:"dueDate"`
	Points    *int    `json:"points"`
	Pinned    *bool   `json:"pinned"`
	Recurring *bool   `json:"recurring"`
}

func validateTitle(title string) (string, error) {
	title = validate.SanitizeText(title)
	if err := validate.Text("title", title, 1, validate.MaxTitleLength); err != nil {
		return "", err
	}
	return title, nil
}

func validateDueDate(due string) error {
	if due == "" {
		return nil
	}
	return validate.Date("dueDate", due)
}

// AddTask adds a task to a date (today when empty). It is placed after its
// siblings: the top-level tasks of the date, or the other sub-tasks of its
// parent.
func (s *Service) AddTask(userID string, in TaskInput) (*model.DailyTask, error) {
	user, err := s.user(userID)
	if err != nil {
		return nil, err
	}
	date, err := s.resolveDate(user, in.Date)
	if err != nil {
		return nil, err
	}
	title, err := validateTitle(in.Title)
	if err != nil {
		return nil, err
	}
	if err := validateDueDate(in.DueDate); err != nil {
		return nil, err
	}
	if err := validate.NonNegative("points", in.Points); err != nil {
		return nil, err
	}

	if in.ParentTaskID != "" {
		parent, err := s.tasks.Get(userID, in.ParentTaskID)
		if err != nil {
			return nil, wrap("task.add", err)
		}
		date = parent.Date
	}
	sameDay, err := s.tasks.ListForDate(userID, date)
	if err != nil {
		return nil, wrap("task.add", err)
	}
	siblings := 0
	for _, t := range sameDay {
		if t.ParentTaskID == in.ParentTaskID {
			siblings++
		}
	}

	task := model.NewDailyTask(userID, date, title)
	task.ParentTaskID = in.ParentTaskID
	task.DueDate = in.DueDate
	task.Points = in.Points
	task.Pinned = in.Pinned
	task.Recurring = in.Recurring
	task.OrderIndex = siblings
	if err := s.tasks.Create(task); err != nil {
		return nil, wrap("task.add", err)
	}
	s.touch(userID, task.Date)
	return task, nil
}

// UpdateTask applies a patch to a task.
func (s *Service) UpdateTask(userID, id string, patch TaskPatch) (*model.DailyTask, error) {
	if _, err := s.user(userID); err != nil {
		return nil, err
	}
	task, err := s.tasks.Get(userID, id)
	if err != nil {
		return nil, wrap("task.update", err)
	}
	if patch.Title != nil {
		if task.Title, err = validateTitle(*patch.Title); err != nil {
			return nil, err
		}
	}
	if patch.DueDate != nil {
		if err := validateDueDate(*patch.DueDate); err != nil {
			return nil, err
		}
		task.DueDate = *patch.DueDate
	}
	if patch.Points != nil {
		if err := validate.NonNegative("points", *patch.Points); err != nil {
			return nil, err
		}
		task.Points = *patch.Points
	}
	if patch.Pinned != nil {
		task.Pinned = *patch.Pinned
	}
	if patch.Recurring != nil {
		task.Recurring = *patch.Recurring
	}
	if err := s.tasks.Update(task); err != nil {
		return nil, wrap("task.update", err)
	}
	s.touch(userID, task.Date)
	return task, nil
}

// SetTaskDone marks a task done or open. Completing appends a
// "Completed: <title>" entry to the task's date and links it; reopening
// removes that entry. Both writes commit together.
func (s *Service) SetTaskDone(userID, id string, done bool) (*model.DailyTask, error) {
	if _, err := s.user(userID); err != nil {
		return nil, err
	}
	now := s.clock.Now()
	task, err := s.tasks.SetDone(userID, id, done, now, func(t *model.DailyTask) *model.ActivityEntry {
		return model.NewActivityEntry(userID, t.Date, "Completed: "+t.Title, now)
	})
	if err != nil {
		return nil, wrap("task.done", err)
	}
	s.touch(userID, task.Date)
	return task, nil
}

// ToggleTask flips a task between done and open.
func (s *Service) ToggleTask(userID, id string) (*model.DailyTask, error) {
	if err := validate.UserID(userID); err != nil {
		return nil, err
	}
	task, err := s.tasks.Get(userID, id)
	if err != nil {
		return nil, wrap("task.toggle", err)
	}
	return s.SetTaskDone(userID, id, !task.Done)
}

// DeleteTask removes a task together with its sub-tasks.
func (s *Service) DeleteTask(userID, id string) error {
	if _, err := s.user(userID); err != nil {
		return err
	}
	date, err := s.tasks.DeleteCascade(userID, id)
	if err != nil {
		return wrap("task.delete", err)
	}
	s.touch(userID, date)
	return nil
}

// =============================================================================
// Activity entries
// =============================================================================

// EntryPatch carries optional changes to an entry.
type EntryPatch struct {
	Text     *string `json:"text"`
	ImageRef *string `json:"imageRef"`
}

func validateEntry(text, imageRef string) (string, error) {
	text = validate.SanitizeText(text)
	minLen := 1
	if imageRef != "" {
		minLen = 0
	}
	if err := validate.Text("text", text, minLen, validate.MaxTextLength); err != nil {
		return "", err
	}
	return text, nil
}

// AddEntry logs a line of text (and optionally an image) on a date, today
// when empty. The entry is stamped with the current time.
func (s *Service) AddEntry(userID, date, text, imageRef string) (*model.ActivityEntry, error) {
	user, err := s.user(userID)
	if err != nil {
		return nil, err
	}
	if date, err = s.resolveDate(user, date); err != nil {
		return nil, err
	}
	if text, err = validateEntry(text, imageRef); err != nil {
		return nil, err
	}

	entry := model.NewActivityEntry(userID, date, text, s.clock.Now())
	entry.ImageRef = imageRef
	if err := s.entries.Create(entry); err != nil {
		return nil, wrap("entry.add", err)
	}
	s.touch(userID, date)
	return entry, nil
}

// UpdateEntry applies a patch to an entry. Its date and timestamp never move.
func (s *Service) UpdateEntry(userID, id string, patch EntryPatch) (*model.ActivityEntry, error) {
	if _, err := s.user(userID); err != nil {
		return nil, err
	}
	entry, err := s.entries.Get(userID, id)
	if err != nil {
		return nil, wrap("entry.update", err)
	}
	text, imageRef := entry.Text, entry.ImageRef
	if patch.Text != nil {
		text = *patch.Text
	}
	if patch.ImageRef != nil {
		imageRef = *patch.ImageRef
	}
	if entry.Text, err = validateEntry(text, imageRef); err != nil {
		return nil, err
	}
	entry.ImageRef = imageRef
	if err := s.entries.Update(entry); err != nil {
		return nil, wrap("entry.update", err)
	}
	s.touch(userID, entry.Date)
	return entry, nil
}

// DeleteEntry removes an entry.
func (s *Service) DeleteEntry(userID, id string) error {
	if _, err := s.user(userID); err != nil {
		return err
	}
	date, err := s.entries.Delete(userID, id)
	if err != nil {
		return wrap("entry.delete", err)
	}
	s.touch(userID, date)
	return nil
}
