package model

import (
	"sort"
	"time"
)

// DailyTask is a task scheduled on a date. Sub-tasks reference their parent
// through ParentTaskID and never have children of their own.
type DailyTask struct {
	Key             string     `json:"key"`
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	Date            string     `json:"date"`
	DueDate         string     `json:"due_date,omitempty"`
	ParentTaskID    string     `json:"parent_task_id,omitempty"`
	Title           string     `json:"title" validate:"required,max=512"`
	Done            bool       `json:"done"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	Points          int        `json:"points"`
	Pinned          bool       `json:"pinned"`
	Recurring       bool       `json:"recurring"`
	ActivityEntryID string     `json:"activity_entry_id,omitempty"`
	OrderIndex      int        `json:"order_index"`
	CreatedAt       time.Time  `json:"created_at"`
}

// SetKey sets the database key for this task.
func (t *DailyTask) SetKey(key string) {
	t.Key = key
}

// GetKey returns the database key for this task.
func (t *DailyTask) GetKey() string {
	return t.Key
}

// IsSubtask reports whether the task hangs under a parent.
func (t *DailyTask) IsSubtask() bool {
	return t.ParentTaskID != ""
}

// GenerateTaskKey generates a database key for a task.
func GenerateTaskKey(userID, id string) string {
	return joinKey(PrefixTask, userID, id)
}

// TaskDateRef indexes a task under its date so one day's tasks are found
// without scanning the user's whole history.
type TaskDateRef struct {
	Key    string `json:"key"`
	TaskID string `json:"task_id"`
}

// SetKey sets the database key for this reference.
func (r *TaskDateRef) SetKey(key string) {
	r.Key = key
}

// GetKey returns the database key for this reference.
func (r *TaskDateRef) GetKey() string {
	return r.Key
}

// GenerateTaskDateKey generates the index key of a task on its date.
func GenerateTaskDateKey(userID, date, id string) string {
	return joinKey(PrefixTaskDate, userID, date, id)
}

// TaskDatePrefix returns the prefix of every task index key on a date.
func TaskDatePrefix(userID, date string) string {
	return joinKey(PrefixTaskDate, userID, date) + ":"
}

// NewTaskDateRef creates the index entry of a task.
func NewTaskDateRef(task *DailyTask) *TaskDateRef {
	return &TaskDateRef{
		Key:    GenerateTaskDateKey(task.UserID, task.Date, task.ID),
		TaskID: task.ID,
	}
}

// NewDailyTask creates a task on the given date.
func NewDailyTask(userID, date, title string) *DailyTask {
	return &DailyTask{
		UserID:    userID,
		Date:      date,
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}
}

// SortTasks orders tasks by order index, then id.
func SortTasks(tasks []*DailyTask) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].OrderIndex != tasks[j].OrderIndex {
			return tasks[i].OrderIndex < tasks[j].OrderIndex
		}
		return tasks[i].ID < tasks[j].ID
	})
}

// TaskNode is a task in the materialized two-level task tree.
type TaskNode struct {
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	Done            bool        `json:"done"`
	CompletedAt     *time.Time  `json:"completedAt,omitempty"`
	DueDate         string      `json:"dueDate,omitempty"`
	Points          int         `json:"points"`
	Pinned          bool        `json:"pinned"`
	Recurring       bool        `json:"recurring"`
	ActivityEntryID string      `json:"activityEntryId,omitempty"`
	OrderIndex      int         `json:"orderIndex"`
	Subtasks        []*TaskNode `json:"subtasks"`
}

// NewTaskNode converts a stored task into a tree node without children.
func NewTaskNode(t *DailyTask) *TaskNode {
	return &TaskNode{
		ID:              t.ID,
		Title:           t.Title,
		Done:            t.Done,
		CompletedAt:     t.CompletedAt,
		DueDate:         t.DueDate,
		Points:          t.Points,
		Pinned:          t.Pinned,
		Recurring:       t.Recurring,
		ActivityEntryID: t.ActivityEntryID,
		OrderIndex:      t.OrderIndex,
		Subtasks:        []*TaskNode{},
	}
}
