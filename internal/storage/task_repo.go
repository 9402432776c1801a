package storage

import (
	"time"

	"github.com/manav03panchal/daymark/internal/errors"
	"github.com/manav03panchal/daymark/internal/model"
)

// TaskRepo provides operations for DailyTask entities.
type TaskRepo struct {
	db *DB
}

// NewTaskRepo creates a new task repository.
func NewTaskRepo(db *DB) *TaskRepo {
	return &TaskRepo{db: db}
}

func newTask() *model.DailyTask { return &model.DailyTask{} }

// Create stores a new task. A sub-task must hang under a top-level task on
// the same user; it inherits its parent's date.
func (r *TaskRepo) Create(task *model.DailyTask) error {
	id, err := newID()
	if err != nil {
		return err
	}
	task.ID = id
	task.Key = model.GenerateTaskKey(task.UserID, id)

	return r.db.Batch(func(tx *Tx) error {
		if task.ParentTaskID != "" {
			parent := &model.DailyTask{}
			if err := tx.Get(model.GenerateTaskKey(task.UserID, task.ParentTaskID), parent); err != nil {
				if IsErrKeyNotFound(err) {
					return errors.NewNotFoundError("task", task.ParentTaskID, errors.ErrTaskNotFound)
				}
				return err
			}
			if parent.IsSubtask() {
				return errors.NewValidationErrorWithValue("parentTaskId", task.ParentTaskID,
					"is itself a sub-task", errors.ErrTaskDepth)
			}
			task.Date = parent.Date
		}
		if err := tx.Set(task); err != nil {
			return err
		}
		return tx.Set(model.NewTaskDateRef(task))
	})
}

// Get retrieves a task by id.
func (r *TaskRepo) Get(userID, id string) (*model.DailyTask, error) {
	task := newTask()
	if err := r.db.Get(model.GenerateTaskKey(userID, id), task); err != nil {
		if IsErrKeyNotFound(err) {
			return nil, errors.NewNotFoundError("task", id, errors.ErrTaskNotFound)
		}
		return nil, err
	}
	return task, nil
}

// Update stores changes to an existing task.
func (r *TaskRepo) Update(task *model.DailyTask) error {
	return r.db.Set(task)
}

// ListForDate retrieves every task (parents and sub-tasks) on a date through
// the date index.
func (r *TaskRepo) ListForDate(userID, date string) ([]*model.DailyTask, error) {
	var tasks []*model.DailyTask
	err := r.db.View(func(tx *Tx) error {
		var err error
		tasks, err = tasksOnDate(tx, userID, date)
		return err
	})
	if err != nil {
		return nil, err
	}
	model.SortTasks(tasks)
	return tasks, nil
}

// tasksOnDate resolves the date index of a day into tasks.
func tasksOnDate(tx *Tx, userID, date string) ([]*model.DailyTask, error) {
	refs, err := ScanPrefix(tx, model.TaskDatePrefix(userID, date), func() *model.TaskDateRef { return &model.TaskDateRef{} })
	if err != nil {
		return nil, err
	}
	tasks := make([]*model.DailyTask, 0, len(refs))
	for _, ref := range refs {
		task := newTask()
		if err := tx.Get(model.GenerateTaskKey(userID, ref.TaskID), task); err != nil {
			if IsErrKeyNotFound(err) {
				continue
			}
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// ListInRange retrieves every task whose date lies in an inclusive range,
// ordered by date.
func (r *TaskRepo) ListInRange(userID, start, end string) ([]*model.DailyTask, error) {
	refs, err := GetRange(r.db, model.UserPrefix(model.PrefixTaskDate, userID), start, end,
		func() *model.TaskDateRef { return &model.TaskDateRef{} }, nil)
	if err != nil {
		return nil, err
	}
	tasks := make([]*model.DailyTask, 0, len(refs))
	err = r.db.View(func(tx *Tx) error {
		for _, ref := range refs {
			task := newTask()
			if err := tx.Get(model.GenerateTaskKey(userID, ref.TaskID), task); err != nil {
				if IsErrKeyNotFound(err) {
					continue
				}
				return err
			}
			tasks = append(tasks, task)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// SetDone marks a task done or not done at now. Completing a task also
// appends the activity entry built by describe (when it returns non-nil) and
// links the two; reopening removes the linked entry. All writes commit
// together.
func (r *TaskRepo) SetDone(userID, id string, done bool, now time.Time, describe func(*model.DailyTask) *model.ActivityEntry) (*model.DailyTask, error) {
	task := newTask()
	err := r.db.Batch(func(tx *Tx) error {
		if err := tx.Get(model.GenerateTaskKey(userID, id), task); err != nil {
			if IsErrKeyNotFound(err) {
				return errors.NewNotFoundError("task", id, errors.ErrTaskNotFound)
			}
			return err
		}
		if task.Done == done {
			return nil
		}

		task.Done = done
		if done {
			at := now.UTC()
			task.CompletedAt = &at
			if entry := describeTask(describe, task); entry != nil {
				entryID, err := newID()
				if err != nil {
					return err
				}
				entry.ID = entryID
				entry.Key = model.GenerateEntryKey(userID, entry.Date, entryID)
				if err := tx.Set(entry); err != nil {
					return err
				}
				task.ActivityEntryID = entryID
			}
		} else {
			task.CompletedAt = nil
			if task.ActivityEntryID != "" {
				if err := deleteEntryByID(tx, userID, task.ActivityEntryID); err != nil {
					return err
				}
				task.ActivityEntryID = ""
			}
		}
		return tx.Set(task)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteCascade removes a task and all of its sub-tasks, returning the date
// the task belonged to.
func (r *TaskRepo) DeleteCascade(userID, id string) (string, error) {
	task := newTask()
	err := r.db.Batch(func(tx *Tx) error {
		if err := tx.Get(model.GenerateTaskKey(userID, id), task); err != nil {
			if IsErrKeyNotFound(err) {
				return errors.NewNotFoundError("task", id, errors.ErrTaskNotFound)
			}
			return err
		}

		// sub-tasks always share their parent's date
		sameDay, err := tasksOnDate(tx, userID, task.Date)
		if err != nil {
			return err
		}
		for _, other := range sameDay {
			if other.ParentTaskID != id {
				continue
			}
			if err := deleteTask(tx, other); err != nil {
				return err
			}
		}
		return deleteTask(tx, task)
	})
	if err != nil {
		return "", err
	}
	return task.Date, nil
}

// deleteTask removes a task together with its date index entry.
func deleteTask(tx *Tx, task *model.DailyTask) error {
	if err := tx.Delete(model.GenerateTaskDateKey(task.UserID, task.Date, task.ID)); err != nil {
		return err
	}
	return tx.Delete(task.Key)
}

func describeTask(describe func(*model.DailyTask) *model.ActivityEntry, task *model.DailyTask) *model.ActivityEntry {
	if describe == nil {
		return nil
	}
	return describe(task)
}
