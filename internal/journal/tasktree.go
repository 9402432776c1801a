package journal

import (
	"github.com/manav03panchal/daymark/internal/errors"
	"github.com/manav03panchal/daymark/internal/model"
)

// taskArena holds the tasks of one day keyed by id. Parents keep an ordered
// list of child ids; a task that has a parent can never become a parent.
type taskArena struct {
	tasks    map[string]*model.DailyTask
	children map[string][]string
	roots    []string
}

func newTaskArena(tasks []*model.DailyTask) *taskArena {
	a := &taskArena{
		tasks:    make(map[string]*model.DailyTask, len(tasks)),
		children: make(map[string][]string),
	}
	for _, t := range tasks {
		a.tasks[t.ID] = t
	}
	return a
}

// attach links child under parentID, enforcing the two-level limit.
func (a *taskArena) attach(parentID string, child *model.DailyTask) error {
	parent, ok := a.tasks[parentID]
	if !ok {
		return errors.NewNotFoundError("task", parentID, errors.ErrTaskNotFound)
	}
	if parent.IsSubtask() {
		return errors.NewValidationErrorWithValue("parentTaskId", parentID,
			"sub-task "+child.ID+" is attached to another sub-task", errors.ErrTaskDepth)
	}
	a.children[parentID] = append(a.children[parentID], child.ID)
	return nil
}

// BuildTaskTree arranges one day's tasks into top-level tasks with their
// sub-tasks, both ordered by order index. Tasks nested deeper than two
// levels, or sub-tasks whose parent is not in the set, are rejected.
func BuildTaskTree(tasks []*model.DailyTask) ([]*model.TaskNode, error) {
	ordered := make([]*model.DailyTask, len(tasks))
	copy(ordered, tasks)
	model.SortTasks(ordered)

	arena := newTaskArena(ordered)
	for _, t := range ordered {
		if !t.IsSubtask() {
			arena.roots = append(arena.roots, t.ID)
			continue
		}
		if err := arena.attach(t.ParentTaskID, t); err != nil {
			return nil, err
		}
	}

	nodes := make([]*model.TaskNode, 0, len(arena.roots))
	for _, id := range arena.roots {
		node := model.NewTaskNode(arena.tasks[id])
		for _, childID := range arena.children[id] {
			node.Subtasks = append(node.Subtasks, model.NewTaskNode(arena.tasks[childID]))
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}
