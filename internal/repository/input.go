package repository

import (
	"fmt"
	"strings"
	"time"

	"task-tracker/internal/model"
)

// TaskInput represents data required to create a task together with its subtasks.
type TaskInput struct {
	Title       string
	Description string
	Status      string // external or stored spelling; empty means not-started
	Priority    string
	DueDate     string // RFC 3339 timestamp or YYYY-MM-DD; empty means none
	AssignedTo  *string
	Subtasks    []SubtaskInput
}

// SubtaskInput represents data required to create a subtask.
type SubtaskInput struct {
	Title       string
	Description string
	Completed   *bool
}

// TaskUpdate is a partial task update; nil fields are left untouched.
// An empty DueDate or AssignedTo clears the column.
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	DueDate     *string
	AssignedTo  *string
}

// SubtaskUpdate is a partial subtask update; nil fields are left untouched.
type SubtaskUpdate struct {
	Title       *string
	Description *string
	Completed   *bool
}

// dueDateLayouts pairs each accepted layout with the zone used when the
// value carries no offset of its own.
var dueDateLayouts = []struct {
	layout string
	loc    *time.Location
}{
	{time.RFC3339Nano, time.UTC},
	{"2006-01-02T15:04:05", time.Local},
	{"2006-01-02", time.UTC},
}

// ParseDueDate parses a due date string. Date-only values are taken as
// midnight UTC, a date and time without offset as local time. The result is
// always in UTC. An empty string yields nil.
func ParseDueDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, l := range dueDateLayouts {
		if t, err := time.ParseInLocation(l.layout, raw, l.loc); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid due date %q: expected RFC 3339 or YYYY-MM-DD", raw)
}

func (in TaskInput) task() (model.Task, error) {
	status := model.StatusNotStarted
	if strings.TrimSpace(in.Status) != "" {
		parsed, err := model.ParseStatus(in.Status)
		if err != nil {
			return model.Task{}, err
		}
		status = parsed
	}
	priority, err := model.ParsePriority(in.Priority)
	if err != nil {
		return model.Task{}, err
	}
	due, err := ParseDueDate(in.DueDate)
	if err != nil {
		return model.Task{}, err
	}

	task := model.Task{
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
		Priority:    priority,
		DueDate:     due,
		AssignedTo:  nonEmpty(in.AssignedTo),
		Subtasks:    make([]model.Subtask, 0, len(in.Subtasks)),
	}
	for _, sub := range in.Subtasks {
		task.Subtasks = append(task.Subtasks, sub.subtask())
	}
	return task, nil
}

func (in SubtaskInput) subtask() model.Subtask {
	return model.Subtask{
		Title:       in.Title,
		Description: in.Description,
		Completed:   in.Completed != nil && *in.Completed,
	}
}

func (u TaskUpdate) columns() (map[string]interface{}, error) {
	cols := make(map[string]interface{})
	if u.Title != nil {
		cols["title"] = *u.Title
	}
	if u.Description != nil {
		cols["description"] = *u.Description
	}
	if u.Status != nil {
		status, err := model.ParseStatus(*u.Status)
		if err != nil {
			return nil, err
		}
		cols["status"] = string(status)
	}
	if u.Priority != nil {
		priority, err := model.ParsePriority(*u.Priority)
		if err != nil {
			return nil, err
		}
		cols["priority"] = string(priority)
	}
	if u.DueDate != nil {
		due, err := ParseDueDate(*u.DueDate)
		if err != nil {
			return nil, err
		}
		if due == nil {
			cols["due_date"] = nil
		} else {
			cols["due_date"] = *due
		}
	}
	if u.AssignedTo != nil {
		if assignee := nonEmpty(u.AssignedTo); assignee == nil {
			cols["assigned_to"] = nil
		} else {
			cols["assigned_to"] = *assignee
		}
	}
	return cols, nil
}

func (u SubtaskUpdate) columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if u.Title != nil {
		cols["title"] = *u.Title
	}
	if u.Description != nil {
		cols["description"] = *u.Description
	}
	if u.Completed != nil {
		cols["completed"] = *u.Completed
	}
	return cols
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
