package service

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"task-tracker/internal/model"
)

// TaskLister is the part of the task repository the digest needs.
type TaskLister interface {
	ListTasks(ctx context.Context) ([]model.Task, error)
}

// ReminderService builds summaries of overdue tasks for notifications.
type ReminderService struct {
	tasks TaskLister
}

func NewReminderService(tasks TaskLister) *ReminderService {
	return &ReminderService{tasks: tasks}
}

// Overdue returns open tasks whose due date is before now, earliest due first.
func (s *ReminderService) Overdue(ctx context.Context, now time.Time) ([]model.Task, error) {
	tasks, err := s.tasks.ListTasks(ctx)
	if err != nil {
		return nil, err
	}

	var overdue []model.Task
	for _, task := range tasks {
		if task.Overdue(now) {
			overdue = append(overdue, task)
		}
	}

	sort.SliceStable(overdue, func(i, j int) bool {
		return overdue[i].DueDate.Before(*overdue[j].DueDate)
	})
	return overdue, nil
}

// OverdueSummary renders the overdue tasks as Telegram-flavoured HTML.
// It returns an empty string when nothing is overdue.
func (s *ReminderService) OverdueSummary(ctx context.Context, now time.Time) (string, error) {
	overdue, err := s.Overdue(ctx, now)
	if err != nil {
		return "", err
	}
	if len(overdue) == 0 {
		return "", nil
	}

	var builder strings.Builder
	builder.WriteString("📋 <b>Overdue tasks</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s · %d open past due\n\n", now.Format("2006-01-02"), len(overdue)))
	for _, task := range overdue {
		builder.WriteString(formatOverdue(task, now))
	}

	return strings.TrimSpace(builder.String()), nil
}

func formatOverdue(task model.Task, now time.Time) string {
	var sb strings.Builder

	icon := "⚠️"
	if task.Status == model.StatusInProgress {
		icon = "⏳"
	}
	sb.WriteString(fmt.Sprintf("%s %s", icon, html.EscapeString(strings.TrimSpace(task.Title))))

	if task.AssignedTo != nil {
		sb.WriteString(fmt.Sprintf(" <i>(%s)</i>", html.EscapeString(*task.AssignedTo)))
	}

	due := task.DueDate.In(now.Location())
	days := int(now.Sub(due).Hours() / 24)
	switch days {
	case 0:
		sb.WriteString(fmt.Sprintf("\n   ⏰ due %s · <b>overdue today</b>", due.Format("2006-01-02")))
	case 1:
		sb.WriteString(fmt.Sprintf("\n   ⏰ due %s · <b>1 day overdue</b>", due.Format("2006-01-02")))
	default:
		sb.WriteString(fmt.Sprintf("\n   ⏰ due %s · <b>%d days overdue</b>", due.Format("2006-01-02"), days))
	}
	sb.WriteString(fmt.Sprintf(" · %s", task.Priority))

	if len(task.Subtasks) > 0 {
		sb.WriteString(fmt.Sprintf("\n   ☑️ %d/%d subtasks done", task.CompletedSubtasks(), len(task.Subtasks)))
	}

	sb.WriteByte('\n')
	return sb.String()
}
