package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task is a top-level work item. Its subtasks are removed with it through
// the ON DELETE CASCADE foreign key on subtasks.task_id.
type Task struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id" yaml:"id"`
	Title       string     `gorm:"not null" json:"title" yaml:"title"`
	Description string     `json:"description" yaml:"description"`
	Status      Status     `gorm:"size:16;not null;check:chk_tasks_status,status IN ('not_started','in_progress','done')" json:"status" yaml:"status"`
	Priority    Priority   `gorm:"size:16;not null" json:"priority" yaml:"priority"`
	DueDate     *time.Time `json:"dueDate" yaml:"dueDate"`
	AssignedTo  *string    `json:"assignedTo" yaml:"assignedTo"`
	CreatedAt   time.Time  `gorm:"index" json:"createdAt" yaml:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt" yaml:"updatedAt"`
	Subtasks    []Subtask  `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"subtasks" yaml:"subtasks"`
}

// BeforeCreate assigns a time-ordered identifier when none is set and pins
// the timestamps to UTC. SQLite stores them as text and orders by that text.
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = newID()
	}
	t.CreatedAt, t.UpdatedAt = createdTimes(tx, t.CreatedAt, t.UpdatedAt)
	return nil
}

// CompletedSubtasks counts subtasks marked as completed.
func (t Task) CompletedSubtasks() int {
	n := 0
	for _, s := range t.Subtasks {
		if s.Completed {
			n++
		}
	}
	return n
}

// Overdue reports whether the task has a due date before now and is not done.
func (t Task) Overdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && t.Status != StatusDone
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func createdTimes(tx *gorm.DB, created, updated time.Time) (time.Time, time.Time) {
	if created.IsZero() {
		created = tx.NowFunc()
	}
	if updated.IsZero() {
		updated = created
	}
	return created.UTC(), updated.UTC()
}
