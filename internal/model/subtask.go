package model

import (
	"time"

	"gorm.io/gorm"
)

// Subtask is a child item of exactly one Task.
type Subtask struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id" yaml:"id"`
	TaskID      string    `gorm:"size:36;not null;index" json:"taskId" yaml:"taskId"`
	Title       string    `gorm:"not null" json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Completed   bool      `gorm:"not null" json:"completed" yaml:"completed"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" yaml:"updatedAt"`
}

func (s *Subtask) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = newID()
	}
	s.CreatedAt, s.UpdatedAt = createdTimes(tx, s.CreatedAt, s.UpdatedAt)
	return nil
}
