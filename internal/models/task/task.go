package task

import (
	"time"

	"github.com/google/uuid"
)

type Status string
type Priority string

const (
	StatusPending         Status = "Pending"
	StatusInProgress      Status = "In Progress"
	StatusNeedsReview     Status = "Needs Review"
	StatusInReview        Status = "In Review"
	StatusNeedsValidation Status = "Needs Validation"
	StatusDone            Status = "Done"
)

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// конвейер линейный, без ветвлений и пропусков
var pipeline = []Status{
	StatusPending,
	StatusInProgress,
	StatusNeedsReview,
	StatusInReview,
	StatusNeedsValidation,
	StatusDone,
}

func ParseStatus(s string) (Status, bool) {
	for _, st := range pipeline {
		if Status(s) == st {
			return st, true
		}
	}
	return "", false
}

// Next возвращает единственный допустимый следующий статус.
// У Done преемника нет - это терминальный статус.
func (s Status) Next() (Status, bool) {
	for i, st := range pipeline {
		if s == st && i+1 < len(pipeline) {
			return pipeline[i+1], true
		}
	}
	return "", false
}

func (s Status) Valid() bool {
	_, ok := ParseStatus(string(s))
	return ok
}

func ParsePriority(p string) (Priority, bool) {
	switch Priority(p) {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return Priority(p), true
	}
	return "", false
}

type Task struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	Title            string     `json:"title" db:"title"`
	Description      string     `json:"description" db:"description"`
	Priority         Priority   `json:"priority" db:"priority"`
	Progress         Status     `json:"progress" db:"progress"`
	AssignedUserID   *uuid.UUID `json:"assigned_user_id,omitempty" db:"assigned_user_id"`
	AssignedUserName *string    `json:"assigned_user_name,omitempty" db:"assigned_user_name"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty" db:"updated_at,omitempty"`
}
