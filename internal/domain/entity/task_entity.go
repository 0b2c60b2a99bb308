package entity

import (
	"time"
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	StatusNotStarted TaskStatus = "notStarted"
	StatusOngoing    TaskStatus = "ongoing"
	StatusFinished   TaskStatus = "finished"
)

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusNotStarted, StatusOngoing, StatusFinished:
		return true
	}
	return false
}

// NormalizeStatus maps an arbitrary client-supplied status to a valid one,
// falling back to the default for empty or unknown values.
func NormalizeStatus(s string) TaskStatus {
	if st := TaskStatus(s); st.Valid() {
		return st
	}
	return StatusNotStarted
}

// Task is a single todo item owned by exactly one user.
// JSON tags match the public API field names.
type Task struct {
	ID          string     `json:"_id"`
	OwnerID     string     `json:"todoOwner"`
	Title       string     `json:"todoTitle"`
	Description string     `json:"todoDescription,omitempty"`
	Status      TaskStatus `json:"todoStatus"`
	Deadline    *time.Time `json:"todoDeadline,omitempty"`
	CreatedAt   time.Time  `json:"todoCreatedAt"`
}

// TaskChanges carries a partial update; nil fields are left untouched.
type TaskChanges struct {
	Title       *string
	Description *string
	Status      *TaskStatus
	Deadline    *time.Time
}

// Empty reports whether no field is set.
func (c TaskChanges) Empty() bool {
	return c.Title == nil && c.Description == nil && c.Status == nil && c.Deadline == nil
}
