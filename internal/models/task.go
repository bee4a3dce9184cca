package models

import "time"

// Task status values. There are exactly two; the only transition is the
// unconditional flip performed by the toggle endpoint.
const (
	StatusPending   = "Pending"
	StatusCompleted = "Completed"
)

// Task represents a single to-do item owned by a user.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Deadline    time.Time `json:"deadline"`
	Status      string    `json:"status"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Completed reports whether the task has been marked done.
func (t Task) Completed() bool {
	return t.Status == StatusCompleted
}

// ToggledStatus returns the opposite of the given status.
func ToggledStatus(status string) string {
	if status == StatusPending {
		return StatusCompleted
	}
	return StatusPending
}
