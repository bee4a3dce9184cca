package services

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/taskdeck/taskdeck-be/internal/models"
)

// TaskServiceProvider defines the interface for task services. Every
// operation takes the owning user's id and scopes its statement by it;
// a task owned by someone else behaves exactly like one that does not
// exist.
type TaskServiceProvider interface {
	ListForUser(userID string) ([]models.Task, error)
	Create(userID, title, description string, deadline time.Time) (models.Task, error)
	GetForUser(id, userID string) (models.Task, error)
	Update(id, userID, title, description string, deadline time.Time) error
	Delete(id, userID string) error
	Toggle(id, userID string) (string, error)
}

// TaskService provides business logic for task management.
type TaskService struct {
	db *sql.DB
}

// NewTaskService creates a new TaskService.
func NewTaskService(db *sql.DB) *TaskService {
	return &TaskService{db: db}
}

// ListForUser retrieves all of a user's tasks ordered by deadline
// ascending. An empty slice is a valid result, not an error.
func (s *TaskService) ListForUser(userID string) ([]models.Task, error) {
	rows, err := s.db.Query(`
		SELECT id, title, description, deadline, status, user_id, created_at
		FROM tasks WHERE user_id = ? ORDER BY deadline ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return s.scanTasks(rows)
}

// Create inserts a new task for the user. Status is left to the schema
// default ('Pending').
func (s *TaskService) Create(userID, title, description string, deadline time.Time) (models.Task, error) {
	id := uuid.New().String()

	stmt, err := s.db.Prepare(`
		INSERT INTO tasks (id, title, description, deadline, user_id)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return models.Task{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(id, title, description, deadline, userID)
	if err != nil {
		return models.Task{}, err
	}
	return s.GetForUser(id, userID)
}

// GetForUser retrieves a single task by id, scoped to its owner.
func (s *TaskService) GetForUser(id, userID string) (models.Task, error) {
	row := s.db.QueryRow(`
		SELECT id, title, description, deadline, status, user_id, created_at
		FROM tasks WHERE id = ? AND user_id = ?`, id, userID)
	return s.scanTask(row)
}

// Update rewrites a task's title, description and deadline. Status is
// untouched. An absent or foreign id yields ErrNotFound.
func (s *TaskService) Update(id, userID, title, description string, deadline time.Time) error {
	stmt, err := s.db.Prepare(`
		UPDATE tasks SET title = ?, description = ?, deadline = ?
		WHERE id = ? AND user_id = ?
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	res, err := stmt.Exec(title, description, deadline, id, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the task matching id and owner. It performs no
// existence check: removing an absent or foreign id affects zero rows
// and still succeeds (set-membership removal, not an existence
// assertion).
func (s *TaskService) Delete(id, userID string) error {
	_, err := s.db.Exec("DELETE FROM tasks WHERE id = ? AND user_id = ?", id, userID)
	return err
}

// Toggle flips a task's status between Pending and Completed and
// returns the new value. The read and the write are separate
// auto-committed statements; two concurrent toggles of the same task
// can race, with the second write overwriting the first.
func (s *TaskService) Toggle(id, userID string) (string, error) {
	var status string
	row := s.db.QueryRow("SELECT status FROM tasks WHERE id = ? AND user_id = ?", id, userID)
	if err := row.Scan(&status); err != nil {
		if err == sql.ErrNoRows {
			return "", ErrNotFound
		}
		return "", err
	}

	newStatus := models.ToggledStatus(status)
	_, err := s.db.Exec("UPDATE tasks SET status = ? WHERE id = ? AND user_id = ?", newStatus, id, userID)
	if err != nil {
		return "", err
	}
	return newStatus, nil
}

// scanTasks is a helper function to scan multiple rows into a slice of Tasks.
func (s *TaskService) scanTasks(rows *sql.Rows) ([]models.Task, error) {
	var tasks []models.Task
	for rows.Next() {
		task, err := s.scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// scanTask is a helper function to scan a single row into a Task struct.
func (s *TaskService) scanTask(scanner interface{ Scan(...interface{}) error }) (models.Task, error) {
	var task models.Task
	err := scanner.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Deadline,
		&task.Status,
		&task.UserID,
		&task.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Task{}, ErrNotFound
		}
		return models.Task{}, err
	}
	return task, nil
}
