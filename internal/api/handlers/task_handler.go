package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/taskdeck/taskdeck-be/internal/auth"
	"github.com/taskdeck/taskdeck-be/internal/models"
	"github.com/taskdeck/taskdeck-be/internal/services"
	"github.com/taskdeck/taskdeck-be/internal/web"
)

// deadlineFormats are the accepted form encodings: the values produced
// by datetime-local and plain date inputs.
var deadlineFormats = []string{"2006-01-02T15:04", "2006-01-02"}

const deadlineInputFormat = "2006-01-02T15:04"

// TaskHandler handles the task pages and the two JSON mutation
// endpoints. All routes run behind the session guard.
type TaskHandler struct {
	tasks    services.TaskServiceProvider
	renderer *web.Renderer
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks services.TaskServiceProvider, renderer *web.Renderer) *TaskHandler {
	return &TaskHandler{tasks: tasks, renderer: renderer}
}

// List renders the session user's tasks ordered by deadline ascending.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	tasks, err := h.tasks.ListForUser(p.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", p.ID).Msg("Failed to list tasks")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.renderer.Render(w, http.StatusOK, "tasks.html", web.Page{
		Title:     "Tasks",
		Principal: &p,
		Tasks:     tasks,
	})
}

// AddForm renders the blank task form.
func (h *TaskHandler) AddForm(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFrom(r.Context())
	h.renderer.Render(w, http.StatusOK, "task_form.html", web.Page{
		Title:     "Add task",
		Principal: &p,
		Action:    "/add",
	})
}

// Add validates the submitted form and creates the task. Status is left
// to the storage default (Pending).
func (h *TaskHandler) Add(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	form, deadline, fields, err := parseTaskForm(r)
	if err != nil {
		http.Error(w, "Invalid form body", http.StatusBadRequest)
		return
	}
	if len(fields) > 0 {
		h.renderer.Render(w, http.StatusBadRequest, "task_form.html", web.Page{
			Title: "Add task", Principal: &p, Action: "/add", Form: form, Fields: fields,
		})
		return
	}

	if _, err := h.tasks.Create(p.ID, form["title"], form["description"], deadline); err != nil {
		log.Error().Err(err).Str("user_id", p.ID).Msg("Failed to create task")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/tasks", http.StatusSeeOther)
}

// EditForm renders the form prefilled with the task's current values.
// An absent or foreign id redirects back to the list without an error
// message.
func (h *TaskHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	id := chi.URLParam(r, "id")

	task, err := h.tasks.GetForUser(id, p.ID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			http.Redirect(w, r, "/tasks", http.StatusFound)
			return
		}
		log.Error().Err(err).Str("task_id", id).Msg("Failed to fetch task")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.renderer.Render(w, http.StatusOK, "task_form.html", web.Page{
		Title:     "Edit task",
		Principal: &p,
		Action:    "/edit/" + task.ID,
		Form:      taskFormValues(task),
	})
}

// Edit updates title, description and deadline; status is untouched.
// The ownership fetch comes first, so an absent or foreign id redirects
// silently before any validation runs.
func (h *TaskHandler) Edit(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	id := chi.URLParam(r, "id")

	if _, err := h.tasks.GetForUser(id, p.ID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			http.Redirect(w, r, "/tasks", http.StatusFound)
			return
		}
		log.Error().Err(err).Str("task_id", id).Msg("Failed to fetch task")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	form, deadline, fields, err := parseTaskForm(r)
	if err != nil {
		http.Error(w, "Invalid form body", http.StatusBadRequest)
		return
	}
	if len(fields) > 0 {
		h.renderer.Render(w, http.StatusBadRequest, "task_form.html", web.Page{
			Title: "Edit task", Principal: &p, Action: "/edit/" + id, Form: form, Fields: fields,
		})
		return
	}

	if err := h.tasks.Update(id, p.ID, form["title"], form["description"], deadline); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			http.Redirect(w, r, "/tasks", http.StatusFound)
			return
		}
		log.Error().Err(err).Str("task_id", id).Msg("Failed to update task")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/tasks", http.StatusSeeOther)
}

// Delete removes the task scoped to the session user and acknowledges
// success regardless of whether a row matched. Deleting an absent or
// foreign id is a no-op that still reports success; delete is a
// set-membership removal, not an existence assertion.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	id := chi.URLParam(r, "id")

	if err := h.tasks.Delete(id, p.ID); err != nil {
		log.Error().Err(err).Str("task_id", id).Msg("Failed to delete task")
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// Toggle flips the task's status and returns the new value. Unlike
// delete, an absent or foreign id reports failure.
func (h *TaskHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	id := chi.URLParam(r, "id")

	status, err := h.tasks.Toggle(id, p.ID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeJSON(w, http.StatusOK, map[string]any{"success": false})
			return
		}
		log.Error().Err(err).Str("task_id", id).Msg("Failed to toggle task")
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "status": status})
}

// parseTaskForm reads and validates the shared task form. It returns
// the trimmed values for re-rendering, the parsed deadline, and a map
// of field-level validation messages (empty when the form is valid).
func parseTaskForm(r *http.Request) (form map[string]string, deadline time.Time, fields map[string]string, err error) {
	if err := r.ParseForm(); err != nil {
		return nil, time.Time{}, nil, err
	}

	form = map[string]string{
		"title":       strings.TrimSpace(r.PostFormValue("title")),
		"description": strings.TrimSpace(r.PostFormValue("description")),
		"deadline":    strings.TrimSpace(r.PostFormValue("deadline")),
	}

	fields = map[string]string{}
	if form["title"] == "" {
		fields["title"] = "title is required"
	}
	if form["description"] == "" {
		fields["description"] = "description is required"
	}
	if form["deadline"] == "" {
		fields["deadline"] = "deadline is required"
	} else {
		deadline, err = parseDeadline(form["deadline"])
		if err != nil {
			fields["deadline"] = "deadline must be a valid date"
		}
	}
	return form, deadline, fields, nil
}

func parseDeadline(raw string) (time.Time, error) {
	var lastErr error
	for _, layout := range deadlineFormats {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// taskFormValues prefills the form map from an existing task.
func taskFormValues(task models.Task) map[string]string {
	return map[string]string{
		"title":       task.Title,
		"description": task.Description,
		"deadline":    task.Deadline.Format(deadlineInputFormat),
	}
}
