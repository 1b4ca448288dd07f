package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

var errTaskNotFound = errors.New("task not found")

// requireOwner resolves the {id} path parameter to an existing user. It
// writes the failure response itself and returns nil when the request is
// already handled.
func (app *application) requireOwner(w http.ResponseWriter, r *http.Request) *user {
	id, err := readIDParam(r)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return nil
	}
	u, err := app.storage.getUserByID(id)
	if err != nil {
		writeServerError(w, err)
		return nil
	}
	if u == nil {
		writeError(w, errors.New("user not found"), http.StatusNotFound)
		return nil
	}
	return u
}

func (app *application) createTaskHandler(w http.ResponseWriter, r *http.Request) {
	owner := app.requireOwner(w, r)
	if owner == nil {
		return
	}

	var input struct {
		Title       string     `json:"title"`
		Description string     `json:"description"`
		Priority    *int       `json:"priority"`
		DueDate     *time.Time `json:"due_date"`
	}
	err := json.NewDecoder(r.Body).Decode(&input)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	priority := 1
	if input.Priority != nil {
		priority = *input.Priority
	}
	v := newValidator()
	v.checkTitle(input.Title)
	v.checkPriority(priority)
	if v.hasErrors() {
		writeError(w, v.toError(), http.StatusBadRequest)
		return
	}

	t := task{
		Title:       input.Title,
		Description: input.Description,
		Priority:    priority,
		OwnerID:     owner.ID,
		DueDate:     input.DueDate,
	}
	if err := app.storage.insertTask(&t); err != nil {
		writeServerError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (app *application) getUserTasksHandler(w http.ResponseWriter, r *http.Request) {
	owner := app.requireOwner(w, r)
	if owner == nil {
		return
	}

	page, err := readQueryInt(r, "page", 1)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	perPage, err := readQueryInt(r, "per_page", 20)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	statusFilter := taskStatus(r.URL.Query().Get("status"))

	v := newValidator()
	v.checkCond(page >= 1, "page", "must be greater than or equal to 1")
	v.checkCond(perPage >= 1, "per_page", "must be greater than or equal to 1")
	v.checkCond(perPage <= 100, "per_page", "must be atmost 100")
	if statusFilter != "" {
		v.checkStatus(statusFilter)
	}
	if v.hasErrors() {
		writeError(w, v.toError(), http.StatusBadRequest)
		return
	}

	skip := (page - 1) * perPage
	tasks, total, err := app.storage.getTasksByOwner(owner.ID, statusFilter, skip, perPage)
	if err != nil {
		writeServerError(w, err)
		return
	}

	result := struct {
		Tasks   []task `json:"tasks"`
		Total   int    `json:"total"`
		Page    int    `json:"page"`
		PerPage int    `json:"per_page"`
	}{
		Tasks:   tasks,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}
	writeJSON(w, http.StatusOK, result)
}

func (app *application) getTaskStatsHandler(w http.ResponseWriter, r *http.Request) {
	owner := app.requireOwner(w, r)
	if owner == nil {
		return
	}
	stats, err := app.storage.getTaskStats(owner.ID)
	if err != nil {
		writeServerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (app *application) getTasksHandler(w http.ResponseWriter, r *http.Request) {
	skip, err := readQueryInt(r, "skip", 0)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	limit, err := readQueryInt(r, "limit", 100)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	v := newValidator()
	v.checkPagination(skip, limit)
	if v.hasErrors() {
		writeError(w, v.toError(), http.StatusBadRequest)
		return
	}

	tasks, err := app.storage.getTasks(skip, limit)
	if err != nil {
		writeServerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (app *application) getTaskHandler(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	t, err := app.storage.getTaskByID(id)
	if err != nil {
		writeServerError(w, err)
		return
	}
	if t == nil {
		writeError(w, errTaskNotFound, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (app *application) updateTaskHandler(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	var patch taskPatch
	err = json.NewDecoder(r.Body).Decode(&patch)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	v := newValidator()
	if patch.Title != nil {
		v.checkTitle(*patch.Title)
	}
	if patch.Priority != nil {
		v.checkPriority(*patch.Priority)
	}
	if patch.Status != nil {
		v.checkStatus(*patch.Status)
	}
	if v.hasErrors() {
		writeError(w, v.toError(), http.StatusBadRequest)
		return
	}

	t, err := app.storage.updateTask(id, patch)
	if err != nil {
		writeServerError(w, err)
		return
	}
	if t == nil {
		writeError(w, errTaskNotFound, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (app *application) deleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	deleted, err := app.storage.deleteTask(id)
	if err != nil {
		writeServerError(w, err)
		return
	}
	if !deleted {
		writeError(w, errTaskNotFound, http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (app *application) completeTaskHandler(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	t, err := app.storage.markTaskCompleted(id)
	if err != nil {
		writeServerError(w, err)
		return
	}
	if t == nil {
		writeError(w, errTaskNotFound, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, t)
}
