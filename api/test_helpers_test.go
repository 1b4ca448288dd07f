package main

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"golang.org/x/crypto/bcrypt"
)

var testTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

const (
	selectUserColumns = `id, email, username, full_name, password_hash, is_active, is_superuser, created_at, updated_at`
	selectTaskColumns = `id, title, description, status, priority, owner_id, created_at, updated_at, due_date`
)

var (
	userRowColumns = []string{"id", "email", "username", "full_name", "password_hash", "is_active", "is_superuser", "created_at", "updated_at"}
	taskRowColumns = []string{"id", "title", "description", "status", "priority", "owner_id", "created_at", "updated_at", "due_date"}
)

func newTestApplication(t *testing.T) (*application, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	st := newStorage(db)
	st.now = func() time.Time { return testTime }

	app := &application{
		storage: st,
		hasher:  newPasswordHasher(bcrypt.MinCost),
	}
	app.config.env = "test"
	return app, mock
}

func userRow(u user) *sqlmock.Rows {
	return sqlmock.NewRows(userRowColumns).
		AddRow(u.ID, u.Email, u.Username, u.FullName, u.PasswordHash, u.IsActive, u.IsSuperuser, u.CreatedAt, u.UpdatedAt)
}

func taskRows(tasks ...task) *sqlmock.Rows {
	rows := sqlmock.NewRows(taskRowColumns)
	for _, t := range tasks {
		var due any
		if t.DueDate != nil {
			due = *t.DueDate
		}
		rows.AddRow(t.ID, t.Title, t.Description, t.Status, t.Priority, t.OwnerID, t.CreatedAt, t.UpdatedAt, due)
	}
	return rows
}

func doRequest(t *testing.T, app *application, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	composeRoutes(app).ServeHTTP(resp, req)
	return resp
}

func decodeBody(t *testing.T, resp *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(resp.Body.Bytes(), out); err != nil {
		t.Fatalf("json.Unmarshal: %v\nbody: %s", err, resp.Body.String())
	}
}

func mustStatus(t *testing.T, actual, expected int) {
	t.Helper()
	if actual != expected {
		t.Fatalf("expected status %d, got %d", expected, actual)
	}
}

func expectationsMet(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}
