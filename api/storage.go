package main

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"time"

	_ "github.com/lib/pq"
)

//go:embed schema.sql
var schemaFS embed.FS

func openDB(cfg config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.db.dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.db.maxOpenConnections)
	db.SetMaxIdleConns(cfg.db.maxIdleConnections)
	db.SetConnMaxIdleTime(cfg.db.maxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = db.PingContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := applySchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

func applySchema(ctx context.Context, db *sql.DB) error {
	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, string(schemaSQL))
	return err
}

// storage is the persistence layer for users and tasks. Lookups that find
// nothing return (nil, nil); the caller decides what absence means.
//
// Uniqueness of users.email and users.username is enforced by the schema's
// UNIQUE constraints. The handlers pre-check duplicates to produce friendly
// conflict responses, but the constraints are what close the race between
// two concurrent registrations.
type storage struct {
	db *sql.DB

	// now supplies created_at/updated_at so tests can pin the clock.
	now func() time.Time
}

func newStorage(db *sql.DB) *storage {
	return &storage{
		db:  db,
		now: time.Now,
	}
}

const userColumns = `id, email, username, full_name, password_hash, is_active, is_superuser, created_at, updated_at`

func scanUser(row *sql.Row) (*user, error) {
	var u user
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.FullName, &u.PasswordHash, &u.IsActive, &u.IsSuperuser, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, nil
		default:
			return nil, err
		}
	}
	return &u, nil
}

func (s *storage) getUserByID(id int) (*user, error) {
	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return scanUser(s.db.QueryRowContext(ctx, query, id))
}

func (s *storage) getUserByEmail(email string) (*user, error) {
	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE email = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return scanUser(s.db.QueryRowContext(ctx, query, email))
}

func (s *storage) getUserByUsername(username string) (*user, error) {
	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE username = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return scanUser(s.db.QueryRowContext(ctx, query, username))
}

func (s *storage) getUsers(skip, limit int) ([]user, error) {
	query := `SELECT ` + userColumns + `
			  FROM users
			  ORDER BY id
			  LIMIT $1 OFFSET $2`
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	rows, err := s.db.QueryContext(ctx, query, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []user{}
	for rows.Next() {
		var u user
		err := rows.Scan(&u.ID, &u.Email, &u.Username, &u.FullName, &u.PasswordHash, &u.IsActive, &u.IsSuperuser, &u.CreatedAt, &u.UpdatedAt)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *storage) insertUser(u *user) error {
	query := `INSERT INTO users (email, username, full_name, password_hash, is_active, is_superuser, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
			  RETURNING id`
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	now := s.now()
	row := s.db.QueryRowContext(ctx, query, u.Email, u.Username, u.FullName, u.PasswordHash, u.IsActive, u.IsSuperuser, now)
	if err := row.Scan(&u.ID); err != nil {
		return err
	}
	u.CreatedAt = now
	u.UpdatedAt = now
	return nil
}

// updateUser merges the patch into the stored record and rewrites the row.
// updated_at is bumped even for an empty patch. Returns (nil, nil) for an
// unknown id.
func (s *storage) updateUser(id int, p userPatch) (*user, error) {
	u, err := s.getUserByID(id)
	if err != nil || u == nil {
		return nil, err
	}

	merged := p.apply(*u)
	merged.UpdatedAt = s.now()

	query := `UPDATE users SET email = $1, username = $2, full_name = $3, is_active = $4, updated_at = $5
			  WHERE id = $6`
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err = s.db.ExecContext(ctx, query, merged.Email, merged.Username, merged.FullName, merged.IsActive, merged.UpdatedAt, merged.ID)
	if err != nil {
		return nil, err
	}
	return &merged, nil
}

func (s *storage) deleteUser(id int) (bool, error) {
	query := `DELETE FROM users
			  WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

const taskColumns = `id, title, description, status, priority, owner_id, created_at, updated_at, due_date`

func scanTaskRow(row *sql.Row) (*task, error) {
	var t task
	var due sql.NullTime
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt, &due)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, nil
		default:
			return nil, err
		}
	}
	if due.Valid {
		t.DueDate = &due.Time
	}
	return &t, nil
}

func (s *storage) getTaskByID(id int) (*task, error) {
	query := `SELECT ` + taskColumns + `
			  FROM tasks
			  WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return scanTaskRow(s.db.QueryRowContext(ctx, query, id))
}

// getTasksByOwner returns one page of an owner's tasks, newest first, plus
// the total size of the filtered set. An empty statusFilter means all
// statuses. The total is counted before LIMIT/OFFSET apply.
func (s *storage) getTasksByOwner(ownerID int, statusFilter taskStatus, skip, limit int) ([]task, int, error) {
	countQuery := `SELECT count(*) FROM tasks
			  WHERE owner_id = $1 AND ($2 = '' OR status = $2)`
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var total int
	err := s.db.QueryRowContext(ctx, countQuery, ownerID, string(statusFilter)).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + taskColumns + `
			  FROM tasks
			  WHERE owner_id = $1 AND ($2 = '' OR status = $2)
			  ORDER BY created_at DESC, id DESC
			  LIMIT $3 OFFSET $4`
	rows, err := s.db.QueryContext(ctx, query, ownerID, string(statusFilter), limit, skip)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	tasks, err := collectTasks(rows)
	if err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

func (s *storage) getTasks(skip, limit int) ([]task, error) {
	query := `SELECT ` + taskColumns + `
			  FROM tasks
			  ORDER BY id
			  LIMIT $1 OFFSET $2`
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	rows, err := s.db.QueryContext(ctx, query, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

func collectTasks(rows *sql.Rows) ([]task, error) {
	tasks := []task{}
	for rows.Next() {
		var t task
		var due sql.NullTime
		err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt, &due)
		if err != nil {
			return nil, err
		}
		if due.Valid {
			t.DueDate = &due.Time
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// insertTask persists a new task for its owner. Status is forced to pending
// no matter what the caller put in the struct.
func (s *storage) insertTask(t *task) error {
	query := `INSERT INTO tasks (title, description, status, priority, owner_id, created_at, updated_at, due_date)
			  VALUES ($1, $2, $3, $4, $5, $6, $6, $7)
			  RETURNING id`
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	t.Status = statusPending
	now := s.now()
	var due sql.NullTime
	if t.DueDate != nil {
		due = sql.NullTime{Time: *t.DueDate, Valid: true}
	}
	row := s.db.QueryRowContext(ctx, query, t.Title, t.Description, t.Status, t.Priority, t.OwnerID, now, due)
	if err := row.Scan(&t.ID); err != nil {
		return err
	}
	t.CreatedAt = now
	t.UpdatedAt = now
	return nil
}

// updateTask has the same merge semantics as updateUser. Status may be set
// to any of the four values; no transition graph is enforced.
func (s *storage) updateTask(id int, p taskPatch) (*task, error) {
	t, err := s.getTaskByID(id)
	if err != nil || t == nil {
		return nil, err
	}

	merged := p.apply(*t)
	merged.UpdatedAt = s.now()

	var due sql.NullTime
	if merged.DueDate != nil {
		due = sql.NullTime{Time: *merged.DueDate, Valid: true}
	}
	query := `UPDATE tasks SET title = $1, description = $2, status = $3, priority = $4, updated_at = $5, due_date = $6
			  WHERE id = $7`
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err = s.db.ExecContext(ctx, query, merged.Title, merged.Description, merged.Status, merged.Priority, merged.UpdatedAt, due, merged.ID)
	if err != nil {
		return nil, err
	}
	return &merged, nil
}

func (s *storage) deleteTask(id int) (bool, error) {
	query := `DELETE FROM tasks
			  WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// markTaskCompleted sets status to completed regardless of the current
// status. Completing a cancelled task succeeds silently.
func (s *storage) markTaskCompleted(id int) (*task, error) {
	query := `UPDATE tasks SET status = $1, updated_at = $2
			  WHERE id = $3
			  RETURNING ` + taskColumns
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return scanTaskRow(s.db.QueryRowContext(ctx, query, statusCompleted, s.now(), id))
}

// getTaskStats counts an owner's tasks per status. Every status key is
// present in the result, zero-filled when the owner has none.
func (s *storage) getTaskStats(ownerID int) (map[taskStatus]int, error) {
	query := `SELECT status, count(*) FROM tasks
			  WHERE owner_id = $1
			  GROUP BY status`
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make(map[taskStatus]int, len(allTaskStatuses))
	for _, st := range allTaskStatuses {
		stats[st] = 0
	}
	for rows.Next() {
		var st taskStatus
		var count int
		if err := rows.Scan(&st, &count); err != nil {
			return nil, err
		}
		stats[st] = count
	}
	return stats, rows.Err()
}
