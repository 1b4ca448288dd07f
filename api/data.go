package main

import "time"

type taskStatus string

const (
	statusPending    taskStatus = "pending"
	statusInProgress taskStatus = "in_progress"
	statusCompleted  taskStatus = "completed"
	statusCancelled  taskStatus = "cancelled"
)

var allTaskStatuses = []taskStatus{statusPending, statusInProgress, statusCompleted, statusCancelled}

func (s taskStatus) valid() bool {
	switch s {
	case statusPending, statusInProgress, statusCompleted, statusCancelled:
		return true
	}
	return false
}

type user struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FullName     string    `json:"full_name,omitempty"`
	PasswordHash []byte    `json:"-"`
	IsActive     bool      `json:"is_active"`
	IsSuperuser  bool      `json:"is_superuser"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type task struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      taskStatus `json:"status"`
	Priority    int        `json:"priority"`
	OwnerID     int        `json:"owner_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// userPatch carries a partial update. A nil field leaves the stored value
// untouched.
type userPatch struct {
	Email    *string `json:"email"`
	Username *string `json:"username"`
	FullName *string `json:"full_name"`
	IsActive *bool   `json:"is_active"`
}

func (p userPatch) apply(u user) user {
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.FullName != nil {
		u.FullName = *p.FullName
	}
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}
	return u
}

type taskPatch struct {
	Title       *string     `json:"title"`
	Description *string     `json:"description"`
	Status      *taskStatus `json:"status"`
	Priority    *int        `json:"priority"`
	DueDate     *time.Time  `json:"due_date"`
}

func (p taskPatch) apply(t task) task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDate != nil {
		t.DueDate = p.DueDate
	}
	return t
}
