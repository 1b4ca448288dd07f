package main

import (
	"testing"
	"time"
)

func TestUserPatchApply(t *testing.T) {
	original := user{
		ID:       1,
		Email:    "a@x.com",
		Username: "a",
		FullName: "Alice",
		IsActive: true,
	}

	email := "b@x.com"
	inactive := false
	merged := userPatch{Email: &email, IsActive: &inactive}.apply(original)

	if merged.Email != "b@x.com" {
		t.Fatalf("expected email to change, got %q", merged.Email)
	}
	if merged.IsActive {
		t.Fatalf("expected is_active to change")
	}
	if merged.Username != "a" || merged.FullName != "Alice" {
		t.Fatalf("expected omitted fields to keep their values")
	}
}

func TestUserPatchApplyEmpty(t *testing.T) {
	original := user{ID: 1, Email: "a@x.com", Username: "a", IsActive: true}
	merged := userPatch{}.apply(original)
	if merged.Email != original.Email || merged.Username != original.Username ||
		merged.FullName != original.FullName || merged.IsActive != original.IsActive {
		t.Fatalf("expected an empty patch to leave the record unchanged")
	}
}

func TestTaskPatchApply(t *testing.T) {
	due := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	original := task{
		ID:       1,
		Title:    "T1",
		Status:   statusPending,
		Priority: 3,
		OwnerID:  7,
	}

	status := statusCancelled
	merged := taskPatch{Status: &status, DueDate: &due}.apply(original)

	if merged.Status != statusCancelled {
		t.Fatalf("expected status %q, got %q", statusCancelled, merged.Status)
	}
	if merged.DueDate == nil || !merged.DueDate.Equal(due) {
		t.Fatalf("expected due date to be set")
	}
	if merged.Title != "T1" || merged.Priority != 3 || merged.OwnerID != 7 {
		t.Fatalf("expected omitted fields to keep their values")
	}
}

// Every status is reachable from every other status through a plain update.
// There is deliberately no transition graph.
func TestTaskPatchAllowsAnyStatusTransition(t *testing.T) {
	for _, from := range allTaskStatuses {
		for _, to := range allTaskStatuses {
			status := to
			merged := taskPatch{Status: &status}.apply(task{Status: from})
			if merged.Status != to {
				t.Fatalf("expected %q -> %q to be allowed, got %q", from, to, merged.Status)
			}
		}
	}
}

func TestTaskStatusValid(t *testing.T) {
	for _, st := range allTaskStatuses {
		if !st.valid() {
			t.Fatalf("expected %q to be valid", st)
		}
	}
	if taskStatus("archived").valid() {
		t.Fatalf("expected an unknown status to be invalid")
	}
	if taskStatus("").valid() {
		t.Fatalf("expected an empty status to be invalid")
	}
}
