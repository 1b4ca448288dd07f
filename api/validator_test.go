package main

import "testing"

func TestCheckEmail(t *testing.T) {
	valid := []string{"a@x.com", "user.name+tag@example.co.uk"}
	for _, email := range valid {
		v := newValidator()
		v.checkEmail(email)
		if v.hasErrors() {
			t.Fatalf("expected %q to be valid: %v", email, v.errors)
		}
	}

	invalid := []string{"", "not-an-email", "missing@tld@x"}
	for _, email := range invalid {
		v := newValidator()
		v.checkEmail(email)
		if !v.hasErrors() {
			t.Fatalf("expected %q to be rejected", email)
		}
	}
}

func TestCheckPassword(t *testing.T) {
	v := newValidator()
	v.checkPassword("Secret123")
	if v.hasErrors() {
		t.Fatalf("expected password to be accepted: %v", v.errors)
	}

	cases := map[string]string{
		"empty":    "",
		"short":    "Ab1",
		"no digit": "NoDigitsHere",
	}
	for name, password := range cases {
		v := newValidator()
		v.checkPassword(password)
		if !v.hasErrors() {
			t.Fatalf("expected %s password to be rejected", name)
		}
	}
}

func TestCheckPriority(t *testing.T) {
	for p := 1; p <= 5; p++ {
		v := newValidator()
		v.checkPriority(p)
		if v.hasErrors() {
			t.Fatalf("expected priority %d to be valid", p)
		}
	}
	for _, p := range []int{0, 6, -1} {
		v := newValidator()
		v.checkPriority(p)
		if !v.hasErrors() {
			t.Fatalf("expected priority %d to be rejected", p)
		}
	}
}

func TestCheckCondKeepsFirstError(t *testing.T) {
	v := newValidator()
	v.checkCond(false, "field", "first")
	v.checkCond(false, "field", "second")
	if v.errors["field"] != "first" {
		t.Fatalf("expected the first error to win, got %q", v.errors["field"])
	}
}
