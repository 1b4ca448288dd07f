package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"unicode"
)

var emailRegexp = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$")

type validator struct {
	errors map[string]string
}

func newValidator() *validator {
	return &validator{
		errors: make(map[string]string),
	}
}

func (v *validator) toError() error {
	if v == nil {
		return errors.New("")
	}
	data, err := json.Marshal(v.errors)
	if err != nil {
		return err
	}
	return errors.New(string(data))
}

func (v *validator) hasErrors() bool {
	return len(v.errors) != 0
}

func (v *validator) checkCond(cond bool, key, msg string) {
	if cond {
		return
	}
	if _, ok := v.errors[key]; !ok {
		v.errors[key] = msg
	}
}

func (v *validator) checkEmail(email string) {
	v.checkCond(email != "", "email", "must be provided")
	v.checkCond(emailRegexp.Match([]byte(email)), "email", "must be a valid email address")
}

func (v *validator) checkUsername(username string) {
	v.checkCond(username != "", "username", "must be provided")
	v.checkCond(len(username) >= 3, "username", "must be atleast 3 characters long")
	v.checkCond(len(username) <= 100, "username", "must be atmost 100 characters long")
}

func (v *validator) checkFullName(fullName string) {
	v.checkCond(len(fullName) <= 255, "full_name", "must be atmost 255 characters long")
}

func (v *validator) checkPassword(password string) {
	v.checkCond(password != "", "password", "must be provided")
	v.checkCond(len(password) >= 8, "password", "must be atleast 8 characters long")
	v.checkCond(len(password) <= 72, "password", "must be atmost 72 characters long")
	hasDigit := false
	for _, c := range password {
		if unicode.IsDigit(c) {
			hasDigit = true
			break
		}
	}
	v.checkCond(hasDigit, "password", "must contain atleast one number")
}

func (v *validator) checkTitle(title string) {
	v.checkCond(title != "", "title", "must be provided")
	v.checkCond(len(title) <= 255, "title", "must be atmost 255 characters long")
}

func (v *validator) checkPriority(priority int) {
	v.checkCond(priority >= 1 && priority <= 5, "priority", "must be between 1 and 5")
}

func (v *validator) checkStatus(status taskStatus) {
	v.checkCond(status.valid(), "status", fmt.Sprintf("must be one of %v", allTaskStatuses))
}

func (v *validator) checkPagination(skip, limit int) {
	v.checkCond(skip >= 0, "skip", "must be greater than or equal to 0")
	v.checkCond(limit >= 1, "limit", "must be greater than or equal to 1")
	v.checkCond(limit <= 100, "limit", "must be atmost 100")
}
