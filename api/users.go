package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
)

func (app *application) createUserHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Username string `json:"username"`
		FullName string `json:"full_name"`
		Password string `json:"password"`
	}
	err := json.NewDecoder(r.Body).Decode(&input)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	v := newValidator()
	v.checkEmail(input.Email)
	v.checkUsername(input.Username)
	v.checkFullName(input.FullName)
	v.checkPassword(input.Password)
	if v.hasErrors() {
		writeError(w, v.toError(), http.StatusBadRequest)
		return
	}

	// Pre-check both unique keys so duplicates get a domain-level conflict
	// instead of a raw constraint error. The schema's UNIQUE constraints
	// still back this up under concurrent registration.
	existing, err := app.storage.getUserByEmail(input.Email)
	if err != nil {
		writeServerError(w, err)
		return
	}
	if existing != nil {
		writeError(w, errors.New("email already registered"), http.StatusConflict)
		return
	}
	existing, err = app.storage.getUserByUsername(input.Username)
	if err != nil {
		writeServerError(w, err)
		return
	}
	if existing != nil {
		writeError(w, errors.New("username already taken"), http.StatusConflict)
		return
	}

	hash, err := app.hasher.hash(input.Password)
	if err != nil {
		writeServerError(w, err)
		return
	}
	u := user{
		Email:        input.Email,
		Username:     input.Username,
		FullName:     input.FullName,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := app.storage.insertUser(&u); err != nil {
		writeServerError(w, err)
		return
	}

	if app.mailer != nil {
		if err := app.mailer.sendWelcome(&u); err != nil {
			log.Println(err)
		}
	}

	writeJSON(w, http.StatusCreated, u)
}

func (app *application) getUsersHandler(w http.ResponseWriter, r *http.Request) {
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

	users, err := app.storage.getUsers(skip, limit)
	if err != nil {
		writeServerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (app *application) getUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	u, err := app.storage.getUserByID(id)
	if err != nil {
		writeServerError(w, err)
		return
	}
	if u == nil {
		writeError(w, errors.New("user not found"), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (app *application) updateUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	var patch userPatch
	err = json.NewDecoder(r.Body).Decode(&patch)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	v := newValidator()
	if patch.Email != nil {
		v.checkEmail(*patch.Email)
	}
	if patch.Username != nil {
		v.checkUsername(*patch.Username)
	}
	if patch.FullName != nil {
		v.checkFullName(*patch.FullName)
	}
	if v.hasErrors() {
		writeError(w, v.toError(), http.StatusBadRequest)
		return
	}

	u, err := app.storage.updateUser(id, patch)
	if err != nil {
		writeServerError(w, err)
		return
	}
	if u == nil {
		writeError(w, errors.New("user not found"), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (app *application) deleteUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	deleted, err := app.storage.deleteUser(id)
	if err != nil {
		writeServerError(w, err)
		return
	}
	if !deleted {
		writeError(w, errors.New("user not found"), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// authenticateUser verifies a username/password pair. An unknown username
// and a wrong password both come back as (nil, nil) so the caller cannot
// tell which one it was.
func (app *application) authenticateUser(username, password string) (*user, error) {
	u, err := app.storage.getUserByUsername(username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, nil
	}
	if !app.hasher.verify(password, u.PasswordHash) {
		return nil, nil
	}
	return u, nil
}

func (app *application) authenticateUserHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	err := json.NewDecoder(r.Body).Decode(&input)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}
	v := newValidator()
	v.checkCond(input.Username != "", "username", "must be provided")
	v.checkCond(input.Password != "", "password", "must be provided")
	if v.hasErrors() {
		writeError(w, v.toError(), http.StatusBadRequest)
		return
	}

	u, err := app.authenticateUser(input.Username, input.Password)
	if err != nil {
		writeServerError(w, err)
		return
	}
	if u == nil {
		writeError(w, errors.New("invalid credentials"), http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
