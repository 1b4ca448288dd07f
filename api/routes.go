package main

import (
	"net/http"
)

func composeRoutes(app *application) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /v1/healthcheck", app.healthCheckHandler)

	mux.HandleFunc("POST /v1/users", app.createUserHandler)
	mux.HandleFunc("GET /v1/users", app.getUsersHandler)
	mux.HandleFunc("GET /v1/users/{id}", app.getUserHandler)
	mux.HandleFunc("PATCH /v1/users/{id}", app.updateUserHandler)
	mux.HandleFunc("DELETE /v1/users/{id}", app.deleteUserHandler)
	mux.HandleFunc("POST /v1/users/auth", app.authenticateUserHandler)

	mux.HandleFunc("POST /v1/users/{id}/tasks", app.createTaskHandler)
	mux.HandleFunc("GET /v1/users/{id}/tasks", app.getUserTasksHandler)
	mux.HandleFunc("GET /v1/users/{id}/tasks/stats", app.getTaskStatsHandler)

	mux.HandleFunc("GET /v1/tasks", app.getTasksHandler)
	mux.HandleFunc("GET /v1/tasks/{id}", app.getTaskHandler)
	mux.HandleFunc("PATCH /v1/tasks/{id}", app.updateTaskHandler)
	mux.HandleFunc("DELETE /v1/tasks/{id}", app.deleteTaskHandler)
	mux.HandleFunc("POST /v1/tasks/{id}/complete", app.completeTaskHandler)

	var handler http.Handler = mux
	if len(app.config.cors.trustedOrigins) != 0 {
		handler = app.enableCORS(handler)
	}
	if app.config.limiter.enabled {
		handler = app.rateLimit(handler)
	}
	return handler
}
