package main

import (
	"github.com/go-chi/chi/v5"
	"github.com/tcp_snm/pulse/middleware"
)

func NewV1Router() *chi.Mux {
	v1 := chi.NewRouter()
	jwt := middleware.JWTMiddleware(apiConfig.AuthServiceConfig)

	// configure all endpoints
	v1.Get("/healthz", apiConfig.HandlerReadiness)

	// auth layer
	v1.Post("/auth/login", apiConfig.HandlerLogin)
	v1.Post("/auth/logout", apiConfig.HandlerLogout)

	// students layer
	v1.Get("/students", apiConfig.HandlerListStudents)
	v1.Get("/students/{student_id}", apiConfig.HandlerGetStudent)
	v1.Post("/students", jwt(apiConfig.HandlerCreateStudent))
	v1.Put("/students/{student_id}", jwt(apiConfig.HandlerUpdateStudent))
	v1.Delete("/students/{student_id}", jwt(apiConfig.HandlerDeleteStudent))

	// stats layer
	v1.Get("/students/{student_id}/contests", apiConfig.HandlerGetContestHistory)
	v1.Get("/students/{student_id}/problems", apiConfig.HandlerGetProblemStats)

	// sync layer
	v1.Post("/students/{student_id}/sync", jwt(apiConfig.HandlerSyncStudent))
	v1.Post("/sync", jwt(apiConfig.HandlerSyncAll))
	v1.Get("/sync/tasks/{task_id}", jwt(apiConfig.HandlerGetSyncTask))
	v1.Delete("/sync/tasks/{task_id}", jwt(apiConfig.HandlerKillSyncTask))

	return v1
}
