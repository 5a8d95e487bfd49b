package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/exam-api/internal/api"
	apiMiddleware "github.com/phrazzld/exam-api/internal/api/middleware"
)

// setupRouter registers every route and its middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	examHandler := api.NewExamHandler(app.examService, app.logger)
	sessionHandler := api.NewSessionHandler(app.sessionService, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Route("/exams", func(r chi.Router) {
			r.Post("/", examHandler.CreateExam)
			r.Get("/{id}", examHandler.GetExam)
			r.Get("/{id}/render", examHandler.RenderExam)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", sessionHandler.StartSession)
			r.Get("/{id}", sessionHandler.GetSession)
			r.Post("/{id}/answers", sessionHandler.SubmitAnswer)
			r.Post("/{id}/checkpoints", sessionHandler.SaveCheckpoint)
			r.Get("/{id}/checkpoints", sessionHandler.ListCheckpoints)
			r.Post("/{id}/restore", sessionHandler.RestoreCheckpoint)
			r.Get("/{id}/grade", sessionHandler.GradeSession)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
