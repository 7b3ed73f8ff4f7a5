package routers

import (
	"net/http"

	"mockinterview/api/internal/handlers"
	"mockinterview/api/internal/middleware"
	"mockinterview/api/internal/models"

	"github.com/go-chi/chi/v5"
)

func InterviewRoutes(router *chi.Mux, interviewHandler *handlers.InterviewHandler, auth func(http.Handler) http.Handler, limiter *middleware.RateLimiter) {
	router.Route("/interview", func(r chi.Router) {
		r.Use(auth)
		r.With(middleware.ValidateRequest[*models.StartInterviewRequest]()).Post("/start", interviewHandler.StartHandler)

		r.Route("/{session_id}", func(r chi.Router) {
			r.With(limiter.Limit).Post("/analyze", interviewHandler.AnalyzeHandler)
			r.Post("/end", interviewHandler.EndHandler)
			r.Get("/status", interviewHandler.StatusHandler)
			r.Get("/time", interviewHandler.TimeHandler)
		})
	})

	// deprecated single-shot endpoint
	router.With(auth, limiter.Limit).Post("/analyze", interviewHandler.LegacyAnalyzeHandler)
}

func CatalogRoutes(router *chi.Mux, catalogHandler *handlers.CatalogHandler) {
	router.Get("/topics", catalogHandler.TopicsHandler)
	router.Get("/companies", catalogHandler.CompaniesHandler)
	router.Get("/difficulties", catalogHandler.DifficultiesHandler)
}

func MediaRoutes(router *chi.Mux, mediaHandler *handlers.MediaHandler, auth func(http.Handler) http.Handler) {
	router.Group(func(r chi.Router) {
		r.Use(auth)
		r.With(middleware.ValidateRequest[*models.TextToSpeechRequest]()).Post("/tts", mediaHandler.SpeechHandler)
		r.Post("/resume/parse", mediaHandler.ResumeHandler)
		r.Post("/job/analyze", mediaHandler.JobHandler)
	})
}
