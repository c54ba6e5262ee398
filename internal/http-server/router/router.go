package router

import (
	"net/http"

	"thumbnail-creator/internal/http-server/handler/thumbnail"
	"thumbnail-creator/internal/http-server/middleware"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	ThumbnailHandler *thumbnail.ThumbnailHandler
}

func SetupRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RecoveryMiddleware)
	r.Use(middleware.LoggingMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Get("/controls", h.ThumbnailHandler.GetControls)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", h.ThumbnailHandler.CreateSession)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.ThumbnailHandler.GetSession)
				r.Patch("/", h.ThumbnailHandler.PatchSession)
				r.Delete("/", h.ThumbnailHandler.DeleteSession)

				r.Put("/title", h.ThumbnailHandler.SetTitle)
				r.Put("/title-color", h.ThumbnailHandler.SetTitleColor)
				r.Put("/title-font-size", h.ThumbnailHandler.SetTitleFontSize)
				r.Put("/title-spacing", h.ThumbnailHandler.SetTitleSpacing)
				r.Post("/styles/{token}", h.ThumbnailHandler.ToggleStyle)
				r.Post("/images/{layer}", h.ThumbnailHandler.UploadImage)
				r.Put("/fg-scale", h.ThumbnailHandler.SetFgScale)
				r.Put("/fg-rotation", h.ThumbnailHandler.SetFgRotation)

				r.Post("/pointer", h.ThumbnailHandler.Pointer)
				r.Get("/preview.png", h.ThumbnailHandler.Preview)
				r.Get("/export", h.ThumbnailHandler.Export)
			})
		})

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})
	})

	return r
}
