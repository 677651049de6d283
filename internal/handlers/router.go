// internal/handlers/router.go
package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"efi_checklist/internal/config"
	"efi_checklist/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"gorm.io/gorm"
)

// RouterDeps は NewRouter に渡す依存関係です。
type RouterDeps struct {
	Config      *config.Config
	Logger      *slog.Logger
	DB          *gorm.DB
	Sessions    *SessionHandler
	Submissions *SubmissionHandler
	Reports     *ReportHandler
	// DevAuth は X-Session-ID ヘッダーによる認証を許可します (APP_ENV=dev)。
	DevAuth bool
}

func NewRouter(d RouterDeps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.LoggingMiddleware(logger))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   d.Config.CORS.AllowedOrigins,
		AllowedMethods:   d.Config.CORS.AllowedMethods,
		AllowedHeaders:   d.Config.CORS.AllowedHeaders,
		ExposedHeaders:   d.Config.CORS.ExposedHeaders,
		AllowCredentials: d.Config.CORS.AllowCredentials,
		MaxAge:           d.Config.CORS.MaxAge,
		Debug:            false,
	})
	r.Use(corsHandler.Handler)

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// --- 公開エンドポイント ---
	r.Post("/api/save-checklist", d.Submissions.SaveChecklist)
	r.Post("/api/report", d.Reports.PostReport)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/sessions", d.Sessions.CreateSession)

		// --- セッショントークン必須 ---
		r.Route("/session", func(r chi.Router) {
			auth := middleware.SessionAuthMiddleware(d.Config)
			if d.DevAuth {
				logger.Warn("Development session auth enabled (X-Session-ID header accepted)")
				auth = middleware.DevSessionMiddleware(auth)
			}
			r.Use(auth)

			r.Get("/", d.Sessions.GetSession)
			r.Delete("/", d.Sessions.CloseSession)

			r.Route("/phases/{phase_id}/tasks/{task_id}", func(r chi.Router) {
				r.Post("/toggle", d.Sessions.ToggleTask)
				r.Put("/note", d.Sessions.SetNote)
				r.Post("/photos", d.Sessions.AddPhoto)
				r.Delete("/photos/{index}", d.Sessions.RemovePhoto)
				r.Put("/priority", d.Sessions.SetPriority)
			})

			r.Put("/profile", d.Sessions.SwitchProfile)
			r.Patch("/profile", d.Sessions.PatchProfile)
			r.Get("/history", d.Sessions.GetHistory)
			r.Post("/submit", d.Sessions.Submit)
			r.Get("/report", d.Sessions.GetReport)
		})
	})

	r.Get("/health", healthCheck(d.DB))
	return r
}

// healthCheck は DB への ping で稼働確認します。
func healthCheck(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.GetLogger(r.Context())
		if db == nil {
			http.Error(w, "Health check failed", http.StatusServiceUnavailable)
			return
		}
		sqlDB, err := db.DB()
		if err != nil {
			logger.Error("Health check failed: could not get DB object", slog.Any("error", err))
			http.Error(w, "Health check failed", http.StatusInternalServerError)
			return
		}
		if err := sqlDB.PingContext(r.Context()); err != nil {
			logger.Error("Health check failed: could not ping DB", slog.Any("error", err))
			http.Error(w, "Health check failed", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}
}
