//go:generate mockery --name Notifier --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"fmt"
	"log/slog"

	"efi_checklist/internal/config"
	"efi_checklist/internal/middleware"
)

// CompletionTitle is the title of the 100% completion notification.
const CompletionTitle = "¡Formación Completada!"

// CompletionBody is the body of the 100% completion notification for week.
func CompletionBody(week int) string {
	return fmt.Sprintf("Has completado el %d%% de las tareas de la semana %d. ¡Excelente trabajo!", 100, week)
}

// Notifier delivers the completion notification of one catalyst.
type Notifier interface {
	Notify(ctx context.Context, catalystID, title, body string) error
}

// --- LogNotifier ---
type LogNotifier struct{}

func (n *LogNotifier) Notify(ctx context.Context, catalystID, title, body string) error {
	logger := middleware.GetLogger(ctx)
	logger.Info("--- Sending Notification (LogNotifier) ---", "catalyst_id", catalystID, "title", title, "body", body)
	return nil
}

// --- NewNotifier ファクトリ関数 ---
func NewNotifier(cfg *config.Config) Notifier {
	logger := slog.Default()
	switch cfg.Notifier.Type {
	case "ses":
		logger.Info("Initializing SES notifier...")
		return NewSESNotifier(cfg)
	case "log":
		logger.Info("Initializing Log notifier...")
		return &LogNotifier{}
	default:
		logger.Warn("Unknown notifier type, defaulting to LogNotifier", "type", cfg.Notifier.Type)
		return &LogNotifier{}
	}
}
