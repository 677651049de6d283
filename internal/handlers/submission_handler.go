// internal/handlers/submission_handler.go
package handlers

import (
	"log/slog"
	"net/http"

	"efi_checklist/internal/model"
	"efi_checklist/internal/service"
	"efi_checklist/internal/webutil"
)

// SubmissionHandler は POST /api/save-checklist を扱います。
// エラーはフラットな {"error": "..."} 形式で返します。
type SubmissionHandler struct {
	service service.SubmissionService
	logger  *slog.Logger
}

func NewSubmissionHandler(s service.SubmissionService, logger *slog.Logger) *SubmissionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SubmissionHandler{service: s, logger: logger}
}

func (h *SubmissionHandler) SaveChecklist(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "SaveChecklist"))

	var snapshot model.Snapshot
	if err := webutil.DecodeLenientAndValidate(r, &snapshot); err != nil {
		logger.Warn("Invalid checklist snapshot", slog.Any("error", err))
		webutil.RespondWithSubmitError(w, logger, err)
		return
	}
	logger = logger.With(slog.String("catalyst_id", snapshot.CatalystID))

	result, err := h.service.Submit(r.Context(), &snapshot)
	if err != nil {
		logger.Error("Checklist submission failed", slog.Any("error", err))
		webutil.RespondWithSubmitError(w, logger, err)
		return
	}

	logger.Info("Checklist submitted", slog.String("path", result.Path))
	webutil.RespondWithJSON(w, http.StatusOK, result, logger)
}
