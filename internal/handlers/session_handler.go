// internal/handlers/session_handler.go
package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"efi_checklist/internal/middleware"
	"efi_checklist/internal/model"
	"efi_checklist/internal/service"
	"efi_checklist/internal/webutil"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type SessionHandler struct {
	service service.ChecklistService
	logger  *slog.Logger
}

func NewSessionHandler(s service.ChecklistService, logger *slog.Logger) *SessionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionHandler{service: s, logger: logger}
}

// sessionScope はコンテキストからセッションIDを取り出し、ロガーに付与します。
// 失敗時はレスポンスを書き込み ok=false を返します。
func (h *SessionHandler) sessionScope(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, *slog.Logger, bool) {
	logger := h.logger.With(slog.String("handler", name))
	sessionID, err := middleware.GetSessionIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return uuid.Nil, nil, false
	}
	return sessionID, logger.With(slog.String("session_id", sessionID.String())), true
}

func taskParams(r *http.Request) (phaseID, taskID string) {
	return chi.URLParam(r, "phase_id"), chi.URLParam(r, "task_id")
}

// CreateSession は新しいチェックリストセッションを開きます (認証不要)。
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "CreateSession"))

	res, err := h.service.CreateSession(r.Context())
	if err != nil {
		logger.Error("Error creating session", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Session created", slog.String("session_id", res.SessionID.String()))
	webutil.RespondWithJSON(w, http.StatusCreated, res, logger)
}

func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID, logger, ok := h.sessionScope(w, r, "GetSession")
	if !ok {
		return
	}

	view, err := h.service.GetSession(r.Context(), sessionID)
	if err != nil {
		logger.Warn("Error getting session", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, view, logger)
}

func (h *SessionHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	sessionID, logger, ok := h.sessionScope(w, r, "CloseSession")
	if !ok {
		return
	}

	if err := h.service.CloseSession(r.Context(), sessionID); err != nil {
		logger.Warn("Error closing session", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	sessionID, logger, ok := h.sessionScope(w, r, "ToggleTask")
	if !ok {
		return
	}
	phaseID, taskID := taskParams(r)

	res, err := h.service.ToggleTask(r.Context(), sessionID, phaseID, taskID)
	if err != nil {
		logger.Warn("Error toggling task", slog.String("phase_id", phaseID), slog.String("task_id", taskID), slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	if res.FullCompletion {
		logger.Info("Checklist reached 100%", slog.Int("points_awarded", res.PointsAwarded))
	}
	webutil.RespondWithJSON(w, http.StatusOK, res, logger)
}

func (h *SessionHandler) SetNote(w http.ResponseWriter, r *http.Request) {
	sessionID, logger, ok := h.sessionScope(w, r, "SetNote")
	if !ok {
		return
	}
	var req model.SetNoteRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		logger.Warn("Invalid request body", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	phaseID, taskID := taskParams(r)

	view, err := h.service.SetNote(r.Context(), sessionID, phaseID, taskID, req.Notes)
	h.respondView(w, logger, view, err)
}

func (h *SessionHandler) AddPhoto(w http.ResponseWriter, r *http.Request) {
	sessionID, logger, ok := h.sessionScope(w, r, "AddPhoto")
	if !ok {
		return
	}
	var req model.AddPhotoRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		logger.Warn("Invalid request body", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	phaseID, taskID := taskParams(r)

	view, err := h.service.AddPhoto(r.Context(), sessionID, phaseID, taskID, req.Photo)
	h.respondView(w, logger, view, err)
}

func (h *SessionHandler) RemovePhoto(w http.ResponseWriter, r *http.Request) {
	sessionID, logger, ok := h.sessionScope(w, r, "RemovePhoto")
	if !ok {
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		logger.Warn("Invalid photo index", slog.String("index", chi.URLParam(r, "index")))
		webutil.HandleError(w, logger, model.NewAppError("INVALID_PHOTO_INDEX", "Índice de foto inválido.", "index", model.ErrInvalidInput))
		return
	}
	phaseID, taskID := taskParams(r)

	view, err := h.service.RemovePhoto(r.Context(), sessionID, phaseID, taskID, index)
	h.respondView(w, logger, view, err)
}

func (h *SessionHandler) SetPriority(w http.ResponseWriter, r *http.Request) {
	sessionID, logger, ok := h.sessionScope(w, r, "SetPriority")
	if !ok {
		return
	}
	var req model.SetPriorityRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		logger.Warn("Invalid request body", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	phaseID, taskID := taskParams(r)

	view, err := h.service.SetPriority(r.Context(), sessionID, phaseID, taskID, req.Priority)
	h.respondView(w, logger, view, err)
}

// SwitchProfile は catalizador ID を切り替え、そのプロフィールを読み込みます。
func (h *SessionHandler) SwitchProfile(w http.ResponseWriter, r *http.Request) {
	sessionID, logger, ok := h.sessionScope(w, r, "SwitchProfile")
	if !ok {
		return
	}
	var req model.SwitchProfileRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		logger.Warn("Invalid request body", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	view, err := h.service.SwitchProfile(r.Context(), sessionID, req.CatalystID)
	h.respondView(w, logger, view, err)
}

func (h *SessionHandler) PatchProfile(w http.ResponseWriter, r *http.Request) {
	sessionID, logger, ok := h.sessionScope(w, r, "PatchProfile")
	if !ok {
		return
	}
	var req model.PatchProfileRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		logger.Warn("Invalid request body", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	view, err := h.service.PatchProfile(r.Context(), sessionID, &req)
	h.respondView(w, logger, view, err)
}

func (h *SessionHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	sessionID, logger, ok := h.sessionScope(w, r, "GetHistory")
	if !ok {
		return
	}

	history, err := h.service.History(r.Context(), sessionID)
	if err != nil {
		logger.Warn("Error getting history", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	if history == nil {
		history = []model.WeeklyHistoryEntry{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, history, logger)
}

func (h *SessionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sessionID, logger, ok := h.sessionScope(w, r, "Submit")
	if !ok {
		return
	}

	result, err := h.service.Submit(r.Context(), sessionID)
	if err != nil {
		logger.Warn("Session submission failed", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Session submitted", slog.String("path", result.Path))
	webutil.RespondWithJSON(w, http.StatusOK, result, logger)
}

func (h *SessionHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	sessionID, logger, ok := h.sessionScope(w, r, "GetReport")
	if !ok {
		return
	}

	fileName, body, err := h.service.Report(r.Context(), sessionID)
	if err != nil {
		logger.Error("Error building report", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	writeAttachment(w, fileName, body)
}

func (h *SessionHandler) respondView(w http.ResponseWriter, logger *slog.Logger, view *model.SessionView, err error) {
	if err != nil {
		logger.Warn("Session update failed", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, view, logger)
}
