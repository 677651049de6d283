//go:generate mockery --name ChecklistService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"efi_checklist/internal/checklist"
	"efi_checklist/internal/config"
	"efi_checklist/internal/gamification"
	"efi_checklist/internal/middleware"
	"efi_checklist/internal/model"
	"efi_checklist/internal/profile"
	"efi_checklist/internal/report"
	"efi_checklist/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChecklistService hosts one checklist per session.
type ChecklistService interface {
	CreateSession(ctx context.Context) (*model.CreateSessionResponse, error)
	GetSession(ctx context.Context, sessionID uuid.UUID) (*model.SessionView, error)
	CloseSession(ctx context.Context, sessionID uuid.UUID) error
	ToggleTask(ctx context.Context, sessionID uuid.UUID, phaseID, taskID string) (*model.ToggleResponse, error)
	SetNote(ctx context.Context, sessionID uuid.UUID, phaseID, taskID, notes string) (*model.SessionView, error)
	AddPhoto(ctx context.Context, sessionID uuid.UUID, phaseID, taskID, photo string) (*model.SessionView, error)
	RemovePhoto(ctx context.Context, sessionID uuid.UUID, phaseID, taskID string, index int) (*model.SessionView, error)
	SetPriority(ctx context.Context, sessionID uuid.UUID, phaseID, taskID string, priority model.Priority) (*model.SessionView, error)
	SwitchProfile(ctx context.Context, sessionID uuid.UUID, catalystID string) (*model.SessionView, error)
	PatchProfile(ctx context.Context, sessionID uuid.UUID, req *model.PatchProfileRequest) (*model.SessionView, error)
	History(ctx context.Context, sessionID uuid.UUID) ([]model.WeeklyHistoryEntry, error)
	Submit(ctx context.Context, sessionID uuid.UUID) (*model.SubmitResult, error)
	Report(ctx context.Context, sessionID uuid.UUID) (fileName string, body []byte, err error)
}

// session is the state of one browser tab. mu serializes every mutation.
type session struct {
	mu sync.Mutex

	id        uuid.UUID
	startedAt time.Time
	expiresAt time.Time
	week      int

	store   *checklist.Store
	profile *profile.Adapter

	catalystID           string
	catalystName         string
	profileLoaded        bool
	notificationsEnabled bool
	stats                model.UserStats
	history              []model.WeeklyHistoryEntry
}

type checklistService struct {
	db           *gorm.DB
	profileStore repository.ProfileStore
	submission   SubmissionService
	notifier     Notifier
	tokens       *TokenIssuer
	engine       *gamification.Engine
	catalog      model.Catalog
	clock        func() time.Time
	loc          *time.Location

	mu       sync.RWMutex
	sessions map[uuid.UUID]*session
}

func NewChecklistService(cfg *config.Config, db *gorm.DB, profileStore repository.ProfileStore, submission SubmissionService, notifier Notifier, tokens *TokenIssuer) ChecklistService {
	if notifier == nil {
		notifier = &LogNotifier{}
	}
	return &checklistService{
		db:           db,
		profileStore: profileStore,
		submission:   submission,
		notifier:     notifier,
		tokens:       tokens,
		engine:       gamification.NewEngine(),
		catalog:      model.DefaultCatalog(),
		clock:        time.Now,
		loc:          cfg.Location(),
		sessions:     make(map[uuid.UUID]*session),
	}
}

// now は設定タイムゾーンの現在時刻。早起き判定と ISO 週はこの値で決まる
func (s *checklistService) now() time.Time {
	return s.clock().In(s.loc)
}

var errSessionNotFound = model.NewAppError("SESSION_NOT_FOUND", "Sesión no encontrada o expirada.", "", model.ErrNotFound)

func (s *checklistService) CreateSession(ctx context.Context) (*model.CreateSessionResponse, error) {
	logger := middleware.GetLogger(ctx)
	now := s.now()
	id := uuid.New()

	token, expiresAt, err := s.tokens.Issue(id)
	if err != nil {
		logger.Error("Failed to issue session token", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "No se pudo crear la sesión.", "", err)
	}

	sess := &session{
		id:        id,
		startedAt: now,
		expiresAt: expiresAt,
		week:      gamification.ISOWeek(now),
		store:     checklist.NewStore(s.catalog, s.now),
		profile:   profile.NewAdapter(s.db, s.profileStore),
		stats:     gamification.DefaultStats(),
		history:   []model.WeeklyHistoryEntry{},
	}

	s.mu.Lock()
	s.sweepExpiredLocked(now)
	s.sessions[id] = sess
	count := len(s.sessions)
	s.mu.Unlock()

	logger.Info("Checklist session created", "session_id", id, "week", sess.week, "open_sessions", count)

	sess.mu.Lock()
	view := s.viewLocked(sess)
	sess.mu.Unlock()

	return &model.CreateSessionResponse{
		SessionID:   id,
		AccessToken: token,
		ExpiresAt:   expiresAt,
		Session:     view,
	}, nil
}

func (s *checklistService) GetSession(ctx context.Context, sessionID uuid.UUID) (*model.SessionView, error) {
	sess, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.viewLocked(sess), nil
}

func (s *checklistService) CloseSession(ctx context.Context, sessionID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return errSessionNotFound
	}
	delete(s.sessions, sessionID)
	middleware.GetLogger(ctx).Info("Checklist session closed", "session_id", sessionID)
	return nil
}

// ToggleTask awards the per-task points on completion and, on the transition
// into 100%, runs the completion rules, records the week and notifies.
func (s *checklistService) ToggleTask(ctx context.Context, sessionID uuid.UUID, phaseID, taskID string) (*model.ToggleResponse, error) {
	logger := middleware.GetLogger(ctx)
	sess, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	res, err := sess.store.ToggleTask(phaseID, taskID)
	if err != nil {
		return nil, storeError(err)
	}

	resp := &model.ToggleResponse{}
	before := sess.stats.TotalPoints
	if res.Completed {
		sess.stats = s.engine.AwardTaskPoints(sess.stats)
	}

	if res.BecameFull {
		now := s.now()
		stats, unlocked := s.engine.OnFullCompletion(sess.stats, now, now.Sub(sess.startedAt))
		sess.stats = stats
		resp.FullCompletion = true
		resp.NewAchievement = gamification.FirstUnlocked(unlocked)

		completed, _ := sess.store.Counts()
		sess.history = gamification.UpsertWeek(sess.history, model.WeeklyHistoryEntry{
			Week:           sess.week,
			Percentage:     100,
			CompletedTasks: completed,
			Date:           now,
		})
		logger.Info("Checklist fully completed",
			"session_id", sessionID,
			"catalyst_id", sess.catalystID,
			"week", sess.week,
			"unlocked", len(unlocked),
			"streak", stats.CurrentStreak,
		)

		s.persist(ctx, sess, "history", func() error {
			return sess.profile.SaveHistory(ctx, sess.catalystID, sess.history)
		})
		if sess.notificationsEnabled && sess.catalystID != "" {
			if err := s.notifier.Notify(ctx, sess.catalystID, CompletionTitle, CompletionBody(sess.week)); err != nil {
				logger.Warn("Completion notification failed", "catalyst_id", sess.catalystID, "error", err)
			}
		}
	}

	resp.PointsAwarded = sess.stats.TotalPoints - before
	if resp.PointsAwarded != 0 {
		s.persist(ctx, sess, "stats", func() error {
			return sess.profile.SaveStats(ctx, sess.catalystID, sess.stats)
		})
	}

	resp.Session = s.viewLocked(sess)
	return resp, nil
}

func (s *checklistService) SetNote(ctx context.Context, sessionID uuid.UUID, phaseID, taskID, notes string) (*model.SessionView, error) {
	return s.mutate(sessionID, func(sess *session) error {
		return sess.store.SetNote(phaseID, taskID, notes)
	})
}

func (s *checklistService) AddPhoto(ctx context.Context, sessionID uuid.UUID, phaseID, taskID, photo string) (*model.SessionView, error) {
	return s.mutate(sessionID, func(sess *session) error {
		return sess.store.AddPhoto(phaseID, taskID, photo)
	})
}

func (s *checklistService) RemovePhoto(ctx context.Context, sessionID uuid.UUID, phaseID, taskID string, index int) (*model.SessionView, error) {
	return s.mutate(sessionID, func(sess *session) error {
		return sess.store.RemovePhoto(phaseID, taskID, index)
	})
}

func (s *checklistService) SetPriority(ctx context.Context, sessionID uuid.UUID, phaseID, taskID string, priority model.Priority) (*model.SessionView, error) {
	return s.mutate(sessionID, func(sess *session) error {
		return sess.store.SetPriority(phaseID, taskID, priority)
	})
}

// SwitchProfile discards the current profile state, loads catalystID and applies
// it only if no newer switch happened meanwhile. The adapter switch begins under
// the session lock so the order of switches and loads agree; the read itself runs
// without it and saves stay disabled until it completes.
func (s *checklistService) SwitchProfile(ctx context.Context, sessionID uuid.UUID, catalystID string) (*model.SessionView, error) {
	logger := middleware.GetLogger(ctx)
	sess, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}
	catalystID = strings.TrimSpace(catalystID)

	sess.mu.Lock()
	sess.catalystID = catalystID
	sess.profileLoaded = false
	sess.catalystName = ""
	sess.notificationsEnabled = false
	sess.stats = gamification.DefaultStats()
	sess.history = []model.WeeklyHistoryEntry{}
	ticket := sess.profile.Begin(catalystID)
	sess.mu.Unlock()

	state, err := sess.profile.Finish(ctx, ticket)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	switch {
	case errors.Is(err, profile.ErrSwitched):
		logger.Info("Profile switch superseded", "session_id", sessionID, "catalyst_id", catalystID)
		return s.viewLocked(sess), nil
	case err != nil:
		return nil, model.NewAppError("PROFILE_LOAD_FAILED", "No se pudo cargar el perfil.", "catalystId", err)
	}
	if sess.catalystID != catalystID {
		return s.viewLocked(sess), nil
	}

	sess.stats = state.Stats
	sess.history = state.History
	sess.notificationsEnabled = state.NotificationsEnabled
	sess.catalystName = state.DisplayName
	sess.profileLoaded = catalystID != ""

	logger.Info("Profile switched", "session_id", sessionID, "catalyst_id", catalystID)
	return s.viewLocked(sess), nil
}

func (s *checklistService) PatchProfile(ctx context.Context, sessionID uuid.UUID, req *model.PatchProfileRequest) (*model.SessionView, error) {
	sess, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if req.CatalystName != nil {
		sess.catalystName = *req.CatalystName
		s.persist(ctx, sess, "display_name", func() error {
			return sess.profile.SaveDisplayName(ctx, sess.catalystID, sess.catalystName)
		})
	}
	if req.AvatarURL != nil {
		sess.stats.AvatarURL = *req.AvatarURL
		s.persist(ctx, sess, "avatar", func() error {
			return sess.profile.SaveAvatar(ctx, sess.catalystID, sess.stats.AvatarURL)
		})
		s.persist(ctx, sess, "stats", func() error {
			return sess.profile.SaveStats(ctx, sess.catalystID, sess.stats)
		})
	}
	if req.NotificationsEnabled != nil {
		sess.notificationsEnabled = *req.NotificationsEnabled
		s.persist(ctx, sess, "notifications", func() error {
			return sess.profile.SaveNotifications(ctx, sess.catalystID, sess.notificationsEnabled)
		})
	}
	return s.viewLocked(sess), nil
}

func (s *checklistService) History(ctx context.Context, sessionID uuid.UUID) ([]model.WeeklyHistoryEntry, error) {
	sess, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return gamification.RecentWeeks(sess.history, gamification.RecentWeeksLimit), nil
}

// Submit snapshots the session and hands it to the submission pipeline.
// The session lock is released before any remote call.
func (s *checklistService) Submit(ctx context.Context, sessionID uuid.UUID) (*model.SubmitResult, error) {
	sess, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	if strings.TrimSpace(sess.catalystID) == "" {
		sess.mu.Unlock()
		return nil, model.NewAppError("CATALYST_ID_REQUIRED", "ID requerido", "catalystId", model.ErrInvalidInput)
	}
	if strings.TrimSpace(sess.catalystName) == "" {
		sess.mu.Unlock()
		return nil, model.NewAppError("CATALYST_NAME_REQUIRED", "Nombre requerido", "catalystName", model.ErrInvalidInput)
	}
	completed, total := sess.store.Counts()
	snapshot := &model.Snapshot{
		CatalystID:         sess.catalystID,
		CatalystName:       sess.catalystName,
		Date:               s.now().UTC(),
		ProgressPercentage: sess.store.Percentage(),
		CompletedTasks:     completed,
		TotalTasks:         total,
		Phases:             model.SnapshotPhases(sess.store.Phases()),
	}
	sess.mu.Unlock()

	return s.submission.Submit(ctx, snapshot)
}

func (s *checklistService) Report(ctx context.Context, sessionID uuid.UUID) (string, []byte, error) {
	logger := middleware.GetLogger(ctx)
	sess, err := s.get(sessionID)
	if err != nil {
		return "", nil, err
	}

	sess.mu.Lock()
	completed, total := sess.store.Counts()
	data := &model.ReportData{
		CatalystName:       sess.catalystName,
		Date:               s.now(),
		Week:               sess.week,
		ProgressPercentage: sess.store.Percentage(),
		CompletedTasks:     completed,
		TotalTasks:         total,
		Phases:             model.SnapshotPhases(sess.store.Phases()),
		Stats: model.ReportStats{
			CurrentStreak:     sess.stats.CurrentStreak,
			TotalPoints:       sess.stats.TotalPoints,
			WeeklyCompletions: sess.stats.WeeklyCompletions,
		},
	}
	sess.mu.Unlock()

	body, err := report.Render(data)
	if err != nil {
		logger.Error("Failed to render report", "session_id", sessionID, "error", err)
		return "", nil, model.NewAppError("INTERNAL_SERVER_ERROR", "No se pudo generar el reporte.", "", err)
	}
	return report.FileName(data.CatalystName, data.Week), body, nil
}

// --- helpers ---

func (s *checklistService) get(sessionID uuid.UUID) (*session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok || s.now().After(sess.expiresAt) {
		return nil, errSessionNotFound
	}
	return sess, nil
}

func (s *checklistService) sweepExpiredLocked(now time.Time) {
	for id, sess := range s.sessions {
		if now.After(sess.expiresAt) {
			delete(s.sessions, id)
		}
	}
}

func (s *checklistService) mutate(sessionID uuid.UUID, fn func(sess *session) error) (*model.SessionView, error) {
	sess, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := fn(sess); err != nil {
		return nil, storeError(err)
	}
	return s.viewLocked(sess), nil
}

// persist runs a profile write. Failures are logged; the in-memory state stays authoritative.
func (s *checklistService) persist(ctx context.Context, sess *session, field string, save func() error) {
	if err := save(); err != nil {
		middleware.GetLogger(ctx).Error("Profile write failed",
			"session_id", sess.id,
			"catalyst_id", sess.catalystID,
			"field", field,
			"error", err,
		)
	}
}

func (s *checklistService) viewLocked(sess *session) *model.SessionView {
	completed, total := sess.store.Counts()
	return &model.SessionView{
		SessionID:            sess.id,
		StartedAt:            sess.startedAt,
		CurrentWeek:          sess.week,
		CatalystID:           sess.catalystID,
		CatalystName:         sess.catalystName,
		ProfileLoaded:        sess.profileLoaded,
		NotificationsEnabled: sess.notificationsEnabled,
		ProgressPercentage:   sess.store.Percentage(),
		CompletedTasks:       completed,
		TotalTasks:           total,
		Phases:               sess.store.Phases(),
		ElapsedSeconds:       sess.store.Elapsed(s.now()),
		Stats:                sess.stats.Clone(),
	}
}

// storeError gives checklist store errors a client message.
func storeError(err error) error {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return model.NewAppError("TASK_NOT_FOUND", "Fase o tarea no encontrada.", "", err)
	case errors.Is(err, model.ErrInvalidInput):
		return model.NewAppError("INVALID_INPUT", "Valor inválido para la tarea.", "", err)
	default:
		return model.NewAppError("INTERNAL_SERVER_ERROR", "Error interno del servidor.", "", err)
	}
}
