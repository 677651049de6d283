// Package profile keeps one catalyst's persisted profile in step with the session
// that is using it.
//
// A profile switch closes the save gate, reads every field of the new profile and
// only then reopens the gate, so values that belong to one catalyst are never
// written under another catalyst's id.
package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"efi_checklist/internal/gamification"
	"efi_checklist/internal/middleware"
	"efi_checklist/internal/model"
	"efi_checklist/internal/repository"

	"gorm.io/gorm"
)

// ErrSwitched is returned by Load and Finish when another switch started before it finished.
var ErrSwitched = errors.New("profile switched while loading")

type Adapter struct {
	db    *gorm.DB
	store repository.ProfileStore

	mu         sync.Mutex
	generation uint64
	activeID   string
	loaded     bool
}

func NewAdapter(db *gorm.DB, store repository.ProfileStore) *Adapter {
	return &Adapter{db: db, store: store}
}

// DefaultState is the state of a catalyst that has never been saved.
func DefaultState(profileID string) *model.ProfileState {
	return &model.ProfileState{
		ProfileID: profileID,
		Stats:     gamification.DefaultStats(),
		History:   []model.WeeklyHistoryEntry{},
	}
}

// Ticket identifies one switch started by Begin.
type Ticket struct {
	ProfileID string
	gen       uint64
}

// Load makes profileID the active profile and reads its fields.
// An empty id leaves the adapter with no active profile and returns defaults.
func (a *Adapter) Load(ctx context.Context, profileID string) (*model.ProfileState, error) {
	return a.Finish(ctx, a.Begin(profileID))
}

// Begin makes profileID the active profile and closes the save gate.
// Callers that order switches under their own lock call Begin inside it,
// so the last Begin is the one whose Finish wins.
func (a *Adapter) Begin(profileID string) Ticket {
	profileID = strings.TrimSpace(profileID)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.generation++
	a.activeID = profileID
	a.loaded = false
	return Ticket{ProfileID: profileID, gen: a.generation}
}

// Finish reads the profile of t and reopens the save gate, unless a newer
// Begin happened meanwhile, in which case it returns ErrSwitched.
func (a *Adapter) Finish(ctx context.Context, t Ticket) (*model.ProfileState, error) {
	logger := middleware.GetLogger(ctx)

	if t.ProfileID == "" {
		return DefaultState(""), nil
	}

	state, err := a.read(ctx, t.ProfileID)
	if err != nil {
		logger.Error("Failed to load profile", "profile_id", t.ProfileID, "error", err)
		return nil, fmt.Errorf("profile.Load: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.generation != t.gen {
		logger.Info("Profile load superseded by a newer switch", "profile_id", t.ProfileID)
		return nil, ErrSwitched
	}
	a.loaded = true

	logger.Info("Profile loaded", "profile_id", t.ProfileID)
	return state, nil
}

// Active returns the active profile id and whether its load has completed.
func (a *Adapter) Active() (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.activeID, a.loaded
}

func (a *Adapter) SaveStats(ctx context.Context, profileID string, stats model.UserStats) error {
	return a.save(ctx, profileID, "stats", func(db *gorm.DB) error {
		return a.store.SetStats(ctx, db, profileID, stats)
	})
}

func (a *Adapter) SaveHistory(ctx context.Context, profileID string, history []model.WeeklyHistoryEntry) error {
	return a.save(ctx, profileID, "history", func(db *gorm.DB) error {
		return a.store.SetHistory(ctx, db, profileID, history)
	})
}

// SaveAvatar ignores an empty avatar; a profile never loses its picture through a save.
func (a *Adapter) SaveAvatar(ctx context.Context, profileID string, avatarURL string) error {
	if avatarURL == "" {
		return nil
	}
	return a.save(ctx, profileID, "avatar", func(db *gorm.DB) error {
		return a.store.SetAvatar(ctx, db, profileID, avatarURL)
	})
}

func (a *Adapter) SaveNotifications(ctx context.Context, profileID string, enabled bool) error {
	return a.save(ctx, profileID, "notifications", func(db *gorm.DB) error {
		return a.store.SetNotifications(ctx, db, profileID, enabled)
	})
}

func (a *Adapter) SaveDisplayName(ctx context.Context, profileID string, name string) error {
	return a.save(ctx, profileID, "display_name", func(db *gorm.DB) error {
		return a.store.SetDisplayName(ctx, db, profileID, name)
	})
}

// save runs write only while profileID is the active, fully loaded profile.
// The lock is held across the write so a concurrent Load cannot retarget it.
func (a *Adapter) save(ctx context.Context, profileID, field string, write func(db *gorm.DB) error) error {
	logger := middleware.GetLogger(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.loaded || a.activeID != profileID || profileID == "" {
		logger.Debug("Profile save skipped; profile not loaded",
			"field", field,
			"profile_id", profileID,
			"active_id", a.activeID,
			"loaded", a.loaded,
		)
		return nil
	}

	if err := write(a.db); err != nil {
		logger.Error("Failed to save profile field", "field", field, "profile_id", profileID, "error", err)
		return fmt.Errorf("profile.save(%s): %w", field, err)
	}
	return nil
}

// read collects every field, falling back to defaults for absent or corrupt values.
func (a *Adapter) read(ctx context.Context, profileID string) (*model.ProfileState, error) {
	logger := middleware.GetLogger(ctx)
	state := DefaultState(profileID)

	stats, err := a.store.GetStats(ctx, a.db, profileID)
	switch {
	case err == nil:
		state.Stats = *stats
	case errors.Is(err, model.ErrCorruptRecord):
		logger.Warn("Corrupt stats record reset to defaults", "profile_id", profileID, "error", err)
	case !errors.Is(err, model.ErrNotFound):
		return nil, err
	}
	if len(state.Stats.Achievements) == 0 {
		state.Stats.Achievements = model.DefaultAchievements()
	}

	avatar, err := a.store.GetAvatar(ctx, a.db, profileID)
	switch {
	case err == nil:
		state.Stats.AvatarURL = avatar
	case !errors.Is(err, model.ErrNotFound):
		return nil, err
	}

	history, err := a.store.GetHistory(ctx, a.db, profileID)
	switch {
	case err == nil:
		state.History = history
	case errors.Is(err, model.ErrCorruptRecord):
		logger.Warn("Corrupt history record reset to defaults", "profile_id", profileID, "error", err)
	case !errors.Is(err, model.ErrNotFound):
		return nil, err
	}
	if state.History == nil {
		state.History = []model.WeeklyHistoryEntry{}
	}

	enabled, err := a.store.GetNotifications(ctx, a.db, profileID)
	switch {
	case err == nil:
		state.NotificationsEnabled = enabled
	case !errors.Is(err, model.ErrNotFound):
		return nil, err
	}

	name, err := a.store.GetDisplayName(ctx, a.db, profileID)
	switch {
	case err == nil:
		state.DisplayName = name
	case !errors.Is(err, model.ErrNotFound):
		return nil, err
	}

	return state, nil
}
