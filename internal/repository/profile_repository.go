//go:generate mockery --name ProfileStore --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"efi_checklist/internal/middleware"
	"efi_checklist/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileStore はプロフィールの各フィールドを独立して読み書きします。
// 値が存在しない場合 Get 系は model.ErrNotFound を、
// JSON が壊れている場合は model.ErrCorruptRecord を返します。
type ProfileStore interface {
	GetStats(ctx context.Context, db *gorm.DB, profileID string) (*model.UserStats, error)
	SetStats(ctx context.Context, db *gorm.DB, profileID string, stats model.UserStats) error
	GetHistory(ctx context.Context, db *gorm.DB, profileID string) ([]model.WeeklyHistoryEntry, error)
	SetHistory(ctx context.Context, db *gorm.DB, profileID string, history []model.WeeklyHistoryEntry) error
	GetAvatar(ctx context.Context, db *gorm.DB, profileID string) (string, error)
	SetAvatar(ctx context.Context, db *gorm.DB, profileID string, avatarURL string) error
	GetNotifications(ctx context.Context, db *gorm.DB, profileID string) (bool, error)
	SetNotifications(ctx context.Context, db *gorm.DB, profileID string, enabled bool) error
	GetDisplayName(ctx context.Context, db *gorm.DB, profileID string) (string, error)
	SetDisplayName(ctx context.Context, db *gorm.DB, profileID string, name string) error
}

type gormProfileStore struct{}

func NewGormProfileStore() ProfileStore {
	return &gormProfileStore{}
}

func (r *gormProfileStore) GetStats(ctx context.Context, db *gorm.DB, profileID string) (*model.UserStats, error) {
	p, err := r.findColumn(ctx, db, profileID, "stats")
	if err != nil {
		return nil, err
	}
	if len(p.Stats) == 0 {
		return nil, model.ErrNotFound
	}
	var stats model.UserStats
	if err := json.Unmarshal(p.Stats, &stats); err != nil {
		middleware.GetLogger(ctx).Warn("Stats blob could not be parsed", "profile_id", profileID, "error", err)
		return nil, fmt.Errorf("gormProfileStore.GetStats: %w: %v", model.ErrCorruptRecord, err)
	}
	return &stats, nil
}

func (r *gormProfileStore) SetStats(ctx context.Context, db *gorm.DB, profileID string, stats model.UserStats) error {
	blob, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("gormProfileStore.SetStats: %w", err)
	}
	return r.upsertColumn(ctx, db, &model.Profile{ProfileID: profileID, Stats: datatypes.JSON(blob)}, "stats")
}

func (r *gormProfileStore) GetHistory(ctx context.Context, db *gorm.DB, profileID string) ([]model.WeeklyHistoryEntry, error) {
	p, err := r.findColumn(ctx, db, profileID, "history")
	if err != nil {
		return nil, err
	}
	if len(p.History) == 0 {
		return nil, model.ErrNotFound
	}
	var history []model.WeeklyHistoryEntry
	if err := json.Unmarshal(p.History, &history); err != nil {
		middleware.GetLogger(ctx).Warn("History blob could not be parsed", "profile_id", profileID, "error", err)
		return nil, fmt.Errorf("gormProfileStore.GetHistory: %w: %v", model.ErrCorruptRecord, err)
	}
	return history, nil
}

func (r *gormProfileStore) SetHistory(ctx context.Context, db *gorm.DB, profileID string, history []model.WeeklyHistoryEntry) error {
	if history == nil {
		history = []model.WeeklyHistoryEntry{}
	}
	blob, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("gormProfileStore.SetHistory: %w", err)
	}
	return r.upsertColumn(ctx, db, &model.Profile{ProfileID: profileID, History: datatypes.JSON(blob)}, "history")
}

func (r *gormProfileStore) GetAvatar(ctx context.Context, db *gorm.DB, profileID string) (string, error) {
	p, err := r.findColumn(ctx, db, profileID, "avatar_url")
	if err != nil {
		return "", err
	}
	if p.AvatarURL == "" {
		return "", model.ErrNotFound
	}
	return p.AvatarURL, nil
}

func (r *gormProfileStore) SetAvatar(ctx context.Context, db *gorm.DB, profileID string, avatarURL string) error {
	return r.upsertColumn(ctx, db, &model.Profile{ProfileID: profileID, AvatarURL: avatarURL}, "avatar_url")
}

func (r *gormProfileStore) GetNotifications(ctx context.Context, db *gorm.DB, profileID string) (bool, error) {
	p, err := r.findColumn(ctx, db, profileID, "notifications_enabled")
	if err != nil {
		return false, err
	}
	return p.NotificationsEnabled, nil
}

func (r *gormProfileStore) SetNotifications(ctx context.Context, db *gorm.DB, profileID string, enabled bool) error {
	return r.upsertColumn(ctx, db, &model.Profile{ProfileID: profileID, NotificationsEnabled: enabled}, "notifications_enabled")
}

func (r *gormProfileStore) GetDisplayName(ctx context.Context, db *gorm.DB, profileID string) (string, error) {
	p, err := r.findColumn(ctx, db, profileID, "display_name")
	if err != nil {
		return "", err
	}
	if p.DisplayName == "" {
		return "", model.ErrNotFound
	}
	return p.DisplayName, nil
}

func (r *gormProfileStore) SetDisplayName(ctx context.Context, db *gorm.DB, profileID string, name string) error {
	return r.upsertColumn(ctx, db, &model.Profile{ProfileID: profileID, DisplayName: name}, "display_name")
}

// findColumn は1カラムだけを読み込みます。
func (r *gormProfileStore) findColumn(ctx context.Context, db *gorm.DB, profileID, column string) (*model.Profile, error) {
	logger := middleware.GetLogger(ctx)
	var p model.Profile

	result := db.WithContext(ctx).Select("profile_id", column).Where("profile_id = ?", profileID).First(&p)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			logger.Debug("Profile not found", "profile_id", profileID, "column", column)
			return nil, model.ErrNotFound
		}
		logger.Error(
			"Error reading profile column in DB",
			"error", result.Error,
			"profile_id", profileID,
			"column", column,
		)
		return nil, fmt.Errorf("gormProfileStore.find(%s): %w", column, result.Error)
	}
	return &p, nil
}

// upsertColumn はレコードが無ければ作成し、あれば指定カラムだけを更新します。
func (r *gormProfileStore) upsertColumn(ctx context.Context, db *gorm.DB, p *model.Profile, column string) error {
	logger := middleware.GetLogger(ctx)

	result := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "profile_id"}},
		DoUpdates: clause.AssignmentColumns([]string{column, "updated_at"}),
	}).Create(p)
	if result.Error != nil {
		logger.Error(
			"Error writing profile column in DB",
			"error", result.Error,
			"profile_id", p.ProfileID,
			"column", column,
		)
		return fmt.Errorf("gormProfileStore.upsert(%s): %w", column, result.Error)
	}
	return nil
}
