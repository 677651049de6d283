// internal/model/session.go
package model

import (
	"time"

	"github.com/google/uuid"
)

type ContextKey string

const (
	SessionIDKey ContextKey = "sessionID"
)

// SessionView はセッションの現在の状態を返すレスポンスです。
type SessionView struct {
	SessionID            uuid.UUID        `json:"sessionId"`
	StartedAt            time.Time        `json:"startedAt"`
	CurrentWeek          int              `json:"currentWeek"`
	CatalystID           string           `json:"catalystId"`
	CatalystName         string           `json:"catalystName"`
	ProfileLoaded        bool             `json:"profileLoaded"`
	NotificationsEnabled bool             `json:"notificationsEnabled"`
	ProgressPercentage   int              `json:"progressPercentage"`
	CompletedTasks       int              `json:"completedTasks"`
	TotalTasks           int              `json:"totalTasks"`
	Phases               []Phase          `json:"phases"`
	ElapsedSeconds       map[string]int64 `json:"elapsedSeconds"`
	Stats                UserStats        `json:"stats"`
}

// CreateSessionResponse is returned when a session is opened.
type CreateSessionResponse struct {
	SessionID   uuid.UUID    `json:"sessionId"`
	AccessToken string       `json:"accessToken"`
	ExpiresAt   time.Time    `json:"expiresAt"`
	Session     *SessionView `json:"session"`
}

// ToggleResponse reports the outcome of a task toggle.
type ToggleResponse struct {
	Session        *SessionView `json:"session"`
	PointsAwarded  int          `json:"pointsAwarded"`
	FullCompletion bool         `json:"fullCompletion"`
	NewAchievement *Achievement `json:"newAchievement,omitempty"`
}

// --- リクエストDTO ---

type SetNoteRequest struct {
	Notes string `json:"notes" validate:"max=2000"`
}

type AddPhotoRequest struct {
	Photo string `json:"photo" validate:"required,startswith=data:image/"`
}

type SetPriorityRequest struct {
	Priority Priority `json:"priority" validate:"required,oneof=low medium high"`
}

type SwitchProfileRequest struct {
	CatalystID string `json:"catalystId" validate:"max=128"`
}

// PatchProfileRequest only updates the fields that are present.
type PatchProfileRequest struct {
	CatalystName         *string `json:"catalystName,omitempty" validate:"omitempty,max=255"`
	AvatarURL            *string `json:"avatarUrl,omitempty" validate:"omitempty,startswith=data:image/"`
	NotificationsEnabled *bool   `json:"notificationsEnabled,omitempty"`
}
