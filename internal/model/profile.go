// internal/model/profile.go
package model

import (
	"time"

	"gorm.io/datatypes"
)

// Profile は catalizador ID ごとに永続化されるレコードです。
// 各フィールドは独立して読み書きされます (stats/history は JSON blob)。
type Profile struct {
	ProfileID            string         `gorm:"primaryKey;size:128" json:"catalystId"`
	DisplayName          string         `gorm:"size:255" json:"catalystName"`
	AvatarURL            string         `gorm:"type:text" json:"avatarUrl,omitempty"`
	NotificationsEnabled bool           `gorm:"not null;default:false" json:"notificationsEnabled"`
	Stats                datatypes.JSON `json:"-"`
	History              datatypes.JSON `json:"-"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

// ProfileState is everything Load returns for one catalyst.
type ProfileState struct {
	ProfileID            string               `json:"catalystId"`
	DisplayName          string               `json:"catalystName"`
	NotificationsEnabled bool                 `json:"notificationsEnabled"`
	Stats                UserStats            `json:"stats"`
	History              []WeeklyHistoryEntry `json:"history"`
}
