// internal/model/stats.go
package model

import "time"

// Achievement IDs
const (
	AchievementFirst         = "first"
	AchievementPerfectionist = "perfectionist"
	AchievementStreak3       = "streak3"
	AchievementStreak5       = "streak5"
	AchievementSpeedster     = "speedster"
	AchievementEarlyBird     = "earlybird"
)

// Achievement is a badge. Unlock is monotonic.
type Achievement struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Unlocked    bool       `json:"unlocked"`
	UnlockedAt  *time.Time `json:"unlockedAt,omitempty"`
}

// DefaultAchievements returns the six achievement definitions, all locked.
func DefaultAchievements() []Achievement {
	return []Achievement{
		{ID: AchievementFirst, Title: "Primera Vez", Description: "Completa tu primer checklist", Icon: "🎯"},
		{ID: AchievementPerfectionist, Title: "Perfeccionista", Description: "Completa 5 semanas al 100%", Icon: "💎"},
		{ID: AchievementStreak3, Title: "En Racha", Description: "3 semanas consecutivas completadas", Icon: "🔥"},
		{ID: AchievementStreak5, Title: "Imparable", Description: "5 semanas consecutivas completadas", Icon: "⚡"},
		{ID: AchievementSpeedster, Title: "Velocista", Description: "Completa todo en menos de 30 minutos", Icon: "🚀"},
		{ID: AchievementEarlyBird, Title: "Madrugador", Description: "Completa antes de las 10am", Icon: "🌅"},
	}
}

// UserStats はプロフィールごとのゲーミフィケーション統計です。
type UserStats struct {
	CurrentStreak      int           `json:"currentStreak"`
	LongestStreak      int           `json:"longestStreak"`
	TotalPoints        int           `json:"totalPoints"`
	WeeklyCompletions  int           `json:"weeklyCompletions"`
	LastCompletionDate *time.Time    `json:"lastCompletionDate,omitempty"`
	Achievements       []Achievement `json:"achievements"`
	AvatarURL          string        `json:"avatarUrl,omitempty"`
}

// Clone returns a deep copy so callers can mutate freely.
func (s UserStats) Clone() UserStats {
	out := s
	out.Achievements = make([]Achievement, len(s.Achievements))
	copy(out.Achievements, s.Achievements)
	for i := range out.Achievements {
		if at := out.Achievements[i].UnlockedAt; at != nil {
			v := *at
			out.Achievements[i].UnlockedAt = &v
		}
	}
	if s.LastCompletionDate != nil {
		v := *s.LastCompletionDate
		out.LastCompletionDate = &v
	}
	return out
}

// WeeklyHistoryEntry records a 100% completion for an ISO week.
type WeeklyHistoryEntry struct {
	Week           int       `json:"week"`
	Percentage     int       `json:"percentage"`
	CompletedTasks int       `json:"completedTasks"`
	Date           time.Time `json:"date"`
}
