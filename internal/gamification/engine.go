// Package gamification derives streaks, points and achievement unlocks from
// checklist completion events.
package gamification

import (
	"time"

	"efi_checklist/internal/model"
)

const (
	// TaskPoints is awarded for every incomplete→complete toggle.
	TaskPoints = 10
	// CompletionBasePoints is awarded on every 100% event, plus StreakBonusPoints per streak week.
	CompletionBasePoints = 100
	StreakBonusPoints    = 10

	// StreakGapDays is the largest gap between completions that keeps a streak alive.
	StreakGapDays = 7

	EarlyBirdHour      = 10
	SpeedsterThreshold = 30 * time.Minute

	Streak3Threshold       = 3
	Streak5Threshold       = 5
	PerfectionistThreshold = 5
)

// Engine は 100% 達成時のルールを評価します。状態は持ちません。
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// DefaultStats returns zeroed stats with every achievement locked.
func DefaultStats() model.UserStats {
	return model.UserStats{
		Achievements: model.DefaultAchievements(),
	}
}

// AwardTaskPoints adds the flat per-task bonus.
func (e *Engine) AwardTaskPoints(stats model.UserStats) model.UserStats {
	out := stats.Clone()
	out.TotalPoints += TaskPoints
	return out
}

// OnFullCompletion applies the completion rules in order and returns the updated
// stats plus the achievements unlocked by this event, in rule order.
// The input stats are not modified.
//
//  1. first        unconditional
//  2. earlybird    now.Hour() < 10
//  3. speedster    elapsed < 30m
//  4. streak/points update
//  5. streak3      currentStreak >= 3
//  6. streak5      currentStreak >= 5
//  7. perfectionist weeklyCompletions >= 5
func (e *Engine) OnFullCompletion(stats model.UserStats, now time.Time, elapsed time.Duration) (model.UserStats, []model.Achievement) {
	out := stats.Clone()
	ensureAchievements(&out)

	var unlocked []model.Achievement
	unlock := func(id string, cond bool) {
		if !cond {
			return
		}
		if a, ok := tryUnlock(&out, id, now); ok {
			unlocked = append(unlocked, a)
		}
	}

	unlock(model.AchievementFirst, true)
	unlock(model.AchievementEarlyBird, now.Hour() < EarlyBirdHour)
	unlock(model.AchievementSpeedster, elapsed < SpeedsterThreshold)

	if withinStreakGap(out.LastCompletionDate, now) {
		out.CurrentStreak++
	} else {
		out.CurrentStreak = 1
	}
	if out.CurrentStreak > out.LongestStreak {
		out.LongestStreak = out.CurrentStreak
	}
	last := now
	out.LastCompletionDate = &last
	out.WeeklyCompletions++
	out.TotalPoints += CompletionBasePoints + out.CurrentStreak*StreakBonusPoints

	unlock(model.AchievementStreak3, out.CurrentStreak >= Streak3Threshold)
	unlock(model.AchievementStreak5, out.CurrentStreak >= Streak5Threshold)
	unlock(model.AchievementPerfectionist, out.WeeklyCompletions >= PerfectionistThreshold)

	return out, unlocked
}

// FirstUnlocked returns the achievement surfaced to the user, if any.
// Simultaneous unlocks only surface the first one.
func FirstUnlocked(unlocked []model.Achievement) *model.Achievement {
	if len(unlocked) == 0 {
		return nil
	}
	a := unlocked[0]
	return &a
}

// withinStreakGap reports whether floor(days since last) <= 7. A missing last date
// counts as an unbounded gap.
func withinStreakGap(last *time.Time, now time.Time) bool {
	if last == nil {
		return false
	}
	days := int(now.Sub(*last) / (24 * time.Hour))
	return days <= StreakGapDays
}

func tryUnlock(stats *model.UserStats, id string, now time.Time) (model.Achievement, bool) {
	for i := range stats.Achievements {
		a := &stats.Achievements[i]
		if a.ID != id {
			continue
		}
		if a.Unlocked {
			return model.Achievement{}, false
		}
		at := now
		a.Unlocked = true
		a.UnlockedAt = &at
		return *a, true
	}
	return model.Achievement{}, false
}

// ensureAchievements adds any definition missing from persisted stats, so older
// records still get every achievement.
func ensureAchievements(stats *model.UserStats) {
	have := make(map[string]bool, len(stats.Achievements))
	for _, a := range stats.Achievements {
		have[a.ID] = true
	}
	for _, def := range model.DefaultAchievements() {
		if !have[def.ID] {
			stats.Achievements = append(stats.Achievements, def)
		}
	}
}
