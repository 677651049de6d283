package gamification

import (
	"sort"
	"time"

	"efi_checklist/internal/model"
)

// RecentWeeksLimit is how many weeks the progress chart shows.
const RecentWeeksLimit = 8

// ISOWeek returns the ISO-8601 week number (weeks start on Monday, week 1 holds
// the year's first Thursday).
func ISOWeek(t time.Time) int {
	_, week := t.ISOWeek()
	return week
}

// UpsertWeek returns a new history with entry stored under its week, replacing any
// earlier entry of the same week. The result is sorted by week.
func UpsertWeek(history []model.WeeklyHistoryEntry, entry model.WeeklyHistoryEntry) []model.WeeklyHistoryEntry {
	out := make([]model.WeeklyHistoryEntry, 0, len(history)+1)
	for _, h := range history {
		if h.Week != entry.Week {
			out = append(out, h)
		}
	}
	out = append(out, entry)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Week < out[j].Week })
	return out
}

// RecentWeeks returns at most n trailing entries.
func RecentWeeks(history []model.WeeklyHistoryEntry, n int) []model.WeeklyHistoryEntry {
	if n <= 0 || len(history) == 0 {
		return []model.WeeklyHistoryEntry{}
	}
	start := 0
	if len(history) > n {
		start = len(history) - n
	}
	out := make([]model.WeeklyHistoryEntry, len(history)-start)
	copy(out, history[start:])
	return out
}
