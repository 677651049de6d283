// internal/model/snapshot.go
package model

import "time"

// Snapshot は送信時点のチェックリスト全体です (/api/save-checklist のボディ)。
type Snapshot struct {
	CatalystID         string          `json:"catalystId" validate:"required,max=128"`
	CatalystName       string          `json:"catalystName" validate:"required,max=255"`
	Date               time.Time       `json:"date"`
	ProgressPercentage int             `json:"progressPercentage" validate:"min=0,max=100"`
	CompletedTasks     int             `json:"completedTasks" validate:"min=0"`
	TotalTasks         int             `json:"totalTasks" validate:"min=0"`
	Phases             []PhaseSnapshot `json:"phases" validate:"dive"`
}

// PhaseSnapshot omits the presentation color.
type PhaseSnapshot struct {
	ID    string `json:"id" validate:"required"`
	Title string `json:"title"`
	Tasks []Task `json:"tasks" validate:"dive"`
}

// SnapshotPhases converts live phases into their serialized form.
func SnapshotPhases(phases []Phase) []PhaseSnapshot {
	out := make([]PhaseSnapshot, 0, len(phases))
	for _, p := range phases {
		cp := p.Clone()
		out = append(out, PhaseSnapshot{ID: cp.ID, Title: cp.Title, Tasks: cp.Tasks})
	}
	return out
}

// SubmitResult is the successful response of the submission endpoint.
type SubmitResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	FileURL string `json:"fileUrl"`
	Path    string `json:"-"`
}

// SubmitErrorResponse keeps the flat {"error": "..."} contract of the submission endpoint.
type SubmitErrorResponse struct {
	Error string `json:"error"`
}

// ReportStats are the stat tiles shown in the report.
type ReportStats struct {
	CurrentStreak     int `json:"currentStreak" validate:"min=0"`
	TotalPoints       int `json:"totalPoints" validate:"min=0"`
	WeeklyCompletions int `json:"weeklyCompletions" validate:"min=0"`
}

// ReportData is the input of the report exporter and the body of POST /api/report.
type ReportData struct {
	CatalystName       string          `json:"catalystName" validate:"required,max=255"`
	Date               time.Time       `json:"date"`
	Week               int             `json:"week" validate:"min=0,max=53"`
	ProgressPercentage int             `json:"progressPercentage" validate:"min=0,max=100"`
	CompletedTasks     int             `json:"completedTasks" validate:"min=0"`
	TotalTasks         int             `json:"totalTasks" validate:"min=0"`
	Phases             []PhaseSnapshot `json:"phases" validate:"dive"`
	Stats              ReportStats     `json:"stats"`
}
