// Package checklist holds the mutable task/phase state of one checklist session.
package checklist

import (
	"fmt"
	"math"
	"time"

	"efi_checklist/internal/model"
)

// Clock returns the current time. Tests inject a fake.
type Clock func() time.Time

// ToggleResult describes what a toggle did.
type ToggleResult struct {
	// Completed is the new completion flag of the toggled task.
	Completed bool
	// BecameFull is true only on the transition into 100%.
	BecameFull bool
}

// Store は1セッション分のフェーズ/タスク状態を保持します。
// カタログのコピーを唯一の可変状態として持ちます。
// Store is not safe for concurrent use; callers serialize access.
type Store struct {
	phases []model.Phase
	clock  Clock
	atFull bool
}

func NewStore(catalog model.Catalog, clock Clock) *Store {
	if clock == nil {
		clock = time.Now
	}
	s := &Store{
		phases: catalog.Phases(),
		clock:  clock,
	}
	s.atFull = s.Percentage() == 100
	return s
}

// ToggleTask flips the completion flag of a task.
//
// Completing stamps completionTime (and startTime if unset). Un-completing clears
// completionTime but keeps startTime. Every other task of the phase that is neither
// started nor completed gets startTime = now.
func (s *Store) ToggleTask(phaseID, taskID string) (ToggleResult, error) {
	phase, task, err := s.find(phaseID, taskID)
	if err != nil {
		return ToggleResult{}, err
	}

	now := s.clock()
	if !task.Completed {
		task.Completed = true
		task.CompletionTime = timePtr(now)
		if task.StartTime == nil {
			task.StartTime = timePtr(now)
		}
	} else {
		task.Completed = false
		task.CompletionTime = nil
	}

	for i := range phase.Tasks {
		other := &phase.Tasks[i]
		if other.ID == taskID {
			continue
		}
		if other.StartTime == nil && !other.Completed {
			other.StartTime = timePtr(now)
		}
	}

	return ToggleResult{Completed: task.Completed, BecameFull: s.updateFull()}, nil
}

// SetNote replaces the free-text note of a task.
func (s *Store) SetNote(phaseID, taskID, text string) error {
	_, task, err := s.find(phaseID, taskID)
	if err != nil {
		return err
	}
	task.Notes = text
	return nil
}

// AddPhoto appends a photo reference (data URI) to a task.
func (s *Store) AddPhoto(phaseID, taskID, photoRef string) error {
	if photoRef == "" {
		return fmt.Errorf("empty photo reference: %w", model.ErrInvalidInput)
	}
	_, task, err := s.find(phaseID, taskID)
	if err != nil {
		return err
	}
	task.Photos = append(task.Photos, photoRef)
	return nil
}

// RemovePhoto removes the photo at index.
func (s *Store) RemovePhoto(phaseID, taskID string, index int) error {
	_, task, err := s.find(phaseID, taskID)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(task.Photos) {
		return fmt.Errorf("photo index %d out of range [0,%d): %w", index, len(task.Photos), model.ErrInvalidInput)
	}
	photos := make([]string, 0, len(task.Photos)-1)
	photos = append(photos, task.Photos[:index]...)
	photos = append(photos, task.Photos[index+1:]...)
	task.Photos = photos
	return nil
}

// SetPriority sets the priority of a task.
func (s *Store) SetPriority(phaseID, taskID string, priority model.Priority) error {
	if !priority.IsValid() {
		return fmt.Errorf("invalid priority %q: %w", priority, model.ErrInvalidInput)
	}
	_, task, err := s.find(phaseID, taskID)
	if err != nil {
		return err
	}
	task.Priority = priority
	return nil
}

// Counts returns completed and total task counts.
func (s *Store) Counts() (completed, total int) {
	for _, p := range s.phases {
		for _, t := range p.Tasks {
			total++
			if t.Completed {
				completed++
			}
		}
	}
	return completed, total
}

// Percentage = round(completed / total * 100), in [0,100].
func (s *Store) Percentage() int {
	completed, total := s.Counts()
	return Percentage(completed, total)
}

// Percentage computes a rounded completion percentage.
func Percentage(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// Phases returns a deep copy of the current state.
func (s *Store) Phases() []model.Phase {
	out := make([]model.Phase, len(s.phases))
	for i, p := range s.phases {
		out[i] = p.Clone()
	}
	return out
}

// Elapsed returns seconds since start for every started, not yet completed task.
func (s *Store) Elapsed(now time.Time) map[string]int64 {
	out := make(map[string]int64)
	for _, p := range s.phases {
		for _, t := range p.Tasks {
			if t.StartTime == nil || t.Completed {
				continue
			}
			secs := int64(now.Sub(*t.StartTime) / time.Second)
			if secs < 0 {
				secs = 0
			}
			out[t.ID] = secs
		}
	}
	return out
}

// updateFull recomputes the 100% flag and reports a rising edge.
func (s *Store) updateFull() bool {
	full := s.Percentage() == 100
	rising := full && !s.atFull
	s.atFull = full
	return rising
}

func (s *Store) find(phaseID, taskID string) (*model.Phase, *model.Task, error) {
	for i := range s.phases {
		p := &s.phases[i]
		if p.ID != phaseID {
			continue
		}
		for j := range p.Tasks {
			if p.Tasks[j].ID == taskID {
				return p, &p.Tasks[j], nil
			}
		}
		return nil, nil, fmt.Errorf("task %q in phase %q: %w", taskID, phaseID, model.ErrNotFound)
	}
	return nil, nil, fmt.Errorf("phase %q: %w", phaseID, model.ErrNotFound)
}

func timePtr(t time.Time) *time.Time {
	return &t
}
