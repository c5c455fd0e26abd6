package store

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"hris/internal/domain/documents"
	"hris/internal/domain/leave"
	"hris/internal/domain/system"
	"hris/internal/domain/users"
	"hris/internal/platform/docstore"
	"hris/internal/platform/jobs"
)

type SystemStore struct {
	db *docstore.DB[State]
}

func (s *SystemStore) Settings(ctx context.Context) (system.Settings, error) {
	var out system.Settings
	err := s.db.View(func(state *State) error {
		out = state.SystemSettings
		return nil
	})
	return out, err
}

func (s *SystemStore) UpdateSettings(ctx context.Context, fn func(*system.Settings) error) (system.Settings, error) {
	var out system.Settings
	err := s.db.Update(ctx, func(state *State) error {
		settings := state.SystemSettings
		if err := fn(&settings); err != nil {
			return err
		}
		state.SystemSettings = settings
		out = settings
		return nil
	})
	return out, err
}

func (s *SystemStore) Counts(ctx context.Context) (system.Counts, error) {
	var c system.Counts
	err := s.db.View(func(state *State) error {
		c.TotalUsers = len(state.Users)
		for _, u := range state.Users {
			if u.Status == users.StatusActive {
				c.ActiveUsers++
			}
		}
		c.TotalDepartments = len(state.Departments)
		c.TotalRoles = len(state.Roles)
		c.TotalDocuments = len(state.Documents)
		for _, d := range state.Documents {
			if d.Status == documents.StatusPending {
				c.PendingDocuments++
			}
		}
		c.TotalLeaveRequests = len(state.LeaveRequests)
		for _, r := range state.LeaveRequests {
			if !leave.IsTerminal(r.Status) {
				c.PendingLeaveRequests++
			}
		}
		return nil
	})
	return c, err
}

func (s *SystemStore) JobRuns(ctx context.Context, jobType string, limit int) ([]jobs.Run, error) {
	out := []jobs.Run{}
	err := s.db.View(func(state *State) error {
		for _, run := range state.JobRuns {
			if jobType == "" || run.JobType == jobType {
				out = append(out, run)
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, err
}

// JobRunStore records job executions for the jobs service. History is
// trimmed to the newest runs.
type JobRunStore struct {
	db *docstore.DB[State]
}

func (s *JobRunStore) StartRun(ctx context.Context, jobType string, startedAt time.Time) (string, error) {
	id := uuid.NewString()
	err := s.db.Update(ctx, func(state *State) error {
		state.JobRuns = append(state.JobRuns, jobs.Run{
			ID:        id,
			JobType:   jobType,
			Status:    jobs.StatusRunning,
			StartedAt: startedAt,
		})
		if extra := len(state.JobRuns) - maxJobRuns; extra > 0 {
			state.JobRuns = append([]jobs.Run(nil), state.JobRuns[extra:]...)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *JobRunStore) FinishRun(ctx context.Context, id, status string, details any, errMsg string, completedAt time.Time) error {
	return s.db.Update(ctx, func(state *State) error {
		for i := range state.JobRuns {
			if state.JobRuns[i].ID == id {
				state.JobRuns[i].Status = status
				state.JobRuns[i].Details = details
				state.JobRuns[i].Error = errMsg
				state.JobRuns[i].CompletedAt = &completedAt
				return nil
			}
		}
		return nil
	})
}
