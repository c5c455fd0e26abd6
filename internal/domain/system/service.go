package system

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"hris/internal/apperror"
	"hris/internal/platform/jobs"
	"hris/internal/platform/metrics"
)

const JobBackup = "backup"

// Counts are the headline numbers shown on the admin dashboard.
type Counts struct {
	TotalUsers           int `json:"totalUsers"`
	ActiveUsers          int `json:"activeUsers"`
	TotalDepartments     int `json:"totalDepartments"`
	TotalRoles           int `json:"totalRoles"`
	TotalDocuments       int `json:"totalDocuments"`
	PendingDocuments     int `json:"pendingDocuments"`
	TotalLeaveRequests   int `json:"totalLeaveRequests"`
	PendingLeaveRequests int `json:"pendingLeaveRequests"`
}

type Stats struct {
	Counts
	Requests      metrics.Snapshot `json:"requests"`
	UptimeSeconds int64            `json:"uptimeSeconds"`
	LastBackup    *time.Time       `json:"lastBackup,omitempty"`
	GeneratedAt   time.Time        `json:"generatedAt"`
}

type MaintenanceResult struct {
	Message           string `json:"message"`
	MaintenanceMode   bool   `json:"maintenanceMode"`
	EstimatedDuration string `json:"estimatedDuration,omitempty"`
}

type StoreAPI interface {
	Settings(ctx context.Context) (Settings, error)
	UpdateSettings(ctx context.Context, fn func(*Settings) error) (Settings, error)
	Counts(ctx context.Context) (Counts, error)
	// JobRuns lists runs newest first, optionally for one job type.
	JobRuns(ctx context.Context, jobType string, limit int) ([]jobs.Run, error)
}

type JobRunner interface {
	RunNow(ctx context.Context, jobType string) (any, error)
}

type Service struct {
	Store   StoreAPI
	Jobs    JobRunner
	Metrics *metrics.Collector
	Now     func() time.Time

	stats singleflight.Group
}

func NewService(store StoreAPI, runner JobRunner, collector *metrics.Collector) *Service {
	return &Service{
		Store:   store,
		Jobs:    runner,
		Metrics: collector,
		Now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) Settings(ctx context.Context) (Settings, error) {
	return s.Store.Settings(ctx)
}

func (s *Service) UpdateSettings(ctx context.Context, patch SettingsPatch) (Settings, error) {
	if patch.empty() {
		return Settings{}, apperror.Validation("validation_error", "no updatable fields supplied")
	}
	return s.Store.UpdateSettings(ctx, func(settings *Settings) error {
		patch.apply(settings)
		settings.UpdatedAt = s.Now()
		return nil
	})
}

// PasswordMinLength returns the configured minimum, or 0 when settings are
// unreadable so callers fall back to their own default.
func (s *Service) PasswordMinLength(ctx context.Context) int {
	settings, err := s.Store.Settings(ctx)
	if err != nil {
		slog.Warn("read password policy failed", "err", err)
		return 0
	}
	return settings.Security.PasswordMinLength
}

func (s *Service) DocumentExpiryDays(ctx context.Context) int {
	settings, err := s.Store.Settings(ctx)
	if err != nil {
		slog.Warn("read document expiry window failed", "err", err)
		return 0
	}
	return settings.Notifications.DocumentExpiryDays
}

func (s *Service) InMaintenance(ctx context.Context) bool {
	settings, err := s.Store.Settings(ctx)
	return err == nil && settings.MaintenanceMode
}

// Stats computes dashboard numbers. Concurrent callers share one computation.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	v, err, _ := s.stats.Do("stats", func() (any, error) {
		counts, err := s.Store.Counts(ctx)
		if err != nil {
			return Stats{}, err
		}
		stats := Stats{Counts: counts, GeneratedAt: s.Now()}
		if s.Metrics != nil {
			stats.Requests = s.Metrics.Snapshot()
			stats.UptimeSeconds = stats.Requests.UptimeSeconds
		}
		runs, err := s.Store.JobRuns(ctx, JobBackup, 10)
		if err != nil {
			return Stats{}, err
		}
		for _, run := range runs {
			if run.Status == jobs.StatusCompleted && run.CompletedAt != nil {
				stats.LastBackup = run.CompletedAt
				break
			}
		}
		return stats, nil
	})
	if err != nil {
		return Stats{}, err
	}
	return v.(Stats), nil
}

// Backup runs the backup job synchronously and returns its result.
func (s *Service) Backup(ctx context.Context) (any, error) {
	return s.Jobs.RunNow(ctx, JobBackup)
}

func (s *Service) Maintenance(ctx context.Context, enabled bool) (MaintenanceResult, error) {
	if _, err := s.Store.UpdateSettings(ctx, func(settings *Settings) error {
		settings.MaintenanceMode = enabled
		settings.UpdatedAt = s.Now()
		return nil
	}); err != nil {
		return MaintenanceResult{}, err
	}
	if enabled {
		return MaintenanceResult{Message: "Maintenance mode activated", MaintenanceMode: true, EstimatedDuration: "30 minutes"}, nil
	}
	return MaintenanceResult{Message: "Maintenance mode deactivated"}, nil
}

func (s *Service) JobRuns(ctx context.Context, limit int) ([]jobs.Run, error) {
	return s.Store.JobRuns(ctx, "", limit)
}
