package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"
)

const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

var ErrUnknownJob = errors.New("unknown job type")

type Func func(ctx context.Context) (any, error)

// Run is the bookkeeping record written for every job execution.
type Run struct {
	ID          string     `json:"id"`
	JobType     string     `json:"jobType"`
	Status      string     `json:"status"`
	Details     any        `json:"details,omitempty"`
	Error       string     `json:"error,omitempty"`
	StartedAt   time.Time  `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

type Recorder interface {
	StartRun(ctx context.Context, jobType string, startedAt time.Time) (string, error)
	FinishRun(ctx context.Context, id, status string, details any, errMsg string, completedAt time.Time) error
}

type definition struct {
	run      Func
	interval time.Duration
}

type Service struct {
	runs  Recorder
	queue chan string

	mu   sync.RWMutex
	defs map[string]definition
}

func New(runs Recorder) *Service {
	return &Service{
		runs:  runs,
		queue: make(chan string, 32),
		defs:  map[string]definition{},
	}
}

// Register adds a job. A positive interval schedules it on a ticker once
// Start is called; zero leaves it on-demand only.
func (s *Service) Register(jobType string, interval time.Duration, run Func) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defs[jobType] = definition{run: run, interval: interval}
}

func (s *Service) Types() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.defs))
	for name := range s.defs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for name, def := range s.defs {
		if def.interval > 0 {
			go s.schedule(ctx, name, def.interval)
		}
	}
}

func (s *Service) Enqueue(jobType string) bool {
	select {
	case s.queue <- jobType:
		return true
	default:
		slog.Warn("job queue full", "jobType", jobType)
		return false
	}
}

func (s *Service) RunNow(ctx context.Context, jobType string) (any, error) {
	s.mu.RLock()
	def, ok := s.defs[jobType]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrUnknownJob
	}
	return s.runJob(ctx, jobType, def.run)
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case jobType := <-s.queue:
			if _, err := s.RunNow(ctx, jobType); err != nil {
				slog.Warn("job run failed", "jobType", jobType, "err", err)
			}
		}
	}
}

func (s *Service) schedule(ctx context.Context, jobType string, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Enqueue(jobType)
		}
	}
}

func (s *Service) runJob(ctx context.Context, jobType string, run Func) (any, error) {
	runID := ""
	if s.runs != nil {
		id, err := s.runs.StartRun(ctx, jobType, time.Now().UTC())
		if err != nil {
			slog.Warn("job run insert failed", "jobType", jobType, "err", err)
		}
		runID = id
	}

	details, err := run(ctx)
	status := StatusCompleted
	errMsg := ""
	if err != nil {
		status = StatusFailed
		errMsg = err.Error()
	}
	if runID != "" {
		if updErr := s.runs.FinishRun(ctx, runID, status, details, errMsg, time.Now().UTC()); updErr != nil {
			slog.Warn("job run update failed", "jobType", jobType, "err", updErr)
		}
	}
	return details, err
}
