// Package onboarding tracks each employee's onboarding checklist. Progress is
// always derived from the checklist and mirrored onto the user record.
package onboarding

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"hris/internal/apperror"
	"hris/internal/domain/auth"
	"hris/internal/domain/notifications"
	"hris/internal/requestctx"
)

const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"

	dateLayout = "2006-01-02"
)

var (
	ErrNotFound       = apperror.NotFound("onboarding_not_found", "onboarding record not found")
	ErrNotVisible     = apperror.Forbidden("forbidden", "you cannot access this onboarding record")
	ErrFieldForbidden = apperror.Forbidden("forbidden", "only HR or administrators may change the checklist or status")
	ErrTaskNotFound   = apperror.Validation("validation_error", "unknown checklist task")
)

type Task struct {
	ID          string     `json:"id"`
	Task        string     `json:"task"`
	DueDate     string     `json:"dueDate,omitempty"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

type Record struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employeeId"`
	Status     string    `json:"status"`
	Checklist  []Task    `json:"checklist"`
	Progress   int       `json:"progress"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type TaskToggle struct {
	ID        string `json:"id" validate:"required"`
	Completed bool   `json:"completed"`
}

type TaskInput struct {
	Task      string `json:"task" validate:"required,max=200"`
	DueDate   string `json:"dueDate"`
	Completed bool   `json:"completed"`
}

// Patch carries task toggles, which the employee may send, and checklist or
// status replacements, which only HR and admins may send.
type Patch struct {
	Tasks     []TaskToggle `json:"tasks" validate:"dive"`
	Checklist []TaskInput  `json:"checklist" validate:"omitempty,dive"`
	Status    *string      `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
}

type StoreAPI interface {
	Get(ctx context.Context, employeeID string) (Record, error)
	// Create stores rec unless the employee already has a record, in which
	// case the existing one is returned with created=false.
	Create(ctx context.Context, rec Record) (stored Record, created bool, err error)
	// Update also mirrors status and progress onto the user in the same write.
	Update(ctx context.Context, employeeID string, fn func(*Record) error) (Record, error)
}

type Notifier interface {
	Notify(ctx context.Context, userID, ntype, title, message, link string) error
}

var defaultTasks = []struct {
	task    string
	dueDays int
}{
	{"Upload CV", 3},
	{"Upload Ghana Card", 3},
	{"Complete personal profile", 5},
	{"Review employee handbook", 7},
	{"Set up workstation and accounts", 7},
	{"Meet your line manager", 10},
}

// DefaultChecklist builds the standard checklist with due dates counted from
// start.
func DefaultChecklist(start time.Time) []Task {
	out := make([]Task, 0, len(defaultTasks))
	for _, t := range defaultTasks {
		out = append(out, Task{
			ID:      uuid.NewString(),
			Task:    t.task,
			DueDate: start.AddDate(0, 0, t.dueDays).Format(dateLayout),
		})
	}
	return out
}

// Progress is the share of completed tasks as a whole percentage.
func Progress(tasks []Task) int {
	if len(tasks) == 0 {
		return 0
	}
	done := 0
	for _, t := range tasks {
		if t.Completed {
			done++
		}
	}
	return done * 100 / len(tasks)
}

func statusFor(progress int) string {
	switch {
	case progress >= 100:
		return StatusCompleted
	case progress > 0:
		return StatusInProgress
	default:
		return StatusPending
	}
}

type Service struct {
	Store  StoreAPI
	Notify Notifier
	Now    func() time.Time
}

func NewService(store StoreAPI, notify Notifier) *Service {
	return &Service{Store: store, Notify: notify, Now: func() time.Time { return time.Now().UTC() }}
}

// Ensure seeds the default checklist for a new employee. startDate may be
// empty, in which case due dates count from today.
func (s *Service) Ensure(ctx context.Context, employeeID, startDate string) (Record, error) {
	now := s.Now()
	start := now
	if parsed, err := time.Parse(dateLayout, strings.TrimSpace(startDate)); err == nil {
		start = parsed
	}
	rec, created, err := s.Store.Create(ctx, Record{
		ID:         uuid.NewString(),
		EmployeeID: employeeID,
		Status:     StatusPending,
		Checklist:  DefaultChecklist(start),
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return Record{}, err
	}
	if s.Notify != nil && created {
		if err := s.Notify.Notify(ctx, employeeID, notifications.TypeOnboarding, "Welcome aboard",
			fmt.Sprintf("You have %d onboarding tasks to complete", len(rec.Checklist)), "/onboarding/"+employeeID); err != nil {
			requestctx.Logger(ctx).Warn("onboarding notification failed", "employeeId", employeeID, "err", err)
		}
	}
	return rec, nil
}

func (s *Service) Get(ctx context.Context, actor auth.Identity, employeeID string) (Record, error) {
	if !actor.IsHROrAdmin() && actor.UserID != employeeID {
		return Record{}, ErrNotVisible
	}
	return s.Store.Get(ctx, employeeID)
}

func (s *Service) Update(ctx context.Context, actor auth.Identity, employeeID string, patch Patch) (Record, error) {
	reviewer := actor.IsHROrAdmin()
	if !reviewer && actor.UserID != employeeID {
		return Record{}, ErrNotVisible
	}
	if !reviewer && (patch.Checklist != nil || patch.Status != nil) {
		return Record{}, ErrFieldForbidden
	}
	for _, in := range patch.Checklist {
		if _, err := normalizeDue(in.DueDate); err != nil {
			return Record{}, apperror.FieldError("checklist", "dueDate must be a valid date in YYYY-MM-DD format")
		}
	}
	return s.Store.Update(ctx, employeeID, func(rec *Record) error {
		now := s.Now()
		if patch.Checklist != nil {
			tasks := make([]Task, 0, len(patch.Checklist))
			for _, in := range patch.Checklist {
				due, _ := normalizeDue(in.DueDate)
				task := Task{ID: uuid.NewString(), Task: strings.TrimSpace(in.Task), DueDate: due, Completed: in.Completed}
				if in.Completed {
					task.CompletedAt = &now
				}
				tasks = append(tasks, task)
			}
			rec.Checklist = tasks
		}
		if len(patch.Tasks) > 0 {
			tasks := slices.Clone(rec.Checklist)
			for _, toggle := range patch.Tasks {
				idx := slices.IndexFunc(tasks, func(t Task) bool { return t.ID == toggle.ID })
				if idx < 0 {
					return ErrTaskNotFound
				}
				if tasks[idx].Completed == toggle.Completed {
					continue
				}
				tasks[idx].Completed = toggle.Completed
				tasks[idx].CompletedAt = nil
				if toggle.Completed {
					tasks[idx].CompletedAt = &now
				}
			}
			rec.Checklist = tasks
		}
		rec.Progress = Progress(rec.Checklist)
		rec.Status = statusFor(rec.Progress)
		if patch.Status != nil {
			rec.Status = *patch.Status
		}
		rec.UpdatedAt = now
		return nil
	})
}

func normalizeDue(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return "", errors.New("invalid date")
	}
	return parsed.Format(dateLayout), nil
}
