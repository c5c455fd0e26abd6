// Package attendance records monthly attendance uploads. Totals come either
// from the caller or from a CSV timesheet of date,hours rows.
package attendance

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"hris/internal/apperror"
	"hris/internal/domain/auth"
)

const (
	StatusProcessed = "processed"

	DefaultTotalHours  = 160
	DefaultWorkingDays = 20

	dateLayout = "2006-01-02"
)

var ErrNotVisible = apperror.Forbidden("forbidden", "you cannot view another employee's attendance")

type Upload struct {
	ID          string    `json:"id"`
	EmployeeID  string    `json:"employeeId"`
	FileName    string    `json:"fileName"`
	UploadDate  time.Time `json:"uploadDate"`
	Status      string    `json:"status"`
	TotalHours  float64   `json:"totalHours"`
	WorkingDays int       `json:"workingDays"`
	PeriodStart string    `json:"periodStart,omitempty"`
	PeriodEnd   string    `json:"periodEnd,omitempty"`
}

type Input struct {
	FileName    string   `json:"fileName" validate:"required,max=255"`
	TotalHours  *float64 `json:"totalHours" validate:"omitempty,gte=0,lte=744"`
	WorkingDays *int     `json:"workingDays" validate:"omitempty,gte=0,lte=31"`
	PeriodStart string   `json:"periodStart"`
	PeriodEnd   string   `json:"periodEnd"`
}

// Summary is what a timesheet adds up to.
type Summary struct {
	TotalHours  float64
	WorkingDays int
	PeriodStart string
	PeriodEnd   string
}

type StoreAPI interface {
	Create(ctx context.Context, u Upload) error
	ListForEmployee(ctx context.Context, employeeID string) ([]Upload, error)
}

type Service struct {
	Store StoreAPI
	Now   func() time.Time
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store, Now: func() time.Time { return time.Now().UTC() }}
}

// List returns the caller's uploads. HR and admins may name another employee.
func (s *Service) List(ctx context.Context, actor auth.Identity, employeeID string) ([]Upload, error) {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		employeeID = actor.UserID
	}
	if employeeID != actor.UserID && !actor.IsHROrAdmin() {
		return nil, ErrNotVisible
	}
	uploads, err := s.Store.ListForEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(uploads, func(i, j int) bool { return uploads[i].UploadDate.After(uploads[j].UploadDate) })
	return uploads, nil
}

// Record stores totals supplied by the caller, falling back to the standard
// month when they are absent.
func (s *Service) Record(ctx context.Context, actor auth.Identity, in Input) (Upload, error) {
	summary := Summary{TotalHours: DefaultTotalHours, WorkingDays: DefaultWorkingDays}
	if in.TotalHours != nil && *in.TotalHours > 0 {
		summary.TotalHours = *in.TotalHours
	}
	if in.WorkingDays != nil && *in.WorkingDays > 0 {
		summary.WorkingDays = *in.WorkingDays
	}
	var err error
	if summary.PeriodStart, err = normalizeDate(in.PeriodStart); err != nil {
		return Upload{}, apperror.FieldError("periodStart", "must be a valid date in YYYY-MM-DD format")
	}
	if summary.PeriodEnd, err = normalizeDate(in.PeriodEnd); err != nil {
		return Upload{}, apperror.FieldError("periodEnd", "must be a valid date in YYYY-MM-DD format")
	}
	if summary.PeriodStart != "" && summary.PeriodEnd != "" && summary.PeriodEnd < summary.PeriodStart {
		return Upload{}, apperror.FieldError("periodEnd", "must be on or after periodStart")
	}
	return s.save(ctx, actor, strings.TrimSpace(in.FileName), summary)
}

// Import derives the totals from a CSV timesheet.
func (s *Service) Import(ctx context.Context, actor auth.Identity, fileName string, r io.Reader) (Upload, error) {
	summary, err := ParseTimesheet(r)
	if err != nil {
		return Upload{}, apperror.FieldError("file", err.Error())
	}
	name := strings.TrimSpace(fileName)
	if name == "" {
		name = "timesheet.csv"
	}
	return s.save(ctx, actor, name, summary)
}

func (s *Service) save(ctx context.Context, actor auth.Identity, fileName string, summary Summary) (Upload, error) {
	upload := Upload{
		ID:          uuid.NewString(),
		EmployeeID:  actor.UserID,
		FileName:    fileName,
		UploadDate:  s.Now(),
		Status:      StatusProcessed,
		TotalHours:  summary.TotalHours,
		WorkingDays: summary.WorkingDays,
		PeriodStart: summary.PeriodStart,
		PeriodEnd:   summary.PeriodEnd,
	}
	if err := s.Store.Create(ctx, upload); err != nil {
		return Upload{}, err
	}
	return upload, nil
}

// ParseTimesheet reads date,hours rows. A header row is skipped, a date seen
// twice has its hours summed, and days with zero hours are not working days.
func ParseTimesheet(r io.Reader) (Summary, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	hoursByDay := map[string]float64{}
	line := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Summary{}, fmt.Errorf("malformed csv: %w", err)
		}
		line++
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		if len(record) < 2 {
			return Summary{}, fmt.Errorf("line %d: expected date,hours", line)
		}
		day, err := normalizeDate(record[0])
		if err != nil || day == "" {
			if line == 1 {
				continue
			}
			return Summary{}, fmt.Errorf("line %d: invalid date %q", line, record[0])
		}
		hours, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil || hours < 0 || hours > 24 {
			return Summary{}, fmt.Errorf("line %d: hours must be between 0 and 24", line)
		}
		hoursByDay[day] += hours
	}
	if len(hoursByDay) == 0 {
		return Summary{}, errors.New("timesheet has no rows")
	}

	days := make([]string, 0, len(hoursByDay))
	var summary Summary
	for day, hours := range hoursByDay {
		days = append(days, day)
		summary.TotalHours += hours
		if hours > 0 {
			summary.WorkingDays++
		}
	}
	sort.Strings(days)
	summary.PeriodStart = days[0]
	summary.PeriodEnd = days[len(days)-1]
	summary.TotalHours = math.Round(summary.TotalHours*100) / 100
	return summary, nil
}

func normalizeDate(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed.UTC().Format(dateLayout), nil
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return "", err
	}
	return parsed.Format(dateLayout), nil
}
