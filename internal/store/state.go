// Package store keeps every HRIS collection in one document and exposes each
// domain's StoreAPI over it. All writes go through docstore.Update, so a
// failed write leaves both memory and storage untouched.
package store

import (
	"context"

	"hris/internal/domain/access"
	"hris/internal/domain/appraisals"
	"hris/internal/domain/attendance"
	"hris/internal/domain/documents"
	"hris/internal/domain/integrations"
	"hris/internal/domain/leave"
	"hris/internal/domain/notifications"
	"hris/internal/domain/onboarding"
	"hris/internal/domain/org"
	"hris/internal/domain/system"
	"hris/internal/domain/users"
	"hris/internal/platform/docstore"
	"hris/internal/platform/jobs"
)

// maxJobRuns bounds the job history kept in the document.
const maxJobRuns = 200

// userRecord is how a user is persisted: the public profile plus credentials
// that never leave this package.
type userRecord struct {
	users.User
	PasswordHash    string `json:"passwordHash"`
	TwoFactorSecret []byte `json:"totpSecret,omitempty"`
}

type State struct {
	Users              []userRecord                 `json:"users"`
	Roles              []access.Role                `json:"roles"`
	Permissions        []access.Permission          `json:"permissions"`
	Departments        []org.Department             `json:"departments"`
	Appraisals         []appraisals.Appraisal       `json:"appraisals"`
	LeaveRequests      []leave.Request              `json:"leaveRequests"`
	Documents          []documents.Document         `json:"documents"`
	DocumentAuditLogs  []documents.AuditEntry       `json:"documentAuditLogs"`
	AttendanceUploads  []attendance.Upload          `json:"attendanceUploads"`
	Onboarding         []onboarding.Record          `json:"onboarding"`
	Notifications      []notifications.Notification `json:"notifications"`
	Integrations       []integrations.Integration   `json:"integrations"`
	SystemSettings     system.Settings              `json:"systemSettings"`
	JobRuns            []jobs.Run                   `json:"jobRuns"`
	LastEmployeeNumber int                          `json:"lastEmployeeNumber"`
}

func NewState() State {
	return State{
		Users:             []userRecord{},
		Roles:             []access.Role{},
		Permissions:       []access.Permission{},
		Departments:       []org.Department{},
		Appraisals:        []appraisals.Appraisal{},
		LeaveRequests:     []leave.Request{},
		Documents:         []documents.Document{},
		DocumentAuditLogs: []documents.AuditEntry{},
		AttendanceUploads: []attendance.Upload{},
		Onboarding:        []onboarding.Record{},
		Notifications:     []notifications.Notification{},
		Integrations:      []integrations.Integration{},
		SystemSettings:    system.DefaultSettings(),
		JobRuns:           []jobs.Run{},
	}
}

type Store struct {
	db *docstore.DB[State]
}

func Open(ctx context.Context, p docstore.Persister) (*Store, error) {
	db, err := docstore.Open(ctx, p, NewState)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Snapshot returns the last persisted encoding of the whole document.
func (s *Store) Snapshot() []byte {
	return s.db.Snapshot()
}

func (s *Store) Users() *UserStore                 { return &UserStore{db: s.db} }
func (s *Store) Leave() *LeaveStore                { return &LeaveStore{db: s.db} }
func (s *Store) Documents() *DocumentStore         { return &DocumentStore{db: s.db} }
func (s *Store) Access() *AccessStore              { return &AccessStore{db: s.db} }
func (s *Store) Departments() *DepartmentStore     { return &DepartmentStore{db: s.db} }
func (s *Store) Appraisals() *AppraisalStore       { return &AppraisalStore{db: s.db} }
func (s *Store) Attendance() *AttendanceStore      { return &AttendanceStore{db: s.db} }
func (s *Store) Onboarding() *OnboardingStore      { return &OnboardingStore{db: s.db} }
func (s *Store) Notifications() *NotificationStore { return &NotificationStore{db: s.db} }
func (s *Store) Integrations() *IntegrationStore   { return &IntegrationStore{db: s.db} }
func (s *Store) System() *SystemStore              { return &SystemStore{db: s.db} }
func (s *Store) JobRuns() *JobRunStore             { return &JobRunStore{db: s.db} }
