package integrations

import (
	"context"
	"maps"
	"strings"
	"time"

	"hris/internal/apperror"
)

const (
	StatusConnected    = "connected"
	StatusDisconnected = "disconnected"
)

var ErrNotFound = apperror.NotFound("integration_not_found", "integration not found")

type Integration struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Status      string            `json:"status"`
	Config      map[string]string `json:"config"`
	LastSync    *time.Time        `json:"lastSync,omitempty"`
}

// Patch replaces the status and, when present, merges config keys. An empty
// config value removes the key.
type Patch struct {
	Status *string           `json:"status" validate:"omitempty,oneof=connected disconnected"`
	Config map[string]string `json:"config" validate:"omitempty,dive,keys,min=1,max=80,endkeys,max=2000"`
}

type StoreAPI interface {
	List(ctx context.Context) ([]Integration, error)
	Update(ctx context.Context, id string, fn func(*Integration) error) (Integration, error)
}

// Defaults is the catalogue seeded on first start.
func Defaults() []Integration {
	return []Integration{
		{ID: "slack", Name: "Slack", Description: "Send HR notifications to Slack channels", Status: StatusDisconnected, Config: map[string]string{}},
		{ID: "google-workspace", Name: "Google Workspace", Description: "Sync employee directory and calendars", Status: StatusDisconnected, Config: map[string]string{}},
		{ID: "microsoft-365", Name: "Microsoft 365", Description: "Single sign-on and Outlook calendar sync", Status: StatusDisconnected, Config: map[string]string{}},
		{ID: "quickbooks", Name: "QuickBooks", Description: "Export approved allowances to accounting", Status: StatusDisconnected, Config: map[string]string{}},
		{ID: "zoom", Name: "Zoom", Description: "Schedule onboarding and appraisal meetings", Status: StatusDisconnected, Config: map[string]string{}},
	}
}

type Service struct {
	Store StoreAPI
	Now   func() time.Time
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store, Now: func() time.Time { return time.Now().UTC() }}
}

func (s *Service) List(ctx context.Context) ([]Integration, error) {
	return s.Store.List(ctx)
}

// Update applies patch. Connecting stamps lastSync.
func (s *Service) Update(ctx context.Context, id string, patch Patch) (Integration, error) {
	if patch.Status == nil && patch.Config == nil {
		return Integration{}, apperror.Validation("validation_error", "no updatable fields supplied")
	}
	return s.Store.Update(ctx, id, func(in *Integration) error {
		if patch.Config != nil {
			cfg := maps.Clone(in.Config)
			if cfg == nil {
				cfg = map[string]string{}
			}
			for key, value := range patch.Config {
				key = strings.TrimSpace(key)
				if strings.TrimSpace(value) == "" {
					delete(cfg, key)
					continue
				}
				cfg[key] = strings.TrimSpace(value)
			}
			in.Config = cfg
		}
		if patch.Status != nil {
			in.Status = *patch.Status
			if in.Status == StatusConnected {
				now := s.Now()
				in.LastSync = &now
			}
		}
		return nil
	})
}
