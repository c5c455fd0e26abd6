// Package org manages departments. Employee counts are derived from the
// department name recorded on each user.
package org

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"hris/internal/apperror"
	"hris/internal/domain/users"
)

var (
	ErrNotFound = apperror.NotFound("department_not_found", "department not found")
	ErrExists   = apperror.Conflict("department_exists", "a department with this name already exists")
)

type Department struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	HeadID        string    `json:"headId,omitempty"`
	EmployeeCount int       `json:"employeeCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type Input struct {
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description" validate:"max=500"`
	HeadID      string `json:"headId"`
}

type Patch struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=120"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	HeadID      *string `json:"headId"`
}

type StoreAPI interface {
	List(ctx context.Context) ([]Department, error)
	Get(ctx context.Context, id string) (Department, error)
	// Create rejects a case-insensitive name clash with ErrExists.
	Create(ctx context.Context, d Department) error
	Update(ctx context.Context, id string, fn func(*Department) error) (Department, error)
	Delete(ctx context.Context, id string) error
}

type Directory interface {
	Get(ctx context.Context, id string) (users.User, error)
	List(ctx context.Context) ([]users.User, error)
}

type Service struct {
	Store     StoreAPI
	Directory Directory
	Now       func() time.Time
}

func NewService(store StoreAPI, directory Directory) *Service {
	return &Service{Store: store, Directory: directory, Now: func() time.Time { return time.Now().UTC() }}
}

func (s *Service) List(ctx context.Context) ([]Department, error) {
	depts, err := s.Store.List(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.counts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range depts {
		depts[i].EmployeeCount = counts[strings.ToLower(depts[i].Name)]
	}
	return depts, nil
}

func (s *Service) Get(ctx context.Context, id string) (Department, error) {
	dept, err := s.Store.Get(ctx, id)
	if err != nil {
		return Department{}, err
	}
	return s.withCount(ctx, dept)
}

func (s *Service) Create(ctx context.Context, in Input) (Department, error) {
	headID := strings.TrimSpace(in.HeadID)
	if err := s.checkHead(ctx, headID); err != nil {
		return Department{}, err
	}
	now := s.Now()
	dept := Department{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		HeadID:      headID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Store.Create(ctx, dept); err != nil {
		return Department{}, err
	}
	return s.withCount(ctx, dept)
}

func (s *Service) Update(ctx context.Context, id string, patch Patch) (Department, error) {
	if patch.HeadID != nil {
		if err := s.checkHead(ctx, strings.TrimSpace(*patch.HeadID)); err != nil {
			return Department{}, err
		}
	}
	updated, err := s.Store.Update(ctx, id, func(d *Department) error {
		if patch.Name != nil {
			d.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Description != nil {
			d.Description = strings.TrimSpace(*patch.Description)
		}
		if patch.HeadID != nil {
			d.HeadID = strings.TrimSpace(*patch.HeadID)
		}
		d.UpdatedAt = s.Now()
		return nil
	})
	if err != nil {
		return Department{}, err
	}
	return s.withCount(ctx, updated)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.Store.Delete(ctx, id)
}

func (s *Service) checkHead(ctx context.Context, headID string) error {
	if headID == "" {
		return nil
	}
	if _, err := s.Directory.Get(ctx, headID); err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return apperror.FieldError("headId", "must reference an existing user")
		}
		return err
	}
	return nil
}

func (s *Service) withCount(ctx context.Context, dept Department) (Department, error) {
	counts, err := s.counts(ctx)
	if err != nil {
		return Department{}, err
	}
	dept.EmployeeCount = counts[strings.ToLower(dept.Name)]
	return dept, nil
}

func (s *Service) counts(ctx context.Context) (map[string]int, error) {
	people, err := s.Directory.List(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, person := range people {
		if person.Department != "" && person.Active() {
			counts[strings.ToLower(person.Department)]++
		}
	}
	return counts, nil
}
