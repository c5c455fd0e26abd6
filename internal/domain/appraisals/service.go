package appraisals

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"hris/internal/apperror"
	"hris/internal/domain/auth"
	"hris/internal/domain/notifications"
	"hris/internal/domain/users"
	"hris/internal/requestctx"
)

type Service struct {
	Store     StoreAPI
	Directory Directory
	Notify    Notifier
	Now       func() time.Time
}

func NewService(store StoreAPI, directory Directory, notify Notifier) *Service {
	return &Service{Store: store, Directory: directory, Notify: notify, Now: func() time.Time { return time.Now().UTC() }}
}

func canView(actor auth.Identity, a Appraisal) bool {
	return actor.IsHROrAdmin() || a.EmployeeID == actor.UserID || (a.ManagerID != "" && a.ManagerID == actor.UserID)
}

func (s *Service) List(ctx context.Context, actor auth.Identity) ([]Appraisal, error) {
	all, err := s.Store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Appraisal, 0, len(all))
	for _, a := range all {
		if canView(actor, a) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Service) Get(ctx context.Context, actor auth.Identity, id string) (Appraisal, error) {
	a, err := s.Store.Get(ctx, id)
	if err != nil {
		return Appraisal{}, err
	}
	if !canView(actor, a) {
		return Appraisal{}, ErrNotVisible
	}
	return a, nil
}

// Create opens a draft appraisal. The manager defaults to the employee's
// current line manager.
func (s *Service) Create(ctx context.Context, in CreateInput) (Appraisal, error) {
	employee, err := s.lookup(ctx, strings.TrimSpace(in.EmployeeID), "employeeId")
	if err != nil {
		return Appraisal{}, err
	}
	managerID := strings.TrimSpace(in.ManagerID)
	if managerID == "" {
		managerID = employee.ManagerID
	}
	var manager users.User
	if managerID != "" {
		if manager, err = s.lookup(ctx, managerID, "managerId"); err != nil {
			return Appraisal{}, err
		}
	}
	now := s.Now()
	a := Appraisal{
		ID:           uuid.NewString(),
		EmployeeID:   employee.ID,
		EmployeeName: employee.Name,
		ManagerID:    manager.ID,
		ManagerName:  manager.Name,
		Cycle:        strings.TrimSpace(in.Cycle),
		Period:       strings.TrimSpace(in.Period),
		Status:       StatusDraft,
		Criteria:     buildCriteria(in.Criteria),
		Responses:    []Response{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Store.Create(ctx, a); err != nil {
		return Appraisal{}, err
	}
	return a, nil
}

func (s *Service) Update(ctx context.Context, actor auth.Identity, id string, patch Patch) (Appraisal, error) {
	if patchEmpty(patch) {
		return Appraisal{}, ErrNothingToUpdate
	}
	var previous string
	updated, err := s.Store.Update(ctx, id, func(a *Appraisal) error {
		previous = a.Status
		return s.apply(actor, a, patch)
	})
	if err != nil {
		return Appraisal{}, err
	}
	if updated.Status != previous {
		s.notifyStatus(ctx, updated)
	}
	return updated, nil
}

func (s *Service) apply(actor auth.Identity, a *Appraisal, patch Patch) error {
	if !canView(actor, *a) {
		return ErrNotVisible
	}
	if a.Status == StatusCompleted {
		return ErrFinalized
	}
	reviewer := actor.IsHROrAdmin()
	owner := a.EmployeeID == actor.UserID
	manager := a.ManagerID != "" && a.ManagerID == actor.UserID

	if !reviewer {
		if patch.Cycle != nil || patch.Period != nil || patch.Criteria != nil || patch.OverallScore != nil {
			return ErrFieldForbidden
		}
		if patch.EmployeeComment != nil && !owner {
			return ErrFieldForbidden
		}
		if patch.OverallComment != nil && !manager {
			return ErrFieldForbidden
		}
		for _, rp := range patch.Responses {
			if (rp.SelfScore != nil || rp.SelfComment != nil) && !owner {
				return ErrFieldForbidden
			}
			if (rp.ManagerScore != nil || rp.ManagerComment != nil) && !manager {
				return ErrFieldForbidden
			}
			if rp.FinalScore != nil {
				return ErrFieldForbidden
			}
		}
	}

	if patch.Criteria != nil {
		a.Criteria = buildCriteria(patch.Criteria)
		a.Responses = []Response{}
	}
	if patch.Cycle != nil {
		a.Cycle = strings.TrimSpace(*patch.Cycle)
	}
	if patch.Period != nil {
		a.Period = strings.TrimSpace(*patch.Period)
	}
	if patch.EmployeeComment != nil {
		a.EmployeeComment = strings.TrimSpace(*patch.EmployeeComment)
	}
	if patch.OverallComment != nil {
		a.OverallComment = strings.TrimSpace(*patch.OverallComment)
	}
	if len(patch.Responses) > 0 {
		responses, err := mergeResponses(a.Criteria, a.Responses, patch.Responses)
		if err != nil {
			return err
		}
		a.Responses = responses
	}
	if patch.OverallScore != nil {
		a.OverallScore = *patch.OverallScore
	}

	now := s.Now()
	if patch.Status != nil && *patch.Status != a.Status {
		target := *patch.Status
		if statusRank(target) <= statusRank(a.Status) {
			return ErrInvalidTransition
		}
		if !reviewer {
			allowed := (owner && a.Status == StatusSelfAssessment && target == StatusManagerReview) ||
				(manager && a.Status == StatusManagerReview && target == StatusHRReview)
			if !allowed {
				return ErrInvalidTransition
			}
		}
		a.Status = target
		if target == StatusCompleted {
			a.CompletedAt = &now
			if patch.OverallScore == nil {
				a.OverallScore = OverallScore(a.Criteria, a.Responses)
			}
		}
	}
	a.UpdatedAt = now
	return nil
}

// mergeResponses applies patches onto a copy of current, one response per
// criterion, checking scores against each criterion's maximum.
func mergeResponses(criteria []Criterion, current []Response, patches []ResponsePatch) ([]Response, error) {
	out := slices.Clone(current)
	for _, rp := range patches {
		idx := slices.IndexFunc(criteria, func(c Criterion) bool { return c.ID == rp.CriteriaID })
		if idx < 0 {
			return nil, apperror.FieldError("responses", "unknown criteriaId "+rp.CriteriaID)
		}
		limit := criteria[idx].MaxScore
		for _, score := range []*float64{rp.SelfScore, rp.ManagerScore, rp.FinalScore} {
			if score != nil && (*score < 0 || (limit > 0 && *score > limit)) {
				return nil, apperror.FieldError("responses", fmt.Sprintf("scores for %s must be between 0 and %g", criteria[idx].Name, limit))
			}
		}
		pos := slices.IndexFunc(out, func(r Response) bool { return r.CriteriaID == rp.CriteriaID })
		if pos < 0 {
			out = append(out, Response{CriteriaID: rp.CriteriaID})
			pos = len(out) - 1
		}
		r := out[pos]
		if rp.SelfScore != nil {
			r.SelfScore = rp.SelfScore
		}
		if rp.SelfComment != nil {
			r.SelfComment = strings.TrimSpace(*rp.SelfComment)
		}
		if rp.ManagerScore != nil {
			r.ManagerScore = rp.ManagerScore
		}
		if rp.ManagerComment != nil {
			r.ManagerComment = strings.TrimSpace(*rp.ManagerComment)
		}
		if rp.FinalScore != nil {
			r.FinalScore = rp.FinalScore
		}
		out[pos] = r
	}
	return out, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.Store.Delete(ctx, id)
}

func (s *Service) notifyStatus(ctx context.Context, a Appraisal) {
	if s.Notify == nil {
		return
	}
	recipients := []string{a.EmployeeID}
	if a.Status == StatusManagerReview {
		recipients = []string{a.ManagerID}
	}
	message := fmt.Sprintf("Appraisal %s for %s moved to %s", a.Cycle, a.EmployeeName, strings.ReplaceAll(a.Status, "_", " "))
	for _, userID := range recipients {
		if userID == "" {
			continue
		}
		if err := s.Notify.Notify(ctx, userID, notifications.TypeAppraisalUpdated, "Appraisal updated", message, "/appraisals/"+a.ID); err != nil {
			requestctx.Logger(ctx).Warn("appraisal notification failed", "appraisalId", a.ID, "err", err)
		}
	}
}

func (s *Service) lookup(ctx context.Context, id, field string) (users.User, error) {
	if id == "" {
		return users.User{}, apperror.FieldError(field, "is required")
	}
	u, err := s.Directory.Get(ctx, id)
	if errors.Is(err, users.ErrNotFound) {
		return users.User{}, apperror.FieldError(field, "must reference an existing user")
	}
	return u, err
}

func buildCriteria(in []CriterionInput) []Criterion {
	out := make([]Criterion, 0, len(in))
	for _, c := range in {
		out = append(out, Criterion{
			ID:          uuid.NewString(),
			Name:        strings.TrimSpace(c.Name),
			Description: strings.TrimSpace(c.Description),
			Weight:      c.Weight,
			MaxScore:    c.MaxScore,
		})
	}
	return out
}

func patchEmpty(p Patch) bool {
	return p.Status == nil && len(p.Responses) == 0 && p.OverallScore == nil && p.OverallComment == nil &&
		p.EmployeeComment == nil && p.Cycle == nil && p.Period == nil && p.Criteria == nil
}
