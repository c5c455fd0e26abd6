package leave

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

const dateLayout = "2006-01-02"

type Service struct {
	Store     StoreAPI
	Directory Directory
	Notify    Notifier
	Now       func() time.Time
}

func NewService(store StoreAPI, directory Directory, notify Notifier) *Service {
	return &Service{
		Store:     store,
		Directory: directory,
		Notify:    notify,
		Now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) Create(ctx context.Context, actor auth.Identity, in CreateInput) (Request, error) {
	start, end, days, err := parseRange(in.StartDate, in.EndDate)
	if err != nil {
		return Request{}, err
	}
	employee, err := s.Directory.Get(ctx, actor.UserID)
	if err != nil {
		return Request{}, err
	}
	now := s.Now()
	chain, err := s.captureChain(ctx, employee, now)
	if err != nil {
		return Request{}, err
	}

	req := Request{
		ID:              uuid.NewString(),
		EmployeeID:      employee.ID,
		EmployeeName:    employee.Name,
		Type:            in.Type,
		StartDate:       start.Format(dateLayout),
		EndDate:         end.Format(dateLayout),
		Days:            days,
		Reason:          strings.TrimSpace(in.Reason),
		HandoverTo:      strings.TrimSpace(in.HandoverTo),
		HandoverNotes:   strings.TrimSpace(in.HandoverNotes),
		Status:          StatusLineManagerApproval,
		ApprovalChain:   chain,
		LineManagerID:   chain.LineManagerID,
		LineManagerName: chain.LineManagerName,
		HeadOfUnitID:    chain.HeadOfUnitID,
		HeadOfUnitName:  chain.HeadOfUnitName,
		Comments:        []Comment{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.Store.Create(ctx, req); err != nil {
		return Request{}, err
	}

	title := "Leave request awaiting approval"
	message := fmt.Sprintf("%s requested %d day(s) of %s leave from %s", req.EmployeeName, req.Days, req.Type, req.StartDate)
	s.notifyStage(ctx, req, notifications.TypeLeaveSubmitted, title, message)
	return req, nil
}

// captureChain walks the manager chain two levels up. A dangling manager id
// ends the walk rather than failing the submission.
func (s *Service) captureChain(ctx context.Context, employee users.User, now time.Time) (ApprovalChain, error) {
	chain := ApprovalChain{CapturedAt: now}
	if employee.ManagerID == "" {
		return chain, nil
	}
	manager, err := s.Directory.Get(ctx, employee.ManagerID)
	if errors.Is(err, users.ErrNotFound) {
		return chain, nil
	}
	if err != nil {
		return chain, err
	}
	chain.LineManagerID = manager.ID
	chain.LineManagerName = manager.Name
	if manager.ManagerID == "" {
		return chain, nil
	}
	head, err := s.Directory.Get(ctx, manager.ManagerID)
	if errors.Is(err, users.ErrNotFound) {
		return chain, nil
	}
	if err != nil {
		return chain, err
	}
	chain.HeadOfUnitID = head.ID
	chain.HeadOfUnitName = head.Name
	return chain, nil
}

func (s *Service) Get(ctx context.Context, actor auth.Identity, id string) (Request, error) {
	req, err := s.Store.Get(ctx, id)
	if err != nil {
		return Request{}, err
	}
	if !CanView(actor, req) {
		return Request{}, ErrNotVisible
	}
	return req, nil
}

// List returns what the caller may see: their own requests, requests where
// they are a designated approver, or everything for HR and admins.
func (s *Service) List(ctx context.Context, actor auth.Identity, filter ListFilter) ([]Request, error) {
	all, err := s.Store.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]Request, 0, len(all))
	for _, req := range all {
		if CanView(actor, req) {
			out = append(out, req)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func CanView(actor auth.Identity, req Request) bool {
	if actor.IsHROrAdmin() {
		return true
	}
	return req.EmployeeID == actor.UserID ||
		(req.LineManagerID != "" && req.LineManagerID == actor.UserID) ||
		(req.HeadOfUnitID != "" && req.HeadOfUnitID == actor.UserID)
}

// CanAct reports whether the caller is the authorised approver for the
// request's current stage.
func CanAct(actor auth.Identity, req Request) bool {
	if actor.IsAdmin() {
		return true
	}
	switch req.Status {
	case StatusLineManagerApproval:
		return actor.Role == auth.RoleLineManager && actor.UserID == req.LineManagerID
	case StatusHeadOfUnitApproval:
		return actor.Role == auth.RoleHeadOfUnit && actor.UserID == req.HeadOfUnitID
	case StatusHRApproval:
		return actor.Role == auth.RoleHR
	}
	return false
}

func (s *Service) Update(ctx context.Context, actor auth.Identity, id string, in UpdateInput) (Request, error) {
	if in.empty() {
		return Request{}, ErrNothingToUpdate
	}
	if in.touchesDetails() && !actor.IsAdmin() {
		return Request{}, ErrDetailsAdminOnly
	}
	actorName := s.displayName(ctx, actor)

	var previous string
	updated, err := s.Store.Update(ctx, id, func(req *Request) error {
		previous = req.Status
		return s.apply(actor, actorName, req, in)
	})
	if err != nil {
		return Request{}, err
	}
	if updated.Status != previous {
		s.notifyTransition(ctx, updated)
	}
	return updated, nil
}

// apply mutates req in place. It runs inside the store's write so the stage
// check always sees the latest status.
func (s *Service) apply(actor auth.Identity, actorName string, req *Request, in UpdateInput) error {
	if IsTerminal(req.Status) {
		return ErrFinalized
	}
	if !CanAct(actor, *req) {
		return ErrForbidden
	}
	now := s.Now()

	if in.Status != nil && *in.Status != req.Status {
		target := *in.Status
		if actor.IsAdmin() {
			if !IsForward(req.Status, target) {
				return ErrInvalidTransition
			}
		} else if target != StatusRejected && target != NextStatus(*req) {
			return ErrInvalidTransition
		}
		stampStage(req, actor, now)
		if target == StatusRejected {
			req.RejectedBy = actor.UserID
			req.RejectedAt = &now
			if in.RejectionReason != nil {
				req.RejectionReason = strings.TrimSpace(*in.RejectionReason)
			}
		}
		if target == StatusApproved {
			req.ApprovedAt = &now
		}
		req.Status = target
	}

	if in.touchesDetails() {
		if err := applyDetails(req, in); err != nil {
			return err
		}
	}

	if in.Comment != nil && strings.TrimSpace(*in.Comment) != "" {
		comments := slices.Clone(req.Comments)
		req.Comments = append(comments, Comment{
			ID:         uuid.NewString(),
			AuthorID:   actor.UserID,
			AuthorName: actorName,
			Comment:    strings.TrimSpace(*in.Comment),
			IsInternal: in.IsInternal,
			CreatedAt:  now,
		})
	}
	req.UpdatedAt = now
	return nil
}

func stampStage(req *Request, actor auth.Identity, now time.Time) {
	switch req.Status {
	case StatusLineManagerApproval:
		req.LineManagerApprovedAt = &now
	case StatusHeadOfUnitApproval:
		req.HeadOfUnitApprovedAt = &now
	case StatusHRApproval:
		req.HRApprovedBy = actor.UserID
		req.HRApprovedAt = &now
	}
}

func applyDetails(req *Request, in UpdateInput) error {
	if in.Type != nil {
		req.Type = *in.Type
	}
	if in.Reason != nil {
		req.Reason = strings.TrimSpace(*in.Reason)
	}
	if in.StartDate != nil || in.EndDate != nil {
		startRaw, endRaw := req.StartDate, req.EndDate
		if in.StartDate != nil {
			startRaw = *in.StartDate
		}
		if in.EndDate != nil {
			endRaw = *in.EndDate
		}
		start, end, days, err := parseRange(startRaw, endRaw)
		if err != nil {
			return err
		}
		req.StartDate = start.Format(dateLayout)
		req.EndDate = end.Format(dateLayout)
		req.Days = days
	}
	return nil
}

// Delete withdraws a request. Owners may withdraw until the first approver
// acts; admins may always delete.
func (s *Service) Delete(ctx context.Context, actor auth.Identity, id string) error {
	return s.Store.Delete(ctx, id, func(req Request) error {
		if actor.IsAdmin() {
			return nil
		}
		if req.EmployeeID != actor.UserID {
			return ErrNotVisible
		}
		if !req.Untouched() {
			return ErrNotDeletable
		}
		return nil
	})
}

func (s *Service) notifyTransition(ctx context.Context, req Request) {
	switch req.Status {
	case StatusApproved:
		s.send(ctx, req.EmployeeID, notifications.TypeLeaveApproved, "Leave request approved",
			fmt.Sprintf("Your %s leave from %s to %s was approved", req.Type, req.StartDate, req.EndDate), req.ID)
	case StatusRejected:
		message := fmt.Sprintf("Your %s leave from %s to %s was rejected", req.Type, req.StartDate, req.EndDate)
		if req.RejectionReason != "" {
			message += ": " + req.RejectionReason
		}
		s.send(ctx, req.EmployeeID, notifications.TypeLeaveRejected, "Leave request rejected", message, req.ID)
	default:
		s.notifyStage(ctx, req, notifications.TypeLeaveAdvanced, "Leave request awaiting approval",
			fmt.Sprintf("%s's %s leave from %s needs your approval", req.EmployeeName, req.Type, req.StartDate))
	}
}

// notifyStage tells whoever must act next.
func (s *Service) notifyStage(ctx context.Context, req Request, ntype, title, message string) {
	switch req.Status {
	case StatusLineManagerApproval:
		s.send(ctx, req.LineManagerID, ntype, title, message, req.ID)
	case StatusHeadOfUnitApproval:
		s.send(ctx, req.HeadOfUnitID, ntype, title, message, req.ID)
	case StatusHRApproval:
		people, err := s.Directory.List(ctx)
		if err != nil {
			requestctx.Logger(ctx).Warn("leave hr lookup failed", "leaveRequestId", req.ID, "err", err)
			return
		}
		for _, person := range people {
			if person.Role == auth.RoleHR && person.Active() {
				s.send(ctx, person.ID, ntype, title, message, req.ID)
			}
		}
	}
}

func (s *Service) send(ctx context.Context, userID, ntype, title, message, requestID string) {
	if s.Notify == nil || userID == "" {
		return
	}
	if err := s.Notify.Notify(ctx, userID, ntype, title, message, "/leave-requests/"+requestID); err != nil {
		requestctx.Logger(ctx).Warn("leave notification failed", "leaveRequestId", requestID, "userId", userID, "err", err)
	}
}

func (s *Service) displayName(ctx context.Context, actor auth.Identity) string {
	user, err := s.Directory.Get(ctx, actor.UserID)
	if err != nil {
		return actor.Email
	}
	return user.Name
}

func parseRange(startRaw, endRaw string) (time.Time, time.Time, int, error) {
	start, err := parseDate(startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, 0, apperror.FieldError("startDate", "must be a valid date in YYYY-MM-DD format")
	}
	end, err := parseDate(endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, 0, apperror.FieldError("endDate", "must be a valid date in YYYY-MM-DD format")
	}
	days, err := CalculateDays(start, end)
	if err != nil {
		return time.Time{}, time.Time{}, 0, apperror.FieldError("endDate", "must be on or after startDate")
	}
	return start, end, days, nil
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return truncateDay(parsed), nil
	}
	return time.Parse(dateLayout, value)
}
