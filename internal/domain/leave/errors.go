package leave

import "hris/internal/apperror"

var (
	ErrNotFound          = apperror.NotFound("leave_not_found", "leave request not found")
	ErrForbidden         = apperror.Forbidden("forbidden", "you are not the approver for the current stage")
	ErrNotVisible        = apperror.Forbidden("forbidden", "you cannot access this leave request")
	ErrDetailsAdminOnly  = apperror.Forbidden("forbidden", "only administrators may edit leave request details")
	ErrFinalized         = apperror.Validation("invalid_state", "leave request is already finalized")
	ErrInvalidTransition = apperror.Validation("invalid_transition", "status change not allowed from the current stage")
	ErrNothingToUpdate   = apperror.Validation("validation_error", "no updatable fields supplied")
	ErrNotDeletable      = apperror.Forbidden("forbidden", "leave request can no longer be withdrawn")
	ErrNotApproved       = apperror.Validation("invalid_state", "approval slip is only available for approved requests")
)
