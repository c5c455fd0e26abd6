package appraisals

import "hris/internal/apperror"

var (
	ErrNotFound          = apperror.NotFound("appraisal_not_found", "appraisal not found")
	ErrNotVisible        = apperror.Forbidden("forbidden", "you cannot access this appraisal")
	ErrFieldForbidden    = apperror.Forbidden("forbidden", "you may not change these appraisal fields")
	ErrFinalized         = apperror.Validation("invalid_state", "appraisal is already completed")
	ErrInvalidTransition = apperror.Validation("invalid_transition", "appraisal status can only move forward")
	ErrNothingToUpdate   = apperror.Validation("validation_error", "no updatable fields supplied")
)
