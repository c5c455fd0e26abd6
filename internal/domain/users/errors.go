package users

import "hris/internal/apperror"

var (
	ErrNotFound           = apperror.NotFound("user_not_found", "user not found")
	ErrEmailTaken         = apperror.Conflict("email_taken", "email already in use")
	ErrInvalidCredentials = apperror.Unauthenticated("invalid_credentials", "invalid credentials")
	ErrTwoFactorRequired  = apperror.Unauthenticated("mfa_required", "mfa code required")
	ErrTwoFactorInvalid   = apperror.Unauthenticated("mfa_invalid", "invalid mfa code")
	ErrTwoFactorSetup     = apperror.Validation("mfa_missing", "mfa setup required")
	ErrTwoFactorCode      = apperror.Validation("mfa_invalid", "invalid mfa code")
	ErrTwoFactorDisabled  = apperror.Validation("mfa_unavailable", "mfa requires encryption key")
	ErrWrongPassword      = apperror.Validation("invalid_current_password", "current password is incorrect")
	ErrSelfDelete         = apperror.Validation("invalid_target", "you cannot delete your own account")
	ErrAdminOnly          = apperror.Forbidden("forbidden", "only administrators may grant or change the admin role")
	ErrAccountInactive    = apperror.Unauthenticated("unauthorized", "account is no longer active")
)
