package access

import "hris/internal/apperror"

var (
	ErrRoleNotFound       = apperror.NotFound("role_not_found", "role not found")
	ErrPermissionNotFound = apperror.NotFound("permission_not_found", "permission not found")
	ErrRoleExists         = apperror.Conflict("role_exists", "a role with this name already exists")
	ErrPermissionExists   = apperror.Conflict("permission_exists", "a permission with this name already exists")
	ErrSystemRole         = apperror.Validation("system_role", "built-in roles cannot be renamed or deleted")
	ErrRoleInUse          = apperror.Conflict("role_in_use", "role is still assigned to users")
)
