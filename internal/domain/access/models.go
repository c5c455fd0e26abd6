package access

import "time"

type Role struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Permissions []string  `json:"permissions"`
	System      bool      `json:"system"`
	UserCount   int       `json:"userCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Permission struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Resource    string `json:"resource"`
	Action      string `json:"action"`
}

type RoleInput struct {
	Name        string   `json:"name" validate:"required,max=80"`
	Description string   `json:"description" validate:"max=500"`
	Permissions []string `json:"permissions" validate:"dive,required"`
}

type RolePatch struct {
	Name        *string   `json:"name" validate:"omitempty,min=1,max=80"`
	Description *string   `json:"description" validate:"omitempty,max=500"`
	Permissions *[]string `json:"permissions"`
}

type PermissionInput struct {
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description" validate:"max=500"`
	Resource    string `json:"resource" validate:"required,max=80"`
	Action      string `json:"action" validate:"required,max=40"`
}

type PermissionPatch struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=120"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Resource    *string `json:"resource" validate:"omitempty,min=1,max=80"`
	Action      *string `json:"action" validate:"omitempty,min=1,max=40"`
}
