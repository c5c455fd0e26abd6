package users

import "time"

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// User is an employee account. Credentials are kept apart so they never ride
// along in API responses.
type User struct {
	ID                 string     `json:"id"`
	EmployeeID         string     `json:"employeeId"`
	Email              string     `json:"email"`
	Name               string     `json:"name"`
	Role               string     `json:"role"`
	Department         string     `json:"department,omitempty"`
	Position           string     `json:"position,omitempty"`
	ManagerID          string     `json:"managerId,omitempty"`
	Phone              string     `json:"phone,omitempty"`
	Address            string     `json:"address,omitempty"`
	Avatar             string     `json:"avatar,omitempty"`
	StartDate          string     `json:"startDate,omitempty"`
	Status             string     `json:"status"`
	TwoFactorEnabled   bool       `json:"twoFactorEnabled"`
	OnboardingStatus   string     `json:"onboardingStatus"`
	OnboardingProgress int        `json:"onboardingProgress"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
	LastLoginAt        *time.Time `json:"lastLoginAt,omitempty"`
}

func (u User) Active() bool {
	return u.Status == StatusActive
}

type Credentials struct {
	PasswordHash    string
	TwoFactorSecret []byte
}

type CreateInput struct {
	Email      string `json:"email" validate:"required,email,max=254"`
	Name       string `json:"name" validate:"required,max=200"`
	Password   string `json:"password" validate:"omitempty,max=72"`
	Role       string `json:"role" validate:"omitempty,oneof=employee line_manager head_of_unit hr admin"`
	Department string `json:"department" validate:"max=120"`
	Position   string `json:"position" validate:"max=120"`
	ManagerID  string `json:"managerId"`
	Phone      string `json:"phone" validate:"max=40"`
	Address    string `json:"address" validate:"max=500"`
	StartDate  string `json:"startDate"`
}

// ProfilePatch is what a user may change about themselves.
type ProfilePatch struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=200"`
	Phone   *string `json:"phone" validate:"omitempty,max=40"`
	Address *string `json:"address" validate:"omitempty,max=500"`
	Avatar  *string `json:"avatar" validate:"omitempty,max=2048"`
}

// EmployeePatch is what HR and admins may change about an employee.
type EmployeePatch struct {
	Name       *string `json:"name" validate:"omitempty,min=1,max=200"`
	Email      *string `json:"email" validate:"omitempty,email,max=254"`
	Role       *string `json:"role" validate:"omitempty,oneof=employee line_manager head_of_unit hr admin"`
	Department *string `json:"department" validate:"omitempty,max=120"`
	Position   *string `json:"position" validate:"omitempty,max=120"`
	ManagerID  *string `json:"managerId"`
	Phone      *string `json:"phone" validate:"omitempty,max=40"`
	Address    *string `json:"address" validate:"omitempty,max=500"`
	StartDate  *string `json:"startDate"`
	Status     *string `json:"status" validate:"omitempty,oneof=active inactive"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

type TwoFactorSetup struct {
	Secret     string `json:"secret"`
	OtpauthURL string `json:"otpauthUrl"`
}
