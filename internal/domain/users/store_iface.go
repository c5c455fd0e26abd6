package users

import "context"

type StoreAPI interface {
	List(ctx context.Context) ([]User, error)
	Get(ctx context.Context, id string) (User, error)
	FindByEmail(ctx context.Context, email string) (User, Credentials, error)
	Credentials(ctx context.Context, id string) (Credentials, error)
	// Create assigns the sequential employee number and rejects duplicate
	// emails with ErrEmailTaken.
	Create(ctx context.Context, user User, creds Credentials) (User, error)
	Update(ctx context.Context, id string, fn func(*User) error) (User, error)
	SetPassword(ctx context.Context, id, hash string) error
	SetTwoFactor(ctx context.Context, id string, secret []byte, enabled bool) error
	Delete(ctx context.Context, id string) error
}

// PasswordPolicy supplies the configured minimum password length.
type PasswordPolicy interface {
	PasswordMinLength(ctx context.Context) int
}
