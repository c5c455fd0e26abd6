package store

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"hris/internal/domain/onboarding"
	"hris/internal/domain/users"
	"hris/internal/platform/docstore"
)

type UserStore struct {
	db *docstore.DB[State]
}

func findUser(state *State, id string) int {
	return slices.IndexFunc(state.Users, func(u userRecord) bool { return u.ID == id })
}

func emailTaken(state *State, email, exceptID string) bool {
	return slices.ContainsFunc(state.Users, func(u userRecord) bool {
		return u.ID != exceptID && strings.EqualFold(u.Email, email)
	})
}

func (s *UserStore) List(ctx context.Context) ([]users.User, error) {
	var out []users.User
	err := s.db.View(func(state *State) error {
		out = make([]users.User, 0, len(state.Users))
		for _, rec := range state.Users {
			out = append(out, rec.User)
		}
		return nil
	})
	return out, err
}

func (s *UserStore) Get(ctx context.Context, id string) (users.User, error) {
	var out users.User
	err := s.db.View(func(state *State) error {
		idx := findUser(state, id)
		if idx < 0 {
			return users.ErrNotFound
		}
		out = state.Users[idx].User
		return nil
	})
	return out, err
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (users.User, users.Credentials, error) {
	var (
		user  users.User
		creds users.Credentials
	)
	err := s.db.View(func(state *State) error {
		idx := slices.IndexFunc(state.Users, func(u userRecord) bool { return strings.EqualFold(u.Email, email) })
		if idx < 0 {
			return users.ErrNotFound
		}
		rec := state.Users[idx]
		user = rec.User
		creds = users.Credentials{PasswordHash: rec.PasswordHash, TwoFactorSecret: slices.Clone(rec.TwoFactorSecret)}
		return nil
	})
	return user, creds, err
}

func (s *UserStore) Credentials(ctx context.Context, id string) (users.Credentials, error) {
	var creds users.Credentials
	err := s.db.View(func(state *State) error {
		idx := findUser(state, id)
		if idx < 0 {
			return users.ErrNotFound
		}
		rec := state.Users[idx]
		creds = users.Credentials{PasswordHash: rec.PasswordHash, TwoFactorSecret: slices.Clone(rec.TwoFactorSecret)}
		return nil
	})
	return creds, err
}

// Create assigns the id and the next EMP### number. Numbers are never reused,
// even after deletes.
func (s *UserStore) Create(ctx context.Context, user users.User, creds users.Credentials) (users.User, error) {
	err := s.db.Update(ctx, func(state *State) error {
		if emailTaken(state, user.Email, "") {
			return users.ErrEmailTaken
		}
		if user.ID == "" {
			user.ID = uuid.NewString()
		}
		next := state.LastEmployeeNumber
		for _, rec := range state.Users {
			if n, err := strconv.Atoi(strings.TrimPrefix(rec.EmployeeID, "EMP")); err == nil && n > next {
				next = n
			}
		}
		next++
		state.LastEmployeeNumber = next
		user.EmployeeID = fmt.Sprintf("EMP%03d", next)
		state.Users = append(state.Users, userRecord{
			User:            user,
			PasswordHash:    creds.PasswordHash,
			TwoFactorSecret: creds.TwoFactorSecret,
		})
		return nil
	})
	if err != nil {
		return users.User{}, err
	}
	return user, nil
}

func (s *UserStore) Update(ctx context.Context, id string, fn func(*users.User) error) (users.User, error) {
	var out users.User
	err := s.db.Update(ctx, func(state *State) error {
		idx := findUser(state, id)
		if idx < 0 {
			return users.ErrNotFound
		}
		user := state.Users[idx].User
		if err := fn(&user); err != nil {
			return err
		}
		user.ID = id
		if emailTaken(state, user.Email, id) {
			return users.ErrEmailTaken
		}
		state.Users[idx].User = user
		out = user
		return nil
	})
	return out, err
}

func (s *UserStore) SetPassword(ctx context.Context, id, hash string) error {
	return s.db.Update(ctx, func(state *State) error {
		idx := findUser(state, id)
		if idx < 0 {
			return users.ErrNotFound
		}
		state.Users[idx].PasswordHash = hash
		return nil
	})
}

func (s *UserStore) SetTwoFactor(ctx context.Context, id string, secret []byte, enabled bool) error {
	return s.db.Update(ctx, func(state *State) error {
		idx := findUser(state, id)
		if idx < 0 {
			return users.ErrNotFound
		}
		state.Users[idx].TwoFactorSecret = slices.Clone(secret)
		state.Users[idx].TwoFactorEnabled = enabled
		return nil
	})
}

// Delete removes the user, detaches their direct reports and drops their
// onboarding record. Leave snapshots keep the names they captured.
func (s *UserStore) Delete(ctx context.Context, id string) error {
	return s.db.Update(ctx, func(state *State) error {
		idx := findUser(state, id)
		if idx < 0 {
			return users.ErrNotFound
		}
		state.Users = slices.Delete(state.Users, idx, idx+1)
		for i := range state.Users {
			if state.Users[i].ManagerID == id {
				state.Users[i].ManagerID = ""
			}
		}
		state.Onboarding = slices.DeleteFunc(state.Onboarding, func(rec onboarding.Record) bool {
			return rec.EmployeeID == id
		})
		return nil
	})
}
