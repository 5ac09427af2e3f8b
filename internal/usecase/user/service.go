package user

import (
	"context"
	"errors"

	"job-tracker/internal/domain/user"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("user not found")
	ErrInternal = errors.New("internal error")
)

// Profile is the signed-in user as shown in the dashboard header.
type Profile struct {
	User      user.User
	FirstName string
}

type Service struct {
	users user.Repository
}

func NewService(users user.Repository) *Service {
	return &Service{users: users}
}

func (s *Service) GetMe(ctx context.Context, userID uuid.UUID) (Profile, error) {
	usr, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, ErrInternal
	}
	usr.PasswordHash = ""
	return Profile{User: usr, FirstName: usr.FirstName()}, nil
}
