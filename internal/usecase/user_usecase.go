package usecase

import (
	"context"

	"job-tracker/internal/domain/user"
	ucuser "job-tracker/internal/usecase/user"
)

type UserUsecase interface {
	GetMe(ctx context.Context, id Identity) (ucuser.Profile, error)
}

type User struct {
	svc *ucuser.Service
}

func NewUserUsecase(users user.Repository) *User {
	return &User{svc: ucuser.NewService(users)}
}

func (u *User) GetMe(ctx context.Context, id Identity) (ucuser.Profile, error) {
	if err := requireIdentity(id); err != nil {
		return ucuser.Profile{}, err
	}
	return u.svc.GetMe(ctx, id.UserID)
}
