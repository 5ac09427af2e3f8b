package usecase

import (
	"context"
	"errors"

	"job-tracker/internal/domain/user"
	"job-tracker/internal/pkg/jwt"
	ucauth "job-tracker/internal/usecase/auth"
)

var (
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)

type AuthUsecase interface {
	Register(ctx context.Context, in ucauth.RegisterInput) (user.User, jwt.TokenPair, error)
	Login(ctx context.Context, in ucauth.LoginInput) (user.User, jwt.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (jwt.TokenPair, error)
}

type Auth struct {
	authSvc *ucauth.Service
	users   user.Repository
	jwt     jwt.Service
}

func NewAuthUsecase(users user.Repository, jwtSvc jwt.Service) *Auth {
	return &Auth{authSvc: ucauth.NewService(users), users: users, jwt: jwtSvc}
}

func (u *Auth) Register(ctx context.Context, in ucauth.RegisterInput) (user.User, jwt.TokenPair, error) {
	usr, err := u.authSvc.Register(ctx, in)
	if err != nil {
		return user.User{}, jwt.TokenPair{}, err
	}
	pair, err := u.jwt.IssuePair(usr.ID, usr.Email)
	if err != nil {
		return user.User{}, jwt.TokenPair{}, ErrInternal
	}
	return usr, pair, nil
}

func (u *Auth) Login(ctx context.Context, in ucauth.LoginInput) (user.User, jwt.TokenPair, error) {
	usr, err := u.authSvc.Login(ctx, in)
	if err != nil {
		return user.User{}, jwt.TokenPair{}, err
	}
	pair, err := u.jwt.IssuePair(usr.ID, usr.Email)
	if err != nil {
		return user.User{}, jwt.TokenPair{}, ErrInternal
	}
	return usr, pair, nil
}

func (u *Auth) Refresh(ctx context.Context, refreshToken string) (jwt.TokenPair, error) {
	if refreshToken == "" {
		return jwt.TokenPair{}, ErrUnauthenticated
	}

	claims, err := u.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return jwt.TokenPair{}, ErrRefreshTokenExpired
		}
		return jwt.TokenPair{}, ErrInvalidRefreshToken
	}

	usr, err := u.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return jwt.TokenPair{}, ErrInvalidRefreshToken
		}
		return jwt.TokenPair{}, ErrInternal
	}

	pair, err := u.jwt.IssuePair(usr.ID, usr.Email)
	if err != nil {
		return jwt.TokenPair{}, ErrInternal
	}
	return pair, nil
}
