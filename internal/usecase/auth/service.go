package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"job-tracker/internal/domain/user"
	"job-tracker/internal/pkg/validate"
)

var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInternal               = errors.New("internal error")
)

const minPasswordLength = 8

var registerRules = validate.Rules{
	{Field: "full_name", Label: "Full name", Tags: "required,max=100"},
	{Field: "email", Label: "Email", Tags: "required,email"},
	{Field: "password", Label: "Password", Tags: "required,min=8,max=72"},
}

// InputError lists the rejected registration fields.
type InputError struct {
	Fields validate.FieldErrors
}

func (e *InputError) Error() string {
	return "invalid input: " + e.Fields.Error()
}

type RegisterInput struct {
	FullName string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type Service struct {
	users     user.Repository
	validator *validate.Validator
}

func NewService(users user.Repository) *Service {
	return &Service{users: users, validator: validate.New()}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (user.User, error) {
	fe := s.validator.Check(registerRules, map[string]string{
		"full_name": in.FullName,
		"email":     in.Email,
		"password":  in.Password,
	})
	if fe != nil {
		return user.User{}, &InputError{Fields: fe}
	}
	email := normalizeEmail(in.Email)

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return user.User{}, ErrInternal
	}
	if exists {
		return user.User{}, ErrEmailAlreadyRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, ErrInternal
	}

	u := user.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(in.FullName),
	}

	if err := s.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return user.User{}, ErrEmailAlreadyRegistered
		}
		return user.User{}, ErrInternal
	}

	created, err := s.users.GetUserByID(ctx, u.ID)
	if err != nil {
		return user.User{}, ErrInternal
	}
	return sanitizeUser(created), nil
}

func (s *Service) Login(ctx context.Context, in LoginInput) (user.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return user.User{}, ErrInvalidCredentials
	}

	u, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrInvalidCredentials
		}
		return user.User{}, ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return user.User{}, ErrInvalidCredentials
	}

	return sanitizeUser(u), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func sanitizeUser(u user.User) user.User {
	u.PasswordHash = ""
	return u
}
