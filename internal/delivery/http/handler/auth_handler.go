package handler

import (
	"job-tracker/internal/delivery/http/dto"
	"job-tracker/internal/delivery/http/middleware"
	"job-tracker/internal/domain/user"
	"job-tracker/internal/pkg/jwt"
	"job-tracker/internal/pkg/response"
	"job-tracker/internal/usecase"
	ucauth "job-tracker/internal/usecase/auth"

	"github.com/gofiber/fiber/v3"
)

type AuthHandler struct {
	uc usecase.AuthUsecase
}

type registerRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func NewAuthHandler(uc usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

func (h *AuthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/refresh", h.Refresh)
}

func (h *AuthHandler) Register(c fiber.Ctx) error {
	var req registerRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	usr, pair, err := h.uc.Register(c.Context(), ucauth.RegisterInput{FullName: req.FullName, Email: req.Email, Password: req.Password})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, authResponse(&usr, pair))
}

func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req loginRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	usr, pair, err := h.uc.Login(c.Context(), ucauth.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, authResponse(&usr, pair))
}

// Refresh accepts the refresh token as a bearer header or in the body.
func (h *AuthHandler) Refresh(c fiber.Ctx) error {
	tok, ok := middleware.BearerToken(c.Get("Authorization"))
	if !ok {
		var req refreshRequest
		if len(c.Body()) > 0 {
			if err := c.Bind().Body(&req); err != nil {
				return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
			}
		}
		tok = req.RefreshToken
	}

	pair, err := h.uc.Refresh(c.Context(), tok)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, authResponse(nil, pair))
}

func authResponse(usr *user.User, pair jwt.TokenPair) dto.AuthResponse {
	out := dto.AuthResponse{
		AccessToken:      pair.AccessToken,
		RefreshToken:     pair.RefreshToken,
		AccessExpiresAt:  pair.AccessExpiresAt,
		RefreshExpiresAt: pair.RefreshExpiresAt,
	}
	if usr != nil {
		u := userResponse(*usr)
		out.User = &u
	}
	return out
}

func userResponse(u user.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		FirstName: u.FirstName(),
		CreatedAt: u.CreatedAt,
	}
}
