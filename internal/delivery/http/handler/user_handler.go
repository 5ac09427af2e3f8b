package handler

import (
	"job-tracker/internal/delivery/http/middleware"
	"job-tracker/internal/pkg/response"
	"job-tracker/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type UserHandler struct {
	uc usecase.UserUsecase
}

func NewUserHandler(uc usecase.UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

func (h *UserHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/me", h.GetMe)
}

func (h *UserHandler) GetMe(c fiber.Ctx) error {
	prof, err := h.uc.GetMe(c.Context(), middleware.Identity(c))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, userResponse(prof.User))
}
