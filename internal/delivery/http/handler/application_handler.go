package handler

import (
	"context"

	"job-tracker/internal/delivery/http/dto"
	"job-tracker/internal/delivery/http/middleware"
	"job-tracker/internal/domain/application"
	"job-tracker/internal/pkg/response"
	"job-tracker/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ApplicationService interface {
	ValidateField(field, value string) (string, error)
	List(ctx context.Context, id usecase.Identity, filter application.ListFilter) ([]application.Application, error)
	Get(ctx context.Context, id usecase.Identity, appID uuid.UUID) (application.Application, error)
	Create(ctx context.Context, id usecase.Identity, form usecase.ApplicationForm) (application.Application, error)
	Update(ctx context.Context, id usecase.Identity, appID uuid.UUID, form usecase.ApplicationForm) (application.Application, error)
	Delete(ctx context.Context, id usecase.Identity, appID uuid.UUID, confirm usecase.Confirmer) error
}

type ApplicationHandler struct {
	uc ApplicationService
}

func NewApplicationHandler(uc ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{uc: uc}
}

func (h *ApplicationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/applications", h.List)
	r.Post("/applications/validate", h.ValidateField)
	r.Get("/applications/:id", h.Get)
	r.Post("/applications", h.Create)
	r.Put("/applications/:id", h.Update)
	r.Delete("/applications/:id", h.Delete)
}

func (h *ApplicationHandler) List(c fiber.Ctx) error {
	items, err := h.uc.List(c.Context(), middleware.Identity(c), application.ListFilter{
		Search: c.Query("q"),
		Status: application.Status(c.Query("status")),
	})
	if err != nil {
		return mapUsecaseError(err)
	}

	out := make([]dto.ApplicationResponse, 0, len(items))
	for _, a := range items {
		out = append(out, applicationResponse(a))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *ApplicationHandler) Get(c fiber.Ctx) error {
	appID, err := parseIDParam(c)
	if err != nil {
		return err
	}

	a, err := h.uc.Get(c.Context(), middleware.Identity(c), appID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, applicationResponse(a))
}

func (h *ApplicationHandler) Create(c fiber.Ctx) error {
	var req dto.ApplicationRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	a, err := h.uc.Create(c.Context(), middleware.Identity(c), applicationForm(req))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, applicationResponse(a))
}

func (h *ApplicationHandler) Update(c fiber.Ctx) error {
	appID, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var req dto.ApplicationRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	a, err := h.uc.Update(c.Context(), middleware.Identity(c), appID, applicationForm(req))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, applicationResponse(a))
}

func (h *ApplicationHandler) Delete(c fiber.Ctx) error {
	appID, err := parseIDParam(c)
	if err != nil {
		return err
	}

	if err := h.uc.Delete(c.Context(), middleware.Identity(c), appID, confirmFromQuery(c)); err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageDeleted, nil)
}

// ValidateField checks one input as the user leaves it. An invalid value is
// still a 200; the message travels in the body.
func (h *ApplicationHandler) ValidateField(c fiber.Ctx) error {
	if !middleware.Identity(c).Authenticated() {
		return mapUsecaseError(usecase.ErrUnauthenticated)
	}

	var req dto.ValidateFieldRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	msg, err := h.uc.ValidateField(req.Field, string(req.Value))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.ValidateFieldResponse{
		Field: req.Field,
		Valid: msg == "",
		Error: msg,
	})
}

func applicationForm(req dto.ApplicationRequest) usecase.ApplicationForm {
	return usecase.ApplicationForm{
		Company:         req.Company,
		JobTitle:        req.JobTitle,
		Status:          req.Status,
		ApplicationDate: req.ApplicationDate,
		JobDescription:  req.JobDescription,
		JobURL:          req.JobURL,
		SalaryMin:       req.SalaryMin.StringPtr(),
		SalaryMax:       req.SalaryMax.StringPtr(),
		Notes:           req.Notes,
		ContactName:     req.ContactName,
		ContactEmail:    req.ContactEmail,
		ContactPhone:    req.ContactPhone,
	}
}

func applicationResponse(a application.Application) dto.ApplicationResponse {
	return dto.ApplicationResponse{
		ID:              a.ID,
		Company:         a.Company,
		JobTitle:        a.JobTitle,
		Status:          string(a.Status),
		ApplicationDate: a.ApplicationDate.Format(application.DateLayout),
		JobDescription:  a.JobDescription,
		JobURL:          a.JobURL,
		SalaryMin:       a.SalaryMin,
		SalaryMax:       a.SalaryMax,
		Notes:           a.Notes,
		ContactName:     a.ContactName,
		ContactEmail:    a.ContactEmail,
		ContactPhone:    a.ContactPhone,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}
