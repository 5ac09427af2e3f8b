package handler

import (
	"context"
	"fmt"
	"io"

	"job-tracker/internal/delivery/http/dto"
	"job-tracker/internal/delivery/http/middleware"
	"job-tracker/internal/domain/resume"
	"job-tracker/internal/pkg/response"
	"job-tracker/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ResumeService interface {
	List(ctx context.Context, id usecase.Identity, search string) ([]resume.Resume, error)
	Get(ctx context.Context, id usecase.Identity, resumeID uuid.UUID) (resume.Resume, error)
	Create(ctx context.Context, id usecase.Identity, form usecase.ResumeForm) (resume.Resume, error)
	Update(ctx context.Context, id usecase.Identity, resumeID uuid.UUID, form usecase.ResumeForm) (resume.Resume, error)
	Delete(ctx context.Context, id usecase.Identity, resumeID uuid.UUID, confirm usecase.Confirmer) error
	RemoveFile(ctx context.Context, id usecase.Identity, resumeID uuid.UUID, confirm usecase.Confirmer) (resume.Resume, error)
	Download(ctx context.Context, id usecase.Identity, resumeID uuid.UUID) (usecase.Download, error)
}

type ResumeHandler struct {
	uc             ResumeService
	maxUploadBytes int64
}

func NewResumeHandler(uc ResumeService, maxUploadBytes int64) *ResumeHandler {
	return &ResumeHandler{uc: uc, maxUploadBytes: maxUploadBytes}
}

func (h *ResumeHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/resumes", h.List)
	r.Get("/resumes/:id", h.Get)
	r.Get("/resumes/:id/download", h.Download)
	r.Post("/resumes", h.Create)
	r.Put("/resumes/:id", h.Update)
	r.Delete("/resumes/:id/file", h.RemoveFile)
	r.Delete("/resumes/:id", h.Delete)
}

func (h *ResumeHandler) List(c fiber.Ctx) error {
	items, err := h.uc.List(c.Context(), middleware.Identity(c), c.Query("q"))
	if err != nil {
		return mapUsecaseError(err)
	}

	out := make([]dto.ResumeResponse, 0, len(items))
	for _, r := range items {
		out = append(out, resumeResponse(r))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *ResumeHandler) Get(c fiber.Ctx) error {
	resumeID, err := parseIDParam(c)
	if err != nil {
		return err
	}

	rec, err := h.uc.Get(c.Context(), middleware.Identity(c), resumeID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, resumeResponse(rec))
}

func (h *ResumeHandler) Create(c fiber.Ctx) error {
	form, err := h.readForm(c)
	if err != nil {
		return err
	}

	rec, err := h.uc.Create(c.Context(), middleware.Identity(c), form)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, resumeResponse(rec))
}

func (h *ResumeHandler) Update(c fiber.Ctx) error {
	resumeID, err := parseIDParam(c)
	if err != nil {
		return err
	}
	form, err := h.readForm(c)
	if err != nil {
		return err
	}

	rec, err := h.uc.Update(c.Context(), middleware.Identity(c), resumeID, form)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, resumeResponse(rec))
}

func (h *ResumeHandler) Delete(c fiber.Ctx) error {
	resumeID, err := parseIDParam(c)
	if err != nil {
		return err
	}

	if err := h.uc.Delete(c.Context(), middleware.Identity(c), resumeID, confirmFromQuery(c)); err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageDeleted, nil)
}

func (h *ResumeHandler) RemoveFile(c fiber.Ctx) error {
	resumeID, err := parseIDParam(c)
	if err != nil {
		return err
	}

	rec, err := h.uc.RemoveFile(c.Context(), middleware.Identity(c), resumeID, confirmFromQuery(c))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, resumeResponse(rec))
}

func (h *ResumeHandler) Download(c fiber.Ctx) error {
	resumeID, err := parseIDParam(c)
	if err != nil {
		return err
	}

	d, err := h.uc.Download(c.Context(), middleware.Identity(c), resumeID)
	if err != nil {
		return mapUsecaseError(err)
	}

	c.Attachment(d.FileName)
	if d.ContentType != "" {
		c.Set(fiber.HeaderContentType, d.ContentType)
	}
	return c.Send(d.Data)
}

// readForm reads the multipart fields. A missing file part is not an error
// here; the usecase decides whether a file is required.
func (h *ResumeHandler) readForm(c fiber.Ctx) (usecase.ResumeForm, error) {
	form := usecase.ResumeForm{
		ProfileTitle:      c.FormValue("profile_title"),
		ResumeDescription: c.FormValue("resume_description"),
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return form, nil
	}
	if h.maxUploadBytes > 0 && fh.Size > h.maxUploadBytes {
		return form, middleware.NewAppError(fiber.StatusUnprocessableEntity, "Validation failed", fieldErrorsData(map[string]string{
			usecase.FieldFile: fmt.Sprintf("File cannot exceed %d MB", h.maxUploadBytes>>20),
		}), nil)
	}

	f, err := fh.Open()
	if err != nil {
		return form, middleware.NewAppError(fiber.StatusBadRequest, "Unable to read uploaded file", nil, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return form, middleware.NewAppError(fiber.StatusBadRequest, "Unable to read uploaded file", nil, err)
	}

	form.File = &usecase.UploadFile{
		Name:        fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Data:        data,
	}
	return form, nil
}

func resumeResponse(r resume.Resume) dto.ResumeResponse {
	return dto.ResumeResponse{
		ID:                r.ID,
		ProfileTitle:      r.ProfileTitle,
		ResumeDescription: r.ResumeDescription,
		ResumeURL:         r.ResumeURL,
		HasFile:           r.HasFile(),
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}
