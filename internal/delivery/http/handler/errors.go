package handler

import (
	"errors"
	"strconv"

	"job-tracker/internal/delivery/http/middleware"
	"job-tracker/internal/domain/application"
	"job-tracker/internal/domain/resume"
	"job-tracker/internal/domain/user"
	"job-tracker/internal/pkg/response"
	"job-tracker/internal/usecase"
	ucauth "job-tracker/internal/usecase/auth"
	ucuser "job-tracker/internal/usecase/user"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// mapUsecaseError translates usecase errors into HTTP errors for the error
// middleware.
func mapUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	var ve *usecase.ValidationError
	if errors.As(err, &ve) {
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Validation failed", fieldErrorsData(ve.Fields), err)
	}
	var ie *ucauth.InputError
	if errors.As(err, &ie) {
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Validation failed", fieldErrorsData(ie.Fields), err)
	}

	switch {
	case errors.Is(err, usecase.ErrUnauthenticated):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	case errors.Is(err, application.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Application not found", nil, err)
	case errors.Is(err, resume.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Resume not found", nil, err)
	case errors.Is(err, user.ErrNotFound):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Account no longer exists", nil, err)
	case errors.Is(err, ucuser.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "User not found", nil, err)
	case errors.Is(err, usecase.ErrNotConfirmed):
		return middleware.NewAppError(fiber.StatusBadRequest, "Confirmation required", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, usecase.ErrBusy):
		return middleware.NewAppError(fiber.StatusConflict, "Another request for this item is in progress", nil, err)
	case errors.Is(err, usecase.ErrUnparseableBlobURL):
		return middleware.NewAppError(fiber.StatusConflict, "Unable to extract file path from URL", nil, err)
	case errors.Is(err, usecase.ErrNoBlob):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "No file associated with this resume", nil, err)
	case errors.Is(err, ucauth.ErrEmailAlreadyRegistered):
		return middleware.NewAppError(fiber.StatusConflict, "Email already registered", nil, err)
	case errors.Is(err, ucauth.ErrInvalidCredentials):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid email or password", nil, err)
	case errors.Is(err, usecase.ErrRefreshTokenExpired):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Refresh token expired", nil, err)
	case errors.Is(err, usecase.ErrInvalidRefreshToken):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid refresh token", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

func fieldErrorsData(fields map[string]string) map[string]any {
	return map[string]any{"errors": fields}
}

func parseIDParam(c fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusBadRequest, "Invalid id", nil, err)
	}
	return id, nil
}

// confirmFromQuery answers the usecase's confirmation prompt with the
// request's ?confirm= flag.
func confirmFromQuery(c fiber.Ctx) usecase.Confirmer {
	ok, _ := strconv.ParseBool(c.Query("confirm"))
	return usecase.Confirmed(ok)
}
