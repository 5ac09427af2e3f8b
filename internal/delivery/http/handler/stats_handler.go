package handler

import (
	"context"
	"strconv"

	"job-tracker/internal/delivery/http/dto"
	"job-tracker/internal/delivery/http/middleware"
	"job-tracker/internal/domain/application"
	"job-tracker/internal/domain/stats"
	"job-tracker/internal/pkg/response"
	"job-tracker/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type StatsService interface {
	Get(ctx context.Context, id usecase.Identity) (stats.Stats, error)
}

type StatsHandler struct {
	uc StatsService
}

func NewStatsHandler(uc StatsService) *StatsHandler {
	return &StatsHandler{uc: uc}
}

func (h *StatsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/stats", h.Get)
}

// Get returns the dashboard statistics. With ?zero_fill=true every known
// status is listed, which chart legends need.
func (h *StatsHandler) Get(c fiber.Ctx) error {
	s, err := h.uc.Get(c.Context(), middleware.Identity(c))
	if err != nil {
		return mapUsecaseError(err)
	}

	byStatus := s.ByStatus
	if zeroFill, _ := strconv.ParseBool(c.Query("zero_fill")); zeroFill {
		byStatus = stats.ZeroFill(byStatus)
	}

	out := dto.StatsResponse{
		Total:              s.Total,
		ByStatus:           make([]dto.StatusCountResponse, 0, len(byStatus)),
		RecentApplications: make([]dto.RecentApplicationResponse, 0, len(s.RecentApplications)),
	}
	for _, sc := range byStatus {
		out.ByStatus = append(out.ByStatus, dto.StatusCountResponse{Status: string(sc.Status), Count: sc.Count})
	}
	for _, r := range s.RecentApplications {
		out.RecentApplications = append(out.RecentApplications, dto.RecentApplicationResponse{
			ID:              r.ID,
			Company:         r.Company,
			JobTitle:        r.JobTitle,
			ApplicationDate: r.ApplicationDate.Format(application.DateLayout),
			Status:          string(r.Status),
		})
	}
	sum := s.Summary()
	out.Summary = dto.StatsSummaryResponse{
		Total:            sum.Total,
		ActiveInterviews: sum.ActiveInterviews,
		OffersReceived:   sum.OffersReceived,
		Recent:           sum.Recent,
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}
