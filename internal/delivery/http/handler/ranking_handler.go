package handler

import (
	"bytes"
	"fmt"
	"time"

	"jobmatch/internal/delivery/http/dto"
	"jobmatch/internal/domain/matching"
	"jobmatch/internal/export"
	"jobmatch/internal/pkg/jwt"
	"jobmatch/internal/pkg/response"
	"jobmatch/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type RankingHandler struct {
	uc     usecase.RankingUsecase
	logger *zap.Logger
}

func NewRankingHandler(uc usecase.RankingUsecase, logger *zap.Logger) *RankingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RankingHandler{uc: uc, logger: logger.Named("ranking")}
}

// RegisterRoutes expects r to sit behind the auth middleware.
func (h *RankingHandler) RegisterRoutes(r fiber.Router, requireRole func(...jwt.Role) fiber.Handler) {
	if r == nil {
		return
	}
	companies := r.Group("/companies/me", requireRole(jwt.RoleCompany))
	companies.Get("/candidates", h.RankCandidates)
	companies.Get("/candidates/export", h.ExportCandidates)

	candidates := r.Group("/candidates/me", requireRole(jwt.RoleCandidate))
	candidates.Get("/companies", h.RankCompanies)
}

func rankQuery(c fiber.Ctx) usecase.RankQuery {
	return usecase.RankQuery{
		Filters: matching.RawFilters{
			Field:    c.Query("field"),
			JobType:  c.Query("job_type"),
			WorkType: c.Query("work_type"),
			City:     c.Query("city"),
			MinScore: c.Query("min_score"),
		},
		Page:     c.Query("page"),
		PageSize: c.Query("page_size"),
	}
}

func (h *RankingHandler) RankCandidates(c fiber.Ctx) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	page, err := h.uc.RankCandidates(c.Context(), u.ID, rankQuery(c))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Paged(c, response.MessageOK, dto.NewRankedCandidates(page), dto.NewPageMeta(page))
}

func (h *RankingHandler) RankCompanies(c fiber.Ctx) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	page, err := h.uc.RankCompanies(c.Context(), u.ID, rankQuery(c))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Paged(c, response.MessageOK, dto.NewRankedCompanies(page), dto.NewPageMeta(page))
}

func (h *RankingHandler) ExportCandidates(c fiber.Ctx) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	q := rankQuery(c)
	page, err := h.uc.ExportCandidates(c.Context(), u.ID, q)
	if err != nil {
		return mapUsecaseError(err)
	}

	// filters already passed validation inside the use case
	filters, _ := matching.ParseFilters(q.Filters)
	now := time.Now().UTC()
	var buf bytes.Buffer
	if err := export.WriteRanking(&buf, page, export.RankingMeta{CompanyID: u.ID, Filters: filters, GeneratedAt: now}); err != nil {
		h.logger.Error("xlsx export failed", zap.String("company_id", u.ID.String()), zap.Error(err))
		return mapUsecaseError(err)
	}

	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="candidates-%s.xlsx"`, now.Format("20060102-150405")))
	return c.Status(fiber.StatusOK).Send(buf.Bytes())
}
