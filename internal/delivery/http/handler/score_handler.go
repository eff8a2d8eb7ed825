package handler

import (
	"jobmatch/internal/delivery/http/dto"
	"jobmatch/internal/pkg/response"
	"jobmatch/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type ScoreHandler struct {
	uc usecase.ScoringUsecase
}

func NewScoreHandler(uc usecase.ScoringUsecase) *ScoreHandler {
	return &ScoreHandler{uc: uc}
}

func (h *ScoreHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/score")
	grp.Get("/", h.Score)
	grp.Get("/company", h.ScoreAgainstCompany)
}

func (h *ScoreHandler) Score(c fiber.Ctx) error {
	requestID, err := uuidQuery(c, "candidate_request_id")
	if err != nil {
		return err
	}
	postingID, err := uuidQuery(c, "job_posting_id")
	if err != nil {
		return err
	}

	res, err := h.uc.Score(c.Context(), requestID, postingID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewScoreResponse(res.Request.ID, res.Posting.ID, res.Score))
}

func (h *ScoreHandler) ScoreAgainstCompany(c fiber.Ctx) error {
	requestID, err := uuidQuery(c, "candidate_request_id")
	if err != nil {
		return err
	}
	companyID, err := uuidQuery(c, "company_id")
	if err != nil {
		return err
	}

	res, err := h.uc.ScoreAgainstCompany(c.Context(), requestID, companyID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewScoreResponse(res.Request.ID, res.Posting.ID, res.Score))
}
