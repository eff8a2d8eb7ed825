package handler

import (
	"jobmatch/internal/delivery/http/dto"
	"jobmatch/internal/pkg/jwt"
	"jobmatch/internal/pkg/response"
	"jobmatch/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type MatchHandler struct {
	uc usecase.MatchLifecycleUsecase
}

func NewMatchHandler(uc usecase.MatchLifecycleUsecase) *MatchHandler {
	return &MatchHandler{uc: uc}
}

// RegisterRoutes expects r to sit behind the auth middleware.
func (h *MatchHandler) RegisterRoutes(r fiber.Router, requireRole func(...jwt.Role) fiber.Handler) {
	if r == nil {
		return
	}
	grp := r.Group("/matches", requireRole(jwt.RoleCandidate, jwt.RoleCompany))
	grp.Post("/", h.Create)
	grp.Post("/select-candidate", requireRole(jwt.RoleCompany), h.SelectCandidate)
	grp.Get("/", h.List)
	grp.Get("/:id", h.Get)
	grp.Get("/:id/history", h.History)
	grp.Post("/:id/accept", h.Accept)
	grp.Post("/:id/reject", h.Reject)
	grp.Post("/:id/contact", h.Contact)

	admin := r.Group("/admin/matches", requireRole(jwt.RoleAdmin))
	admin.Post("/:id/reject", h.RejectAsAdmin)
}

func (h *MatchHandler) Create(c fiber.Ctx) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.CreateMatchRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	m, err := h.uc.Propose(c.Context(), u.ID, uuid.MustParse(req.CandidateRequestID), uuid.MustParse(req.JobPostingID))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, dto.NewMatchResponse(m))
}

func (h *MatchHandler) SelectCandidate(c fiber.Ctx) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.SelectCandidateRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	var postingID *uuid.UUID
	if req.JobPostingID != "" {
		id := uuid.MustParse(req.JobPostingID)
		postingID = &id
	}
	m, err := h.uc.SelectCandidate(c.Context(), u.ID, uuid.MustParse(req.CandidateID), postingID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, dto.NewMatchResponse(m))
}

func (h *MatchHandler) List(c fiber.Ctx) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	ms, err := h.uc.ListForParty(c.Context(), u.ID, c.Query("status"))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewMatchListResponse(ms))
}

// Get records the view in the audit trail.
func (h *MatchHandler) Get(c fiber.Ctx) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	m, err := h.uc.MarkViewed(c.Context(), id, u.ID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewMatchResponse(m))
}

func (h *MatchHandler) History(c fiber.Ctx) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	hs, err := h.uc.History(c.Context(), id, u.ID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewMatchHistoryResponse(hs))
}

func (h *MatchHandler) Accept(c fiber.Ctx) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	m, err := h.uc.Accept(c.Context(), id, u.ID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewMatchResponse(m))
}

func (h *MatchHandler) Reject(c fiber.Ctx) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	req, err := rejectBody(c)
	if err != nil {
		return err
	}
	m, err := h.uc.Reject(c.Context(), id, u.ID, req.Reason)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewMatchResponse(m))
}

func (h *MatchHandler) RejectAsAdmin(c fiber.Ctx) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	req, err := rejectBody(c)
	if err != nil {
		return err
	}
	m, err := h.uc.RejectAsAdmin(c.Context(), id, u.ID, req.Reason)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewMatchResponse(m))
}

func (h *MatchHandler) Contact(c fiber.Ctx) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.ContactMatchRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	m, err := h.uc.Contact(c.Context(), id, u.ID, req.Message)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewMatchResponse(m))
}

// rejectBody treats an empty body as "no reason".
func rejectBody(c fiber.Ctx) (dto.RejectMatchRequest, error) {
	var req dto.RejectMatchRequest
	if len(c.Body()) == 0 {
		return req, nil
	}
	if err := bindBody(c, &req); err != nil {
		return dto.RejectMatchRequest{}, err
	}
	return req, nil
}
