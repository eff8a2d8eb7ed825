package dto

import (
	"time"

	"jobmatch/internal/domain/match"
	"jobmatch/internal/domain/matching"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

type CreateMatchRequest struct {
	CandidateRequestID string `json:"candidate_request_id" validate:"required,uuid"`
	JobPostingID       string `json:"job_posting_id" validate:"required,uuid"`
}

func (r CreateMatchRequest) Validate() error {
	return validate.Struct(r)
}

type SelectCandidateRequest struct {
	CandidateID  string `json:"candidate_id" validate:"required,uuid"`
	JobPostingID string `json:"job_posting_id" validate:"omitempty,uuid"`
}

func (r SelectCandidateRequest) Validate() error {
	return validate.Struct(r)
}

type RejectMatchRequest struct {
	Reason string `json:"reason" validate:"max=1000"`
}

func (r RejectMatchRequest) Validate() error {
	return validate.Struct(r)
}

type ContactMatchRequest struct {
	Message string `json:"message" validate:"required,min=1,max=2000"`
}

func (r ContactMatchRequest) Validate() error {
	return validate.Struct(r)
}

type MatchResponse struct {
	ID                 uuid.UUID  `json:"id"`
	CandidateID        uuid.UUID  `json:"candidate_id"`
	CompanyID          uuid.UUID  `json:"company_id"`
	CandidateRequestID *uuid.UUID `json:"candidate_request_id"`
	JobPostingID       *uuid.UUID `json:"job_posting_id"`
	Score              float64    `json:"score"`
	ScorePercent       float64    `json:"score_percent"`
	Status             string     `json:"status"`
	CandidateMessage   *string    `json:"candidate_message,omitempty"`
	CompanyMessage     *string    `json:"company_message,omitempty"`
	Notes              *string    `json:"notes,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func NewMatchResponse(m match.Match) MatchResponse {
	return MatchResponse{
		ID:                 m.ID,
		CandidateID:        m.CandidateID,
		CompanyID:          m.CompanyID,
		CandidateRequestID: m.CandidateRequestID,
		JobPostingID:       m.JobPostingID,
		Score:              m.Score,
		ScorePercent:       matching.Score{Value: m.Score}.Percent(),
		Status:             string(m.Status),
		CandidateMessage:   m.CandidateMessage,
		CompanyMessage:     m.CompanyMessage,
		Notes:              m.Notes,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func NewMatchListResponse(ms []match.Match) []MatchResponse {
	out := make([]MatchResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, NewMatchResponse(m))
	}
	return out
}

type MatchHistoryResponse struct {
	ID        uuid.UUID `json:"id"`
	Action    string    `json:"action"`
	ActorID   uuid.UUID `json:"actor_id"`
	Message   *string   `json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func NewMatchHistoryResponse(hs []match.History) []MatchHistoryResponse {
	out := make([]MatchHistoryResponse, 0, len(hs))
	for _, h := range hs {
		out = append(out, MatchHistoryResponse{
			ID:        h.ID,
			Action:    string(h.Action),
			ActorID:   h.ActorID,
			Message:   h.Message,
			CreatedAt: h.CreatedAt,
		})
	}
	return out
}
