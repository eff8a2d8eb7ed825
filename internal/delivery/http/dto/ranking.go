package dto

import (
	"jobmatch/internal/domain/matching"
	"jobmatch/internal/pkg/response"

	"github.com/google/uuid"
)

type ScoreResponse struct {
	CandidateRequestID uuid.UUID          `json:"candidate_request_id"`
	JobPostingID       uuid.UUID          `json:"job_posting_id"`
	Score              float64            `json:"score"`
	ScorePercent       float64            `json:"score_percent"`
	Breakdown          matching.Breakdown `json:"breakdown"`
}

func NewScoreResponse(requestID, postingID uuid.UUID, s matching.Score) ScoreResponse {
	return ScoreResponse{
		CandidateRequestID: requestID,
		JobPostingID:       postingID,
		Score:              s.Value,
		ScorePercent:       s.Percent(),
		Breakdown:          s.Breakdown,
	}
}

type RankedCandidateResponse struct {
	Rank               int                `json:"rank"`
	CandidateID        uuid.UUID          `json:"candidate_id"`
	CandidateRequestID uuid.UUID          `json:"candidate_request_id"`
	JobPostingID       uuid.UUID          `json:"job_posting_id"`
	PostingTitle       string             `json:"posting_title"`
	FieldOfStudy       string             `json:"field_of_study"`
	JobType            string             `json:"job_type"`
	WorkType           string             `json:"work_type"`
	City               string             `json:"city"`
	Score              float64            `json:"score"`
	ScorePercent       float64            `json:"score_percent"`
	Breakdown          matching.Breakdown `json:"breakdown"`
}

type RankedCompanyResponse struct {
	Rank         int                `json:"rank"`
	CompanyID    uuid.UUID          `json:"company_id"`
	JobPostingID uuid.UUID          `json:"job_posting_id"`
	PostingTitle string             `json:"posting_title"`
	City         string             `json:"city"`
	WorkType     string             `json:"work_type"`
	Score        float64            `json:"score"`
	ScorePercent float64            `json:"score_percent"`
	Breakdown    matching.Breakdown `json:"breakdown"`
}

func NewPageMeta(p matching.Page) response.PageMeta {
	return response.PageMeta{
		Page:       p.Page,
		PageSize:   p.PageSize,
		Total:      p.Total,
		TotalPages: p.TotalPages,
		Truncated:  p.Truncated,
	}
}

func firstRank(p matching.Page) int {
	if p.Page < 1 || p.Page > p.TotalPages {
		return 1
	}
	return (p.Page-1)*p.PageSize + 1
}

func NewRankedCandidates(p matching.Page) []RankedCandidateResponse {
	out := make([]RankedCandidateResponse, 0, len(p.Items))
	rank := firstRank(p)
	for i, it := range p.Items {
		out = append(out, RankedCandidateResponse{
			Rank:               rank + i,
			CandidateID:        it.Request.CandidateID,
			CandidateRequestID: it.Request.ID,
			JobPostingID:       it.Posting.ID,
			PostingTitle:       it.Posting.Title,
			FieldOfStudy:       it.Request.FieldOfStudy,
			JobType:            string(it.Request.JobType),
			WorkType:           string(it.Request.WorkType),
			City:               it.Request.City,
			Score:              it.Score.Value,
			ScorePercent:       it.Score.Percent(),
			Breakdown:          it.Score.Breakdown,
		})
	}
	return out
}

func NewRankedCompanies(p matching.Page) []RankedCompanyResponse {
	out := make([]RankedCompanyResponse, 0, len(p.Items))
	rank := firstRank(p)
	for i, it := range p.Items {
		out = append(out, RankedCompanyResponse{
			Rank:         rank + i,
			CompanyID:    it.Posting.CompanyID,
			JobPostingID: it.Posting.ID,
			PostingTitle: it.Posting.Title,
			City:         it.Posting.City,
			WorkType:     string(it.Posting.WorkType),
			Score:        it.Score.Value,
			ScorePercent: it.Score.Percent(),
			Breakdown:    it.Score.Breakdown,
		})
	}
	return out
}
