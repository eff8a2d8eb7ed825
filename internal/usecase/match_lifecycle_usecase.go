package usecase

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"jobmatch/internal/domain/match"
	"jobmatch/internal/domain/matching"
	"jobmatch/internal/notification"
	"jobmatch/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CreateMatchInput struct {
	ActorID            uuid.UUID
	CandidateID        uuid.UUID
	CompanyID          uuid.UUID
	CandidateRequestID *uuid.UUID
	JobPostingID       *uuid.UUID
	Score              float64
}

type MatchLifecycleUsecase interface {
	Create(ctx context.Context, in CreateMatchInput) (match.Match, error)
	// Propose creates a match for a concrete request and posting, scoring the pair itself.
	Propose(ctx context.Context, actorID, requestID, postingID uuid.UUID) (match.Match, error)
	SelectCandidate(ctx context.Context, companyID, candidateID uuid.UUID, postingID *uuid.UUID) (match.Match, error)
	Accept(ctx context.Context, matchID, actorID uuid.UUID) (match.Match, error)
	Reject(ctx context.Context, matchID, actorID uuid.UUID, reason string) (match.Match, error)
	RejectAsAdmin(ctx context.Context, matchID, adminID uuid.UUID, reason string) (match.Match, error)
	MarkViewed(ctx context.Context, matchID, actorID uuid.UUID) (match.Match, error)
	Contact(ctx context.Context, matchID, actorID uuid.UUID, message string) (match.Match, error)
	Get(ctx context.Context, matchID, actorID uuid.UUID) (match.Match, error)
	History(ctx context.Context, matchID, actorID uuid.UUID) ([]match.History, error)
	ListForParty(ctx context.Context, actorID uuid.UUID, status string) ([]match.Match, error)
}

type MatchLifecycle struct {
	matches  repository.MatchRepository
	requests repository.CandidateRequestRepository
	postings repository.JobPostingRepository
	accounts repository.AccountRepository
	scorer   *matching.Scorer
	sink     notification.Sink
	logger   *zap.Logger

	notifyTimeout time.Duration
	now           func() time.Time
}

type MatchLifecycleDeps struct {
	Matches       repository.MatchRepository
	Requests      repository.CandidateRequestRepository
	Postings      repository.JobPostingRepository
	Accounts      repository.AccountRepository
	Scorer        *matching.Scorer
	Sink          notification.Sink
	Logger        *zap.Logger
	NotifyTimeout time.Duration
}

func NewMatchLifecycleUsecase(d MatchLifecycleDeps) *MatchLifecycle {
	if d.Scorer == nil {
		d.Scorer = matching.DefaultScorer()
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.NotifyTimeout <= 0 {
		d.NotifyTimeout = 3 * time.Second
	}
	return &MatchLifecycle{
		matches:       d.Matches,
		requests:      d.Requests,
		postings:      d.Postings,
		accounts:      d.Accounts,
		scorer:        d.Scorer,
		sink:          d.Sink,
		logger:        d.Logger.Named("lifecycle"),
		notifyTimeout: d.NotifyTimeout,
		now:           time.Now,
	}
}

func (u *MatchLifecycle) Create(ctx context.Context, in CreateMatchInput) (match.Match, error) {
	if in.ActorID == uuid.Nil {
		return match.Match{}, ErrUnauthorized
	}
	if in.CandidateID == uuid.Nil || in.CompanyID == uuid.Nil {
		return match.Match{}, ErrInvalidInput
	}
	if math.IsNaN(in.Score) || in.Score < 0 || in.Score > 1 {
		return match.Match{}, ErrInvalidInput
	}
	if in.ActorID != in.CandidateID && in.ActorID != in.CompanyID {
		return match.Match{}, ErrAccessDenied
	}

	if in.CandidateRequestID != nil {
		req, err := loadRequest(ctx, u.requests, *in.CandidateRequestID)
		if err != nil {
			return match.Match{}, err
		}
		if req.CandidateID != in.CandidateID {
			return match.Match{}, ErrInvalidInput
		}
	}
	if in.JobPostingID != nil {
		p, err := loadPosting(ctx, u.postings, *in.JobPostingID)
		if err != nil {
			return match.Match{}, err
		}
		if p.CompanyID != in.CompanyID {
			return match.Match{}, ErrAccessDenied
		}
	}

	return u.insert(ctx, in)
}

func (u *MatchLifecycle) Propose(ctx context.Context, actorID, requestID, postingID uuid.UUID) (match.Match, error) {
	if actorID == uuid.Nil {
		return match.Match{}, ErrUnauthorized
	}
	req, err := loadRequest(ctx, u.requests, requestID)
	if err != nil {
		return match.Match{}, err
	}
	p, err := loadPosting(ctx, u.postings, postingID)
	if err != nil {
		return match.Match{}, err
	}
	if actorID != req.CandidateID && actorID != p.CompanyID {
		return match.Match{}, ErrAccessDenied
	}
	if !req.IsActive || !p.IsActive {
		return match.Match{}, ErrInvalidInput
	}

	return u.insert(ctx, CreateMatchInput{
		ActorID:            actorID,
		CandidateID:        req.CandidateID,
		CompanyID:          p.CompanyID,
		CandidateRequestID: &req.ID,
		JobPostingID:       &p.ID,
		Score:              u.scorer.Score(req, p).Value,
	})
}

// SelectCandidate records a company's explicit pick. The score is computed right away when
// both a posting and an active request of the candidate are known, and left at 0 otherwise.
func (u *MatchLifecycle) SelectCandidate(ctx context.Context, companyID, candidateID uuid.UUID, postingID *uuid.UUID) (match.Match, error) {
	if companyID == uuid.Nil {
		return match.Match{}, ErrUnauthorized
	}
	if candidateID == uuid.Nil {
		return match.Match{}, ErrInvalidInput
	}

	acc, err := u.accounts.FindByID(ctx, candidateID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return match.Match{}, ErrNotFound
		}
		return match.Match{}, internalError(err)
	}
	if acc.Kind != repository.AccountKindCandidate || !acc.IsActive {
		return match.Match{}, ErrNotFound
	}

	in := CreateMatchInput{ActorID: companyID, CandidateID: candidateID, CompanyID: companyID}
	if postingID == nil {
		return u.insert(ctx, in)
	}

	p, err := loadPosting(ctx, u.postings, *postingID)
	if err != nil {
		return match.Match{}, err
	}
	if p.CompanyID != companyID {
		return match.Match{}, ErrAccessDenied
	}
	in.JobPostingID = &p.ID

	req, err := u.requests.FindActiveByCandidate(ctx, candidateID)
	switch {
	case err == nil:
		in.CandidateRequestID = &req.ID
		in.Score = u.scorer.Score(req, p).Value
	case errors.Is(err, repository.ErrCandidateRequestNotFound):
	default:
		return match.Match{}, internalError(err)
	}

	return u.insert(ctx, in)
}

func (u *MatchLifecycle) insert(ctx context.Context, in CreateMatchInput) (match.Match, error) {
	now := u.now().UTC()
	m := match.Match{
		ID:                 uuid.New(),
		CandidateID:        in.CandidateID,
		CompanyID:          in.CompanyID,
		CandidateRequestID: in.CandidateRequestID,
		JobPostingID:       in.JobPostingID,
		Score:              in.Score,
		Status:             match.StatusPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	h := match.History{
		ID:        uuid.New(),
		MatchID:   m.ID,
		Action:    match.ActionCreated,
		ActorID:   in.ActorID,
		CreatedAt: now,
	}

	created, err := u.matches.Create(ctx, m, h)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateMatch) {
			return match.Match{}, ErrDuplicatePairing
		}
		return match.Match{}, internalError(err)
	}

	u.logger.Info("match created",
		zap.String("match_id", created.ID.String()),
		zap.String("actor_id", in.ActorID.String()),
		zap.Float64("score", created.Score),
	)
	u.notify(ctx, notification.Event{
		Type:        notification.EventMatchCreated,
		MatchID:     created.ID,
		RecipientID: created.Counterparty(in.ActorID),
	})
	return created, nil
}

func (u *MatchLifecycle) Accept(ctx context.Context, matchID, actorID uuid.UUID) (match.Match, error) {
	m, err := u.transition(ctx, matchID, actorID, match.StatusAccepted, nil, false)
	if err != nil {
		return match.Match{}, err
	}
	u.notify(ctx, notification.Event{
		Type:        notification.EventMatchAccepted,
		MatchID:     m.ID,
		RecipientID: m.Counterparty(actorID),
	})
	return m, nil
}

// Reject between the parties notifies nobody.
func (u *MatchLifecycle) Reject(ctx context.Context, matchID, actorID uuid.UUID, reason string) (match.Match, error) {
	return u.transition(ctx, matchID, actorID, match.StatusRejected, optionalText(reason), false)
}

// RejectAsAdmin is the verification path. The caller's admin role is checked by the
// transport; both parties are notified.
func (u *MatchLifecycle) RejectAsAdmin(ctx context.Context, matchID, adminID uuid.UUID, reason string) (match.Match, error) {
	m, err := u.transition(ctx, matchID, adminID, match.StatusRejected, optionalText(reason), true)
	if err != nil {
		return match.Match{}, err
	}
	for _, recipient := range []uuid.UUID{m.CandidateID, m.CompanyID} {
		u.notify(ctx, notification.Event{
			Type:        notification.EventMatchRejected,
			MatchID:     m.ID,
			RecipientID: recipient,
			Reason:      strings.TrimSpace(reason),
		})
	}
	return m, nil
}

func (u *MatchLifecycle) transition(ctx context.Context, matchID, actorID uuid.UUID, to match.Status, reason *string, admin bool) (match.Match, error) {
	if actorID == uuid.Nil {
		return match.Match{}, ErrUnauthorized
	}
	m, err := u.load(ctx, matchID)
	if err != nil {
		return match.Match{}, err
	}
	if !admin && !m.IsParty(actorID) {
		return match.Match{}, ErrAccessDenied
	}
	if !m.Status.CanTransitionTo(to) {
		return match.Match{}, ErrCannotTransition
	}

	action, ok := match.ActionFor(to)
	if !ok {
		return match.Match{}, ErrCannotTransition
	}
	var notes *string
	if to == match.StatusRejected {
		notes = reason
	}

	updated, err := u.matches.Transition(ctx, matchID, to, notes, match.History{
		ID:        uuid.New(),
		MatchID:   matchID,
		Action:    action,
		ActorID:   actorID,
		Message:   reason,
		CreatedAt: u.now().UTC(),
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrStatusConflict):
			return match.Match{}, ErrCannotTransition
		case errors.Is(err, repository.ErrMatchNotFound):
			return match.Match{}, ErrNotFound
		default:
			return match.Match{}, internalError(err)
		}
	}

	u.logger.Info("match transitioned",
		zap.String("match_id", matchID.String()),
		zap.String("status", string(to)),
		zap.String("actor_id", actorID.String()),
		zap.Bool("admin", admin),
	)
	return updated, nil
}

func (u *MatchLifecycle) MarkViewed(ctx context.Context, matchID, actorID uuid.UUID) (match.Match, error) {
	m, err := u.Get(ctx, matchID, actorID)
	if err != nil {
		return match.Match{}, err
	}
	err = u.matches.AppendHistory(ctx, match.History{
		ID:        uuid.New(),
		MatchID:   matchID,
		Action:    match.ActionViewed,
		ActorID:   actorID,
		CreatedAt: u.now().UTC(),
	})
	if err != nil {
		return match.Match{}, internalError(err)
	}
	return m, nil
}

func (u *MatchLifecycle) Contact(ctx context.Context, matchID, actorID uuid.UUID, message string) (match.Match, error) {
	msg := strings.TrimSpace(message)
	if msg == "" {
		return match.Match{}, ErrInvalidInput
	}
	m, err := u.Get(ctx, matchID, actorID)
	if err != nil {
		return match.Match{}, err
	}
	if m.Status != match.StatusAccepted {
		return match.Match{}, ErrCannotTransition
	}

	updated, err := u.matches.SetMessage(ctx, matchID, actorID == m.CandidateID, msg, match.History{
		ID:        uuid.New(),
		MatchID:   matchID,
		Action:    match.ActionContacted,
		ActorID:   actorID,
		Message:   &msg,
		CreatedAt: u.now().UTC(),
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrStatusConflict):
			return match.Match{}, ErrCannotTransition
		case errors.Is(err, repository.ErrMatchNotFound):
			return match.Match{}, ErrNotFound
		default:
			return match.Match{}, internalError(err)
		}
	}
	return updated, nil
}

func (u *MatchLifecycle) Get(ctx context.Context, matchID, actorID uuid.UUID) (match.Match, error) {
	if actorID == uuid.Nil {
		return match.Match{}, ErrUnauthorized
	}
	m, err := u.load(ctx, matchID)
	if err != nil {
		return match.Match{}, err
	}
	if !m.IsParty(actorID) {
		return match.Match{}, ErrAccessDenied
	}
	return m, nil
}

func (u *MatchLifecycle) History(ctx context.Context, matchID, actorID uuid.UUID) ([]match.History, error) {
	if _, err := u.Get(ctx, matchID, actorID); err != nil {
		return nil, err
	}
	hs, err := u.matches.ListHistory(ctx, matchID)
	if err != nil {
		return nil, internalError(err)
	}
	return hs, nil
}

func (u *MatchLifecycle) ListForParty(ctx context.Context, actorID uuid.UUID, status string) ([]match.Match, error) {
	if actorID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	var st match.Status
	if strings.TrimSpace(status) != "" {
		parsed, err := match.ParseStatus(status)
		if err != nil {
			return nil, ErrInvalidFilter
		}
		st = parsed
	}
	ms, err := u.matches.ListByParty(ctx, actorID, st)
	if err != nil {
		return nil, internalError(err)
	}
	return ms, nil
}

func (u *MatchLifecycle) load(ctx context.Context, matchID uuid.UUID) (match.Match, error) {
	if matchID == uuid.Nil {
		return match.Match{}, ErrNotFound
	}
	m, err := u.matches.FindByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repository.ErrMatchNotFound) {
			return match.Match{}, ErrNotFound
		}
		return match.Match{}, internalError(err)
	}
	return m, nil
}

// notify never fails the caller. It runs detached from the request's cancellation but
// bounded by notifyTimeout.
func (u *MatchLifecycle) notify(ctx context.Context, evt notification.Event) {
	if u.sink == nil || evt.RecipientID == uuid.Nil {
		return
	}
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = u.now().UTC()
	}
	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), u.notifyTimeout)
	defer cancel()
	if err := u.sink.Notify(nctx, evt); err != nil {
		u.logger.Warn("notification delivery failed",
			zap.String("type", string(evt.Type)),
			zap.String("match_id", evt.MatchID.String()),
			zap.Error(err),
		)
	}
}

func optionalText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
