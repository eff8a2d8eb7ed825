package match

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidStatus = errors.New("invalid match status")

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
	// StatusExpired is reserved for a time based sweep; no transition produces it yet.
	StatusExpired Status = "expired"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusPending, StatusAccepted, StatusRejected, StatusExpired:
		return st, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

func (s Status) IsTerminal() bool {
	return s == StatusAccepted || s == StatusRejected || s == StatusExpired
}

// CanTransitionTo reports whether next is reachable from s. Only pending moves, and only once.
func (s Status) CanTransitionTo(next Status) bool {
	return s == StatusPending && next.IsTerminal()
}

type Action string

const (
	ActionCreated   Action = "created"
	ActionViewed    Action = "viewed"
	ActionAccepted  Action = "accepted"
	ActionRejected  Action = "rejected"
	ActionContacted Action = "contacted"
)

// ActionFor maps a terminal status to the history action that records it.
func ActionFor(s Status) (Action, bool) {
	switch s {
	case StatusAccepted:
		return ActionAccepted, true
	case StatusRejected:
		return ActionRejected, true
	default:
		return "", false
	}
}

type Match struct {
	ID                 uuid.UUID
	CandidateID        uuid.UUID
	CompanyID          uuid.UUID
	CandidateRequestID *uuid.UUID
	JobPostingID       *uuid.UUID
	Score              float64
	Status             Status
	CandidateMessage   *string
	CompanyMessage     *string
	Notes              *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (m Match) IsParty(userID uuid.UUID) bool {
	if userID == uuid.Nil {
		return false
	}
	return userID == m.CandidateID || userID == m.CompanyID
}

// Counterparty returns the other side of the match, or uuid.Nil when userID is not a party.
func (m Match) Counterparty(userID uuid.UUID) uuid.UUID {
	switch userID {
	case uuid.Nil:
		return uuid.Nil
	case m.CandidateID:
		return m.CompanyID
	case m.CompanyID:
		return m.CandidateID
	default:
		return uuid.Nil
	}
}

// Scorable reports whether both pairing entities are resolved, so the score can be computed.
func (m Match) Scorable() bool {
	return m.CandidateRequestID != nil && m.JobPostingID != nil
}

// History is one immutable audit entry.
type History struct {
	ID        uuid.UUID
	MatchID   uuid.UUID
	Action    Action
	ActorID   uuid.UUID
	Message   *string
	CreatedAt time.Time
}
