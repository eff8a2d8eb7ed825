package usecase

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"jobmatch/internal/domain/candidate"
	"jobmatch/internal/domain/job"
	"jobmatch/internal/domain/match"
	"jobmatch/internal/notification"
	"jobmatch/internal/repository"

	"github.com/google/uuid"
)

type fakeAccounts struct {
	byID map[uuid.UUID]repository.Account
}

func (f *fakeAccounts) FindByID(_ context.Context, id uuid.UUID) (repository.Account, error) {
	a, ok := f.byID[id]
	if !ok {
		return repository.Account{}, repository.ErrAccountNotFound
	}
	return a, nil
}

type fakeRequests struct {
	items []candidate.Request
	err   error
}

func (f *fakeRequests) FindByID(_ context.Context, id uuid.UUID) (candidate.Request, error) {
	for _, r := range f.items {
		if r.ID == id {
			return r, nil
		}
	}
	return candidate.Request{}, repository.ErrCandidateRequestNotFound
}

func (f *fakeRequests) FindActiveByCandidate(_ context.Context, candidateID uuid.UUID) (candidate.Request, error) {
	var (
		best  candidate.Request
		found bool
	)
	for _, r := range f.items {
		if r.CandidateID != candidateID || !r.IsActive {
			continue
		}
		if !found || r.UpdatedAt.After(best.UpdatedAt) {
			best, found = r, true
		}
	}
	if !found {
		return candidate.Request{}, repository.ErrCandidateRequestNotFound
	}
	return best, nil
}

func (f *fakeRequests) ListActive(context.Context) ([]candidate.Request, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []candidate.Request
	for _, r := range f.items {
		if r.IsActive {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakePostings struct {
	items []job.Posting
}

func (f *fakePostings) FindByID(_ context.Context, id uuid.UUID) (job.Posting, error) {
	for _, p := range f.items {
		if p.ID == id {
			return p, nil
		}
	}
	return job.Posting{}, repository.ErrJobPostingNotFound
}

func (f *fakePostings) ListActiveByCompany(_ context.Context, companyID uuid.UUID) ([]job.Posting, error) {
	var out []job.Posting
	for _, p := range f.items {
		if p.CompanyID == companyID && p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePostings) ListActive(context.Context) ([]job.Posting, error) {
	var out []job.Posting
	for _, p := range f.items {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

// fakeMatches mirrors the storage guarantees: unique pairing on insert and a
// compare-and-set on the pending status.
type fakeMatches struct {
	mu      sync.Mutex
	matches map[uuid.UUID]match.Match
	history []match.History
}

func newFakeMatches() *fakeMatches {
	return &fakeMatches{matches: map[uuid.UUID]match.Match{}}
}

func samePairing(a, b match.Match) bool {
	if a.CandidateID != b.CandidateID {
		return false
	}
	if a.JobPostingID == nil || b.JobPostingID == nil {
		return a.JobPostingID == nil && b.JobPostingID == nil && a.CompanyID == b.CompanyID
	}
	return *a.JobPostingID == *b.JobPostingID
}

func (f *fakeMatches) Create(_ context.Context, m match.Match, h match.History) (match.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.matches {
		if samePairing(existing, m) {
			return match.Match{}, repository.ErrDuplicateMatch
		}
	}
	f.matches[m.ID] = m
	f.history = append(f.history, h)
	return m, nil
}

func (f *fakeMatches) FindByID(_ context.Context, id uuid.UUID) (match.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.matches[id]
	if !ok {
		return match.Match{}, repository.ErrMatchNotFound
	}
	return m, nil
}

func (f *fakeMatches) Transition(_ context.Context, id uuid.UUID, status match.Status, notes *string, h match.History) (match.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.matches[id]
	if !ok {
		return match.Match{}, repository.ErrMatchNotFound
	}
	if m.Status != match.StatusPending {
		return match.Match{}, repository.ErrStatusConflict
	}
	m.Status = status
	if notes != nil {
		m.Notes = notes
	}
	m.UpdatedAt = h.CreatedAt
	f.matches[id] = m
	f.history = append(f.history, h)
	return m, nil
}

func (f *fakeMatches) SetMessage(_ context.Context, id uuid.UUID, candidateSide bool, message string, h match.History) (match.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.matches[id]
	if !ok {
		return match.Match{}, repository.ErrMatchNotFound
	}
	if m.Status != match.StatusAccepted {
		return match.Match{}, repository.ErrStatusConflict
	}
	if candidateSide {
		m.CandidateMessage = &message
	} else {
		m.CompanyMessage = &message
	}
	f.matches[id] = m
	f.history = append(f.history, h)
	return m, nil
}

func (f *fakeMatches) AppendHistory(_ context.Context, h match.History) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.history = append(f.history, h)
	return nil
}

func (f *fakeMatches) ListHistory(_ context.Context, matchID uuid.UUID) ([]match.History, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []match.History
	for _, h := range f.history {
		if h.MatchID == matchID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeMatches) ListByParty(_ context.Context, partyID uuid.UUID, status match.Status) ([]match.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []match.Match
	for _, m := range f.matches {
		if !m.IsParty(partyID) || (status != "" && m.Status != status) {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeMatches) ListPending(_ context.Context, limit int) ([]match.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []match.Match
	for _, m := range f.matches {
		if m.Status == match.StatusPending {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeMatches) UpdateScore(_ context.Context, id uuid.UUID, score float64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.matches[id]
	if !ok || m.Status != match.StatusPending {
		return false, nil
	}
	m.Score = score
	f.matches[id] = m
	return true, nil
}

func (f *fakeMatches) actions(matchID uuid.UUID) []match.Action {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []match.Action
	for _, h := range f.history {
		if h.MatchID == matchID {
			out = append(out, h.Action)
		}
	}
	return out
}

type recordingSink struct {
	mu     sync.Mutex
	events []notification.Event
}

func (s *recordingSink) Notify(_ context.Context, evt notification.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, evt)
	return nil
}

func (s *recordingSink) all() []notification.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notification.Event(nil), s.events...)
}

type failingSink struct {
	err   error
	calls int
}

func (s *failingSink) Notify(context.Context, notification.Event) error {
	s.calls++
	return s.err
}

type memoryCache struct {
	mu    sync.Mutex
	items map[string][]byte
	locks map[string]bool
	sets  int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: map[string][]byte{}, locks: map[string]bool{}}
}

func (c *memoryCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.items[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *memoryCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = b
	c.sets++
	return nil
}

func (c *memoryCache) SetIfNotExists(_ context.Context, key string, _ string, _ time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.locks[key] {
		return false, nil
	}
	c.locks[key] = true
	return true, nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.locks, key)
	delete(c.items, key)
	return nil
}
