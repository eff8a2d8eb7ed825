package matching

import (
	"context"
	"runtime"
	"sort"
	"time"

	"jobmatch/internal/domain/candidate"
	"jobmatch/internal/domain/job"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultPageSize        = 12
	MaxPageSize            = 100
	DefaultMaxScannedPairs = 200000
	// MaxPage bounds caller-supplied page numbers; any page past the data is empty anyway.
	MaxPage = 1 << 20
)

// Ranked is one surviving (request, posting) pairing.
type Ranked struct {
	Request candidate.Request
	Posting job.Posting
	Score   Score
}

type Page struct {
	Items      []Ranked
	Page       int
	PageSize   int
	Total      int
	TotalPages int
	Scanned    int
	Truncated  bool
}

type RankOptions struct {
	Filters  Filters
	Page     int
	PageSize int
	// Unpaged returns every surviving pairing as a single page.
	Unpaged bool
}

type Ranker struct {
	scorer   *Scorer
	workers  int
	maxPairs int
}

func NewRanker(scorer *Scorer, workers, maxPairs int) *Ranker {
	if scorer == nil {
		scorer = DefaultScorer()
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if maxPairs <= 0 {
		maxPairs = DefaultMaxScannedPairs
	}
	return &Ranker{scorer: scorer, workers: workers, maxPairs: maxPairs}
}

// RankCandidates ranks a company's view: every active request in the pool that passes the
// filters is scored against every active posting of the company.
func (r *Ranker) RankCandidates(ctx context.Context, postings []job.Posting, pool []candidate.Request, opts RankOptions) (Page, error) {
	anchors := make([]job.Posting, 0, len(postings))
	for _, p := range postings {
		if p.IsActive {
			anchors = append(anchors, p)
		}
	}

	counter := make([]candidate.Request, 0, len(pool))
	for _, req := range pool {
		if req.IsActive && opts.Filters.AcceptsRequest(req) {
			counter = append(counter, req)
		}
	}
	sort.SliceStable(counter, func(i, j int) bool {
		return createdBefore(counter[i].CreatedAt, counter[j].CreatedAt, counter[i].ID, counter[j].ID)
	})

	truncated := false
	if len(anchors) > 0 {
		if limit := r.maxPairs / len(anchors); len(counter) > limit {
			counter = counter[:limit]
			truncated = true
		}
	} else {
		counter = counter[:0]
	}

	slots := make([][]Ranked, len(counter))
	err := r.fanOut(ctx, len(counter), func(i int) {
		req := counter[i]
		out := make([]Ranked, 0, len(anchors))
		for _, p := range anchors {
			sc := r.scorer.Score(req, p)
			if sc.Value >= opts.Filters.MinScore {
				out = append(out, Ranked{Request: req, Posting: p, Score: sc})
			}
		}
		slots[i] = out
	})
	if err != nil {
		return Page{}, err
	}

	items := merge(slots)
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Score.Value != b.Score.Value {
			return a.Score.Value > b.Score.Value
		}
		if a.Request.ID != b.Request.ID {
			return createdBefore(a.Request.CreatedAt, b.Request.CreatedAt, a.Request.ID, b.Request.ID)
		}
		return postingBefore(a.Posting, b.Posting)
	})

	page := pageOf(items, opts)
	page.Scanned = len(counter) * len(anchors)
	page.Truncated = truncated
	return page, nil
}

// RankPostings ranks a candidate's view. Postings are grouped by company and every company is
// evaluated once through ScoreAgainstCompany, so each company appears at most once.
func (r *Ranker) RankPostings(ctx context.Context, req candidate.Request, postings []job.Posting, opts RankOptions) (Page, error) {
	if !req.IsActive {
		return pageOf(nil, opts), nil
	}

	byCompany := make(map[uuid.UUID][]job.Posting)
	companies := make([]uuid.UUID, 0)
	for _, p := range postings {
		if !p.IsActive || !opts.Filters.AcceptsPosting(p) {
			continue
		}
		if _, ok := byCompany[p.CompanyID]; !ok {
			companies = append(companies, p.CompanyID)
		}
		byCompany[p.CompanyID] = append(byCompany[p.CompanyID], p)
	}
	sort.Slice(companies, func(i, j int) bool {
		return companies[i].String() < companies[j].String()
	})

	truncated := false
	scanned := 0
	kept := make([]uuid.UUID, 0, len(companies))
	for _, c := range companies {
		n := len(byCompany[c])
		if scanned+n > r.maxPairs {
			truncated = true
			break
		}
		scanned += n
		kept = append(kept, c)
	}

	slots := make([][]Ranked, len(kept))
	err := r.fanOut(ctx, len(kept), func(i int) {
		sc, p, ok := r.scorer.ScoreAgainstCompany(req, byCompany[kept[i]])
		if ok && sc.Value >= opts.Filters.MinScore {
			slots[i] = []Ranked{{Request: req, Posting: p, Score: sc}}
		}
	})
	if err != nil {
		return Page{}, err
	}

	items := merge(slots)
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Score.Value != b.Score.Value {
			return a.Score.Value > b.Score.Value
		}
		return postingBefore(a.Posting, b.Posting)
	})

	page := pageOf(items, opts)
	page.Scanned = scanned
	page.Truncated = truncated
	return page, nil
}

// fanOut runs fn for every index on a bounded number of goroutines. Each call owns its slot,
// so fn needs no locking.
func (r *Ranker) fanOut(ctx context.Context, n int, fn func(i int)) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func merge(slots [][]Ranked) []Ranked {
	n := 0
	for _, s := range slots {
		n += len(s)
	}
	out := make([]Ranked, 0, n)
	for _, s := range slots {
		out = append(out, s...)
	}
	return out
}

func pageOf(items []Ranked, opts RankOptions) Page {
	if !opts.Unpaged {
		return Paginate(items, opts.Page, opts.PageSize)
	}
	if items == nil {
		items = []Ranked{}
	}
	p := Page{Items: items, Page: 1, PageSize: len(items), Total: len(items)}
	if len(items) > 0 {
		p.TotalPages = 1
	}
	return p
}

// Paginate cuts a 1-based page out of already sorted items. A page past the end is empty.
func Paginate(items []Ranked, page, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	if page < 1 {
		page = 1
	}

	total := len(items)
	p := Page{
		Items:      []Ranked{},
		Page:       page,
		PageSize:   size,
		Total:      total,
		TotalPages: (total + size - 1) / size,
	}

	// checked before multiplying so a huge page cannot overflow the offset
	if page > p.TotalPages {
		return p
	}
	start := (page - 1) * size
	end := start + size
	if end > total {
		end = total
	}
	p.Items = items[start:end]
	return p
}

func createdBefore(aAt, bAt time.Time, aID, bID uuid.UUID) bool {
	if !aAt.Equal(bAt) {
		return aAt.Before(bAt)
	}
	return aID.String() < bID.String()
}
