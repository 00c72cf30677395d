// Package resolver coordinates the two-tier availability resolution: one
// batched registrar query first, and a concurrent per-domain registry
// fan-out when the registrar is unconfigured or unusable.
package resolver

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/benithors/dotresolve/internal/domain"
	"github.com/benithors/dotresolve/internal/rdap"
	"github.com/benithors/dotresolve/internal/registrar"
)

type Status string

const (
	StatusAvailable Status = "available"
	StatusTaken     Status = "taken"
	StatusUnknown   Status = "unknown"
)

// Source records which tier produced the response. A single resolution
// never mixes tiers: once the registrar answer is accepted or rejected,
// the whole batch follows that path.
type Source string

const (
	SourcePrimary   Source = "primary"
	SourceSecondary Source = "secondary"
)

// Response maps every sanitized domain in the batch to a status. The
// mapping is total: domains with no conclusive outcome carry an explicit
// StatusUnknown entry rather than being omitted.
type Response struct {
	Results       map[string]Status  `json:"results"`
	PremiumPrices map[string]float64 `json:"premium_prices,omitempty"`
	Source        Source             `json:"source"`
}

// SecondaryClient is the per-domain registry lookup used on the fallback
// path. Implementations never fail; inconclusive lookups report unknown.
type SecondaryClient interface {
	LookupDomain(ctx context.Context, name string) rdap.Status
}

type Options struct {
	// Registrar is the primary source; nil when credentials are not
	// configured, which sends every batch straight to the fallback path.
	Registrar registrar.Client
	Secondary SecondaryClient
	Logger    *zap.Logger
}

type Resolver struct {
	opts Options
	log  *zap.Logger
}

func New(opts Options) *Resolver {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Resolver{opts: opts, log: opts.Logger}
}

// Resolve sanitizes the raw batch and resolves each domain's availability.
// The only caller-visible error is domain.ErrEmptyBatch; every sourcing
// failure is absorbed into the response as a fallback or an unknown entry.
func (r *Resolver) Resolve(ctx context.Context, raw []string) (*Response, error) {
	batch, err := domain.Sanitize(raw)
	if err != nil {
		return nil, err
	}

	if r.opts.Registrar != nil {
		resp, err := r.resolvePrimary(ctx, batch)
		if err == nil {
			return resp, nil
		}
		r.log.Warn("primary source failed, falling back to registry lookups",
			zap.String("registrar", r.opts.Registrar.Name()),
			zap.Int("batch", len(batch)),
			zap.Error(err))
	}

	return r.resolveSecondary(ctx, batch), nil
}

func (r *Resolver) resolvePrimary(ctx context.Context, batch []string) (*Response, error) {
	checks, err := r.opts.Registrar.CheckDomains(ctx, batch)
	if err != nil {
		return nil, err
	}

	resp := &Response{
		Results: make(map[string]Status, len(batch)),
		Source:  SourcePrimary,
	}
	for _, c := range checks {
		if c.Available {
			resp.Results[c.Domain] = StatusAvailable
		} else {
			resp.Results[c.Domain] = StatusTaken
		}
		if c.Premium && c.PremiumPrice > 0 {
			if resp.PremiumPrices == nil {
				resp.PremiumPrices = make(map[string]float64)
			}
			resp.PremiumPrices[c.Domain] = c.PremiumPrice
		}
	}

	// Batch domains the registrar response omitted stay unknown; they are
	// not worth a second sourcing round for the rest of the batch.
	for _, d := range batch {
		if _, ok := resp.Results[d]; !ok {
			resp.Results[d] = StatusUnknown
		}
	}
	return resp, nil
}

func (r *Resolver) resolveSecondary(ctx context.Context, batch []string) *Response {
	// The batch is capped at domain.MaxBatchSize, so every domain gets its
	// own goroutine in a single wave: a slow or hanging lookup never queues
	// a sibling behind it. Each goroutine writes only its own slot; the
	// merge into the response map happens after all have settled.
	statuses := make([]Status, len(batch))
	for i := range statuses {
		statuses[i] = StatusUnknown
	}

	var wg sync.WaitGroup
	wg.Add(len(batch))
	for i, d := range batch {
		go func(i int, d string) {
			defer wg.Done()
			statuses[i] = r.lookupOne(ctx, d)
		}(i, d)
	}
	wg.Wait()

	resp := &Response{
		Results: make(map[string]Status, len(batch)),
		Source:  SourceSecondary,
	}
	for i, d := range batch {
		resp.Results[d] = statuses[i]
	}
	return resp
}

// lookupOne isolates a single registry lookup: a panic or failure for one
// domain degrades that domain to unknown without touching its siblings.
func (r *Resolver) lookupOne(ctx context.Context, d string) (status Status) {
	status = StatusUnknown
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("registry lookup panicked", zap.String("domain", d), zap.Any("panic", rec))
			status = StatusUnknown
		}
	}()

	if r.opts.Secondary == nil {
		return StatusUnknown
	}
	switch r.opts.Secondary.LookupDomain(ctx, d) {
	case rdap.StatusAvailable:
		return StatusAvailable
	case rdap.StatusTaken:
		return StatusTaken
	default:
		return StatusUnknown
	}
}
