package news

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Options tunes the gathering run. Zero values fall back to defaults.
type Options struct {
	WorkerCount   int
	FetchTimeout  time.Duration
	GatherTimeout time.Duration
}

const (
	defaultWorkerCount   = 5
	defaultFetchTimeout  = 15 * time.Second
	defaultGatherTimeout = 60 * time.Second
)

// Gatherer runs the full pipeline: plan, fetch concurrently, normalize,
// deduplicate, score, aggregate. Source failures are absorbed per query;
// only invalid input is surfaced to the caller.
type Gatherer struct {
	planner    *Planner
	sources    map[SourceKind]Source
	normalizer *Normalizer
	dedup      *Deduplicator
	scorer     *Scorer
	aggregator *Aggregator
	opts       Options
}

func NewGatherer(planner *Planner, sources []Source, opts Options) *Gatherer {
	if opts.WorkerCount <= 0 {
		opts.WorkerCount = defaultWorkerCount
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = defaultFetchTimeout
	}
	if opts.GatherTimeout <= 0 {
		opts.GatherTimeout = defaultGatherTimeout
	}

	byKind := make(map[SourceKind]Source, len(sources))
	for _, source := range sources {
		byKind[source.Kind()] = source
	}

	return &Gatherer{
		planner:    planner,
		sources:    byKind,
		normalizer: NewNormalizer(),
		dedup:      NewDeduplicator(),
		scorer:     NewScorer(),
		aggregator: NewAggregator(),
		opts:       opts,
	}
}

func (g *Gatherer) Run(ctx context.Context, req Request) ([]Item, error) {
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	from, to, err := req.TimeRange.Resolve(now)
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithTimeout(ctx, g.opts.GatherTimeout)
	defer cancel()

	queries := g.planner.Run(runCtx, req)
	if len(queries) == 0 {
		return []Item{}, nil
	}

	candidates := g.fetchAll(runCtx, queries, from, to, perQueryLimit(req.MaxItems))

	items := g.normalizer.Run(candidates, from, to)
	items = g.dedup.Run(items)
	items = g.scorer.Run(items)
	results := g.aggregator.Run(items, req.MaxItems)

	slog.Info("Gathering run completed",
		"queries", len(queries),
		"candidates", len(candidates),
		"deduplicated", len(items),
		"results", len(results),
		"duration", time.Since(now).Round(time.Millisecond))

	return results, nil
}

// fetchAll issues every query to its source through a bounded worker pool.
// Each worker writes into its own query slot, so no result depends on
// completion order; a failed or timed-out query simply contributes nothing.
func (g *Gatherer) fetchAll(ctx context.Context, queries []Query, from, to time.Time, limit int) []Candidate {
	slots := make([][]Candidate, len(queries))

	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < g.opts.WorkerCount; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				slots[idx] = g.fetchOne(ctx, queries[idx], from, to, limit)
			}
		}()
	}

	for idx := range queries {
		select {
		case jobs <- idx:
		case <-ctx.Done():
			// Deadline reached: whatever has been fetched so far proceeds.
		}
		if ctx.Err() != nil {
			break
		}
	}
	close(jobs)
	wg.Wait()

	var candidates []Candidate
	for _, slot := range slots {
		candidates = append(candidates, slot...)
	}
	return candidates
}

func (g *Gatherer) fetchOne(ctx context.Context, query Query, from, to time.Time, limit int) []Candidate {
	source, ok := g.sources[query.Kind]
	if !ok && query.Kind == SourceAISearch {
		// AI-expanded queries run through the web search source unless a
		// dedicated one is registered.
		source, ok = g.sources[SourceWebSearch]
	}
	if !ok {
		slog.Warn("No source registered for query kind", "kind", string(query.Kind), "query", query.Text)
		return nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, g.opts.FetchTimeout)
	defer cancel()

	records, err := source.Fetch(fetchCtx, query, from, to, limit)
	if err != nil {
		slog.Warn("Source fetch failed", "kind", string(query.Kind), "query", query.Text, "error", err)
		return nil
	}

	candidates := make([]Candidate, 0, len(records))
	for _, record := range records {
		candidates = append(candidates, Candidate{Record: record, Query: query})
	}
	return candidates
}

// perQueryLimit bounds how many records a single query may contribute.
func perQueryLimit(maxItems int) int {
	switch {
	case maxItems <= 0:
		return 5
	case maxItems < 5:
		return 5
	case maxItems > 25:
		return 25
	default:
		return maxItems
	}
}
