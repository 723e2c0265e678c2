package api

import (
	"context"

	"github.com/biopulse/bioradar/app/database"
	"github.com/biopulse/bioradar/app/news"
)

type GathererInterface interface {
	Run(ctx context.Context, req news.Request) ([]news.Item, error)
}

var _ GathererInterface = (*news.Gatherer)(nil)

type Handler struct {
	gatherer      GathererInterface
	watchlistRepo database.WatchlistRepository
}

// watchlistSearchRequest is the body of a stored-watchlist gathering run;
// keywords and targets come from the store.
type watchlistSearchRequest struct {
	TimeRange news.TimeRange `json:"timeRange"`
	MaxItems  int            `json:"maxItems"`
}
