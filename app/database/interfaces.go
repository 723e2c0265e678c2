package database

import (
	"github.com/biopulse/bioradar/app/watchlist"
)

// WatchlistRepository defines storage operations for watchlist
// configurations. Lookups return (nil, nil) when the watchlist does not
// exist.
type WatchlistRepository interface {
	Upsert(w *watchlist.Watchlist) error
	Get(name string) (*watchlist.Watchlist, error)
	List() ([]WatchlistInfo, error)
	Delete(name string) (bool, error)
	Count() (int, error)
}
