package database

import (
	"time"
)

// WatchlistInfo is the listing projection of a stored watchlist.
type WatchlistInfo struct {
	Name         string    `json:"name"`
	KeywordCount int       `json:"keyword_count"`
	TargetCount  int       `json:"target_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
