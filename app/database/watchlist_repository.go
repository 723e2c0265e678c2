package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/biopulse/bioradar/app/watchlist"
)

var _ WatchlistRepository = (*SQLWatchlistRepository)(nil)

// SQLWatchlistRepository stores watchlists in sqlite. Keyword company
// aliases are kept as a comma-joined column; positions preserve the supply
// order the pipeline's deterministic tie-breaks depend on.
type SQLWatchlistRepository struct {
	db *DB
}

func NewWatchlistRepository(db *DB) *SQLWatchlistRepository {
	return &SQLWatchlistRepository{db: db}
}

// Upsert replaces the stored definition of the named watchlist, child rows
// included.
func (r *SQLWatchlistRepository) Upsert(w *watchlist.Watchlist) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var watchlistID int64
	err = tx.QueryRow(`
		INSERT INTO watchlists (name) VALUES (?)
		ON CONFLICT (name) DO UPDATE SET updated_at = CURRENT_TIMESTAMP
		RETURNING id
	`, w.Name).Scan(&watchlistID)
	if err != nil {
		return fmt.Errorf("failed to upsert watchlist: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM watchlist_keywords WHERE watchlist_id = ?`, watchlistID); err != nil {
		return fmt.Errorf("failed to clear keywords: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM watchlist_targets WHERE watchlist_id = ?`, watchlistID); err != nil {
		return fmt.Errorf("failed to clear targets: %w", err)
	}

	for i, entry := range w.Keywords {
		_, err := tx.Exec(`
			INSERT INTO watchlist_keywords (watchlist_id, position, keyword, sop_category, business_category, companies)
			VALUES (?, ?, ?, ?, ?, ?)
		`, watchlistID, i, entry.Keyword, entry.SopCategory, entry.BusinessCategory, strings.Join(entry.Companies, ","))
		if err != nil {
			return fmt.Errorf("failed to insert keyword: %w", err)
		}
	}

	for i, target := range w.Targets {
		_, err := tx.Exec(`
			INSERT INTO watchlist_targets (watchlist_id, position, target_id, label, url)
			VALUES (?, ?, ?, ?, ?)
		`, watchlistID, i, target.ID, target.Label, target.URL)
		if err != nil {
			return fmt.Errorf("failed to insert target: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Get loads a stored watchlist by name, or (nil, nil) when absent.
func (r *SQLWatchlistRepository) Get(name string) (*watchlist.Watchlist, error) {
	var watchlistID int64
	err := r.db.QueryRow(`SELECT id FROM watchlists WHERE name = ?`, name).Scan(&watchlistID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get watchlist: %w", err)
	}

	w := &watchlist.Watchlist{Name: name}

	rows, err := r.db.Query(`
		SELECT keyword, sop_category, business_category, companies
		FROM watchlist_keywords
		WHERE watchlist_id = ?
		ORDER BY position
	`, watchlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to get keywords: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var entry watchlist.KeywordEntry
		var companies string
		if err := rows.Scan(&entry.Keyword, &entry.SopCategory, &entry.BusinessCategory, &companies); err != nil {
			return nil, fmt.Errorf("failed to scan keyword row: %w", err)
		}
		entry.Companies = splitCompanies(companies)
		w.Keywords = append(w.Keywords, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating keyword rows: %w", err)
	}

	targetRows, err := r.db.Query(`
		SELECT target_id, label, url
		FROM watchlist_targets
		WHERE watchlist_id = ?
		ORDER BY position
	`, watchlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to get targets: %w", err)
	}
	defer targetRows.Close()

	for targetRows.Next() {
		var target watchlist.CompanyTarget
		if err := targetRows.Scan(&target.ID, &target.Label, &target.URL); err != nil {
			return nil, fmt.Errorf("failed to scan target row: %w", err)
		}
		w.Targets = append(w.Targets, target)
	}
	if err := targetRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating target rows: %w", err)
	}

	return w, nil
}

// List returns summary info for every stored watchlist, ordered by name.
func (r *SQLWatchlistRepository) List() ([]WatchlistInfo, error) {
	rows, err := r.db.Query(`
		SELECT w.name,
		       (SELECT COUNT(*) FROM watchlist_keywords k WHERE k.watchlist_id = w.id),
		       (SELECT COUNT(*) FROM watchlist_targets t WHERE t.watchlist_id = w.id),
		       w.created_at, w.updated_at
		FROM watchlists w
		ORDER BY w.name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list watchlists: %w", err)
	}
	defer rows.Close()

	var infos []WatchlistInfo
	for rows.Next() {
		var info WatchlistInfo
		var createdAt, updatedAt string
		if err := rows.Scan(&info.Name, &info.KeywordCount, &info.TargetCount, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan watchlist row: %w", err)
		}
		info.CreatedAt = parseTimestamp(createdAt)
		info.UpdatedAt = parseTimestamp(updatedAt)
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating watchlist rows: %w", err)
	}

	return infos, nil
}

// Delete removes a watchlist and reports whether it existed.
func (r *SQLWatchlistRepository) Delete(name string) (bool, error) {
	result, err := r.db.Exec(`DELETE FROM watchlists WHERE name = ?`, name)
	if err != nil {
		return false, fmt.Errorf("failed to delete watchlist: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected > 0, nil
}

// Count returns the total number of stored watchlists.
func (r *SQLWatchlistRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM watchlists`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count watchlists: %w", err)
	}
	return count, nil
}

// parseTimestamp reads sqlite's CURRENT_TIMESTAMP text representation.
func parseTimestamp(raw string) time.Time {
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC()
		}
	}
	return time.Time{}
}

func splitCompanies(joined string) []string {
	if joined == "" {
		return nil
	}
	parts := strings.Split(joined, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
