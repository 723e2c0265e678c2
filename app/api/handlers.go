package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/biopulse/bioradar/app/database"
	"github.com/biopulse/bioradar/app/news"
	"github.com/biopulse/bioradar/app/watchlist"
	"github.com/gin-gonic/gin"
)

func NewHandler(gatherer GathererInterface, watchlistRepo database.WatchlistRepository) *Handler {
	return &Handler{
		gatherer:      gatherer,
		watchlistRepo: watchlistRepo,
	}
}

// Search runs an ad-hoc gathering request. Validation failures come back as
// 400; source failures never surface here, the pipeline absorbs them.
func (h *Handler) Search(c *gin.Context) {
	var req news.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	results, err := h.gatherer.Run(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"total":   len(results),
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if count, err := h.watchlistRepo.Count(); err == nil {
		health["watchlists"] = count
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) APIListWatchlists(c *gin.Context) {
	infos, err := h.watchlistRepo.List()
	if err != nil {
		slog.Error("Database error", "operation", "list_watchlists", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if infos == nil {
		infos = []database.WatchlistInfo{}
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"watchlists": infos,
		"total":      len(infos),
	})
}

func (h *Handler) APICreateWatchlist(c *gin.Context) {
	var w watchlist.Watchlist
	if err := c.ShouldBindJSON(&w); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	if err := watchlist.Validate(&w); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.watchlistRepo.Upsert(&w); err != nil {
		slog.Error("Database error", "operation", "upsert_watchlist", "watchlist", w.Name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"watchlist": w.Name,
	})
}

func (h *Handler) APIGetWatchlist(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing watchlist name parameter"})
		return
	}

	w, err := h.watchlistRepo.Get(name)
	if err != nil {
		slog.Error("Database error", "operation", "get_watchlist", "watchlist", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if w == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Watchlist not found"})
		return
	}

	c.JSON(http.StatusOK, w)
}

func (h *Handler) APIDeleteWatchlist(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing watchlist name parameter"})
		return
	}

	deleted, err := h.watchlistRepo.Delete(name)
	if err != nil {
		slog.Error("Database error", "operation", "delete_watchlist", "watchlist", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Watchlist not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"watchlist": name,
	})
}

// APISearchWatchlist runs a gathering request built from a stored watchlist.
// The body only carries the time range and result cap; keywords and targets
// come from the store.
func (h *Handler) APISearchWatchlist(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing watchlist name parameter"})
		return
	}

	w, err := h.watchlistRepo.Get(name)
	if err != nil {
		slog.Error("Database error", "operation", "get_watchlist", "watchlist", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if w == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Watchlist not found"})
		return
	}

	var body watchlistSearchRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
			return
		}
	}

	req := news.Request{
		Keywords:       w.KeywordRows(),
		CompanyTargets: w.CompanyTargets(),
		TimeRange:      body.TimeRange,
		MaxItems:       body.MaxItems,
	}

	results, err := h.gatherer.Run(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"watchlist": name,
		"results":   results,
		"total":     len(results),
	})
}
