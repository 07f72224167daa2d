package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/secdigest/secdigest/app/database"
	"github.com/secdigest/secdigest/app/feed"
)

func NewHandler(itemRepo database.ItemRepository, runner RunnerInterface, summarizer SummarizerInterface) *Handler {
	return &Handler{
		itemRepo:   itemRepo,
		runner:     runner,
		summarizer: summarizer,
	}
}

// GetDigest serves the stored digest, optionally filtered by category and
// capped by limit.
func (h *Handler) GetDigest(c *gin.Context) {
	category := c.Query("category")
	if category != "" && !feed.Category(category).Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category", "category": category})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit", "limit": raw})
			return
		}
		limit = parsed
	}

	items, err := h.itemRepo.GetItems(category, limit)
	if err != nil {
		slog.Error("Database error", "operation", "get_items", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	responses := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, toItemResponse(item))
	}

	response := gin.H{
		"items": responses,
		"total": len(responses),
	}

	if lastRefreshAt, err := h.itemRepo.GetLastRefreshAt(); err == nil && lastRefreshAt != nil {
		response["last_refresh_at"] = lastRefreshAt.Format(time.RFC3339)
	}

	c.JSON(http.StatusOK, response)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"refreshing": h.runner.Running(),
	}

	if itemCount, err := h.itemRepo.GetItemCount(); err == nil {
		health["items"] = itemCount
	}

	if lastRefreshAt, err := h.itemRepo.GetLastRefreshAt(); err == nil && lastRefreshAt != nil {
		health["last_refresh_at"] = lastRefreshAt.Format(time.RFC3339)
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats := map[string]interface{}{
		"refreshing": h.runner.Running(),
	}

	if itemCount, err := h.itemRepo.GetItemCount(); err == nil {
		stats["items"] = itemCount
	}

	if counts, err := h.itemRepo.GetCategoryCounts(); err == nil {
		stats["categories"] = counts
	}

	if lastRefreshAt, err := h.itemRepo.GetLastRefreshAt(); err == nil && lastRefreshAt != nil {
		stats["last_refresh_at"] = lastRefreshAt.Format(time.RFC3339)
	}

	c.JSON(http.StatusOK, stats)
}

// APIRefresh triggers a digest refresh in the background. A run that is
// already active is reported, not queued behind.
func (h *Handler) APIRefresh(c *gin.Context) {
	if h.runner.Running() {
		c.JSON(http.StatusConflict, gin.H{"error": "Digest refresh already in progress"})
		return
	}

	go func() {
		if _, err := h.runner.Run(context.Background()); err != nil {
			slog.Error("Manual digest refresh failed", "error", err)
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{"message": "Digest refresh started"})
}

// APISummary returns an AI summary for one digest item, generating and
// caching it on first request.
func (h *Handler) APISummary(c *gin.Context) {
	if !h.summarizer.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Summarization is disabled (OPENAI_API_KEY not set)"})
		return
	}

	link := c.Query("link")
	if link == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing link parameter"})
		return
	}

	item, err := h.itemRepo.GetItemByLink(link)
	if err != nil {
		slog.Error("Database error", "operation", "get_item_by_link", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found in digest", "link": link})
		return
	}

	text, err := h.summarizer.Run(c.Request.Context(), *item)
	if err != nil {
		slog.Error("Summary generation failed", "link", link, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to generate summary"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"link":    link,
		"title":   item.Title,
		"summary": text,
	})
}
