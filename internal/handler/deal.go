package handler

import (
	"errors"
	"net/http"
	"strconv"

	"dealrater/internal/model"
	"dealrater/internal/service"

	"github.com/gin-gonic/gin"
)

// DealHandler handles deal-evaluation HTTP requests
type DealHandler struct {
	deals *service.DealService
}

// NewDealHandler creates a new deal handler
func NewDealHandler(deals *service.DealService) *DealHandler {
	return &DealHandler{deals: deals}
}

// Evaluate handles POST /api/v1/deals/evaluate
//
// The response always carries comparable_count; clients should hide ratings
// computed from fewer than 3 comparables rather than show a low-confidence
// result.
func (h *DealHandler) Evaluate(c *gin.Context) {
	var req model.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if !req.ListingType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "listing_type must be \"sale\" or \"rental\""})
		return
	}

	rating, err := h.deals.Evaluate(c.Request.Context(), req.ListingID, req.ListingType)
	if err != nil {
		h.writeEvaluateError(c, err)
		return
	}

	c.JSON(http.StatusOK, rating)
}

// writeEvaluateError maps service errors to HTTP statuses. A rate-limited
// or quota-exhausted AI endpoint keeps its own status (429 or 402) so
// clients can retry later instead of treating the feature as broken.
func (h *DealHandler) writeEvaluateError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrListingNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}

	var unavailable *service.AIUnavailableError
	if errors.As(err, &unavailable) {
		c.JSON(unavailable.StatusCode, gin.H{
			"error":     "AI rating temporarily unavailable, retry later",
			"retryable": true,
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": "Evaluation failed: " + err.Error()})
}

// GetListing handles GET /api/v1/listings/:id?type=sale|rental
func (h *DealHandler) GetListing(c *gin.Context) {
	listingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing ID"})
		return
	}

	kind := model.ListingKind(c.DefaultQuery("type", string(model.KindSale)))
	if !kind.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be \"sale\" or \"rental\""})
		return
	}

	listing, err := h.deals.GetListing(c.Request.Context(), listingID, kind)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get listing: " + err.Error()})
		return
	}
	if listing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}

	c.JSON(http.StatusOK, listing)
}
