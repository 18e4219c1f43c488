package handlers

import (
	"errors"
	"net/http"

	listingRepo "travelapp/database/repository/listing"
	"travelapp/models"
	"travelapp/services/listing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ListingHandler exposes listing CRUD endpoints.
type ListingHandler struct {
	Service listing.ListingService
	Logger  *zap.Logger
}

func NewListingHandler(svc listing.ListingService, logger *zap.Logger) *ListingHandler {
	return &ListingHandler{Service: svc, Logger: logger}
}

// CreateListingHandler handles POST /api/listings.
func (h *ListingHandler) CreateListingHandler(c *gin.Context) {
	var input models.Listing
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	created, err := h.Service.Create(c.Request.Context(), input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetListingHandler handles GET /api/listings/:id.
func (h *ListingHandler) GetListingHandler(c *gin.Context) {
	id := c.Param("id")
	found, err := h.Service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, listingRepo.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "listing not found"})
			return
		}
		h.Logger.Error("get listing failed", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, found)
}

// ListListingsHandler handles GET /api/listings.
func (h *ListingHandler) ListListingsHandler(c *gin.Context) {
	listings, err := h.Service.List(c.Request.Context())
	if err != nil {
		h.Logger.Error("list listings failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, listings)
}

// UpdateListingHandler handles PATCH /api/listings/:id.
func (h *ListingHandler) UpdateListingHandler(c *gin.Context) {
	id := c.Param("id")
	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	updated, err := h.Service.Update(c.Request.Context(), id, fields)
	if err != nil {
		if errors.Is(err, listingRepo.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "listing not found"})
			return
		}
		h.Logger.Error("update listing failed", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteListingHandler handles DELETE /api/listings/:id.
func (h *ListingHandler) DeleteListingHandler(c *gin.Context) {
	id := c.Param("id")
	if err := h.Service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, listingRepo.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "listing not found"})
			return
		}
		h.Logger.Error("delete listing failed", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "listing deleted"})
}
