package handlers

import (
	"errors"
	"net/http"

	bookingRepo "travelapp/database/repository/booking"
	"travelapp/models"
	"travelapp/services/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes booking CRUD endpoints.
type BookingHandler struct {
	Service booking.BookingService
	Logger  *zap.Logger
}

func NewBookingHandler(svc booking.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Service: svc, Logger: logger}
}

// CreateBookingHandler handles POST /api/bookings.
func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	var input models.Booking
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

// GetBookingHandler handles GET /api/bookings/:id.
func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	id := c.Param("id")
	found, err := h.Service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
			return
		}
		h.Logger.Error("get booking failed", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, found)
}

// ListBookingsHandler handles GET /api/bookings.
func (h *BookingHandler) ListBookingsHandler(c *gin.Context) {
	bookings, err := h.Service.List(c.Request.Context())
	if err != nil {
		h.Logger.Error("list bookings failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// UpdateBookingHandler handles PATCH /api/bookings/:id.
func (h *BookingHandler) UpdateBookingHandler(c *gin.Context) {
	id := c.Param("id")
	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	updated, err := h.Service.Update(c.Request.Context(), id, fields)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
			return
		}
		h.Logger.Error("update booking failed", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteBookingHandler handles DELETE /api/bookings/:id.
func (h *BookingHandler) DeleteBookingHandler(c *gin.Context) {
	id := c.Param("id")
	if err := h.Service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
			return
		}
		h.Logger.Error("delete booking failed", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "booking deleted"})
}
