package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle groups every route handler for registration.
type HandlerBundle struct {
	// Listing endpoints.
	CreateListingHandler gin.HandlerFunc
	GetListingHandler    gin.HandlerFunc
	ListListingsHandler  gin.HandlerFunc
	UpdateListingHandler gin.HandlerFunc
	DeleteListingHandler gin.HandlerFunc

	// Booking endpoints.
	CreateBookingHandler gin.HandlerFunc
	GetBookingHandler    gin.HandlerFunc
	ListBookingsHandler  gin.HandlerFunc
	UpdateBookingHandler gin.HandlerFunc
	DeleteBookingHandler gin.HandlerFunc

	// Payment endpoints.
	InitiatePaymentHandler gin.HandlerFunc
	VerifyPaymentHandler   gin.HandlerFunc
	PaymentCallbackHandler gin.HandlerFunc
}
