package routes

import (
	"net/http"
	"time"

	"travelapp/handlers"
	"travelapp/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterListingRoutes registers listing CRUD endpoints.
func RegisterListingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/listings")
	{
		api.POST("", hb.CreateListingHandler)
		api.GET("", hb.ListListingsHandler)
		api.GET("/:id", hb.GetListingHandler)
		api.PATCH("/:id", hb.UpdateListingHandler)
		api.DELETE("/:id", hb.DeleteListingHandler)
	}
}

// RegisterBookingRoutes registers booking CRUD endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.POST("", hb.CreateBookingHandler)
		api.GET("", hb.ListBookingsHandler)
		api.GET("/:id", hb.GetBookingHandler)
		api.PATCH("/:id", hb.UpdateBookingHandler)
		api.DELETE("/:id", hb.DeleteBookingHandler)
	}
}

// RegisterPaymentRoutes registers the payment workflow endpoints.
func RegisterPaymentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/payments")
	{
		api.POST("/initiate", hb.InitiatePaymentHandler)
		api.GET("/verify", hb.VerifyPaymentHandler)
		api.POST("/callback", hb.PaymentCallbackHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint serving the latest
// dependency snapshot.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, utils.GetHealthStatus())
	})
}

// RegisterRoutes registers all routes with the assembled handler bundle.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterListingRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterPaymentRoutes(r, hb)
}
