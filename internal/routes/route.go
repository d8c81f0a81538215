package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/ticketing/internal/container"
	"github.com/joshua-takyi/ticketing/internal/handlers"
	"github.com/joshua-takyi/ticketing/internal/middleware"
	"github.com/joshua-takyi/ticketing/internal/models"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     container.Config.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
	}))

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(gin.Recovery())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "OK",
				"service": "ticketing-api",
			})
		})

		v1.GET("/events", handlers.ListEvents(container.EventService))
		v1.GET("/events/:id", handlers.GetEvent(container.EventService))
		v1.GET("/events/:id/reviews", handlers.ListEventReviews(container.ReviewService))
	}

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(container.TokenValidator, container.UserService, container.Logger))

	admin := middleware.RequireRole(models.RoleAdmin)

	protected.GET("/profile", handlers.GetProfile(container.UserService))
	protected.POST("/users", admin, handlers.CreateUser(container.UserService))

	eventRoutes := protected.Group("/events")
	{
		eventRoutes.POST("", admin, handlers.CreateEvent(container.EventService))
		eventRoutes.PATCH("/:id", admin, handlers.UpdateEvent(container.EventService))
		eventRoutes.DELETE("/:id", admin, handlers.DeleteEvent(container.EventService))
		eventRoutes.POST("/:id/reviews", handlers.CreateReview(container.ReviewService))
	}

	protected.DELETE("/reviews/:id", handlers.DeleteReview(container.ReviewService))

	cardRoutes := protected.Group("/cards")
	{
		cardRoutes.POST("/validate", handlers.ValidateCard(container.PaymentValidator))
		cardRoutes.POST("", handlers.RegisterCard(container.CardService))
		cardRoutes.GET("", admin, handlers.ListCards(container.CardService))
		cardRoutes.DELETE("/:id", admin, handlers.DeleteCard(container.CardService))
	}

	ticketRoutes := protected.Group("/tickets")
	{
		ticketRoutes.POST("/:id/book", handlers.BookTicket(container.TicketService))
		ticketRoutes.GET("/my-tickets", handlers.ListMyTickets(container.TicketService))
		ticketRoutes.GET("/all", admin, handlers.ListAllTickets(container.TicketService))
		ticketRoutes.GET("/:id/bookings", admin, handlers.ListEventBookings(container.TicketService))
		ticketRoutes.DELETE("/:id/cancel", handlers.CancelTicket(container.TicketService))
		ticketRoutes.DELETE("/:id", admin, handlers.DeleteTicket(container.TicketService))
		ticketRoutes.GET("/ticket/:ticketId", handlers.GetTicketQR(container.QRService))
		ticketRoutes.POST("/ticket/:ticketId/check-in", handlers.CheckInTicket(container.CheckInService))
	}

	return r
}
