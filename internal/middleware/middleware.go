package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joshua-takyi/ticketing/internal/helpers"
	"github.com/joshua-takyi/ticketing/internal/metrics"
	"github.com/joshua-takyi/ticketing/internal/models"
	"github.com/joshua-takyi/ticketing/internal/services"
)

const (
	ContextKeyRequestID = "request_id"
	ContextKeyUser      = "user"
)

// RequestID middleware adds a unique request ID to each request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(ContextKeyRequestID, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// StructuredLogger logs one line per request and records its latency.
func StructuredLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		// Process request
		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()
		metrics.ObserveHTTP(c.Request.Method, c.FullPath(), statusCode, latency)

		if raw != "" {
			path = path + "?" + raw
		}

		requestID, _ := c.Get(ContextKeyRequestID)

		logger.Info("HTTP Request",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", path,
			"status", statusCode,
			"latency", latency,
			"client_ip", c.ClientIP(),
		)
	}
}

// ErrorHandler provides centralized error handling
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			requestID, _ := c.Get(ContextKeyRequestID)

			logger.Error("Request error",
				"request_id", requestID,
				"error", err.Error(),
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
			)

			// Don't return error details in production
			if !c.Writer.Written() {
				c.JSON(http.StatusInternalServerError, gin.H{
					"error":      "Internal server error",
					"request_id": requestID,
				})
			}
		}
	}
}

func unauthorized(c *gin.Context, reason string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"message": "Unauthorized access",
		"error":   reason,
	})
}

// AuthMiddleware verifies the bearer token (or the access_token cookie) and
// stores the caller as *helpers.EnhancedClaims under "user". The role comes
// from the stored profile when there is one, then from the token.
func AuthMiddleware(validator *helpers.TokenValidator, userService *services.UserService, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := helpers.BearerToken(c.GetHeader("Authorization"))
		if !ok {
			cookie, err := c.Cookie("access_token")
			if err != nil || cookie == "" {
				unauthorized(c, "bearer token not found")
				return
			}
			token = cookie
		}

		claims, err := validator.ValidateToken(token)
		if err != nil {
			unauthorized(c, err.Error())
			return
		}

		userID, err := models.ParseObjectID(claims.Subject)
		if err != nil {
			logger.Error("Invalid user ID in token", "user_id", claims.Subject, "error", err)
			unauthorized(c, "invalid subject in token")
			return
		}

		enhancedClaims := &helpers.EnhancedClaims{
			CustomClaims: claims,
			Role:         claims.Role,
			UserID:       userID.Hex(),
			Email:        claims.Email,
			Name:         claims.Name,
		}

		user, err := userService.GetUser(c.Request.Context(), userID)
		switch {
		case err == nil:
			if user.Role != "" {
				enhancedClaims.Role = user.Role
			}
			enhancedClaims.Email = user.Email
			enhancedClaims.Name = user.Name
		case errors.Is(err, models.ErrUserNotFound):
			logger.Debug("Profile not found, using token claims", "user_id", claims.Subject)
		default:
			logger.Error("Profile lookup failed", "user_id", claims.Subject, "error", err)
		}
		enhancedClaims.Role = enhancedClaims.GetSafeRole()

		c.Set(ContextKeyUser, enhancedClaims)
		c.Next()
	}
}

// RequireRole lets the request through only when the caller has one of roles.
// It must run after AuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(ContextKeyUser)
		claims, ok := value.(*helpers.EnhancedClaims)
		if !exists || !ok {
			unauthorized(c, "missing caller")
			return
		}
		for _, role := range roles {
			if claims.HasRole(role) {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, models.ErrorResponse("insufficient role"))
	}
}
