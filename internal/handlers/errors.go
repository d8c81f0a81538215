package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/ticketing/internal/helpers"
	"github.com/joshua-takyi/ticketing/internal/models"
	"github.com/joshua-takyi/ticketing/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// statusFor maps a service error onto an HTTP status.
func statusFor(err error) int {
	switch {
	case models.IsValidationError(err):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrCardRejected):
		return http.StatusUnauthorized
	case models.IsNotFoundError(err):
		return http.StatusNotFound
	case models.IsConflictError(err):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the JSON error body. Unexpected errors are attached to
// the context for ErrorHandler to log and are never shown to the client.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		resp := models.ErrorResponse("internal server error")
		if id, ok := c.Get("request_id"); ok {
			resp.RequestID, _ = id.(string)
		}
		c.AbortWithStatusJSON(status, resp)
		return
	}
	c.AbortWithStatusJSON(status, models.ErrorResponse(err.Error()))
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse(msg))
}

// currentCaller reads the claims AuthMiddleware stored and turns them into the
// explicit caller passed to services.
func currentCaller(c *gin.Context) (services.Caller, bool) {
	value, exists := c.Get("user")
	if !exists {
		c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse("unauthorized"))
		return services.Caller{}, false
	}
	claims, ok := value.(*helpers.EnhancedClaims)
	if !ok {
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse("invalid user claims"))
		return services.Caller{}, false
	}
	userID, err := models.ParseObjectID(claims.UserID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse("invalid user ID in token"))
		return services.Caller{}, false
	}
	return services.Caller{UserID: userID, Role: claims.Role}, true
}

func paramID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := models.ParseObjectID(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+name+" format")
		return primitive.NilObjectID, false
	}
	return id, true
}
