package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/ticketing/internal/models"
	"github.com/joshua-takyi/ticketing/internal/services"
)

// GetProfile returns the stored profile of the caller, or the token-derived
// identity when no profile exists yet.
func GetProfile(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := currentCaller(c)
		if !ok {
			return
		}

		user, err := u.GetUser(c.Request.Context(), caller.UserID)
		if errors.Is(err, models.ErrUserNotFound) {
			c.JSON(http.StatusOK, models.SuccessResponse(gin.H{
				"id":   caller.UserID.Hex(),
				"role": caller.Role,
			}, "no stored profile"))
			return
		}
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(user, ""))
	}
}

func CreateUser(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		if err := c.ShouldBindJSON(&user); err != nil {
			badRequest(c, "invalid request body: "+err.Error())
			return
		}

		created, err := u.CreateUser(c.Request.Context(), &user)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(created, "User created successfully"))
	}
}
