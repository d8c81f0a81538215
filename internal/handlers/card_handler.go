package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/ticketing/internal/models"
	"github.com/joshua-takyi/ticketing/internal/services"
)

// ValidateCard answers whether the submitted card matches a stored record.
// This is a local whitelist check, not a payment authorization.
func ValidateCard(v services.PaymentValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var candidate models.CardCandidate
		if err := c.ShouldBindJSON(&candidate); err != nil {
			badRequest(c, "invalid request body: "+err.Error())
			return
		}

		if err := v.Validate(c.Request.Context(), candidate); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Card validated"))
	}
}

func RegisterCard(cs *services.CardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.CardInput
		if err := c.ShouldBindJSON(&input); err != nil {
			badRequest(c, "invalid request body: "+err.Error())
			return
		}

		card, err := cs.RegisterCard(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(card, "Card registered successfully"))
	}
}

func ListCards(cs *services.CardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cards, err := cs.ListCards(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.ListResponse(cards, len(cards)))
	}
}

func DeleteCard(cs *services.CardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cardID, ok := paramID(c, "id")
		if !ok {
			return
		}
		if err := cs.DeleteCard(c.Request.Context(), cardID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Card deleted successfully"))
	}
}
