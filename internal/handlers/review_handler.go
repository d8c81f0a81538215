package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/ticketing/internal/models"
	"github.com/joshua-takyi/ticketing/internal/services"
)

func CreateReview(r *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := currentCaller(c)
		if !ok {
			return
		}
		eventID, ok := paramID(c, "id")
		if !ok {
			return
		}

		var review models.Review
		if err := c.ShouldBindJSON(&review); err != nil {
			badRequest(c, "invalid request body: "+err.Error())
			return
		}

		created, err := r.CreateReview(c.Request.Context(), eventID, caller.UserID, &review)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(created, "Review created successfully"))
	}
}

func ListEventReviews(r *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, ok := paramID(c, "id")
		if !ok {
			return
		}

		reviews, err := r.ListByEvent(c.Request.Context(), eventID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.ListResponse(reviews, len(reviews)))
	}
}

func DeleteReview(r *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := currentCaller(c)
		if !ok {
			return
		}
		reviewID, ok := paramID(c, "id")
		if !ok {
			return
		}

		if err := r.DeleteReview(c.Request.Context(), reviewID, caller.UserID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Review deleted successfully"))
	}
}
