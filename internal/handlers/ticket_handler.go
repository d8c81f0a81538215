package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/ticketing/internal/models"
	"github.com/joshua-takyi/ticketing/internal/services"
)

func BookTicket(t *services.TicketService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := currentCaller(c)
		if !ok {
			return
		}
		eventID, ok := paramID(c, "id")
		if !ok {
			return
		}

		var req models.BookingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body: "+err.Error())
			return
		}

		ticket, err := t.BookTicket(c.Request.Context(), eventID, caller.UserID, &req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(ticket, "Ticket booked successfully"))
	}
}

func ListMyTickets(t *services.TicketService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := currentCaller(c)
		if !ok {
			return
		}

		tickets, err := t.ListByUser(c.Request.Context(), caller.UserID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.ListResponse(tickets, len(tickets)))
	}
}

func ListAllTickets(t *services.TicketService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tickets, err := t.ListAll(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.ListResponse(tickets, len(tickets)))
	}
}

func ListEventBookings(t *services.TicketService) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, ok := paramID(c, "id")
		if !ok {
			return
		}

		tickets, err := t.ListByEvent(c.Request.Context(), eventID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.ListResponse(tickets, len(tickets)))
	}
}

func CancelTicket(t *services.TicketService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := currentCaller(c)
		if !ok {
			return
		}
		ticketID, ok := paramID(c, "id")
		if !ok {
			return
		}

		if err := t.CancelTicket(c.Request.Context(), ticketID, caller.UserID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Ticket cancelled successfully"))
	}
}

func DeleteTicket(t *services.TicketService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ticketID, ok := paramID(c, "id")
		if !ok {
			return
		}

		if err := t.DeleteTicket(c.Request.Context(), ticketID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Ticket deleted successfully"))
	}
}

func GetTicketQR(q *services.QRService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := currentCaller(c)
		if !ok {
			return
		}
		ticketID, ok := paramID(c, "ticketId")
		if !ok {
			return
		}

		payload, ticket, err := q.IssueQR(c.Request.Context(), caller, ticketID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{
			"qrCode": payload,
			"ticket": ticket,
		}, ""))
	}
}

func CheckInTicket(ci *services.CheckInService) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := currentCaller(c)
		if !ok {
			return
		}
		ticketID, ok := paramID(c, "ticketId")
		if !ok {
			return
		}

		ticket, err := ci.CheckIn(c.Request.Context(), caller, ticketID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(ticket, "Ticket checked in successfully"))
	}
}
