package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/joshua-takyi/ticketing/internal/metrics"
	"github.com/joshua-takyi/ticketing/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CheckInService moves a ticket from issued to checked in. The transition is
// terminal and happens at most once; the store enforces it atomically.
type CheckInService struct {
	ticketsRepo models.TicketsRepo
	now         func() time.Time
	logger      *slog.Logger
}

func NewCheckInService(ticketsRepo models.TicketsRepo, logger *slog.Logger) *CheckInService {
	return &CheckInService{
		ticketsRepo: ticketsRepo,
		now:         func() time.Time { return time.Now().UTC() },
		logger:      logger,
	}
}

func (cs *CheckInService) CheckIn(ctx context.Context, caller Caller, ticketID primitive.ObjectID) (*models.Ticket, error) {
	if !caller.IsStaff() {
		ticket, err := cs.ticketsRepo.GetTicketByID(ctx, ticketID)
		if err != nil {
			metrics.CheckIn(checkInResult(err))
			return nil, err
		}
		if !caller.canAccess(ticket) {
			metrics.CheckIn("not_found")
			return nil, models.ErrTicketNotFound
		}
	}

	ticket, err := cs.ticketsRepo.MarkCheckedIn(ctx, ticketID, cs.now())
	metrics.CheckIn(checkInResult(err))
	if err != nil {
		if errors.Is(err, models.ErrAlreadyCheckedIn) {
			cs.logger.Info("check-in rejected, ticket already used", "ticket_id", ticketID.Hex())
		}
		return nil, err
	}

	cs.logger.Info("ticket checked in", "ticket_id", ticketID.Hex(), "by", caller.UserID.Hex())
	return ticket, nil
}

func checkInResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, models.ErrAlreadyCheckedIn):
		return "duplicate"
	case errors.Is(err, models.ErrTicketNotFound):
		return "not_found"
	default:
		return "error"
	}
}
