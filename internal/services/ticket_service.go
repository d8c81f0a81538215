package services

import (
	"context"
	"log/slog"

	"github.com/joshua-takyi/ticketing/internal/metrics"
	"github.com/joshua-takyi/ticketing/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TicketService is the ticket ledger. Bookings are not deduplicated and not
// checked against any capacity: every call creates a new ticket.
type TicketService struct {
	ticketsRepo models.TicketsRepo
	eventsRepo  models.EventsRepo
	logger      *slog.Logger
}

func NewTicketService(ticketsRepo models.TicketsRepo, eventsRepo models.EventsRepo, logger *slog.Logger) *TicketService {
	return &TicketService{
		ticketsRepo: ticketsRepo,
		eventsRepo:  eventsRepo,
		logger:      logger,
	}
}

func (ts *TicketService) BookTicket(ctx context.Context, eventID, userID primitive.ObjectID, req *models.BookingRequest) (*models.Ticket, error) {
	if userID.IsZero() {
		return nil, models.ErrInvalidID
	}
	if err := req.ValidateBooking(); err != nil {
		return nil, err
	}
	if _, err := ts.eventsRepo.GetEventByID(ctx, eventID); err != nil {
		return nil, err
	}

	ticket, err := ts.ticketsRepo.CreateTicket(ctx, req.ToTicket(eventID, userID))
	if err != nil {
		return nil, err
	}

	metrics.TicketBooked(string(ticket.TicketType))
	ts.logger.Info("ticket booked",
		"ticket_id", ticket.ID.Hex(),
		"event_id", eventID.Hex(),
		"user_id", userID.Hex(),
		"quantity", ticket.Quantity,
	)
	return ticket, nil
}

func (ts *TicketService) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.TicketView, error) {
	if userID.IsZero() {
		return nil, models.ErrInvalidID
	}
	return ts.list(ctx, models.TicketFilter{UserID: userID})
}

func (ts *TicketService) ListByEvent(ctx context.Context, eventID primitive.ObjectID) ([]*models.TicketView, error) {
	if eventID.IsZero() {
		return nil, models.ErrInvalidID
	}
	return ts.list(ctx, models.TicketFilter{EventID: eventID, IncludeUser: true})
}

func (ts *TicketService) ListAll(ctx context.Context) ([]*models.TicketView, error) {
	return ts.list(ctx, models.TicketFilter{IncludeUser: true})
}

func (ts *TicketService) list(ctx context.Context, filter models.TicketFilter) ([]*models.TicketView, error) {
	views, err := ts.ticketsRepo.ListTickets(ctx, filter)
	if err != nil {
		return nil, err
	}
	for _, v := range views {
		v.FillUnknown(filter.IncludeUser)
	}
	return views, nil
}

// CancelTicket deletes the ticket only when it belongs to userID. A ticket of
// someone else is indistinguishable from a missing one.
func (ts *TicketService) CancelTicket(ctx context.Context, ticketID, userID primitive.ObjectID) error {
	if err := ts.ticketsRepo.DeleteTicket(ctx, ticketID, &userID); err != nil {
		return err
	}
	metrics.TicketCancelled()
	ts.logger.Info("ticket cancelled", "ticket_id", ticketID.Hex(), "user_id", userID.Hex())
	return nil
}

func (ts *TicketService) DeleteTicket(ctx context.Context, ticketID primitive.ObjectID) error {
	if err := ts.ticketsRepo.DeleteTicket(ctx, ticketID, nil); err != nil {
		return err
	}
	metrics.TicketCancelled()
	ts.logger.Info("ticket deleted by admin", "ticket_id", ticketID.Hex())
	return nil
}
