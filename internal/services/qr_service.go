package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/joshua-takyi/ticketing/internal/cache"
	"github.com/joshua-takyi/ticketing/internal/metrics"
	"github.com/joshua-takyi/ticketing/internal/models"
	"github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const qrDataURIPrefix = "data:image/png;base64,"

// QRContent is what a scanner reads back from the image.
type QRContent struct {
	TicketID  string `json:"ticketId"`
	EventName string `json:"eventName"`
}

type QRService struct {
	ticketsRepo models.TicketsRepo
	eventsRepo  models.EventsRepo
	cache       cache.QRCache
	size        int
	logger      *slog.Logger
}

func NewQRService(ticketsRepo models.TicketsRepo, eventsRepo models.EventsRepo, qrCache cache.QRCache, size int, logger *slog.Logger) *QRService {
	if qrCache == nil {
		qrCache = cache.NoopQRCache{}
	}
	if size <= 0 {
		size = 256
	}
	return &QRService{
		ticketsRepo: ticketsRepo,
		eventsRepo:  eventsRepo,
		cache:       qrCache,
		size:        size,
		logger:      logger,
	}
}

// EncodeQR renders content as a PNG data URI. The output depends only on the
// content and size.
func EncodeQR(content QRContent, size int) (string, error) {
	raw, err := json.Marshal(content)
	if err != nil {
		return "", fmt.Errorf("failed to marshal qr content: %w", err)
	}
	png, err := qrcode.Encode(string(raw), qrcode.Medium, size)
	if err != nil {
		return "", fmt.Errorf("failed to encode qr code: %w", err)
	}
	return qrDataURIPrefix + base64.StdEncoding.EncodeToString(png), nil
}

// IssueQR returns the ticket's QR payload, rendering and storing it when the
// ticket does not carry the current one yet.
func (qs *QRService) IssueQR(ctx context.Context, caller Caller, ticketID primitive.ObjectID) (string, *models.Ticket, error) {
	ticket, err := qs.ticketsRepo.GetTicketByID(ctx, ticketID)
	if err != nil {
		return "", nil, err
	}
	if !caller.canAccess(ticket) {
		return "", nil, models.ErrTicketNotFound
	}

	eventName, err := qs.eventName(ctx, ticket.EventID)
	if err != nil {
		return "", nil, err
	}

	key := cache.QRKey(ticket.ID.Hex(), eventName)
	payload, hit, err := qs.cache.Get(ctx, key)
	if err != nil {
		qs.logger.Warn("qr cache lookup failed", "ticket_id", ticket.ID.Hex(), "error", err)
	}
	metrics.QRCache(hit)

	if !hit {
		payload, err = EncodeQR(QRContent{TicketID: ticket.ID.Hex(), EventName: eventName}, qs.size)
		if err != nil {
			return "", nil, err
		}
		if err := qs.cache.Set(ctx, key, payload); err != nil {
			qs.logger.Warn("qr cache store failed", "ticket_id", ticket.ID.Hex(), "error", err)
		}
	}

	if ticket.QRCode != payload {
		ticket, err = qs.ticketsRepo.SetQRCode(ctx, ticket.ID, payload)
		if err != nil {
			return "", nil, err
		}
		qs.logger.Info("qr code issued", "ticket_id", ticket.ID.Hex())
	}
	return payload, ticket, nil
}

func (qs *QRService) eventName(ctx context.Context, eventID primitive.ObjectID) (string, error) {
	event, err := qs.eventsRepo.GetEventByID(ctx, eventID)
	if errors.Is(err, models.ErrEventNotFound) {
		return models.UnknownEventLabel, nil
	}
	if err != nil {
		return "", err
	}
	return event.Title, nil
}
