package services

import (
	"context"
	"log/slog"

	"github.com/joshua-takyi/ticketing/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EventService struct {
	eventsRepo models.EventsRepo
	logger     *slog.Logger
}

func NewEventService(eventsRepo models.EventsRepo, logger *slog.Logger) *EventService {
	return &EventService{
		eventsRepo: eventsRepo,
		logger:     logger,
	}
}

func (es *EventService) CreateEvent(ctx context.Context, creatorID primitive.ObjectID, event *models.Event) (*models.Event, error) {
	if creatorID.IsZero() {
		return nil, models.ErrInvalidID
	}
	event.ID = primitive.NilObjectID
	event.CreatedBy = creatorID
	event.IsActive = true
	if err := event.ValidateEvent(); err != nil {
		return nil, err
	}
	event.BeforeCreate()

	created, err := es.eventsRepo.CreateEvent(ctx, event)
	if err != nil {
		return nil, err
	}
	es.logger.Info("event created", "event_id", created.ID.Hex(), "type", created.EventType)
	return created, nil
}

func (es *EventService) GetEvent(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	return es.eventsRepo.GetEventByID(ctx, id)
}

func (es *EventService) ListEvents(ctx context.Context, activeOnly bool) ([]*models.Event, error) {
	return es.eventsRepo.ListEvents(ctx, activeOnly)
}

// UpdateEvent applies the patch to the stored event and re-checks the price
// rule on the merged result before writing it back.
func (es *EventService) UpdateEvent(ctx context.Context, id primitive.ObjectID, patch *models.EventPatch) (*models.Event, error) {
	event, err := es.eventsRepo.GetEventByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(event)
	if err := event.ValidateEvent(); err != nil {
		return nil, err
	}
	return es.eventsRepo.ReplaceEvent(ctx, event)
}

// DeleteEvent removes the event only. Tickets referencing it are kept and
// show up as "Unknown Event" afterwards.
func (es *EventService) DeleteEvent(ctx context.Context, id primitive.ObjectID) error {
	if err := es.eventsRepo.DeleteEvent(ctx, id); err != nil {
		return err
	}
	es.logger.Info("event deleted", "event_id", id.Hex())
	return nil
}
