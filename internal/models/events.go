package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type EventType string

const (
	EventTypeFree EventType = "free"
	EventTypePaid EventType = "paid"
)

type Event struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title" validate:"required"`
	Description string             `bson:"description" json:"description"`
	Date        time.Time          `bson:"date" json:"date" validate:"required"`
	Time        string             `bson:"time" json:"time" validate:"omitempty,datetime=15:04"` // e.g. "18:30"
	Venue       string             `bson:"venue" json:"venue" validate:"required"`
	EventType   EventType          `bson:"event_type" json:"eventType" validate:"required,oneof=free paid"`
	TicketPrice *float64           `bson:"ticket_price,omitempty" json:"ticketPrice,omitempty"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty" validate:"omitempty,url"`
	CreatedBy   primitive.ObjectID `bson:"created_by" json:"createdBy"`
	IsActive    bool               `bson:"is_active" json:"isActive"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}

// EventPatch carries the fields an admin may change. Nil means unchanged.
type EventPatch struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Date        *time.Time `json:"date"`
	Time        *string    `json:"time"`
	Venue       *string    `json:"venue"`
	EventType   *EventType `json:"eventType"`
	TicketPrice *float64   `json:"ticketPrice"`
	Image       *string    `json:"image"`
	IsActive    *bool      `json:"isActive"`
}

type EventsRepo interface {
	CreateEvent(ctx context.Context, event *Event) (*Event, error)
	GetEventByID(ctx context.Context, id primitive.ObjectID) (*Event, error)
	ListEvents(ctx context.Context, activeOnly bool) ([]*Event, error)
	ReplaceEvent(ctx context.Context, event *Event) (*Event, error)
	DeleteEvent(ctx context.Context, id primitive.ObjectID) error
}

func (e *Event) BeforeCreate() {
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now
}

// Price is the ticket price, zero when unset.
func (e *Event) Price() float64 {
	if e.TicketPrice == nil {
		return 0
	}
	return *e.TicketPrice
}

// ValidateEvent checks the struct tags and the price rule: paid events need a
// non-negative price, free events carry none. A free event is normalised to
// price 0.
func (e *Event) ValidateEvent() error {
	if err := Validate.Struct(e); err != nil {
		return FromValidator(err)
	}

	switch e.EventType {
	case EventTypePaid:
		if e.TicketPrice == nil {
			return NewValidationError("ticketPrice", "required for paid events")
		}
		if *e.TicketPrice < 0 {
			return NewValidationError("ticketPrice", "must not be negative")
		}
	case EventTypeFree:
		if e.TicketPrice != nil && *e.TicketPrice != 0 {
			return NewValidationError("ticketPrice", "must be 0 or absent for free events")
		}
		zero := 0.0
		e.TicketPrice = &zero
	}
	return nil
}

// Apply merges the patch into the event. The caller re-validates.
func (p *EventPatch) Apply(e *Event) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Time != nil {
		e.Time = *p.Time
	}
	if p.Venue != nil {
		e.Venue = *p.Venue
	}
	if p.EventType != nil {
		e.EventType = *p.EventType
		// switching to free drops a stale price unless the patch sets one
		if *p.EventType == EventTypeFree && p.TicketPrice == nil {
			e.TicketPrice = nil
		}
	}
	if p.TicketPrice != nil {
		price := *p.TicketPrice
		e.TicketPrice = &price
	}
	if p.Image != nil {
		e.Image = *p.Image
	}
	if p.IsActive != nil {
		e.IsActive = *p.IsActive
	}
}

func (mdb *MongodbRepo) CreateEvent(ctx context.Context, event *Event) (*Event, error) {
	col, err := mdb.GetCollection(EventsColName)
	if err != nil {
		return nil, err
	}
	if _, err := col.InsertOne(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to insert event: %w", err)
	}
	return event, nil
}

func (mdb *MongodbRepo) GetEventByID(ctx context.Context, id primitive.ObjectID) (*Event, error) {
	col, err := mdb.GetCollection(EventsColName)
	if err != nil {
		return nil, err
	}

	var event Event
	err = col.FindOne(ctx, bson.M{"_id": id}).Decode(&event)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find event: %w", err)
	}
	return &event, nil
}

func (mdb *MongodbRepo) ListEvents(ctx context.Context, activeOnly bool) ([]*Event, error) {
	col, err := mdb.GetCollection(EventsColName)
	if err != nil {
		return nil, err
	}

	filter := bson.M{}
	if activeOnly {
		filter["is_active"] = true
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})

	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer cursor.Close(ctx)

	events := []*Event{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode events: %w", err)
	}
	return events, nil
}

func (mdb *MongodbRepo) ReplaceEvent(ctx context.Context, event *Event) (*Event, error) {
	col, err := mdb.GetCollection(EventsColName)
	if err != nil {
		return nil, err
	}

	event.UpdatedAt = time.Now().UTC()
	res, err := col.ReplaceOne(ctx, bson.M{"_id": event.ID}, event)
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, ErrEventNotFound
	}
	return event, nil
}

func (mdb *MongodbRepo) DeleteEvent(ctx context.Context, id primitive.ObjectID) error {
	col, err := mdb.GetCollection(EventsColName)
	if err != nil {
		return err
	}

	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrEventNotFound
	}
	return nil
}
