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

type TicketType string

const (
	TicketTypeVIP      TicketType = "VIP"
	TicketTypeGeneral  TicketType = "General"
	TicketTypeStandard TicketType = "Standard"
)

const (
	UnknownEventLabel = "Unknown Event"
	UnknownUserLabel  = "Unknown User"
)

type Ticket struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID     primitive.ObjectID `bson:"event_id" json:"eventId"`
	UserID      primitive.ObjectID `bson:"user_id" json:"userId"`
	TicketType  TicketType         `bson:"ticket_type" json:"ticketType"`
	Price       float64            `bson:"price" json:"price"`
	Quantity    int                `bson:"quantity" json:"quantity"`
	BookingDate time.Time          `bson:"booking_date" json:"bookingDate"`
	QRCode      string             `bson:"qr_code,omitempty" json:"qrCode,omitempty"`
	IsCheckedIn bool               `bson:"is_checked_in" json:"isCheckedIn"`
	CheckInTime *time.Time         `bson:"check_in_time,omitempty" json:"checkInTime,omitempty"`
}

// BookingRequest is the client body for a booking. Price is a pointer so that
// a missing price can be told apart from a zero price.
type BookingRequest struct {
	TicketType TicketType `json:"ticketType" validate:"required,oneof=VIP General Standard"`
	Price      *float64   `json:"price" validate:"required,gte=0"`
	Quantity   *int       `json:"quantity" validate:"omitempty,gte=1"`
}

type EventSummary struct {
	ID    primitive.ObjectID `bson:"_id" json:"id"`
	Title string             `bson:"title" json:"title"`
	Date  time.Time          `bson:"date" json:"date"`
	Time  string             `bson:"time" json:"time"`
	Venue string             `bson:"venue" json:"venue"`
}

type UserSummary struct {
	ID    primitive.ObjectID `bson:"_id" json:"id"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email" json:"email"`
}

// TicketView is a ticket with its event and user references resolved for
// display. Event or User is nil when the referenced document is gone.
type TicketView struct {
	Ticket `bson:",inline"`
	Event  *EventSummary `bson:"event,omitempty" json:"event"`
	User   *UserSummary  `bson:"user,omitempty" json:"user,omitempty"`
}

type TicketsRepo interface {
	CreateTicket(ctx context.Context, ticket *Ticket) (*Ticket, error)
	GetTicketByID(ctx context.Context, id primitive.ObjectID) (*Ticket, error)
	ListTickets(ctx context.Context, filter TicketFilter) ([]*TicketView, error)
	DeleteTicket(ctx context.Context, id primitive.ObjectID, ownerID *primitive.ObjectID) error
	SetQRCode(ctx context.Context, id primitive.ObjectID, qrCode string) (*Ticket, error)
	MarkCheckedIn(ctx context.Context, id primitive.ObjectID, at time.Time) (*Ticket, error)
}

// TicketFilter narrows a listing. Zero fields are ignored; IncludeUser adds
// the user lookup.
type TicketFilter struct {
	UserID      primitive.ObjectID
	EventID     primitive.ObjectID
	IncludeUser bool
}

// ToTicket builds a new issued ticket from a validated request.
func (r *BookingRequest) ToTicket(eventID, userID primitive.ObjectID) *Ticket {
	quantity := 1
	if r.Quantity != nil {
		quantity = *r.Quantity
	}
	return &Ticket{
		ID:          primitive.NewObjectID(),
		EventID:     eventID,
		UserID:      userID,
		TicketType:  r.TicketType,
		Price:       *r.Price,
		Quantity:    quantity,
		BookingDate: time.Now().UTC(),
	}
}

func (r *BookingRequest) ValidateBooking() error {
	if err := Validate.Struct(r); err != nil {
		return FromValidator(err)
	}
	return nil
}

// FillUnknown replaces dangling references with placeholder summaries.
func (v *TicketView) FillUnknown(withUser bool) {
	if v.Event == nil {
		v.Event = &EventSummary{ID: v.EventID, Title: UnknownEventLabel}
	}
	if withUser && v.User == nil {
		v.User = &UserSummary{ID: v.UserID, Name: UnknownUserLabel}
	}
}

func (f TicketFilter) match() bson.M {
	m := bson.M{}
	if !f.UserID.IsZero() {
		m["user_id"] = f.UserID
	}
	if !f.EventID.IsZero() {
		m["event_id"] = f.EventID
	}
	return m
}

func lookupStage(from, localField, as string, fields bson.D) bson.D {
	return bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: from},
		{Key: "let", Value: bson.D{{Key: "ref", Value: "$" + localField}}},
		{Key: "pipeline", Value: bson.A{
			bson.D{{Key: "$match", Value: bson.D{{Key: "$expr", Value: bson.D{{Key: "$eq", Value: bson.A{"$_id", "$$ref"}}}}}}},
			bson.D{{Key: "$project", Value: fields}},
		}},
		{Key: "as", Value: as},
	}}}
}

func unwindStage(field string) bson.D {
	return bson.D{{Key: "$unwind", Value: bson.D{
		{Key: "path", Value: "$" + field},
		{Key: "preserveNullAndEmptyArrays", Value: true},
	}}}
}

func (mdb *MongodbRepo) CreateTicket(ctx context.Context, ticket *Ticket) (*Ticket, error) {
	col, err := mdb.GetCollection(TicketsColName)
	if err != nil {
		return nil, err
	}
	if ticket.ID.IsZero() {
		ticket.ID = primitive.NewObjectID()
	}
	if _, err := col.InsertOne(ctx, ticket); err != nil {
		return nil, fmt.Errorf("failed to insert ticket: %w", err)
	}
	return ticket, nil
}

func (mdb *MongodbRepo) GetTicketByID(ctx context.Context, id primitive.ObjectID) (*Ticket, error) {
	col, err := mdb.GetCollection(TicketsColName)
	if err != nil {
		return nil, err
	}

	var ticket Ticket
	err = col.FindOne(ctx, bson.M{"_id": id}).Decode(&ticket)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrTicketNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find ticket: %w", err)
	}
	return &ticket, nil
}

func (mdb *MongodbRepo) ListTickets(ctx context.Context, filter TicketFilter) ([]*TicketView, error) {
	col, err := mdb.GetCollection(TicketsColName)
	if err != nil {
		return nil, err
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter.match()}},
		{{Key: "$sort", Value: bson.D{{Key: "booking_date", Value: -1}}}},
		lookupStage(EventsColName, "event_id", "event", bson.D{
			{Key: "title", Value: 1},
			{Key: "date", Value: 1},
			{Key: "time", Value: 1},
			{Key: "venue", Value: 1},
		}),
		unwindStage("event"),
	}
	if filter.IncludeUser {
		pipeline = append(pipeline,
			lookupStage(UsersColName, "user_id", "user", bson.D{
				{Key: "name", Value: 1},
				{Key: "email", Value: 1},
			}),
			unwindStage("user"),
		)
	}

	cursor, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	defer cursor.Close(ctx)

	views := []*TicketView{}
	if err := cursor.All(ctx, &views); err != nil {
		return nil, fmt.Errorf("failed to decode tickets: %w", err)
	}
	return views, nil
}

// DeleteTicket removes a ticket. With a non-nil ownerID the ticket must also
// belong to that user; otherwise it is reported as not found.
func (mdb *MongodbRepo) DeleteTicket(ctx context.Context, id primitive.ObjectID, ownerID *primitive.ObjectID) error {
	col, err := mdb.GetCollection(TicketsColName)
	if err != nil {
		return err
	}

	filter := bson.M{"_id": id}
	if ownerID != nil {
		filter["user_id"] = *ownerID
	}
	res, err := col.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete ticket: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrTicketNotFound
	}
	return nil
}

func (mdb *MongodbRepo) SetQRCode(ctx context.Context, id primitive.ObjectID, qrCode string) (*Ticket, error) {
	col, err := mdb.GetCollection(TicketsColName)
	if err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var ticket Ticket
	err = col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"qr_code": qrCode}}, opts).Decode(&ticket)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrTicketNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to store qr code: %w", err)
	}
	return &ticket, nil
}

// MarkCheckedIn flips is_checked_in from false to true in a single
// conditional update, so only one caller can ever win for a given ticket.
func (mdb *MongodbRepo) MarkCheckedIn(ctx context.Context, id primitive.ObjectID, at time.Time) (*Ticket, error) {
	col, err := mdb.GetCollection(TicketsColName)
	if err != nil {
		return nil, err
	}

	filter := bson.M{"_id": id, "is_checked_in": false}
	update := bson.M{"$set": bson.M{"is_checked_in": true, "check_in_time": at}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var ticket Ticket
	err = col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&ticket)
	if err == nil {
		return &ticket, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to check in ticket: %w", err)
	}

	// No issued ticket matched: either it does not exist or it was already used.
	if _, err := mdb.GetTicketByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, ErrAlreadyCheckedIn
}
