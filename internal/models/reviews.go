package models

import (
	"context"
	"fmt"
	"time"

	"github.com/joshua-takyi/ticketing/internal/helpers"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID   primitive.ObjectID `bson:"event_id" json:"eventId"`
	UserID    primitive.ObjectID `bson:"user_id" json:"userId"`
	Rating    int                `bson:"rating" json:"rating" validate:"required,min=1,max=5"`
	Title     string             `bson:"title,omitempty" json:"title,omitempty" validate:"max=120"`
	Comment   string             `bson:"comment" json:"comment" validate:"max=2000"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}

type ReviewsRepo interface {
	CreateReview(ctx context.Context, review *Review) (*Review, error)
	GetReviewsByEvent(ctx context.Context, eventID primitive.ObjectID) ([]*Review, error)
	DeleteReview(ctx context.Context, userID, reviewID primitive.ObjectID) error
}

func (r *Review) BeforeCreate() {
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
}

func (r *Review) Sanitize() {
	r.Title = helpers.StringTrim(r.Title)
	r.Comment = helpers.StringTrim(r.Comment)
}

func (r *Review) ValidateReview() error {
	if err := Validate.Struct(r); err != nil {
		return FromValidator(err)
	}
	if r.UserID.IsZero() {
		return NewValidationError("userId", "required")
	}
	if r.EventID.IsZero() {
		return NewValidationError("eventId", "required")
	}
	return nil
}

func (mdb *MongodbRepo) CreateReview(ctx context.Context, review *Review) (*Review, error) {
	col, err := mdb.GetCollection(ReviewsColName)
	if err != nil {
		return nil, err
	}
	if _, err := col.InsertOne(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to insert review into database: %w", err)
	}
	return review, nil
}

func (mdb *MongodbRepo) GetReviewsByEvent(ctx context.Context, eventID primitive.ObjectID) ([]*Review, error) {
	col, err := mdb.GetCollection(ReviewsColName)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := col.Find(ctx, bson.M{"event_id": eventID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding reviews: %w", err)
	}
	defer cursor.Close(ctx)

	reviews := []*Review{}
	for cursor.Next(ctx) {
		var review Review
		if err := cursor.Decode(&review); err != nil {
			return nil, fmt.Errorf("error decoding review: %w", err)
		}
		reviews = append(reviews, &review)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return reviews, nil
}

func (mdb *MongodbRepo) DeleteReview(ctx context.Context, userID, reviewID primitive.ObjectID) error {
	col, err := mdb.GetCollection(ReviewsColName)
	if err != nil {
		return err
	}

	res, err := col.DeleteOne(ctx, bson.M{"_id": reviewID, "user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrReviewNotFound
	}
	return nil
}
