package models

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CardCandidate is the card as submitted by a client, either to register it or
// to validate it before booking. It never reaches the database as-is.
type CardCandidate struct {
	HolderName string `json:"cardHolderName" validate:"required"`
	Number     string `json:"cardNumber" validate:"required"`
	Expiry     string `json:"expiryDate" validate:"required"` // MM/YY, not checked
	CVV        string `json:"cvv" validate:"required"`
}

type CardInput struct {
	CardCandidate
	Email  string `json:"email,omitempty" validate:"omitempty,email"`
	Mobile string `json:"mobile,omitempty"`
}

// Card is the stored payment-method stand-in. The number and CVV are kept only
// as keyed digests.
type Card struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	HolderName   string             `bson:"holder_name" json:"cardHolderName"`
	NumberDigest string             `bson:"card_number_digest" json:"-"`
	Last4        string             `bson:"last4" json:"last4"`
	Expiry       string             `bson:"expiry" json:"expiryDate"`
	CVVDigest    string             `bson:"cvv_digest" json:"-"`
	Email        string             `bson:"email,omitempty" json:"email,omitempty"`
	Mobile       string             `bson:"mobile,omitempty" json:"mobile,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updatedAt"`
}

// CardMatch is the four-field filter used by validation.
type CardMatch struct {
	HolderName   string
	NumberDigest string
	Expiry       string
	CVVDigest    string
}

type CardsRepo interface {
	CreateCard(ctx context.Context, card *Card) (*Card, error)
	FindCardMatch(ctx context.Context, match CardMatch) (*Card, error)
	ListCards(ctx context.Context) ([]*Card, error)
	DeleteCard(ctx context.Context, id primitive.ObjectID) error
}

// Sanitize trims every field and drops spaces and dashes from the number.
func (c *CardCandidate) Sanitize() {
	c.HolderName = strings.TrimSpace(c.HolderName)
	c.Expiry = strings.TrimSpace(c.Expiry)
	c.CVV = strings.TrimSpace(c.CVV)
	c.Number = strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, strings.TrimSpace(c.Number))
}

func (c *CardCandidate) ValidateCandidate() error {
	if err := Validate.Struct(c); err != nil {
		return FromValidator(err)
	}
	return nil
}

// Last4 returns the trailing four characters of the sanitized number.
func (c *CardCandidate) Last4() string {
	if len(c.Number) <= 4 {
		return c.Number
	}
	return c.Number[len(c.Number)-4:]
}

func (mdb *MongodbRepo) CreateCard(ctx context.Context, card *Card) (*Card, error) {
	col, err := mdb.GetCollection(CardsColName)
	if err != nil {
		return nil, err
	}

	if card.ID.IsZero() {
		card.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	card.CreatedAt = now
	card.UpdatedAt = now

	if _, err := col.InsertOne(ctx, card); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrCardExists
		}
		return nil, fmt.Errorf("failed to insert card: %w", err)
	}
	return card, nil
}

func (mdb *MongodbRepo) FindCardMatch(ctx context.Context, match CardMatch) (*Card, error) {
	col, err := mdb.GetCollection(CardsColName)
	if err != nil {
		return nil, err
	}

	filter := bson.M{
		"holder_name":        match.HolderName,
		"card_number_digest": match.NumberDigest,
		"expiry":             match.Expiry,
		"cvv_digest":         match.CVVDigest,
	}

	var card Card
	err = col.FindOne(ctx, filter).Decode(&card)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrCardNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up card: %w", err)
	}
	return &card, nil
}

func (mdb *MongodbRepo) ListCards(ctx context.Context) ([]*Card, error) {
	col, err := mdb.GetCollection(CardsColName)
	if err != nil {
		return nil, err
	}

	cursor, err := col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer cursor.Close(ctx)

	cards := []*Card{}
	if err := cursor.All(ctx, &cards); err != nil {
		return nil, fmt.Errorf("failed to decode cards: %w", err)
	}
	return cards, nil
}

func (mdb *MongodbRepo) DeleteCard(ctx context.Context, id primitive.ObjectID) error {
	col, err := mdb.GetCollection(CardsColName)
	if err != nil {
		return err
	}

	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrCardNotFound
	}
	return nil
}
