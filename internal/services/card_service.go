package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"

	"github.com/joshua-takyi/ticketing/internal/metrics"
	"github.com/joshua-takyi/ticketing/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentValidator approves a payment method before a booking is confirmed.
// A real gateway can replace CardValidator without the ticket ledger noticing.
type PaymentValidator interface {
	Validate(ctx context.Context, candidate models.CardCandidate) error
}

// CardDigester turns card secrets into keyed digests so that the number and
// CVV can be matched exactly without being stored.
type CardDigester struct {
	pepper []byte
}

func NewCardDigester(pepper string) *CardDigester {
	return &CardDigester{pepper: []byte(pepper)}
}

func (d *CardDigester) Digest(value string) string {
	mac := hmac.New(sha256.New, d.pepper)
	mac.Write([]byte(value))
	return hex.EncodeToString(mac.Sum(nil))
}

func (d *CardDigester) Match(c models.CardCandidate) models.CardMatch {
	return models.CardMatch{
		HolderName:   c.HolderName,
		NumberDigest: d.Digest(c.Number),
		Expiry:       c.Expiry,
		CVVDigest:    d.Digest(c.CVV),
	}
}

// CardValidator is a mock payment check: a card is valid when holder name,
// number, expiry and CVV all equal one stored card record. There is no Luhn,
// expiry or issuer check.
type CardValidator struct {
	cardsRepo models.CardsRepo
	digester  *CardDigester
	logger    *slog.Logger
}

func NewCardValidator(cardsRepo models.CardsRepo, digester *CardDigester, logger *slog.Logger) *CardValidator {
	return &CardValidator{
		cardsRepo: cardsRepo,
		digester:  digester,
		logger:    logger,
	}
}

func (cv *CardValidator) Validate(ctx context.Context, candidate models.CardCandidate) error {
	candidate.Sanitize()
	if err := candidate.ValidateCandidate(); err != nil {
		return err
	}

	_, err := cv.cardsRepo.FindCardMatch(ctx, cv.digester.Match(candidate))
	if errors.Is(err, models.ErrCardNotFound) {
		metrics.CardValidation(false)
		cv.logger.Info("card validation rejected", "last4", candidate.Last4())
		return models.ErrCardRejected
	}
	if err != nil {
		return err
	}
	metrics.CardValidation(true)
	return nil
}

type CardService struct {
	cardsRepo models.CardsRepo
	digester  *CardDigester
	logger    *slog.Logger
}

func NewCardService(cardsRepo models.CardsRepo, digester *CardDigester, logger *slog.Logger) *CardService {
	return &CardService{
		cardsRepo: cardsRepo,
		digester:  digester,
		logger:    logger,
	}
}

func (cs *CardService) RegisterCard(ctx context.Context, input *models.CardInput) (*models.Card, error) {
	input.Sanitize()
	if err := models.Validate.Struct(input); err != nil {
		return nil, models.FromValidator(err)
	}

	match := cs.digester.Match(input.CardCandidate)
	card := &models.Card{
		HolderName:   match.HolderName,
		NumberDigest: match.NumberDigest,
		Last4:        input.Last4(),
		Expiry:       match.Expiry,
		CVVDigest:    match.CVVDigest,
		Email:        input.Email,
		Mobile:       input.Mobile,
	}

	created, err := cs.cardsRepo.CreateCard(ctx, card)
	if err != nil {
		return nil, err
	}
	cs.logger.Info("card registered", "card_id", created.ID.Hex(), "last4", created.Last4)
	return created, nil
}

func (cs *CardService) ListCards(ctx context.Context) ([]*models.Card, error) {
	return cs.cardsRepo.ListCards(ctx)
}

func (cs *CardService) DeleteCard(ctx context.Context, id primitive.ObjectID) error {
	return cs.cardsRepo.DeleteCard(ctx, id)
}
