package services

import (
	"context"
	"strings"
	"testing"

	"github.com/joshua-takyi/ticketing/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCard() models.CardCandidate {
	return models.CardCandidate{
		HolderName: "Kofi Mensah",
		Number:     "4111111111111111",
		Expiry:     "12/27",
		CVV:        "123",
	}
}

func setupCards(t *testing.T) (*CardService, *CardValidator, *memStore) {
	t.Helper()
	store := newMemStore()
	digester := NewCardDigester("test-pepper")
	cards := NewCardService(store, digester, discardLogger())
	validator := NewCardValidator(store, digester, discardLogger())

	_, err := cards.RegisterCard(context.Background(), &models.CardInput{CardCandidate: testCard(), Email: "kofi@example.com"})
	require.NoError(t, err)
	return cards, validator, store
}

func TestCardValidatorExactMatch(t *testing.T) {
	_, validator, _ := setupCards(t)

	assert.NoError(t, validator.Validate(context.Background(), testCard()))

	spaced := testCard()
	spaced.Number = "4111 1111 1111 1111"
	spaced.HolderName = "  Kofi Mensah "
	assert.NoError(t, validator.Validate(context.Background(), spaced))
}

func TestCardValidatorRejectsPartialMatch(t *testing.T) {
	_, validator, _ := setupCards(t)

	tests := []struct {
		name   string
		mutate func(c *models.CardCandidate)
	}{
		{"holder name", func(c *models.CardCandidate) { c.HolderName = "Kofi Mensa" }},
		{"number", func(c *models.CardCandidate) { c.Number = "4111111111111112" }},
		{"expiry", func(c *models.CardCandidate) { c.Expiry = "11/27" }},
		{"cvv", func(c *models.CardCandidate) { c.CVV = "321" }},
		{"holder name case", func(c *models.CardCandidate) { c.HolderName = "kofi mensah" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			candidate := testCard()
			tc.mutate(&candidate)
			assert.ErrorIs(t, validator.Validate(context.Background(), candidate), models.ErrCardRejected)
		})
	}
}

func TestCardValidatorMissingFields(t *testing.T) {
	_, validator, _ := setupCards(t)

	candidate := testCard()
	candidate.CVV = "  "
	err := validator.Validate(context.Background(), candidate)
	require.Error(t, err)
	assert.True(t, models.IsValidationError(err))
}

func TestRegisterCard(t *testing.T) {
	cards, _, store := setupCards(t)

	t.Run("secrets are not stored", func(t *testing.T) {
		list, err := cards.ListCards(context.Background())
		require.NoError(t, err)
		require.Len(t, list, 1)

		card := list[0]
		assert.Equal(t, "1111", card.Last4)
		assert.Equal(t, "Kofi Mensah", card.HolderName)
		assert.NotEqual(t, testCard().Number, card.NumberDigest)
		assert.NotEqual(t, testCard().CVV, card.CVVDigest)
		assert.False(t, strings.Contains(card.NumberDigest, testCard().Number))
	})

	t.Run("duplicate number", func(t *testing.T) {
		again := testCard()
		again.HolderName = "Someone Else"
		_, err := cards.RegisterCard(context.Background(), &models.CardInput{CardCandidate: again})
		assert.ErrorIs(t, err, models.ErrCardExists)
	})

	t.Run("invalid email", func(t *testing.T) {
		other := testCard()
		other.Number = "5500000000000004"
		_, err := cards.RegisterCard(context.Background(), &models.CardInput{CardCandidate: other, Email: "nope"})
		assert.True(t, models.IsValidationError(err))
	})

	t.Run("delete", func(t *testing.T) {
		list, err := cards.ListCards(context.Background())
		require.NoError(t, err)
		require.NoError(t, cards.DeleteCard(context.Background(), list[0].ID))
		assert.Empty(t, store.cards)
		assert.ErrorIs(t, cards.DeleteCard(context.Background(), list[0].ID), models.ErrCardNotFound)
	})
}

func TestCardDigester(t *testing.T) {
	a := NewCardDigester("pepper-a")
	b := NewCardDigester("pepper-b")

	assert.Equal(t, a.Digest("4111111111111111"), a.Digest("4111111111111111"))
	assert.NotEqual(t, a.Digest("4111111111111111"), b.Digest("4111111111111111"))
	assert.Len(t, a.Digest("123"), 64)
}
