package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/joshua-takyi/ticketing/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCheckInOnce(t *testing.T) {
	store := newMemStore()
	event := store.addEvent("Jazz Night")
	owner := primitive.NewObjectID()
	ticket := store.addTicket(event.ID, owner)

	svc := NewCheckInService(store, discardLogger())
	first := time.Date(2026, 11, 20, 19, 5, 0, 0, time.UTC)
	svc.now = func() time.Time { return first }

	caller := Caller{UserID: owner, Role: models.RoleUser}
	checked, err := svc.CheckIn(context.Background(), caller, ticket.ID)
	require.NoError(t, err)
	assert.True(t, checked.IsCheckedIn)
	require.NotNil(t, checked.CheckInTime)
	assert.Equal(t, first, *checked.CheckInTime)

	svc.now = func() time.Time { return first.Add(time.Hour) }
	_, err = svc.CheckIn(context.Background(), caller, ticket.ID)
	assert.ErrorIs(t, err, models.ErrAlreadyCheckedIn)

	stored, err := store.GetTicketByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsCheckedIn)
	assert.Equal(t, first, *stored.CheckInTime)
}

func TestCheckInConcurrent(t *testing.T) {
	store := newMemStore()
	event := store.addEvent("Jazz Night")
	ticket := store.addTicket(event.ID, primitive.NewObjectID())
	svc := NewCheckInService(store, discardLogger())
	staff := Caller{UserID: primitive.NewObjectID(), Role: models.RoleStaff}

	const workers = 32
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CheckIn(context.Background(), staff, ticket.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, models.ErrAlreadyCheckedIn):
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, rejected)
}

func TestCheckInAccess(t *testing.T) {
	store := newMemStore()
	event := store.addEvent("Jazz Night")
	owner := primitive.NewObjectID()
	svc := NewCheckInService(store, discardLogger())

	t.Run("missing ticket", func(t *testing.T) {
		_, err := svc.CheckIn(context.Background(), Caller{UserID: owner, Role: models.RoleUser}, primitive.NewObjectID())
		assert.ErrorIs(t, err, models.ErrTicketNotFound)
	})

	t.Run("missing ticket as staff", func(t *testing.T) {
		_, err := svc.CheckIn(context.Background(), Caller{UserID: owner, Role: models.RoleStaff}, primitive.NewObjectID())
		assert.ErrorIs(t, err, models.ErrTicketNotFound)
	})

	t.Run("other user sees not found", func(t *testing.T) {
		ticket := store.addTicket(event.ID, owner)
		stranger := Caller{UserID: primitive.NewObjectID(), Role: models.RoleUser}

		_, err := svc.CheckIn(context.Background(), stranger, ticket.ID)
		assert.ErrorIs(t, err, models.ErrTicketNotFound)

		stored, err := store.GetTicketByID(context.Background(), ticket.ID)
		require.NoError(t, err)
		assert.False(t, stored.IsCheckedIn)
	})

	t.Run("staff and admin may check in any ticket", func(t *testing.T) {
		for _, role := range []string{models.RoleStaff, models.RoleAdmin} {
			ticket := store.addTicket(event.ID, owner)
			_, err := svc.CheckIn(context.Background(), Caller{UserID: primitive.NewObjectID(), Role: role}, ticket.ID)
			assert.NoError(t, err, role)
		}
	})
}

func TestCheckInResult(t *testing.T) {
	assert.Equal(t, "ok", checkInResult(nil))
	assert.Equal(t, "duplicate", checkInResult(models.ErrAlreadyCheckedIn))
	assert.Equal(t, "not_found", checkInResult(models.ErrTicketNotFound))
	assert.Equal(t, "error", checkInResult(errors.New("timeout")))
}
