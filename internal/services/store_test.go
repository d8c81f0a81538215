package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/joshua-takyi/ticketing/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memStore is an in-memory stand-in for MongodbRepo. MarkCheckedIn holds the
// lock across the read and the write, like the single conditional update the
// real store performs.
type memStore struct {
	mu      sync.Mutex
	events  map[primitive.ObjectID]*models.Event
	tickets map[primitive.ObjectID]*models.Ticket
	users   map[primitive.ObjectID]*models.User
	cards   map[primitive.ObjectID]*models.Card
	reviews map[primitive.ObjectID]*models.Review

	createTicketCalls int
	setQRCalls        int
}

func newMemStore() *memStore {
	return &memStore{
		events:  map[primitive.ObjectID]*models.Event{},
		tickets: map[primitive.ObjectID]*models.Ticket{},
		users:   map[primitive.ObjectID]*models.User{},
		cards:   map[primitive.ObjectID]*models.Card{},
		reviews: map[primitive.ObjectID]*models.Review{},
	}
}

func (m *memStore) addEvent(title string) *models.Event {
	price := 20.0
	e := &models.Event{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Date:        time.Date(2026, 11, 20, 0, 0, 0, 0, time.UTC),
		Time:        "19:00",
		Venue:       "Main Hall",
		EventType:   models.EventTypePaid,
		TicketPrice: &price,
		IsActive:    true,
	}
	m.mu.Lock()
	m.events[e.ID] = e
	m.mu.Unlock()
	return e
}

func (m *memStore) addTicket(eventID, userID primitive.ObjectID) *models.Ticket {
	t := &models.Ticket{
		ID:          primitive.NewObjectID(),
		EventID:     eventID,
		UserID:      userID,
		TicketType:  models.TicketTypeGeneral,
		Price:       10,
		Quantity:    1,
		BookingDate: time.Now().UTC(),
	}
	m.mu.Lock()
	m.tickets[t.ID] = t
	m.mu.Unlock()
	return t
}

// events

func (m *memStore) CreateEvent(_ context.Context, e *models.Event) (*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *e
	m.events[e.ID] = &cp
	return e, nil
}

func (m *memStore) GetEventByID(_ context.Context, id primitive.ObjectID) (*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return nil, models.ErrEventNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *memStore) ListEvents(_ context.Context, activeOnly bool) ([]*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Event{}
	for _, e := range m.events {
		if activeOnly && !e.IsActive {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memStore) ReplaceEvent(_ context.Context, e *models.Event) (*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[e.ID]; !ok {
		return nil, models.ErrEventNotFound
	}
	cp := *e
	m.events[e.ID] = &cp
	return e, nil
}

func (m *memStore) DeleteEvent(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[id]; !ok {
		return models.ErrEventNotFound
	}
	delete(m.events, id)
	return nil
}

// tickets

func (m *memStore) CreateTicket(_ context.Context, t *models.Ticket) (*models.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createTicketCalls++
	cp := *t
	m.tickets[t.ID] = &cp
	return t, nil
}

func (m *memStore) GetTicketByID(_ context.Context, id primitive.ObjectID) (*models.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tickets[id]
	if !ok {
		return nil, models.ErrTicketNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memStore) ListTickets(_ context.Context, f models.TicketFilter) ([]*models.TicketView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.TicketView{}
	for _, t := range m.tickets {
		if !f.UserID.IsZero() && t.UserID != f.UserID {
			continue
		}
		if !f.EventID.IsZero() && t.EventID != f.EventID {
			continue
		}
		v := &models.TicketView{Ticket: *t}
		if e, ok := m.events[t.EventID]; ok {
			v.Event = &models.EventSummary{ID: e.ID, Title: e.Title, Date: e.Date, Time: e.Time, Venue: e.Venue}
		}
		if f.IncludeUser {
			if u, ok := m.users[t.UserID]; ok {
				v.User = &models.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
			}
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookingDate.After(out[j].BookingDate) })
	return out, nil
}

func (m *memStore) DeleteTicket(_ context.Context, id primitive.ObjectID, ownerID *primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tickets[id]
	if !ok || (ownerID != nil && t.UserID != *ownerID) {
		return models.ErrTicketNotFound
	}
	delete(m.tickets, id)
	return nil
}

func (m *memStore) SetQRCode(_ context.Context, id primitive.ObjectID, qr string) (*models.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setQRCalls++
	t, ok := m.tickets[id]
	if !ok {
		return nil, models.ErrTicketNotFound
	}
	t.QRCode = qr
	cp := *t
	return &cp, nil
}

func (m *memStore) MarkCheckedIn(_ context.Context, id primitive.ObjectID, at time.Time) (*models.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tickets[id]
	if !ok {
		return nil, models.ErrTicketNotFound
	}
	if t.IsCheckedIn {
		return nil, models.ErrAlreadyCheckedIn
	}
	t.IsCheckedIn = true
	t.CheckInTime = &at
	cp := *t
	return &cp, nil
}

// cards

func (m *memStore) CreateCard(_ context.Context, c *models.Card) (*models.Card, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.cards {
		if existing.NumberDigest == c.NumberDigest {
			return nil, models.ErrCardExists
		}
	}
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	cp := *c
	m.cards[c.ID] = &cp
	return c, nil
}

func (m *memStore) FindCardMatch(_ context.Context, match models.CardMatch) (*models.Card, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.cards {
		if c.HolderName == match.HolderName &&
			c.NumberDigest == match.NumberDigest &&
			c.Expiry == match.Expiry &&
			c.CVVDigest == match.CVVDigest {
			cp := *c
			return &cp, nil
		}
	}
	return nil, models.ErrCardNotFound
}

func (m *memStore) ListCards(_ context.Context) ([]*models.Card, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Card{}
	for _, c := range m.cards {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memStore) DeleteCard(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cards[id]; !ok {
		return models.ErrCardNotFound
	}
	delete(m.cards, id)
	return nil
}

// reviews

func (m *memStore) CreateReview(_ context.Context, r *models.Review) (*models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *r
	m.reviews[r.ID] = &cp
	return r, nil
}

func (m *memStore) GetReviewsByEvent(_ context.Context, eventID primitive.ObjectID) ([]*models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Review{}
	for _, r := range m.reviews {
		if r.EventID == eventID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memStore) DeleteReview(_ context.Context, userID, reviewID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reviews[reviewID]
	if !ok || r.UserID != userID {
		return models.ErrReviewNotFound
	}
	delete(m.reviews, reviewID)
	return nil
}

// users

func (m *memStore) CreateUser(_ context.Context, u *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	cp := *u
	m.users[u.ID] = &cp
	return u, nil
}

func (m *memStore) GetUser(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}
