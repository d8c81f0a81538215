package services

import (
	"github.com/joshua-takyi/ticketing/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Caller is the authenticated user a request acts on behalf of. Handlers build
// it from the verified token and pass it in; services never look it up.
type Caller struct {
	UserID primitive.ObjectID
	Role   string
}

func (c Caller) IsAdmin() bool {
	return c.Role == models.RoleAdmin
}

// IsStaff reports whether the caller may act on other users' tickets at the door.
func (c Caller) IsStaff() bool {
	return c.Role == models.RoleStaff || c.IsAdmin()
}

// canAccess folds ownership into visibility: a ticket the caller may not touch
// is reported as missing.
func (c Caller) canAccess(ticket *models.Ticket) bool {
	return c.IsStaff() || ticket.UserID == c.UserID
}
