package services

import (
	"context"

	"github.com/joshua-takyi/ticketing/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserService struct {
	userRepo models.UserRepo
}

func NewUserService(userRepo models.UserRepo) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

func (us *UserService) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	if id.IsZero() {
		return nil, models.ErrInvalidID
	}
	return us.userRepo.GetUser(ctx, id)
}

func (us *UserService) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	return us.userRepo.CreateUser(ctx, user)
}
