package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/blogem/object-log/models"
	"github.com/blogem/object-log/repositories"
)

// Claims are the identity claims received at login
type Claims map[string]interface{}

// UserService interface defines user business logic
type UserService interface {
	FromClaims(ctx context.Context, claims Claims) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
}

type userService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// FromClaims creates or refreshes the user identified by the "sub" claim
func (s *userService) FromClaims(ctx context.Context, claims Claims) (*models.User, error) {
	subject, _ := claims["sub"].(string)
	if strings.TrimSpace(subject) == "" {
		return nil, errors.New("claims have no subject")
	}

	user := &models.User{Subject: subject}
	user.Email, _ = claims["email"].(string)

	// Try to get nickname, fallback to name
	if nickname, ok := claims["nickname"].(string); ok && nickname != "" {
		user.Name = nickname
	} else if name, ok := claims["name"].(string); ok {
		user.Name = name
	}

	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to store user: %w", err)
	}
	return user, nil
}

// GetUser retrieves a user by ID
func (s *userService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid user ID: %d", id)
	}
	return s.userRepo.GetByID(ctx, id)
}

// ListUsers retrieves all users
func (s *userService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.userRepo.List(ctx)
}
