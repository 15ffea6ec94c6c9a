package services

import (
	"github.com/sirupsen/logrus"

	"github.com/blogem/object-log/contenttypes"
	"github.com/blogem/object-log/repositories"
)

// Services holds all service instances
type Services struct {
	Users UserService
	Logs  LogService
}

// NewServices creates and initializes all service instances
func NewServices(repos *repositories.Repositories, types *contenttypes.Registry, log *logrus.Logger) *Services {
	return &Services{
		Users: NewUserService(repos.Users),
		Logs:  NewLogService(repos.LogActions, repos.LogItems, types, log),
	}
}
