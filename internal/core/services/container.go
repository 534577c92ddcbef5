package services

import (
	portsrepo "github.com/notely/notely_backend/internal/core/ports/repositories"
	portssvc "github.com/notely/notely_backend/internal/core/ports/services"
	"github.com/notely/notely_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.User = NewUserService(repos.UserRepo, repos.AccountRepo)
	container.TokenService = NewTokenService(cfg, repos.UserRepo)
	container.GoogleOAuthHandler = NewGoogleOAuthHandlerService(cfg)
	container.Notifier = NewEmailService(cfg.ResendAPIKey, cfg.EmailFrom, cfg.IsProduction)
	container.Note = NewNoteService(repos.NoteRepo)

	return container
}
