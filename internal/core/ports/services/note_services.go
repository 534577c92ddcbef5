package services

import (
	"context"

	"github.com/notely/notely_backend/internal/core/domain"
	"github.com/notely/notely_backend/internal/dto"
)

// NoteSvcFacade defines ownership-scoped note operations.
type NoteSvcFacade interface {
	CreateNote(ctx context.Context, userID string, req dto.CreateNoteRequest) (*domain.Note, error)
	// ListNotes pages through the user's notes newest-first. nextToken is an
	// opaque keyset cursor; an empty returned token means the last page.
	ListNotes(ctx context.Context, userID string, limit int, nextToken string) ([]domain.Note, string, error)
	GetNote(ctx context.Context, userID string, noteID string) (*domain.Note, error)
	UpdateNote(ctx context.Context, userID string, noteID string, req dto.UpdateNoteRequest) (*domain.Note, error)
	DeleteNote(ctx context.Context, userID string, noteID string) error
}
