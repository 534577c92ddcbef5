package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/notely/notely_backend/internal/apperrors"
	"github.com/notely/notely_backend/internal/core/domain"
	portsrepo "github.com/notely/notely_backend/internal/core/ports/repositories"
	portssvc "github.com/notely/notely_backend/internal/core/ports/services"
	"github.com/notely/notely_backend/internal/dto"
	"github.com/notely/notely_backend/internal/utils/pagination"
)

type noteService struct {
	noteRepo portsrepo.NoteRepository
}

// NewNoteService creates the ownership-scoped note service.
func NewNoteService(noteRepo portsrepo.NoteRepository) portssvc.NoteSvcFacade {
	return &noteService{noteRepo: noteRepo}
}

var _ portssvc.NoteSvcFacade = (*noteService)(nil)

func (s *noteService) CreateNote(ctx context.Context, userID string, req dto.CreateNoteRequest) (*domain.Note, error) {
	now := time.Now()
	note := domain.Note{
		NoteID:  uuid.NewString(),
		UserID:  userID,
		Title:   req.Title,
		Content: req.Content,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	if err := s.noteRepo.SaveNote(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}
	return &note, nil
}

func (s *noteService) ListNotes(ctx context.Context, userID string, limit int, nextToken string) ([]domain.Note, string, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var createdBefore *time.Time
	if nextToken != "" {
		cursor, err := pagination.DecodeDateBasedToken(nextToken)
		if err != nil {
			return nil, "", apperrors.NewBadRequestError("Invalid pagination token")
		}
		createdBefore = &cursor
	}

	// Fetch one extra row to know whether another page exists.
	notes, err := s.noteRepo.FindNotesByUser(ctx, userID, limit+1, createdBefore)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list notes: %w", err)
	}

	var newToken string
	if len(notes) > limit {
		notes = notes[:limit]
		newToken = pagination.EncodeDateBasedToken(notes[len(notes)-1].CreatedAt)
	}
	return notes, newToken, nil
}

func (s *noteService) GetNote(ctx context.Context, userID string, noteID string) (*domain.Note, error) {
	return s.noteRepo.FindNoteByID(ctx, noteID, userID)
}

func (s *noteService) UpdateNote(ctx context.Context, userID string, noteID string, req dto.UpdateNoteRequest) (*domain.Note, error) {
	note, err := s.noteRepo.FindNoteByID(ctx, noteID, userID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		note.Title = *req.Title
	}
	if req.Content != nil {
		note.Content = *req.Content
	}
	if req.IsArchived != nil {
		note.IsArchived = *req.IsArchived
	}
	note.UpdatedAt = time.Now()

	if err := s.noteRepo.UpdateNote(ctx, *note); err != nil {
		return nil, fmt.Errorf("failed to update note: %w", err)
	}
	return note, nil
}

func (s *noteService) DeleteNote(ctx context.Context, userID string, noteID string) error {
	return s.noteRepo.DeleteNote(ctx, noteID, userID)
}
