package repositories

import (
	"context"
	"time"

	"github.com/notely/notely_backend/internal/core/domain"
)

// NoteRepository persists notes. Every read and write is scoped by the
// owning user's ID; a note belonging to another user behaves as missing.
type NoteRepository interface {
	SaveNote(ctx context.Context, note domain.Note) error
	FindNoteByID(ctx context.Context, noteID string, userID string) (*domain.Note, error)
	// FindNotesByUser returns up to limit notes ordered by created_at
	// descending, starting strictly before the optional keyset cursor.
	FindNotesByUser(ctx context.Context, userID string, limit int, createdBefore *time.Time) ([]domain.Note, error)
	UpdateNote(ctx context.Context, note domain.Note) error
	DeleteNote(ctx context.Context, noteID string, userID string) error
}
