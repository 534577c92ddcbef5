package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/notely/notely_backend/internal/apperrors"
	"github.com/notely/notely_backend/internal/core/domain"
	portsrepo "github.com/notely/notely_backend/internal/core/ports/repositories"
	"github.com/notely/notely_backend/internal/models"
)

type PgxNoteRepository struct {
	db *pgxpool.Pool
}

func NewPgxNoteRepository(db *pgxpool.Pool) portsrepo.NoteRepository {
	return &PgxNoteRepository{db: db}
}

var _ portsrepo.NoteRepository = (*PgxNoteRepository)(nil)

func toDomainNote(m models.Note) domain.Note {
	return domain.Note{
		NoteID:     m.NoteID,
		UserID:     m.UserID,
		Title:      m.Title,
		Content:    m.Content,
		IsArchived: m.IsArchived,
		AuditFields: domain.AuditFields{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
	}
}

const noteColumns = `note_id, user_id, title, content, is_archived, created_at, updated_at`

func scanNote(row pgx.Row) (*domain.Note, error) {
	var m models.Note
	err := row.Scan(
		&m.NoteID,
		&m.UserID,
		&m.Title,
		&m.Content,
		&m.IsArchived,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	d := toDomainNote(m)
	return &d, nil
}

func (r *PgxNoteRepository) SaveNote(ctx context.Context, note domain.Note) error {
	query := `
        INSERT INTO notes (note_id, user_id, title, content, is_archived, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7);
    `
	_, err := r.db.Exec(ctx, query,
		note.NoteID,
		note.UserID,
		note.Title,
		note.Content,
		note.IsArchived,
		note.CreatedAt,
		note.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save note: %w", err)
	}
	return nil
}

func (r *PgxNoteRepository) FindNoteByID(ctx context.Context, noteID string, userID string) (*domain.Note, error) {
	query := `
		SELECT ` + noteColumns + `
		FROM notes
		WHERE note_id = $1 AND user_id = $2;
	`
	note, err := scanNote(r.db.QueryRow(ctx, query, noteID, userID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find note by ID %s: %w", noteID, err)
	}
	return note, nil
}

func (r *PgxNoteRepository) FindNotesByUser(ctx context.Context, userID string, limit int, createdBefore *time.Time) ([]domain.Note, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
        SELECT ` + noteColumns + `
        FROM notes
        WHERE user_id = $1 AND ($2::timestamptz IS NULL OR created_at < $2)
        ORDER BY created_at DESC
        LIMIT $3;
    `
	rows, err := r.db.Query(ctx, query, userID, createdBefore, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	notes := []domain.Note{}
	for rows.Next() {
		var m models.Note
		err := rows.Scan(
			&m.NoteID,
			&m.UserID,
			&m.Title,
			&m.Content,
			&m.IsArchived,
			&m.CreatedAt,
			&m.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note row: %w", err)
		}
		notes = append(notes, toDomainNote(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating note rows: %w", rows.Err())
	}

	return notes, nil
}

func (r *PgxNoteRepository) UpdateNote(ctx context.Context, note domain.Note) error {
	query := `
        UPDATE notes
        SET title = $1, content = $2, is_archived = $3, updated_at = $4
        WHERE note_id = $5 AND user_id = $6;
    `
	cmdTag, err := r.db.Exec(ctx, query,
		note.Title,
		note.Content,
		note.IsArchived,
		note.UpdatedAt,
		note.NoteID,
		note.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("note not found: %w", apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxNoteRepository) DeleteNote(ctx context.Context, noteID string, userID string) error {
	query := `DELETE FROM notes WHERE note_id = $1 AND user_id = $2;`
	cmdTag, err := r.db.Exec(ctx, query, noteID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("note not found: %w", apperrors.ErrNotFound)
	}
	return nil
}
