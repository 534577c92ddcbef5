package dto

import "github.com/notely/notely_backend/internal/core/domain"

// CreateNoteRequest carries input for creating a note.
type CreateNoteRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// UpdateNoteRequest carries a partial note update. Pointers distinguish
// omitted fields from zero values.
type UpdateNoteRequest struct {
	Title      *string `json:"title"`
	Content    *string `json:"content"`
	IsArchived *bool   `json:"isArchived"`
}

// ListNotesParams defines query parameters for listing notes.
type ListNotesParams struct {
	Limit     int    `form:"limit,default=20"`
	NextToken string `form:"nextToken"`
}

// ListNotesResponse wraps a page of notes with the token for the next page.
type ListNotesResponse struct {
	Notes     []domain.Note `json:"notes"`
	NextToken string        `json:"nextToken,omitempty"`
}
