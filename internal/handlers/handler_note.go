package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/notely/notely_backend/internal/apperrors"
	portssvc "github.com/notely/notely_backend/internal/core/ports/services"
	"github.com/notely/notely_backend/internal/dto"
	"github.com/notely/notely_backend/internal/middleware"
)

// NoteHandler handles the notes CRUD surface. Every operation is scoped to
// the user attached by the auth middleware.
type NoteHandler struct {
	noteService portssvc.NoteSvcFacade
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(noteService portssvc.NoteSvcFacade) *NoteHandler {
	return &NoteHandler{noteService: noteService}
}

// registerNoteRoutes sets up the protected note routes.
func registerNoteRoutes(rg *gin.RouterGroup, noteService portssvc.NoteSvcFacade) {
	h := NewNoteHandler(noteService)
	notes := rg.Group("/notes")
	{
		notes.POST("", h.CreateNote)
		notes.GET("", h.ListNotes)
		notes.GET("/:noteID", h.GetNote)
		notes.PATCH("/:noteID", h.UpdateNote)
		notes.DELETE("/:noteID", h.DeleteNote)
	}
}

// CreateNote godoc
// @Summary Create a note
// @Tags notes
// @Accept json
// @Produce json
// @Param note body dto.CreateNoteRequest true "Note"
// @Success 201 {object} map[string]any
// @Failure 400 {object} apperrors.AppError
// @Failure 401 {object} apperrors.AppError
// @Router /notes [post]
func (h *NoteHandler) CreateNote(c *gin.Context) {
	user, ok := middleware.GetUserFromContext(c)
	if !ok {
		respondError(c, apperrors.NewUnauthorizedError("You are not logged in. Please log in to access this resource."))
		return
	}

	var req dto.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewBadRequestError("Invalid request body: "+err.Error()))
		return
	}

	note, err := h.noteService.CreateNote(c.Request.Context(), user.UserID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success", "data": note})
}

// ListNotes godoc
// @Summary List notes
// @Tags notes
// @Produce json
// @Param limit query int false "Page size"
// @Param nextToken query string false "Opaque pagination cursor"
// @Success 200 {object} dto.ListNotesResponse
// @Failure 401 {object} apperrors.AppError
// @Router /notes [get]
func (h *NoteHandler) ListNotes(c *gin.Context) {
	user, ok := middleware.GetUserFromContext(c)
	if !ok {
		respondError(c, apperrors.NewUnauthorizedError("You are not logged in. Please log in to access this resource."))
		return
	}

	var params dto.ListNotesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondError(c, apperrors.NewBadRequestError("Invalid query parameters: "+err.Error()))
		return
	}

	notes, nextToken, err := h.noteService.ListNotes(c.Request.Context(), user.UserID, params.Limit, params.NextToken)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   dto.ListNotesResponse{Notes: notes, NextToken: nextToken},
	})
}

// GetNote godoc
// @Summary Get a note
// @Tags notes
// @Produce json
// @Param noteID path string true "Note ID"
// @Success 200 {object} map[string]any
// @Failure 404 {object} apperrors.AppError
// @Router /notes/{noteID} [get]
func (h *NoteHandler) GetNote(c *gin.Context) {
	user, ok := middleware.GetUserFromContext(c)
	if !ok {
		respondError(c, apperrors.NewUnauthorizedError("You are not logged in. Please log in to access this resource."))
		return
	}

	note, err := h.noteService.GetNote(c.Request.Context(), user.UserID, c.Param("noteID"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			respondError(c, apperrors.NewNotFoundError("Note not found"))
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": note})
}

// UpdateNote godoc
// @Summary Update a note
// @Tags notes
// @Accept json
// @Produce json
// @Param noteID path string true "Note ID"
// @Param note body dto.UpdateNoteRequest true "Fields to update"
// @Success 200 {object} map[string]any
// @Failure 404 {object} apperrors.AppError
// @Router /notes/{noteID} [patch]
func (h *NoteHandler) UpdateNote(c *gin.Context) {
	user, ok := middleware.GetUserFromContext(c)
	if !ok {
		respondError(c, apperrors.NewUnauthorizedError("You are not logged in. Please log in to access this resource."))
		return
	}

	var req dto.UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewBadRequestError("Invalid request body: "+err.Error()))
		return
	}

	note, err := h.noteService.UpdateNote(c.Request.Context(), user.UserID, c.Param("noteID"), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			respondError(c, apperrors.NewNotFoundError("Note not found"))
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": note})
}

// DeleteNote godoc
// @Summary Delete a note
// @Tags notes
// @Produce json
// @Param noteID path string true "Note ID"
// @Success 200 {object} map[string]any
// @Failure 404 {object} apperrors.AppError
// @Router /notes/{noteID} [delete]
func (h *NoteHandler) DeleteNote(c *gin.Context) {
	user, ok := middleware.GetUserFromContext(c)
	if !ok {
		respondError(c, apperrors.NewUnauthorizedError("You are not logged in. Please log in to access this resource."))
		return
	}

	if err := h.noteService.DeleteNote(c.Request.Context(), user.UserID, c.Param("noteID")); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			respondError(c, apperrors.NewNotFoundError("Note not found"))
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": nil})
}
