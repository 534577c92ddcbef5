package models

// Note represents a row of the notes table.
type Note struct {
	NoteID     string `db:"note_id"`
	UserID     string `db:"user_id"`
	Title      string `db:"title"`
	Content    string `db:"content"`
	IsArchived bool   `db:"is_archived"`
	AuditFields
}
