package domain

// Note is an ownership-scoped record; every operation on it is filtered by
// the owning user's ID.
type Note struct {
	NoteID     string `json:"id"`
	UserID     string `json:"userID"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	IsArchived bool   `json:"isArchived"`
	AuditFields
}
