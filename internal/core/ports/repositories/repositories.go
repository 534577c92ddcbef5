package repositories

// RepositoryProvider aggregates all repository implementations for injection
// into the service container.
type RepositoryProvider struct {
	UserRepo    UserRepository
	AccountRepo AccountRepository
	NoteRepo    NoteRepository
}
