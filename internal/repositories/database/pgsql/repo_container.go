package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/notely/notely_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires all pgx-backed repositories over one pool.
func NewRepositoryProvider(db *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:    NewPgxUserRepository(db),
		AccountRepo: NewPgxAccountRepository(db),
		NoteRepo:    NewPgxNoteRepository(db),
	}
}
