package auth

import "context"

// Repository is the credential store contract the identity service needs:
// lookup by email, lookup by id, and create. Each call is atomic; a Create
// followed by FindByID in the same flow observes the saved record.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	Create(ctx context.Context, name, email, passwordHash string) (*User, error)
}
