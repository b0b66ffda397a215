// Package identity is the auth-identity gateway. Identities (login
// credentials) live apart from profile rows: the user service creates the
// identity first and reuses its id as the profile's primary key, and deletes
// identities best-effort when cleaning up.
package identity

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrIdentityExists   = errors.New("identity with this email already exists")
	ErrIdentityNotFound = errors.New("identity not found")
	ErrBadCredentials   = errors.New("invalid email or password")
)

// Metadata is attached to a new identity at creation time.
type Metadata struct {
	FirstName string
	LastName  string
	Role      string
}

// Manager creates and deletes auth identities and verifies credentials.
type Manager interface {
	// Create provisions a new identity for the email and returns its id.
	// The initial password is the returned secret; the activation mail flow
	// lets the user replace it.
	Create(ctx context.Context, email string, meta Metadata) (id primitive.ObjectID, secret string, err error)

	// Delete removes an identity. Cleanup paths treat failures as non-fatal.
	Delete(ctx context.Context, id primitive.ObjectID) error

	// Verify checks email/password and returns the identity id on success.
	Verify(ctx context.Context, email, password string) (primitive.ObjectID, error)

	// SetPassword replaces the stored credential for an identity.
	SetPassword(ctx context.Context, id primitive.ObjectID, password string) error
}
