package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type RegisterUserRequest struct {
	Email     string
	FirstName string
	LastName  string
}

type Service interface {
	Register(ctx context.Context, req RegisterUserRequest) (User, error)
	GetByID(ctx context.Context, id snowflake.ID) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	SetSubdomain(ctx context.Context, id snowflake.ID, subdomain string) (User, error)
	MarkVerified(ctx context.Context, id snowflake.ID) error
	Delete(ctx context.Context, id snowflake.ID) error
}

// Provisioner runs synchronously after a user is registered. The identity
// directory calls it directly so the dependency stays visible and testable,
// instead of hiding provisioning behind a creation event hook.
type Provisioner interface {
	Provision(ctx context.Context, user User) error
}
