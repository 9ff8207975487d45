package repository

import (
	"context"

	"github.com/iliyamo/pizza-service/internal/model"
)

// Credentials adapts UserRepo and TokenRepo to auth.CredentialStore.
type Credentials struct {
	Users  *UserRepo
	Tokens *TokenRepo
}

func NewCredentials(u *UserRepo, t *TokenRepo) *Credentials {
	return &Credentials{Users: u, Tokens: t}
}

func (c *Credentials) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return c.Users.FindByEmail(ctx, email)
}

func (c *Credentials) FindUserByID(ctx context.Context, id uint64) (*model.User, error) {
	return c.Users.FindByID(ctx, id)
}

func (c *Credentials) RolesForUser(ctx context.Context, userID uint64) ([]model.RoleAssignment, error) {
	return c.Users.Roles(ctx, userID)
}

func (c *Credentials) InsertActiveToken(ctx context.Context, signature string, userID uint64) error {
	return c.Tokens.Insert(ctx, signature, userID)
}

func (c *Credentials) DeleteActiveToken(ctx context.Context, signature string) error {
	return c.Tokens.Delete(ctx, signature)
}

func (c *Credentials) ActiveTokenExists(ctx context.Context, signature string) (bool, error) {
	return c.Tokens.Exists(ctx, signature)
}
