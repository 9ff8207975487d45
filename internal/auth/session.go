package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/iliyamo/pizza-service/internal/model"
	"github.com/iliyamo/pizza-service/internal/utils"
)

// CredentialStore is the persistence the session manager depends on.  The
// Find methods return (nil, nil) when no user matches.
type CredentialStore interface {
	FindUserByEmail(ctx context.Context, email string) (*model.User, error)
	FindUserByID(ctx context.Context, id uint64) (*model.User, error)
	RolesForUser(ctx context.Context, userID uint64) ([]model.RoleAssignment, error)
	InsertActiveToken(ctx context.Context, signature string, userID uint64) error
	DeleteActiveToken(ctx context.Context, signature string) error
	ActiveTokenExists(ctx context.Context, signature string) (bool, error)
}

// Manager issues, checks and revokes sessions.  It keeps no state of its
// own; the active-token rows live in the CredentialStore.
type Manager struct {
	codec     *Codec
	store     CredentialStore
	dummyHash string
	log       *slog.Logger
}

// NewManager wires a manager.  bcryptCost is used to build the hash that
// unknown emails are compared against, so that both login failure paths
// take the same time.
func NewManager(codec *Codec, store CredentialStore, bcryptCost int) (*Manager, error) {
	dummy, err := utils.HashPassword("pizza-service-dummy-password", bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("auth: build dummy hash: %w", err)
	}
	return &Manager{
		codec:     codec,
		store:     store,
		dummyHash: dummy,
		log:       slog.Default().With("module", "auth", "layer", "session"),
	}, nil
}

// Login checks the credentials and opens a new session.  Each call creates
// an independent active-token row.
func (m *Manager) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	u, err := m.store.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("%w: find user: %w", ErrStorageUnavailable, err)
	}
	if u == nil {
		utils.VerifyPassword(m.dummyHash, password)
		return nil, "", ErrAuthFailed
	}
	if !utils.VerifyPassword(u.Password, password) {
		return nil, "", ErrAuthFailed
	}

	roles, err := m.store.RolesForUser(ctx, u.ID)
	if err != nil {
		return nil, "", fmt.Errorf("%w: load roles: %w", ErrStorageUnavailable, err)
	}
	u.Roles = roles

	token, err := m.Issue(ctx, *u)
	if err != nil {
		return nil, "", err
	}
	pub := u.Public()
	return &pub, token, nil
}

// Issue mints a token for u and records it as active.  The token is only
// returned once the active-token row has been written.
func (m *Manager) Issue(ctx context.Context, u model.User) (string, error) {
	token, err := m.codec.Sign(u.Public())
	if err != nil {
		return "", err
	}
	if err := m.store.InsertActiveToken(ctx, Signature(token), u.ID); err != nil {
		return "", fmt.Errorf("%w: record token: %w", ErrStorageUnavailable, err)
	}
	m.log.DebugContext(ctx, "session issued", "operation", "issue", "outcome", "success", "user_id", u.ID)
	return token, nil
}

// Logout revokes the token.  Revoking an unknown token is not an error.
func (m *Manager) Logout(ctx context.Context, token string) error {
	if err := m.store.DeleteActiveToken(ctx, Signature(token)); err != nil {
		return fmt.Errorf("%w: delete token: %w", ErrStorageUnavailable, err)
	}
	return nil
}

// IsActive reports whether the token's signature is still on the allow
// list.  It does not check the signature cryptographically.
func (m *Manager) IsActive(ctx context.Context, token string) (bool, error) {
	sig := Signature(token)
	if sig == "" {
		return false, nil
	}
	return m.store.ActiveTokenExists(ctx, sig)
}

// Verify decodes the token; see Codec.Verify.
func (m *Manager) Verify(token string) (*model.User, error) {
	return m.codec.Verify(token)
}
