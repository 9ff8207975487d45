// Package authtest provides an in-memory auth.CredentialStore for tests.
package authtest

import (
	"context"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/pizza-service/internal/model"
	"github.com/iliyamo/pizza-service/internal/utils"
)

// Store is a concurrency-safe in-memory credential store.  The Err fields
// inject failures into the matching calls.
type Store struct {
	mu     sync.RWMutex
	users  map[uint64]*model.User
	tokens map[string]uint64
	nextID uint64

	ErrFind   error
	ErrRoles  error
	ErrInsert error
	ErrDelete error
	ErrExists error
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		users:  make(map[uint64]*model.User),
		tokens: make(map[string]uint64),
	}
}

// AddUser stores a user with a bcrypt.MinCost hash of password and returns
// a copy of it (without the hash).
func (s *Store) AddUser(name, email, password string, roles ...model.RoleAssignment) model.User {
	hash, err := utils.HashPassword(password, bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	u := &model.User{
		ID:       s.nextID,
		Name:     name,
		Email:    utils.NormalizeEmail(email),
		Password: hash,
		Roles:    append([]model.RoleAssignment(nil), roles...),
	}
	s.users[u.ID] = u
	return u.Public()
}

// ActiveTokens returns the number of active-token rows.
func (s *Store) ActiveTokens() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tokens)
}

func (s *Store) FindUserByEmail(_ context.Context, email string) (*model.User, error) {
	if s.ErrFind != nil {
		return nil, s.ErrFind
	}
	email = utils.NormalizeEmail(email)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			cp.Roles = nil
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *Store) FindUserByID(_ context.Context, id uint64) (*model.User, error) {
	if s.ErrFind != nil {
		return nil, s.ErrFind
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	cp.Roles = append([]model.RoleAssignment(nil), u.Roles...)
	return &cp, nil
}

func (s *Store) RolesForUser(_ context.Context, userID uint64) ([]model.RoleAssignment, error) {
	if s.ErrRoles != nil {
		return nil, s.ErrRoles
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return []model.RoleAssignment{}, nil
	}
	return append([]model.RoleAssignment{}, u.Roles...), nil
}

func (s *Store) InsertActiveToken(_ context.Context, signature string, userID uint64) error {
	if s.ErrInsert != nil {
		return s.ErrInsert
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[signature] = userID
	return nil
}

func (s *Store) DeleteActiveToken(_ context.Context, signature string) error {
	if s.ErrDelete != nil {
		return s.ErrDelete
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, signature)
	return nil
}

func (s *Store) ActiveTokenExists(_ context.Context, signature string) (bool, error) {
	if s.ErrExists != nil {
		return false, s.ErrExists
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.tokens[signature]
	return ok, nil
}
