package authtest

import (
	"context"
	"path"
	"sort"

	"github.com/iliyamo/pizza-service/internal/model"
	"github.com/iliyamo/pizza-service/internal/repository"
	"github.com/iliyamo/pizza-service/internal/utils"
)

// The methods below mirror repository.UserRepo so handler tests can share
// one store between the session manager and the user endpoints.

func (s *Store) Create(_ context.Context, name, email, password string, cost int, roles []model.RoleAssignment) (*model.User, error) {
	for _, role := range roles {
		if !role.Role.Valid() {
			return nil, repository.ErrInvalidRole
		}
	}
	email = utils.NormalizeEmail(email)
	s.mu.RLock()
	for _, u := range s.users {
		if u.Email == email {
			s.mu.RUnlock()
			return nil, repository.ErrEmailExists
		}
	}
	s.mu.RUnlock()
	if roles == nil {
		roles = []model.RoleAssignment{}
	}
	u := s.AddUser(name, email, password, roles...)
	return &u, nil
}

func (s *Store) Update(_ context.Context, id uint64, name, email, password string, cost int) (*model.User, error) {
	var hash string
	if password != "" {
		var err error
		if hash, err = utils.HashPassword(password, cost); err != nil {
			return nil, err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if email != "" {
		email = utils.NormalizeEmail(email)
		for oid, o := range s.users {
			if oid != id && o.Email == email {
				return nil, repository.ErrEmailExists
			}
		}
		u.Email = email
	}
	if name != "" {
		u.Name = name
	}
	if hash != "" {
		u.Password = hash
	}
	pub := u.Public()
	pub.Roles = append([]model.RoleAssignment{}, u.Roles...)
	return &pub, nil
}

// Delete removes the user and every active token it owns.
func (s *Store) Delete(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.users, id)
	for sig, uid := range s.tokens {
		if uid == id {
			delete(s.tokens, sig)
		}
	}
	return nil
}

func (s *Store) List(_ context.Context, page repository.Page, filter string) ([]model.User, bool, error) {
	if page.Limit <= 0 {
		page.Limit = 10
	}
	if filter == "" {
		filter = "*"
	}
	s.mu.RLock()
	all := []model.User{}
	for _, u := range s.users {
		if ok, _ := path.Match(filter, u.Name); ok {
			pub := u.Public()
			pub.Roles = append([]model.RoleAssignment{}, u.Roles...)
			all = append(all, pub)
		}
	}
	s.mu.RUnlock()
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	start := page.Number * page.Limit
	if start > len(all) {
		start = len(all)
	}
	end := start + page.Limit
	more := end < len(all)
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], more, nil
}
