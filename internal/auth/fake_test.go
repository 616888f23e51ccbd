package auth

import (
	"context"
	"sync"

	"simasosial-backend/internal/database"
	"simasosial-backend/internal/models"
)

// fakeUsers is an in-memory UserRepository enforcing the same unique
// constraints as the users table.
type fakeUsers struct {
	mu     sync.Mutex
	nextID uint
	byID   map[uint]*models.User
	err    error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[uint]*models.User{}}
}

func (f *fakeUsers) CreateUser(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, existing := range f.byID {
		if existing.Email == u.Email || existing.NIM == u.NIM {
			return database.ErrDuplicate
		}
	}
	f.nextID++
	u.ID = f.nextID
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUsers) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, database.ErrNotFound
}

func (f *fakeUsers) CountByRole(_ context.Context, role models.UserRole) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, u := range f.byID {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (f *fakeUsers) UpdateRole(_ context.Context, id uint, role models.UserRole) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return 0, nil
	}
	u.Role = role
	return 1, nil
}
