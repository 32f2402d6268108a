package auth_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"login-system-api/internal/user"
)

// fakeUserStore is an in-memory auth.UserStore. Uniqueness is enforced under
// one mutex, so concurrent Create calls behave like inserts against the real
// unique constraints. Error fields allow failure injection.
type fakeUserStore struct {
	mu        sync.Mutex
	users     map[uuid.UUID]*user.User
	createErr error
	getErr    error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uuid.UUID]*user.User)}
}

func (f *fakeUserStore) Create(_ context.Context, u *user.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return f.createErr
	}

	for _, existing := range f.users {
		if existing.Username == u.Username {
			return user.ErrDuplicateUsername
		}
		if existing.Email == u.Email {
			return user.ErrDuplicateEmail
		}
	}

	now := time.Now().UTC()
	u.ID = uuid.New()
	u.CreatedAt = now
	u.UpdatedAt = now

	stored := *u
	f.users[u.ID] = &stored
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return nil, f.getErr
	}

	u, ok := f.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserStore) UsernameExists(_ context.Context, username string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) EmailExists(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) UpdateProfile(_ context.Context, u *user.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored, ok := f.users[u.ID]
	if !ok {
		return user.ErrNotFound
	}

	for id, other := range f.users {
		if id != u.ID && other.Email == u.Email {
			return user.ErrDuplicateEmail
		}
	}

	stored.Email = u.Email
	stored.FirstName = u.FirstName
	stored.LastName = u.LastName
	stored.UpdatedAt = time.Now().UTC()
	u.UpdatedAt = stored.UpdatedAt
	return nil
}

func (f *fakeUserStore) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored, ok := f.users[id]
	if !ok {
		return user.ErrNotFound
	}

	stored.PasswordHash = passwordHash
	stored.UpdatedAt = time.Now().UTC()
	return nil
}
