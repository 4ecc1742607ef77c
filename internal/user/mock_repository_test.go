package user

import (
	"context"
	"errors"
	"strings"
	"sync"

	emailService "github.com/sebuszqo/FinanceLedger/internal/email"
)

type mockUserRepository struct {
	mu        sync.Mutex
	users     map[string]*User
	failWrite bool
	writeErr  error
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[string]*User)}
}

func (m *mockUserRepository) createUser(_ context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrite {
		return errors.New("db down")
	}
	if m.writeErr != nil {
		return m.writeErr
	}
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepository) getUserByID(_ context.Context, id string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *mockUserRepository) getUserByLoginOrEmail(_ context.Context, loginOrEmail string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Username == loginOrEmail || strings.EqualFold(user.Email, loginOrEmail) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *mockUserRepository) findConflictingUser(_ context.Context, username, email, excludeID string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.ID == excludeID {
			continue
		}
		if user.Username == username || strings.EqualFold(user.Email, email) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *mockUserRepository) updateProfile(_ context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return ErrUserNotFound
	}
	if m.writeErr != nil {
		return m.writeErr
	}
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepository) updateUserPasswordAndHashToken(_ context.Context, userID, newPasswordHash, newHashToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	user.PasswordHash = newPasswordHash
	user.HashToken = newHashToken
	return nil
}

type mockEmailSender struct {
	mu    sync.Mutex
	queue []string
}

func (m *mockEmailSender) QueueEmail(to string, _ emailService.EmailData) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, to)
}

type mockSeeder struct {
	seeded []string
	err    error
}

func (m *mockSeeder) SeedDefaultCategories(_ context.Context, userID string) error {
	m.seeded = append(m.seeded, userID)
	return m.err
}
