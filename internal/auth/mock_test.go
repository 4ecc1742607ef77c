package auth

import (
	"context"
	"sync"

	"github.com/sebuszqo/FinanceLedger/internal/user"
)

type mockUserLookup struct {
	users map[string]*user.User
}

func (m *mockUserLookup) GetUserByID(_ context.Context, userID string) (*user.User, error) {
	u, ok := m.users[userID]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

func (m *mockUserLookup) GetUserByLoginOrEmail(_ context.Context, loginOrEmail string) (*user.User, error) {
	for _, u := range m.users {
		if u.Username == loginOrEmail || u.Email == loginOrEmail {
			return u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

type mockTwoFactorRepository struct {
	mu      sync.Mutex
	secrets map[string]string
	users   *mockUserLookup
}

func (m *mockTwoFactorRepository) SaveTwoFactorSecret(_ context.Context, userID, secret string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.secrets[userID] = secret
	return nil
}

func (m *mockTwoFactorRepository) GetTwoFactorSecret(_ context.Context, userID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	secret, ok := m.secrets[userID]
	if !ok {
		return "", ErrTwoFactorNotRegistered
	}
	return secret, nil
}

func (m *mockTwoFactorRepository) EnableTwoFactor(_ context.Context, userID string) error {
	m.users.users[userID].TwoFactorEnabled = true
	return nil
}

func (m *mockTwoFactorRepository) DisableTwoFactor(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users.users[userID].TwoFactorEnabled = false
	delete(m.secrets, userID)
	return nil
}

// staticAuthenticator accepts a single fixed code.
type staticAuthenticator struct {
	code string
}

func (a *staticAuthenticator) GenerateSecret(accountName string) (string, string, error) {
	return "otpauth://totp/FinanceLedger:" + accountName, "SECRET-" + accountName, nil
}

func (a *staticAuthenticator) VerifyCode(_, code string) bool {
	return code == a.code
}
