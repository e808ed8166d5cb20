package devbackend

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/realio-auth/internal/domain/entity"
	"github.com/oksasatya/realio-auth/internal/domain/repository"
)

// MemoryAccounts keeps accounts in process. Used when no database is
// configured and in tests.
type MemoryAccounts struct {
	mu   sync.RWMutex
	byID map[string]entity.Account
}

func NewMemoryAccounts() *MemoryAccounts {
	return &MemoryAccounts{byID: map[string]entity.Account{}}
}

func (m *MemoryAccounts) Create(_ context.Context, a *entity.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.Email = normalizeEmail(a.Email)
	for _, existing := range m.byID {
		if existing.Email == a.Email {
			return repository.ErrEmailTaken
		}
	}
	now := time.Now().UTC()
	a.ID = uuid.NewString()
	a.CreatedAt, a.UpdatedAt = now, now
	m.byID[a.ID] = *a
	return nil
}

func (m *MemoryAccounts) GetByID(_ context.Context, id string) (*entity.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}
	return &a, nil
}

func (m *MemoryAccounts) GetByEmail(_ context.Context, email string) (*entity.Account, error) {
	email = normalizeEmail(email)
	return m.find(func(a entity.Account) bool { return a.Email == email })
}

func (m *MemoryAccounts) GetByProvider(_ context.Context, provider, providerID string) (*entity.Account, error) {
	return m.find(func(a entity.Account) bool {
		return a.Provider != "" && a.Provider == provider && a.ProviderID == providerID
	})
}

func (m *MemoryAccounts) Update(_ context.Context, a *entity.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[a.ID]; !ok {
		return repository.ErrAccountNotFound
	}
	a.Email = normalizeEmail(a.Email)
	a.UpdatedAt = time.Now().UTC()
	m.byID[a.ID] = *a
	return nil
}

func (m *MemoryAccounts) find(match func(entity.Account) bool) (*entity.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.byID {
		if match(a) {
			return &a, nil
		}
	}
	return nil, repository.ErrAccountNotFound
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var _ repository.AccountRepository = (*MemoryAccounts)(nil)
