package service

import (
	"context"
	"testing"
	"time"

	"bazaar/internal/domain"
	"bazaar/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type mockMerchantRepository struct {
	merchants map[string]domain.Merchant
}

func newMockMerchantRepository() *mockMerchantRepository {
	return &mockMerchantRepository{merchants: make(map[string]domain.Merchant)}
}

func (m *mockMerchantRepository) Create(ctx context.Context, merchant *domain.Merchant) error {
	if _, exists := m.merchants[merchant.Username]; exists {
		return repository.ErrMerchantAlreadyExists
	}
	m.merchants[merchant.Username] = *merchant
	return nil
}

func (m *mockMerchantRepository) List(ctx context.Context) ([]*domain.Merchant, error) {
	merchants := []*domain.Merchant{}
	for username := range m.merchants {
		merchant := m.merchants[username]
		merchants = append(merchants, &merchant)
	}
	return merchants, nil
}

func (m *mockMerchantRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Merchant, error) {
	for username := range m.merchants {
		if m.merchants[username].ID == id {
			merchant := m.merchants[username]
			return &merchant, nil
		}
	}
	return nil, repository.ErrMerchantNotFound
}

func (m *mockMerchantRepository) FindByUsername(ctx context.Context, username string) (*domain.Merchant, error) {
	merchant, exists := m.merchants[username]
	if !exists {
		return nil, repository.ErrMerchantNotFound
	}
	return &merchant, nil
}

func seedMerchant(t *testing.T, repo *mockMerchantRepository, username, password string) *domain.Merchant {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	merchant := &domain.Merchant{
		ID:           uuid.New(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	require.NoError(t, repo.Create(context.Background(), merchant))
	return merchant
}

func TestLogin_Success(t *testing.T) {
	repo := newMockMerchantRepository()
	merchant := seedMerchant(t, repo, "blacksmith", "hammer-time")
	svc := NewMerchantService(repo, "test-secret")

	token, loggedIn, err := svc.Login(context.Background(), "blacksmith", "hammer-time")

	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, merchant.ID, loggedIn.ID)

	claims, err := ParseSessionToken("test-secret", token)
	require.NoError(t, err)
	assert.Equal(t, merchant.ID, claims.MerchantID)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	repo := newMockMerchantRepository()
	seedMerchant(t, repo, "blacksmith", "hammer-time")
	svc := NewMerchantService(repo, "test-secret")

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "blacksmith", "wrong"},
		{"unknown username", "tinker", "hammer-time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Login(context.Background(), tt.username, tt.password)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestParseSessionToken_WrongSecret(t *testing.T) {
	repo := newMockMerchantRepository()
	merchant := seedMerchant(t, repo, "blacksmith", "hammer-time")

	issuer := NewMerchantService(repo, "secret-a")

	token, err := issuer.GenerateToken(merchant)
	require.NoError(t, err)

	_, err = ParseSessionToken("secret-b", token)
	assert.Error(t, err)
}
