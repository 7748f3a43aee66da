package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bazaar/internal/domain"
	"bazaar/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	// SessionTokenExpiration is how long a merchant session token stays valid
	SessionTokenExpiration = 24 * time.Hour
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid token")
)

// Claims represents the JWT claims carried by a merchant session token
type Claims struct {
	MerchantID uuid.UUID `json:"merchant_id"`
	jwt.RegisteredClaims
}

// MerchantService defines the interface for merchant identity logic
type MerchantService interface {
	Login(ctx context.Context, username, password string) (token string, merchant *domain.Merchant, err error)
	GenerateToken(merchant *domain.Merchant) (string, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Merchant, error)
	List(ctx context.Context) ([]*domain.Merchant, error)
}

type merchantService struct {
	merchants repository.MerchantRepository
	jwtSecret string
}

// NewMerchantService creates a new instance of MerchantService
func NewMerchantService(merchants repository.MerchantRepository, jwtSecret string) MerchantService {
	return &merchantService{
		merchants: merchants,
		jwtSecret: jwtSecret,
	}
}

// Login authenticates a merchant by username and password and returns a
// session token
func (s *merchantService) Login(ctx context.Context, username, password string) (string, *domain.Merchant, error) {
	merchant, err := s.merchants.FindByUsername(ctx, username)
	if err != nil {
		if err == repository.ErrMerchantNotFound {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to find merchant: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(merchant.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.GenerateToken(merchant)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	return token, merchant, nil
}

// GenerateToken signs a session token for a merchant
func (s *merchantService) GenerateToken(merchant *domain.Merchant) (string, error) {
	expirationTime := time.Now().Add(SessionTokenExpiration)
	claims := &Claims{
		MerchantID: merchant.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   merchant.ID.String(),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ParseSessionToken parses and verifies a session token, returning its typed
// claims. It is the single place token validation happens: the identity
// middleware and anything else inspecting a token go through here.
func ParseSessionToken(jwtSecret, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(jwtSecret), nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Get retrieves a merchant by ID
func (s *merchantService) Get(ctx context.Context, id uuid.UUID) (*domain.Merchant, error) {
	return s.merchants.FindByID(ctx, id)
}

// List retrieves all merchants
func (s *merchantService) List(ctx context.Context) ([]*domain.Merchant, error) {
	merchants, err := s.merchants.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list merchants: %w", err)
	}
	return merchants, nil
}
