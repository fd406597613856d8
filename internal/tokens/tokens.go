package tokens

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/tableside/restaurant-pos/internal/config"
	"github.com/tableside/restaurant-pos/internal/httperr"
	"github.com/tableside/restaurant-pos/internal/models"
)

type Claims struct {
	UserID       uint        `json:"user_id"`
	Email        string      `json:"email"`
	Name         string      `json:"name"`
	Role         models.Role `json:"role"`
	RestaurantID *uint       `json:"restaurant_id,omitempty"`
	jwt.RegisteredClaims
}

// Pair is the bearer token pair returned by login and refresh.
type Pair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type Manager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	store      RefreshStore
}

func NewManager(cfg *config.Config, store RefreshStore) *Manager {
	return &Manager{
		secret:     []byte(cfg.JWTSecret),
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
		store:      store,
	}
}

// Issue signs an access token and mints an opaque refresh token bound to
// the user in the refresh store.
func (m *Manager) Issue(ctx context.Context, user *models.User) (*Pair, error) {
	now := time.Now()

	claims := &Claims{
		UserID:       user.ID,
		Email:        user.Email,
		Name:         user.Name,
		Role:         user.Role,
		RestaurantID: user.RestaurantID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString(m.secret)
	if err != nil {
		return nil, err
	}

	refresh := uuid.NewString()
	if err := m.store.Save(ctx, refresh, user.ID, m.refreshTTL); err != nil {
		return nil, err
	}

	return &Pair{AccessToken: access, RefreshToken: refresh}, nil
}

// Parse validates an access token and returns its claims.
func (m *Manager) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return m.secret, nil
		},
	)
	if err != nil || !token.Valid {
		return nil, httperr.Auth("invalid_token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, httperr.Auth("invalid_token_claims")
	}
	return claims, nil
}

// Rotate consumes a refresh token and returns the user it was bound to.
// A consumed token can never be replayed.
func (m *Manager) Rotate(ctx context.Context, refreshToken string) (uint, error) {
	return m.store.Consume(ctx, refreshToken)
}
