package tokens

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/tableside/restaurant-pos/internal/config"
	"github.com/tableside/restaurant-pos/internal/httperr"
	"github.com/tableside/restaurant-pos/internal/models"
)

type memoryStore struct {
	mu sync.Mutex
	m  map[string]uint
}

func newMemoryStore() *memoryStore {
	return &memoryStore{m: map[string]uint{}}
}

func (s *memoryStore) Save(_ context.Context, token string, userID uint, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[token] = userID
	return nil
}

func (s *memoryStore) Consume(_ context.Context, token string) (uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.m[token]
	if !ok {
		return 0, httperr.Auth("invalid_refresh_token")
	}
	delete(s.m, token)
	return id, nil
}

var _ RefreshStore = (*memoryStore)(nil)

func newTestManager(secret string) *Manager {
	cfg := &config.Config{
		JWTSecret:       secret,
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
	}
	return NewManager(cfg, newMemoryStore())
}

func TestIssueAndParse(t *testing.T) {
	m := newTestManager("test-secret")

	restaurantID := uint(4)
	user := &models.User{
		ID:           7,
		Email:        "s@example.com",
		Name:         "Sam",
		Role:         models.RoleStaff,
		RestaurantID: &restaurantID,
	}

	pair, err := m.Issue(context.Background(), user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("incomplete pair: %+v", pair)
	}

	claims, err := m.Parse(pair.AccessToken)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 7 || claims.Role != models.RoleStaff {
		t.Fatalf("claims = %+v", claims)
	}
	if claims.RestaurantID == nil || *claims.RestaurantID != 4 {
		t.Fatalf("restaurant_id claim = %v, want 4", claims.RestaurantID)
	}
}

func TestParseRejectsForeignSignature(t *testing.T) {
	issuer := newTestManager("secret-a")
	verifier := newTestManager("secret-b")

	pair, err := issuer.Issue(context.Background(), &models.User{ID: 1, Role: models.RoleOwner})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := verifier.Parse(pair.AccessToken); !httperr.IsBusiness(err, "invalid_token") {
		t.Fatalf("err = %v, want invalid_token", err)
	}
}

func TestRotateIsSingleUse(t *testing.T) {
	m := newTestManager("test-secret")
	ctx := context.Background()

	pair, err := m.Issue(ctx, &models.User{ID: 9, Role: models.RoleOwner})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	userID, err := m.Rotate(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("first rotate: %v", err)
	}
	if userID != 9 {
		t.Fatalf("userID = %d, want 9", userID)
	}

	if _, err := m.Rotate(ctx, pair.RefreshToken); !httperr.IsKind(err, httperr.KindAuth) {
		t.Fatalf("replayed rotate: err = %v, want auth error", err)
	}
}
