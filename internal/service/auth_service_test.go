package service

import (
	"context"
	"testing"
	"time"

	"obazaar/config"
	"obazaar/internal/auth"
	"obazaar/internal/domain"
	"obazaar/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "walnut-woodworks", Slugify("Walnut Woodworks"))
	assert.Equal(t, "bob-s-bikes", Slugify("Bob's Bikes!"))
	assert.Equal(t, "store-42", Slugify("  Store 42  "))
	assert.Equal(t, "cafe", Slugify("---cafe---"))
}

type fakeUserStore struct {
	byID    map[uint]*models.User
	byEmail map[string]*models.User
	nextID  uint
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byID:    make(map[uint]*models.User),
		byEmail: make(map[string]*models.User),
		nextID:  1,
	}
}

func (s *fakeUserStore) Create(ctx context.Context, u *models.User) error {
	if _, ok := s.byEmail[u.Email]; ok {
		return domain.ErrAlreadyExists
	}
	u.ID = s.nextID
	s.nextID++
	s.byID[u.ID] = u
	s.byEmail[u.Email] = u
	return nil
}

func (s *fakeUserStore) GetByID(ctx context.Context, id uint) (*models.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := s.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

type fakeTenantCreator struct {
	slugs  map[string]bool
	nextID uint
}

func (s *fakeTenantCreator) Create(ctx context.Context, t *models.Tenant) error {
	if s.slugs == nil {
		s.slugs = make(map[string]bool)
	}
	if s.slugs[t.Slug] {
		return domain.ErrAlreadyExists
	}
	s.slugs[t.Slug] = true
	s.nextID++
	t.ID = s.nextID
	return nil
}

func authTestConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			AccessSecret:  "access-secret",
			RefreshSecret: "refresh-secret",
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: time.Hour,
			Issuer:        "obazaar",
		},
	}
}

func newAuthFixture() (*AuthService, *fakeUserStore, *config.Config) {
	cfg := authTestConfig()
	users := newFakeUserStore()
	tenants := &fakeTenantCreator{}
	wallets := NewWalletService(&fakeTxManager{}, newFakeWalletStore(), newFakeTransactionStore(), newFakeOrderStore(), nil, 0.10, 7)
	return NewAuthService(cfg, users, tenants, wallets), users, cfg
}

func TestRegisterVendorIssuesTokensWithTenant(t *testing.T) {
	svc, _, cfg := newAuthFixture()
	ctx := context.Background()

	u, access, refresh, err := svc.Register(ctx, "v@shop.test", "Vendor", "hunter22", domain.RoleVendor, "Walnut Woodworks")
	require.NoError(t, err)
	require.NotNil(t, u.TenantID)

	claims, err := auth.ParseAccessToken(&cfg.JWT, access)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, domain.RoleVendor, claims.Role)
	assert.Equal(t, *u.TenantID, claims.TenantID)

	userID, err := auth.ParseRefreshToken(&cfg.JWT, refresh)
	require.NoError(t, err)
	assert.Equal(t, u.ID, userID)
}

func TestLoginIssuesParsableTokens(t *testing.T) {
	svc, _, cfg := newAuthFixture()
	ctx := context.Background()

	reg, _, _, err := svc.Register(ctx, "c@shop.test", "Customer", "hunter22", domain.RoleCustomer, "")
	require.NoError(t, err)

	u, access, refresh, err := svc.Login(ctx, "c@shop.test", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, reg.ID, u.ID)

	claims, err := auth.ParseAccessToken(&cfg.JWT, access)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)

	userID, err := auth.ParseRefreshToken(&cfg.JWT, refresh)
	require.NoError(t, err)
	assert.Equal(t, u.ID, userID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	_, _, _, err := svc.Register(ctx, "c@shop.test", "Customer", "hunter22", domain.RoleCustomer, "")
	require.NoError(t, err)

	_, _, _, err = svc.Login(ctx, "c@shop.test", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCreds)

	_, _, _, err = svc.Login(ctx, "nobody@shop.test", "hunter22")
	assert.ErrorIs(t, err, ErrInvalidCreds)
}

func TestRefreshTokenRotatesPair(t *testing.T) {
	svc, _, cfg := newAuthFixture()
	ctx := context.Background()

	u, _, refresh, err := svc.Register(ctx, "c@shop.test", "Customer", "hunter22", domain.RoleCustomer, "")
	require.NoError(t, err)

	access, next, err := svc.RefreshToken(ctx, refresh)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, next)

	claims, err := auth.ParseAccessToken(&cfg.JWT, access)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)

	_, _, err = svc.RefreshToken(ctx, "not-a-token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	_, _, _, err := svc.Register(ctx, "dup@shop.test", "A", "hunter22", domain.RoleCustomer, "")
	require.NoError(t, err)

	_, _, _, err = svc.Register(ctx, "dup@shop.test", "B", "hunter22", domain.RoleCustomer, "")
	assert.ErrorIs(t, err, ErrEmailExists)
}
