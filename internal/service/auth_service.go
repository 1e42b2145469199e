package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"obazaar/config"
	"obazaar/internal/auth"
	"obazaar/internal/domain"
	"obazaar/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailExists  = errors.New("email already registered")
	ErrSlugExists   = errors.New("store name already taken")
	ErrInvalidCreds = errors.New("invalid email or password")
)

// userStore and tenantCreator are the slices of the gorm repositories the
// auth flows need; tests supply in-memory doubles.
type userStore interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type tenantCreator interface {
	Create(ctx context.Context, t *models.Tenant) error
}

type AuthService struct {
	cfg        *config.Config
	userRepo   userStore
	tenantRepo tenantCreator
	wallets    *WalletService
}

func NewAuthService(cfg *config.Config, userRepo userStore, tenantRepo tenantCreator, wallets *WalletService) *AuthService {
	return &AuthService{cfg: cfg, userRepo: userRepo, tenantRepo: tenantRepo, wallets: wallets}
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify normalizes a store name into a URL-safe tenant slug.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugPattern.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Register creates a customer account, or a vendor account with its tenant
// and wallet when storeName is provided.
func (s *AuthService) Register(ctx context.Context, email, name, password, role, storeName string) (*models.User, string, string, error) {
	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, "", "", ErrEmailExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", err
	}
	u := &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         role,
	}
	if role == domain.RoleVendor {
		tenant := &models.Tenant{
			Name:     storeName,
			Slug:     Slugify(storeName),
			IsActive: true,
		}
		if err := s.tenantRepo.Create(ctx, tenant); err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				return nil, "", "", ErrSlugExists
			}
			return nil, "", "", err
		}
		u.TenantID = &tenant.ID
		if _, err := s.wallets.GetOrCreateWallet(ctx, tenant.ID); err != nil {
			return nil, "", "", err
		}
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, "", "", ErrEmailExists
		}
		return nil, "", "", err
	}
	access, err := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Email, u.Role, tenantIDOf(u))
	if err != nil {
		return u, "", "", err
	}
	refresh, err := auth.GenerateRefreshToken(&s.cfg.JWT, u.ID)
	if err != nil {
		return u, access, "", err
	}
	return u, access, refresh, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, string, error) {
	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", "", ErrInvalidCreds
		}
		return nil, "", "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", ErrInvalidCreds
	}
	access, err := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Email, u.Role, tenantIDOf(u))
	if err != nil {
		return nil, "", "", err
	}
	refresh, err := auth.GenerateRefreshToken(&s.cfg.JWT, u.ID)
	if err != nil {
		return nil, "", "", err
	}
	return u, access, refresh, nil
}

func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (access, refresh string, err error) {
	userID, err := auth.ParseRefreshToken(&s.cfg.JWT, refreshToken)
	if err != nil {
		return "", "", auth.ErrInvalidToken
	}
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", "", err
	}
	access, err = auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Email, u.Role, tenantIDOf(u))
	if err != nil {
		return "", "", err
	}
	refresh, err = auth.GenerateRefreshToken(&s.cfg.JWT, u.ID)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func tenantIDOf(u *models.User) uint {
	if u.TenantID != nil {
		return *u.TenantID
	}
	return 0
}
