package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"food-marketplace/internal/models"
	"food-marketplace/internal/repositories"
	"food-marketplace/pkg/auth"
	"food-marketplace/pkg/cache"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	userRepo          repositories.UserRepository
	jwtManager        *auth.JWTManager
	cache             Cache
	accessExpiryHours int
	refreshExpiryDays int
}

func NewAuthService(userRepo repositories.UserRepository, jwtManager *auth.JWTManager, cache Cache, accessExpiryHours, refreshExpiryDays int) *AuthService {
	return &AuthService{
		userRepo:          userRepo,
		jwtManager:        jwtManager,
		cache:             cache,
		accessExpiryHours: accessExpiryHours,
		refreshExpiryDays: refreshExpiryDays,
	}
}

// dummyHash is compared against when the email is unknown so both login
// failures cost one bcrypt run.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("food-marketplace-dummy"), bcrypt.DefaultCost)

var compareHash = bcrypt.CompareHashAndPassword

func refreshTokenKey(userID string) string {
	return fmt.Sprintf("refresh_token:%s", userID)
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type AuthResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	TokenType    string      `json:"token_type"`
	ExpiresIn    int         `json:"expires_in"` // seconds until access token expires
	User         models.User `json:"user"`
}

func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		_ = compareHash(dummyHash, []byte(req.Password))
		return nil, ErrInvalidCredentials
	}

	if err := compareHash([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrInactiveUser
	}

	tokenPair, err := s.jwtManager.GenerateTokenPair(user.ID.String(), user.Role, user.Email)
	if err != nil {
		return nil, err
	}

	expiry := time.Hour * 24 * time.Duration(s.refreshExpiryDays)
	if err := s.cache.Set(ctx, refreshTokenKey(user.ID.String()), tokenPair.RefreshToken, expiry); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &AuthResponse{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    s.accessExpiryHours * 3600,
		User:         *user,
	}, nil
}

// Refresh issues a new access token. Only the refresh token stored at the
// last login is accepted.
func (s *AuthService) Refresh(ctx context.Context, req *RefreshRequest) (*AuthResponse, error) {
	claims, err := s.jwtManager.ValidateToken(req.RefreshToken)
	if err != nil || claims.TokenType != auth.RefreshToken {
		return nil, ErrInvalidRefresh
	}

	var stored string
	if err := s.cache.Get(ctx, refreshTokenKey(claims.UserID), &stored); err != nil {
		if errors.Is(err, cache.ErrMiss) {
			return nil, ErrInvalidRefresh
		}
		return nil, fmt.Errorf("load refresh token: %w", err)
	}
	if stored != req.RefreshToken {
		return nil, ErrInvalidRefresh
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrInvalidRefresh
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidRefresh
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}

	accessToken, err := s.jwtManager.RefreshAccessToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidRefresh
	}

	return &AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: req.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    s.accessExpiryHours * 3600,
		User:         *user,
	}, nil
}

// Logout invalidates the stored refresh token.
func (s *AuthService) Logout(ctx context.Context, identity auth.Identity) error {
	if !identity.IsAuthenticated() {
		return ErrLoginRequired
	}
	return s.cache.Delete(ctx, refreshTokenKey(identity.UserID.String()))
}
