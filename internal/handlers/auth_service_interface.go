package handlers

import (
	"context"

	"food-marketplace/internal/services"
	"food-marketplace/pkg/auth"
)

// AuthServiceInterface defines the contract for auth service
type AuthServiceInterface interface {
	Login(ctx context.Context, req *services.LoginRequest) (*services.AuthResponse, error)
	Refresh(ctx context.Context, req *services.RefreshRequest) (*services.AuthResponse, error)
	Logout(ctx context.Context, identity auth.Identity) error
}
