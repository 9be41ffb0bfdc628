package handlers

import (
	"context"

	"food-marketplace/internal/services"
	"food-marketplace/pkg/auth"

	"github.com/google/uuid"
)

// CartServiceInterface defines the contract for cart service
type CartServiceInterface interface {
	AddOrIncrement(ctx context.Context, identity auth.Identity, foodItemID uuid.UUID) (*services.MutationResult, error)
	DecrementOrRemove(ctx context.Context, identity auth.Identity, foodItemID uuid.UUID) (*services.MutationResult, error)
	Delete(ctx context.Context, identity auth.Identity, cartEntryID uuid.UUID) (*services.MutationResult, error)
	ListForUser(ctx context.Context, identity auth.Identity) (*services.CartResponse, error)
}
