package services

import (
	"context"
	"fmt"

	"food-marketplace/internal/models"
	"food-marketplace/internal/repositories"
	"food-marketplace/pkg/auth"
	"food-marketplace/pkg/logging"
	"food-marketplace/pkg/messaging"

	"github.com/google/uuid"
)

const (
	MsgIncreased   = "Increased cart quantity"
	MsgAdded       = "Added the food to the cart"
	MsgItemDeleted = "Cart item deleted"
)

type CartService struct {
	cartRepo  repositories.CartRepository
	foodRepo  repositories.FoodItemRepository
	totals    *TotalsService
	publisher EventPublisher
	topic     string
}

func NewCartService(
	cartRepo repositories.CartRepository,
	foodRepo repositories.FoodItemRepository,
	totals *TotalsService,
	publisher EventPublisher,
	topic string,
) *CartService {
	return &CartService{
		cartRepo:  cartRepo,
		foodRepo:  foodRepo,
		totals:    totals,
		publisher: publisher,
		topic:     topic,
	}
}

// MutationResult carries what a cart mutation reports back to the caller.
type MutationResult struct {
	Message     string
	CartCounter int
	Quantity    int
	CartAmount  float64
}

type CartResponse struct {
	Entries     []models.CartEntry `json:"cart_items"`
	CartCounter int                `json:"cart_counter"`
	CartAmount  float64            `json:"cart_amount"`
}

func (s *CartService) AddOrIncrement(ctx context.Context, identity auth.Identity, foodItemID uuid.UUID) (*MutationResult, error) {
	if !identity.IsAuthenticated() {
		return nil, ErrLoginRequired
	}

	if err := s.requireFood(ctx, foodItemID); err != nil {
		return nil, err
	}

	entry, err := s.cartRepo.FindByUserAndFood(ctx, identity.UserID, foodItemID)
	if err != nil {
		return nil, fmt.Errorf("find cart entry: %w", err)
	}

	if entry == nil {
		entry = &models.CartEntry{
			UserID:     identity.UserID,
			FoodItemID: foodItemID,
			Quantity:   1,
		}
		created, err := s.cartRepo.CreateIfAbsent(ctx, entry)
		if err != nil {
			return nil, fmt.Errorf("create cart entry: %w", err)
		}
		if created {
			s.publish(ctx, messaging.CartItemAdded, identity.UserID, foodItemID, entry.ID, 1)
			return s.result(ctx, identity.UserID, MsgAdded, 1)
		}

		// a concurrent request inserted the row first
		entry, err = s.cartRepo.FindByUserAndFood(ctx, identity.UserID, foodItemID)
		if err != nil {
			return nil, fmt.Errorf("find cart entry: %w", err)
		}
		if entry == nil {
			return nil, fmt.Errorf("cart entry for food %s vanished after conflict: %w", foodItemID, ErrEntryNotFound)
		}
	}

	qty, found, err := s.cartRepo.Increment(ctx, entry.ID)
	if err != nil {
		return nil, fmt.Errorf("increment cart entry: %w", err)
	}
	if !found {
		return nil, ErrEntryNotFound
	}

	s.publish(ctx, messaging.CartItemIncreased, identity.UserID, foodItemID, entry.ID, qty)
	return s.result(ctx, identity.UserID, MsgIncreased, qty)
}

func (s *CartService) DecrementOrRemove(ctx context.Context, identity auth.Identity, foodItemID uuid.UUID) (*MutationResult, error) {
	if !identity.IsAuthenticated() {
		return nil, ErrLoginRequired
	}

	if err := s.requireFood(ctx, foodItemID); err != nil {
		return nil, err
	}

	entry, err := s.cartRepo.FindByUserAndFood(ctx, identity.UserID, foodItemID)
	if err != nil {
		return nil, fmt.Errorf("find cart entry: %w", err)
	}
	if entry == nil {
		return nil, ErrEntryNotFound
	}

	qty, found, err := s.cartRepo.DecrementOrDelete(ctx, entry.ID)
	if err != nil {
		return nil, fmt.Errorf("decrement cart entry: %w", err)
	}
	if !found {
		return nil, ErrEntryNotFound
	}

	eventType := messaging.CartItemDecreased
	if qty == 0 {
		eventType = messaging.CartItemRemoved
	}
	s.publish(ctx, eventType, identity.UserID, foodItemID, entry.ID, qty)
	return s.result(ctx, identity.UserID, "", qty)
}

func (s *CartService) Delete(ctx context.Context, identity auth.Identity, cartEntryID uuid.UUID) (*MutationResult, error) {
	if !identity.IsAuthenticated() {
		return nil, ErrLoginRequired
	}

	deleted, err := s.cartRepo.DeleteForUser(ctx, cartEntryID, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("delete cart entry: %w", err)
	}
	if !deleted {
		return nil, ErrEntryNotFound
	}

	s.publish(ctx, messaging.CartItemDeleted, identity.UserID, uuid.Nil, cartEntryID, 0)
	return s.result(ctx, identity.UserID, MsgItemDeleted, 0)
}

func (s *CartService) ListForUser(ctx context.Context, identity auth.Identity) (*CartResponse, error) {
	if !identity.IsAuthenticated() {
		return nil, ErrLoginRequired
	}

	entries, err := s.cartRepo.ListByUser(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("list cart entries: %w", err)
	}
	totals, err := s.totals.Totals(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("cart totals: %w", err)
	}

	if entries == nil {
		entries = []models.CartEntry{}
	}
	return &CartResponse{
		Entries:     entries,
		CartCounter: totals.Count,
		CartAmount:  totals.Amount.InexactFloat64(),
	}, nil
}

func (s *CartService) requireFood(ctx context.Context, foodItemID uuid.UUID) error {
	food, err := s.foodRepo.GetByID(ctx, foodItemID)
	if err != nil {
		return fmt.Errorf("get food item: %w", err)
	}
	if food == nil {
		return ErrFoodNotFound
	}
	return nil
}

// result invalidates the cached totals and reports them straight from the
// cart. Mutations never write totals back to the cache.
func (s *CartService) result(ctx context.Context, userID uuid.UUID, message string, qty int) (*MutationResult, error) {
	s.totals.Invalidate(ctx, userID)
	totals, err := s.totals.Compute(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("cart totals: %w", err)
	}
	return &MutationResult{
		Message:     message,
		CartCounter: totals.Count,
		Quantity:    qty,
		CartAmount:  totals.Amount.InexactFloat64(),
	}, nil
}

func (s *CartService) publish(ctx context.Context, eventType string, userID, foodItemID, entryID uuid.UUID, qty int) {
	event := messaging.CartEvent{
		Type:        eventType,
		UserID:      userID.String(),
		CartEntryID: entryID.String(),
		Quantity:    qty,
	}
	if foodItemID != uuid.Nil {
		event.FoodItemID = foodItemID.String()
	}

	if err := s.publisher.Publish(ctx, s.topic, userID.String(), event); err != nil {
		logging.FromContext(ctx).Error("publish cart event failed", "type", eventType, "user_id", userID, "error", err)
	}
}
