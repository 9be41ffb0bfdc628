package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"food-marketplace/internal/repositories"
	"food-marketplace/pkg/cache"
	"food-marketplace/pkg/logging"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const cartTotalsTTL = 10 * time.Minute

// CartTotals is the item count (sum of quantities) and amount of a cart.
type CartTotals struct {
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// TotalsService caches cart totals under a per-user version. Every cart
// write bumps the version, so a totals value computed before the write can
// only ever land under a superseded key.
type TotalsService struct {
	cartRepo repositories.CartRepository
	cache    Cache
}

func NewTotalsService(cartRepo repositories.CartRepository, cache Cache) *TotalsService {
	return &TotalsService{cartRepo: cartRepo, cache: cache}
}

func cartVersionKey(userID uuid.UUID) string {
	return "cart_version:" + userID.String()
}

func cartTotalsKey(userID uuid.UUID, version int64) string {
	return fmt.Sprintf("cart_totals:%s:%d", userID, version)
}

// totalsKey resolves the cache key of the current cart version. The version
// key never expires: restarting the counter could revive an old totals key.
func (s *TotalsService) totalsKey(ctx context.Context, userID uuid.UUID) (string, error) {
	var version int64
	err := s.cache.Get(ctx, cartVersionKey(userID), &version)
	if err != nil && !errors.Is(err, cache.ErrMiss) {
		return "", err
	}
	return cartTotalsKey(userID, version), nil
}

// Totals returns the cached totals, recomputing them from the cart on a miss.
// Cache failures are logged and never fail the call.
func (s *TotalsService) Totals(ctx context.Context, userID uuid.UUID) (CartTotals, error) {
	// the version is read before the cart so the cached value is never older than its key
	key, err := s.totalsKey(ctx, userID)
	if err != nil {
		logging.FromContext(ctx).Warn("cart version read failed", "user_id", userID, "error", err)
		return s.Compute(ctx, userID)
	}

	var cached CartTotals
	err = s.cache.Get(ctx, key, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		logging.FromContext(ctx).Warn("cart totals cache read failed", "user_id", userID, "error", err)
	}

	totals, err := s.Compute(ctx, userID)
	if err != nil {
		return CartTotals{}, err
	}

	if err := s.cache.Set(ctx, key, totals, cartTotalsTTL); err != nil {
		logging.FromContext(ctx).Warn("cart totals cache write failed", "user_id", userID, "error", err)
	}
	return totals, nil
}

// Compute reads the totals straight from the cart, bypassing the cache.
func (s *TotalsService) Compute(ctx context.Context, userID uuid.UUID) (CartTotals, error) {
	entries, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return CartTotals{}, err
	}

	totals := CartTotals{Amount: decimal.Zero}
	for _, entry := range entries {
		totals.Count += entry.Quantity
		totals.Amount = totals.Amount.Add(entry.FoodItem.Price.Mul(decimal.NewFromInt(int64(entry.Quantity))))
	}
	return totals, nil
}

// Invalidate moves userID to a new totals version. Call it after the cart
// write has committed.
func (s *TotalsService) Invalidate(ctx context.Context, userID uuid.UUID) {
	if _, err := s.cache.Incr(ctx, cartVersionKey(userID)); err != nil {
		logging.FromContext(ctx).Warn("cart totals cache invalidation failed", "user_id", userID, "error", err)
	}
}
