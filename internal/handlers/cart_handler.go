package handlers

import (
	"errors"
	"net/http"

	"food-marketplace/internal/middleware"
	"food-marketplace/internal/services"
	"food-marketplace/pkg/auth"
	"food-marketplace/pkg/logging"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgLoginRequired  = "Please login to continue"
	msgInvalidRequest = "Invalid request"
	msgFoodNotFound   = "Food Item does not exist"
	msgNotInCart      = "You do not have this item in your cart"
	msgEntryNotFound  = "Cart Item does not exist"
	msgInternal       = "Something went wrong"
)

type CartHandler struct {
	cartService CartServiceInterface
}

func NewCartHandler(cartService CartServiceInterface) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

// RegisterRoutes registers the routes for cart management
func (h *CartHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware *middleware.AuthMiddleware) {
	// Anonymous callers get login_required in the envelope, not a 401
	cart := router.Group("/cart", authMiddleware.OptionalAuth())
	{
		cart.GET("", h.GetCart)
		cart.POST("/add/:food_id", h.AddToCart)
		cart.POST("/decrease/:food_id", h.DecreaseCart)
		cart.DELETE("/:cart_id", h.DeleteCartItem)
	}
}

// GetCart godoc
// @Summary Get user's cart
// @Description List the caller's cart entries, oldest first, with totals
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.CartResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /cart [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	cart, err := h.cartService.ListForUser(c.Request.Context(), middleware.CurrentIdentity(c))
	if err != nil {
		if errors.Is(err, services.ErrLoginRequired) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Error:   "Unauthorized",
				Message: msgLoginRequired,
			})
			return
		}
		logging.FromContext(c.Request.Context()).Error("list cart failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to get cart",
			Message: msgInternal,
		})
		return
	}

	c.JSON(http.StatusOK, cart)
}

// AddToCart godoc
// @Summary Add food to cart
// @Description Add a food item with quantity 1, or increase its quantity by 1
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Param X-Requested-With header string true "XMLHttpRequest"
// @Param food_id path string true "Food item ID"
// @Success 200 {object} CartEnvelope
// @Router /cart/add/{food_id} [post]
func (h *CartHandler) AddToCart(c *gin.Context) {
	identity, ok := h.admit(c)
	if !ok {
		return
	}

	foodID, err := uuid.Parse(c.Param("food_id"))
	if err != nil {
		c.JSON(http.StatusOK, failed(msgFoodNotFound))
		return
	}

	result, err := h.cartService.AddOrIncrement(c.Request.Context(), identity, foodID)
	h.respond(c, result, err, true)
}

// DecreaseCart godoc
// @Summary Decrease food quantity
// @Description Decrease the quantity by 1, removing the entry when it reaches 0
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Param X-Requested-With header string true "XMLHttpRequest"
// @Param food_id path string true "Food item ID"
// @Success 200 {object} CartEnvelope
// @Router /cart/decrease/{food_id} [post]
func (h *CartHandler) DecreaseCart(c *gin.Context) {
	identity, ok := h.admit(c)
	if !ok {
		return
	}

	foodID, err := uuid.Parse(c.Param("food_id"))
	if err != nil {
		c.JSON(http.StatusOK, failed(msgFoodNotFound))
		return
	}

	result, err := h.cartService.DecrementOrRemove(c.Request.Context(), identity, foodID)
	h.respond(c, result, err, true)
}

// DeleteCartItem godoc
// @Summary Delete cart entry
// @Description Delete one of the caller's cart entries
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Param X-Requested-With header string true "XMLHttpRequest"
// @Param cart_id path string true "Cart entry ID"
// @Success 200 {object} CartEnvelope
// @Router /cart/{cart_id} [delete]
func (h *CartHandler) DeleteCartItem(c *gin.Context) {
	identity, ok := h.admit(c)
	if !ok {
		return
	}

	entryID, err := uuid.Parse(c.Param("cart_id"))
	if err != nil {
		c.JSON(http.StatusOK, failed(msgEntryNotFound))
		return
	}

	result, err := h.cartService.Delete(c.Request.Context(), identity, entryID)
	h.respond(c, result, err, false)
}

// admit checks login first, then the interactive marker.
func (h *CartHandler) admit(c *gin.Context) (auth.Identity, bool) {
	identity := middleware.CurrentIdentity(c)
	if !identity.IsAuthenticated() {
		c.JSON(http.StatusOK, CartEnvelope{Status: StatusLoginRequired, Message: msgLoginRequired})
		return identity, false
	}
	if !middleware.IsInteractiveRequest(c.Request) {
		c.JSON(http.StatusOK, failed(msgInvalidRequest))
		return identity, false
	}
	return identity, true
}

func (h *CartHandler) respond(c *gin.Context, result *services.MutationResult, err error, withQty bool) {
	if err != nil {
		c.JSON(http.StatusOK, cartError(c, err))
		return
	}

	envelope := CartEnvelope{
		Status:      StatusSuccess,
		Message:     result.Message,
		CartCounter: &result.CartCounter,
		CartAmount:  &result.CartAmount,
	}
	if withQty {
		envelope.Qty = &result.Quantity
	}
	c.JSON(http.StatusOK, envelope)
}

func failed(message string) CartEnvelope {
	return CartEnvelope{Status: StatusFailed, Message: message}
}

func cartError(c *gin.Context, err error) CartEnvelope {
	switch {
	case errors.Is(err, services.ErrLoginRequired):
		return CartEnvelope{Status: StatusLoginRequired, Message: msgLoginRequired}
	case errors.Is(err, services.ErrFoodNotFound):
		return failed(msgFoodNotFound)
	case errors.Is(err, services.ErrEntryNotFound):
		if c.Param("cart_id") != "" {
			return failed(msgEntryNotFound)
		}
		return failed(msgNotInCart)
	}

	logging.FromContext(c.Request.Context()).Error("cart mutation failed", "path", c.FullPath(), "error", err)
	return failed(msgInternal)
}
