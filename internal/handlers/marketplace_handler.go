package handlers

import (
	"errors"
	"net/http"

	"food-marketplace/internal/middleware"
	"food-marketplace/internal/services"
	"food-marketplace/pkg/logging"

	"github.com/gin-gonic/gin"
)

// MarketplacePath is where a search without an address falls back to.
const MarketplacePath = "/api/v1/marketplace"

type MarketplaceHandler struct {
	marketplaceService MarketplaceServiceInterface
	searchService      SearchServiceInterface
}

func NewMarketplaceHandler(marketplaceService MarketplaceServiceInterface, searchService SearchServiceInterface) *MarketplaceHandler {
	return &MarketplaceHandler{
		marketplaceService: marketplaceService,
		searchService:      searchService,
	}
}

// RegisterRoutes registers the routes for vendor listing and search
func (h *MarketplaceHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware *middleware.AuthMiddleware) {
	marketplace := router.Group("/marketplace")
	{
		marketplace.GET("", h.ListVendors)
		marketplace.GET("/search", h.Search)
		marketplace.GET("/vendors/:vendor_slug", authMiddleware.OptionalAuth(), h.VendorDetail)
	}
}

// ListVendors godoc
// @Summary List vendors
// @Description List approved vendors whose owner is active
// @Tags marketplace
// @Produce json
// @Success 200 {object} services.VendorListResponse
// @Failure 500 {object} ErrorResponse
// @Router /marketplace [get]
func (h *MarketplaceHandler) ListVendors(c *gin.Context) {
	vendors, err := h.marketplaceService.ListVendors(c.Request.Context())
	if err != nil {
		logging.FromContext(c.Request.Context()).Error("list vendors failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to list vendors",
			Message: msgInternal,
		})
		return
	}

	c.JSON(http.StatusOK, vendors)
}

// Search godoc
// @Summary Search vendors
// @Description Match vendors by name or by available food title, optionally within a radius
// @Tags marketplace
// @Produce json
// @Param address query string true "Address shown back to the user"
// @Param keyword query string false "Search term"
// @Param lat query number false "Latitude"
// @Param lng query number false "Longitude"
// @Param radius query number false "Radius in km"
// @Success 200 {object} services.SearchResult
// @Success 302
// @Failure 500 {object} ErrorResponse
// @Router /marketplace/search [get]
func (h *MarketplaceHandler) Search(c *gin.Context) {
	req := services.SearchRequest{
		Keyword:   c.Query("keyword"),
		Latitude:  c.Query("lat"),
		Longitude: c.Query("lng"),
		Radius:    c.Query("radius"),
	}
	if address, ok := c.GetQuery("address"); ok {
		req.Address = &address
	}

	result, err := h.searchService.Search(c.Request.Context(), &req)
	if err != nil {
		logging.FromContext(c.Request.Context()).Error("vendor search failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Search failed",
			Message: msgInternal,
		})
		return
	}

	if !result.Performed {
		c.Redirect(http.StatusFound, MarketplacePath)
		return
	}

	c.JSON(http.StatusOK, result)
}

// VendorDetail godoc
// @Summary Vendor menu
// @Description Vendor with its categories and available food items, plus the caller's cart
// @Tags marketplace
// @Produce json
// @Param vendor_slug path string true "Vendor slug"
// @Success 200 {object} services.VendorDetailResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /marketplace/vendors/{vendor_slug} [get]
func (h *MarketplaceHandler) VendorDetail(c *gin.Context) {
	detail, err := h.marketplaceService.VendorDetail(c.Request.Context(), middleware.CurrentIdentity(c), c.Param("vendor_slug"))
	if err != nil {
		if errors.Is(err, services.ErrVendorNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "Vendor not found",
				Message: "No vendor matches " + c.Param("vendor_slug"),
			})
			return
		}
		logging.FromContext(c.Request.Context()).Error("vendor detail failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to get vendor",
			Message: msgInternal,
		})
		return
	}

	c.JSON(http.StatusOK, detail)
}
