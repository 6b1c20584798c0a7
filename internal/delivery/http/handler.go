package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stylecheck/reconciler/internal/domain"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 100
)

// Handler serves the stub catalog API
type Handler struct {
	store     *catalogStore
	slowDelay time.Duration
	logger    *zap.Logger
}

// NewHandler creates a new HTTP handler over a fixture
func NewHandler(fixture *Fixture, logger *zap.Logger) *Handler {
	if fixture == nil {
		fixture = DefaultFixture()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		store:     newCatalogStore(fixture),
		slowDelay: 15 * time.Second,
		logger:    logger,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "stylecheck-catalog-stub",
	})
}

// ProductDetails answers GET /api/product-details?styleNumber=
// with every variant of the style, or an empty array when unknown
func (h *Handler) ProductDetails(c *gin.Context) {
	style := c.Query("styleNumber")
	if style == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "styleNumber is required"})
		return
	}
	if h.injectFault(c, style) {
		return
	}

	p, ok := h.store.get(style)
	if !ok {
		c.JSON(http.StatusOK, []domain.VariantRecord{})
		return
	}

	c.JSON(http.StatusOK, []domain.VariantRecord{{
		IsNew:        domain.FlexBool(p.IsNew),
		IsBestSeller: domain.FlexBool(p.IsBestSeller),
		Title:        p.Title,
		Brand:        p.Brand,
		Category:     p.Category,
		Status:       p.Status,
	}})
}

// SearchProducts answers GET /api/products/search?q=&limit=
func (h *Handler) SearchProducts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}

	limit := defaultSearchLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxSearchLimit)
	}
	if h.injectFault(c, query) {
		return
	}

	hits := h.store.search(query, limit)
	resp := domain.SearchResponse{Products: make([]domain.SearchProduct, 0, len(hits))}
	for _, p := range hits {
		resp.Products = append(resp.Products, domain.SearchProduct{
			Style:        p.Style,
			IsNew:        domain.FlexBool(p.IsNew),
			IsBestSeller: domain.FlexBool(p.IsBestSeller),
			Title:        p.Title,
			Brand:        p.Brand,
			Category:     p.Category,
			Status:       p.Status,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// injectFault writes the configured failure for a style and reports whether it did
func (h *Handler) injectFault(c *gin.Context, style string) bool {
	switch h.store.fault(style) {
	case FaultRateLimit:
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
		return true
	case FaultServer:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return true
	case FaultSlow:
		select {
		case <-time.After(h.slowDelay):
		case <-c.Request.Context().Done():
			return true
		}
	}
	return false
}
