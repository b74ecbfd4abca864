package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mealtrack/catalog-backend/internal/ingest"
	"github.com/mealtrack/catalog-backend/internal/models"
	"github.com/mealtrack/catalog-backend/internal/search"
	"github.com/mealtrack/catalog-backend/internal/service"
)

type FoodHandler struct {
	catalog   *service.CatalogService
	awsRegion string
	// default refresh location when the request body names none
	catalogSource string
}

func NewFoodHandler(catalog *service.CatalogService, catalogSource, awsRegion string) *FoodHandler {
	return &FoodHandler{
		catalog:       catalog,
		catalogSource: catalogSource,
		awsRegion:     awsRegion,
	}
}

func (h *FoodHandler) RegisterRoutes(router *gin.RouterGroup, searchMiddleware ...gin.HandlerFunc) {
	// search and barcode lookup live outside the /foods/:id subtree so the
	// param route never competes with a static sibling
	router.GET("/search", append(searchMiddleware, h.SearchFoods)...)
	router.GET("/barcode/:code", h.GetFoodByBarcode)

	foods := router.Group("/foods")
	{
		foods.GET("", h.ListFoods)
		foods.GET("/:id", h.GetFood)
		foods.GET("/:id/similar", h.SimilarFoods)
	}

	router.POST("/catalog/refresh", h.RefreshCatalog)
	router.GET("/catalog/stats", h.CatalogStats)
}

// SearchFoods ranks the catalog against the q/category/tag query params.
// Repeated category and tag params accumulate; tags are AND-ed. Unknown
// filter values match nothing rather than failing the request.
func (h *FoodHandler) SearchFoods(c *gin.Context) {
	filters := search.Filters{Query: c.Query("q")}
	for _, raw := range c.QueryArray("category") {
		filters.Categories = append(filters.Categories, models.FoodCategory(raw))
	}
	for _, raw := range c.QueryArray("tag") {
		filters.Tags = append(filters.Tags, models.FoodTag(raw))
	}

	var opts service.SearchOptions
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		opts.Limit = limit
	}
	if raw := c.Query("min_relevance"); raw != "" {
		rel, err := strconv.ParseFloat(raw, 64)
		if err != nil || rel < 0 || rel > 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "min_relevance must be in [0, 1]"})
			return
		}
		opts.MinRelevance = &rel
	}

	results, err := h.catalog.Search(c.Request.Context(), filters, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search catalog"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"count":   len(results),
	})
}

func (h *FoodHandler) ListFoods(c *gin.Context) {
	var category *models.FoodCategory
	if raw := c.Query("category"); raw != "" {
		parsed := models.FoodCategory(raw)
		category = &parsed
	}

	foods, err := h.catalog.Browse(c.Request.Context(), category)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch foods"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"foods": foods})
}

func (h *FoodHandler) GetFood(c *gin.Context) {
	food, err := h.catalog.Lookup(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrFoodNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Food not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch food"})
		return
	}
	c.JSON(http.StatusOK, food)
}

func (h *FoodHandler) GetFoodByBarcode(c *gin.Context) {
	food, err := h.catalog.LookupBarcode(c.Request.Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, service.ErrFoodNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Food not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch food"})
		return
	}
	c.JSON(http.StatusOK, food)
}

func (h *FoodHandler) SimilarFoods(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	results, err := h.catalog.SimilarFoods(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		if errors.Is(err, service.ErrFoodNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Food not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch similar foods"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

type refreshRequest struct {
	Source string `json:"source"`
}

// RefreshCatalog replaces the whole catalog from the requested source (or
// the configured default). Per-row failures are reported in the response,
// not treated as a request failure.
func (h *FoodHandler) RefreshCatalog(c *gin.Context) {
	var req refreshRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	location := req.Source
	if location == "" {
		location = h.catalogSource
	}
	if location == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no catalog source configured"})
		return
	}

	src, err := ingest.ResolveSource(c.Request.Context(), location, h.awsRegion)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := h.catalog.Refresh(c.Request.Context(), src)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to refresh catalog"})
		return
	}

	rowErrors := make([]string, 0, len(summary.Errors))
	for _, rowErr := range summary.Errors {
		rowErrors = append(rowErrors, rowErr.Error())
	}
	c.JSON(http.StatusOK, gin.H{
		"imported": summary.Imported,
		"skipped":  summary.Skipped,
		"errors":   rowErrors,
	})
}

func (h *FoodHandler) CatalogStats(c *gin.Context) {
	count, err := h.catalog.Count(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count catalog"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"foods":      count,
		"categories": models.AllCategories,
		"tags":       models.AllTags,
	})
}
