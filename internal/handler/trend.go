package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/trendlens/trendlens-go/internal/middleware"
	"github.com/trendlens/trendlens-go/internal/model"
	"github.com/trendlens/trendlens-go/internal/service"
	"github.com/trendlens/trendlens-go/internal/youtube"
)

type TrendHandler struct {
	collect       *service.CollectService
	source        youtube.TrendingSource
	cache         *service.CacheService
	defaultRegion string
}

func NewTrendHandler(collect *service.CollectService, source youtube.TrendingSource, cache *service.CacheService, defaultRegion string) *TrendHandler {
	return &TrendHandler{
		collect:       collect,
		source:        source,
		cache:         cache,
		defaultRegion: defaultRegion,
	}
}

// collectRequest is the POST /api/trends body.
type collectRequest struct {
	RegionCode string `json:"regionCode"`
	Category   string `json:"category,omitempty"`
	MaxResults int    `json:"maxResults,omitempty"`
}

// Get handles GET /api/trends?action=snapshot|categories
func (h *TrendHandler) Get(c fiber.Ctx) error {
	switch c.Query("action") {
	case "snapshot":
		maxResults, _ := strconv.Atoi(c.Query("maxResults"))
		return h.runCollection(c, c.Query("regionCode", h.defaultRegion), c.Query("category"), maxResults)
	case "categories":
		return h.categories(c)
	default:
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_ACTION", "Invalid action")
	}
}

// Collect handles POST /api/trends
func (h *TrendHandler) Collect(c fiber.Ctx) error {
	var req collectRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}
	if req.RegionCode == "" {
		req.RegionCode = h.defaultRegion
	}
	return h.runCollection(c, req.RegionCode, req.Category, req.MaxResults)
}

func (h *TrendHandler) runCollection(c fiber.Ctx, regionCode, categoryID string, maxResults int) error {
	region, errMsg := middleware.ValidateRegionCode(regionCode)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	categoryID, errMsg = middleware.ValidateCategoryID(categoryID)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	start := time.Now()
	snap, err := h.collect.Run(c.Context(), region, categoryID, maxResults)
	if err != nil {
		Metrics.CollectionsTotal.WithLabelValues(region, "error").Inc()
		switch {
		case errors.Is(err, model.ErrInvalidRegion):
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_REGION", "Region code not recognized by the upstream source")
		case errors.Is(err, model.ErrInvalidCategory):
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_CATEGORY", "Category not recognized by the upstream source")
		case errors.Is(err, model.ErrSourceUnavailable):
			middleware.Logger.Error().Err(err).Str("region", region).Msg("collection run failed: source unavailable")
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "SOURCE_UNAVAILABLE", "Upstream source unavailable")
		case errors.Is(err, model.ErrNoSamples):
			middleware.Logger.Warn().Str("region", region).Msg("collection run returned no videos")
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "NO_DATA", "Upstream returned no videos")
		default:
			middleware.Logger.Error().Err(err).Str("region", region).Msg("collection run failed")
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Collection run failed")
		}
	}

	Metrics.CollectionsTotal.WithLabelValues(region, "ok").Inc()
	Metrics.CollectionDuration.Observe(time.Since(start).Seconds())
	for _, fv := range snap.Flagged {
		for _, outlierType := range fv.OutlierTypes {
			Metrics.OutliersFlagged.WithLabelValues(outlierType).Inc()
		}
	}

	return c.JSON(snap)
}

func (h *TrendHandler) categories(c fiber.Ctx) error {
	region, errMsg := middleware.ValidateRegionCode(c.Query("regionCode", h.defaultRegion))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	// Cache-aside: category lists change rarely upstream.
	if cached, err := h.cache.GetCategories(c.Context(), region); err == nil && cached != nil {
		Metrics.CacheHits.Inc()
		c.Set("Content-Type", "application/json")
		return c.Send(cached)
	}
	Metrics.CacheMisses.Inc()

	cats, err := h.source.ListCategories(c.Context(), region)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidRegion):
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_REGION", "Region code not recognized by the upstream source")
		default:
			middleware.Logger.Error().Err(err).Str("region", region).Msg("category list failed")
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "SOURCE_UNAVAILABLE", "Upstream source unavailable")
		}
	}

	resp := fiber.Map{"categories": cats, "regionCode": region}
	_ = h.cache.SetCategories(c.Context(), region, resp)

	return c.JSON(resp)
}
