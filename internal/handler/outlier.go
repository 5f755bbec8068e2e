package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/trendlens/trendlens-go/internal/middleware"
	"github.com/trendlens/trendlens-go/internal/model"
	"github.com/trendlens/trendlens-go/internal/service"
)

type OutlierHandler struct {
	svc           *service.OutlierLedgerService
	defaultRegion string
}

func NewOutlierHandler(svc *service.OutlierLedgerService, defaultRegion string) *OutlierHandler {
	return &OutlierHandler{svc: svc, defaultRegion: defaultRegion}
}

// List handles GET /api/outliers
func (h *OutlierHandler) List(c fiber.Ctx) error {
	outlierType, errMsg := middleware.ValidateOutlierType(c.Query("type"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	region := c.Query("regionCode", h.defaultRegion)
	region, errMsg = middleware.ValidateRegionCode(region)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	limit, offset, errMsg := middleware.ValidatePage(c.Query("limit"), c.Query("offset"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	// False positives stay hidden unless explicitly requested.
	excludeFP := c.Query("includeFalsePositives") != "true"

	resp, err := h.svc.List(c.Context(), model.OutlierFilter{
		Type:                 outlierType,
		RegionCode:           region,
		ExcludeFalsePositive: excludeFP,
		Limit:                limit,
		Offset:               offset,
	})
	if err != nil {
		middleware.Logger.Error().Err(err).Msg("outlier list failed")
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list outliers")
	}

	return c.JSON(resp)
}

// Verify handles PUT /api/outliers
func (h *OutlierHandler) Verify(c fiber.Ctx) error {
	var req model.VerificationRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	videoID, errMsg := middleware.ValidateVideoID(req.VideoID)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	req.VideoID = videoID

	if req.IsVerified == nil && req.IsFalsePositive == nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "MISSING_FIELDS",
			"At least one of isVerified or isFalsePositive is required")
	}

	rec, err := h.svc.Verify(c.Context(), req)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Outlier not found")
		}
		middleware.Logger.Error().Err(err).Str("video_id", req.VideoID).Msg("outlier verification failed")
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update outlier")
	}

	return c.JSON(rec)
}
