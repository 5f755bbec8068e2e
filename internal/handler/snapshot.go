package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/trendlens/trendlens-go/internal/middleware"
	"github.com/trendlens/trendlens-go/internal/model"
	"github.com/trendlens/trendlens-go/internal/service"
)

type SnapshotHandler struct {
	svc             *service.SnapshotService
	defaultRegion   string
	defaultSnapType string
}

func NewSnapshotHandler(svc *service.SnapshotService, defaultRegion, defaultSnapType string) *SnapshotHandler {
	return &SnapshotHandler{
		svc:             svc,
		defaultRegion:   defaultRegion,
		defaultSnapType: defaultSnapType,
	}
}

// List handles GET /api/snapshots
func (h *SnapshotHandler) List(c fiber.Ctx) error {
	region := c.Query("regionCode", h.defaultRegion)
	region, errMsg := middleware.ValidateRegionCode(region)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	categoryID, errMsg := middleware.ValidateCategoryID(c.Query("categoryId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	snapType, errMsg := middleware.ValidateSnapshotType(c.Query("type"), h.defaultSnapType)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	limit, offset, errMsg := middleware.ValidatePage(c.Query("limit"), c.Query("offset"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	resp, err := h.svc.Page(c.Context(), model.SnapshotFilter{
		RegionCode:   region,
		CategoryID:   categoryID,
		SnapshotType: snapType,
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		middleware.Logger.Error().Err(err).Msg("snapshot list failed")
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list snapshots")
	}

	return c.JSON(resp)
}
