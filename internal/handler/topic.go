package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/trendlens/trendlens-go/internal/middleware"
	"github.com/trendlens/trendlens-go/internal/model"
	"github.com/trendlens/trendlens-go/internal/service"
)

type TopicHandler struct {
	svc *service.TopicService
}

func NewTopicHandler(svc *service.TopicService) *TopicHandler {
	return &TopicHandler{svc: svc}
}

// List handles GET /api/topics
func (h *TopicHandler) List(c fiber.Ctx) error {
	limit, offset, errMsg := middleware.ValidatePage(c.Query("limit"), c.Query("offset"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	f := model.TopicFilter{
		Category: strings.TrimSpace(c.Query("category")),
		NicheID:  strings.TrimSpace(c.Query("nicheId")),
		Limit:    limit,
		Offset:   offset,
	}
	if v := c.Query("viral"); v != "" {
		viral := v == "true"
		f.Viral = &viral
	}

	resp, err := h.svc.List(c.Context(), f)
	if err != nil {
		middleware.Logger.Error().Err(err).Msg("topic list failed")
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list topics")
	}

	return c.JSON(resp)
}

// Create handles POST /api/topics
func (h *TopicHandler) Create(c fiber.Ctx) error {
	var t model.TrendingTopic
	if err := c.Bind().JSON(&t); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	topic, errMsg := middleware.ValidateTopicText(t.Topic)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	t.Topic = topic

	created, err := h.svc.Create(c.Context(), t)
	if err != nil {
		middleware.Logger.Error().Err(err).Msg("topic create failed")
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create topic")
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// Replace handles PUT /api/topics/:topicId — full-row replacement.
func (h *TopicHandler) Replace(c fiber.Ctx) error {
	id, errMsg := validateTopicID(c.Params("topicId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	var t model.TrendingTopic
	if err := c.Bind().JSON(&t); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	topic, errMsg := middleware.ValidateTopicText(t.Topic)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	t.Topic = topic
	t.ID = id

	updated, err := h.svc.Replace(c.Context(), t)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Topic not found")
		}
		middleware.Logger.Error().Err(err).Str("topic_id", id).Msg("topic replace failed")
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update topic")
	}

	return c.JSON(updated)
}

// Delete handles DELETE /api/topics/:topicId
func (h *TopicHandler) Delete(c fiber.Ctx) error {
	id, errMsg := validateTopicID(c.Params("topicId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	if err := h.svc.Delete(c.Context(), id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Topic not found")
		}
		middleware.Logger.Error().Err(err).Str("topic_id", id).Msg("topic delete failed")
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete topic")
	}

	return c.JSON(fiber.Map{"success": true})
}

func validateTopicID(id string) (string, string) {
	id = strings.TrimSpace(id)
	if _, err := uuid.Parse(id); err != nil {
		return "", "topicId must be a valid UUID"
	}
	return id, ""
}
