package handler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/hyeongirlife/event-management-platform/internal/middleware"
	"github.com/hyeongirlife/event-management-platform/internal/model"
	"github.com/hyeongirlife/event-management-platform/internal/service"
)

// RewardServiceInterface defines the interface for reward business logic.
type RewardServiceInterface interface {
	Create(ctx context.Context, req *model.CreateRewardRequest, userID string) (*model.Reward, error)
	FindAll(ctx context.Context, q *model.FindRewardsQuery) (*model.Paginated[model.Reward], error)
	FindOne(ctx context.Context, id string) (*model.Reward, error)
	Update(ctx context.Context, id string, req *model.UpdateRewardRequest, userID string) (*model.Reward, error)
	Remove(ctx context.Context, id, userID string) error
}

// RewardHandler handles HTTP requests for reward management.
type RewardHandler struct {
	service   RewardServiceInterface
	validator *validator.Validate
}

// NewRewardHandler creates a new RewardHandler with the given service and validator.
func NewRewardHandler(svc RewardServiceInterface, v *validator.Validate) *RewardHandler {
	return &RewardHandler{service: svc, validator: v}
}

// CreateReward handles POST /api/rewards.
func (h *RewardHandler) CreateReward(c *fiber.Ctx) error {
	var req model.CreateRewardRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	reward, err := h.service.Create(c.Context(), &req, middleware.UserID(c))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(reward)
}

// ListRewards handles GET /api/rewards.
func (h *RewardHandler) ListRewards(c *fiber.Ctx) error {
	var q model.FindRewardsQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid query parameters"})
	}

	page, err := h.service.FindAll(c.Context(), &q)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(page)
}

// GetReward handles GET /api/rewards/:id.
func (h *RewardHandler) GetReward(c *fiber.Ctx) error {
	reward, err := h.service.FindOne(c.Context(), c.Params("id"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(reward)
}

// UpdateReward handles PATCH /api/rewards/:id.
func (h *RewardHandler) UpdateReward(c *fiber.Ctx) error {
	var req model.UpdateRewardRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	reward, err := h.service.Update(c.Context(), c.Params("id"), &req, middleware.UserID(c))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(reward)
}

// DeleteReward handles DELETE /api/rewards/:id.
func (h *RewardHandler) DeleteReward(c *fiber.Ctx) error {
	if err := h.service.Remove(c.Context(), c.Params("id"), middleware.UserID(c)); err != nil {
		return h.mapError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *RewardHandler) mapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrRewardNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "reward not found"})
	case errors.Is(err, service.ErrEventNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "event not found"})
	case errors.Is(err, service.ErrEventClosed):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidRequest):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	log.Error().
		Err(err).
		Str("request_id", c.GetRespHeader("X-Request-ID")).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg("reward operation failed")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}
