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

// ClaimServiceInterface defines the interface for claim business logic.
type ClaimServiceInterface interface {
	Claim(ctx context.Context, userID, eventID string) (*model.ClaimEntry, error)
	FindUserRewards(ctx context.Context, userID string, q *model.FindClaimsQuery) (*model.Paginated[model.ClaimEntry], error)
	FindAllEntries(ctx context.Context, q *model.FindClaimsQuery) (*model.Paginated[model.ClaimEntry], error)
}

// ClaimHandler handles HTTP requests for user reward claims.
type ClaimHandler struct {
	service   ClaimServiceInterface
	validator *validator.Validate
}

// NewClaimHandler creates a new ClaimHandler with the given service and validator.
func NewClaimHandler(svc ClaimServiceInterface, v *validator.Validate) *ClaimHandler {
	return &ClaimHandler{service: svc, validator: v}
}

// ClaimReward handles POST /api/user-rewards/claim.
//
// A claim that is evaluated and rejected (VALIDATION_FAILED) is still a 201:
// the rejection was recorded. Errors mean the request itself could not be
// processed and nothing was recorded.
func (h *ClaimHandler) ClaimReward(c *fiber.Ctx) error {
	var req model.ClaimRewardRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	userID := middleware.UserID(c)
	entry, err := h.service.Claim(c.Context(), userID, req.EventID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "event not found"})
		case errors.Is(err, service.ErrEventNotActive):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrDuplicateClaim):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "reward already claimed for this event"})
		}
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Str("user_id", userID).
			Str("event_id", req.EventID).
			Msg("failed to claim reward")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.Status(fiber.StatusCreated).JSON(entry)
}

// MyRewards handles GET /api/user-rewards/me. The listing is always scoped to
// the calling user.
func (h *ClaimHandler) MyRewards(c *fiber.Ctx) error {
	var q model.FindClaimsQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid query parameters"})
	}

	page, err := h.service.FindUserRewards(c.Context(), middleware.UserID(c), &q)
	if err != nil {
		return h.listError(c, err)
	}
	return c.JSON(page)
}

// AllEntries handles GET /api/user-rewards/admin, the operator-wide view.
func (h *ClaimHandler) AllEntries(c *fiber.Ctx) error {
	var q model.FindClaimsQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid query parameters"})
	}

	page, err := h.service.FindAllEntries(c.Context(), &q)
	if err != nil {
		return h.listError(c, err)
	}
	return c.JSON(page)
}

func (h *ClaimHandler) listError(c *fiber.Ctx, err error) error {
	log.Error().
		Err(err).
		Str("request_id", c.GetRespHeader("X-Request-ID")).
		Str("path", c.Path()).
		Msg("failed to list claim entries")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}
