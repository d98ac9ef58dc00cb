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

// EventServiceInterface defines the interface for event business logic.
type EventServiceInterface interface {
	Create(ctx context.Context, req *model.CreateEventRequest, userID string) (*model.Event, error)
	FindAll(ctx context.Context, q *model.FindEventsQuery) (*model.Paginated[model.Event], error)
	FindOne(ctx context.Context, id string) (*model.Event, error)
	Update(ctx context.Context, id string, req *model.UpdateEventRequest, userID string) (*model.Event, error)
	Remove(ctx context.Context, id, userID string) error
}

// EventHandler handles HTTP requests for event management.
type EventHandler struct {
	service   EventServiceInterface
	validator *validator.Validate
}

// NewEventHandler creates a new EventHandler with the given service and validator.
func NewEventHandler(svc EventServiceInterface, v *validator.Validate) *EventHandler {
	return &EventHandler{service: svc, validator: v}
}

// CreateEvent handles POST /api/events.
func (h *EventHandler) CreateEvent(c *fiber.Ctx) error {
	var req model.CreateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	event, err := h.service.Create(c.Context(), &req, middleware.UserID(c))
	if err != nil {
		return h.mapError(c, err, req.Name)
	}
	return c.Status(fiber.StatusCreated).JSON(event)
}

// ListEvents handles GET /api/events.
func (h *EventHandler) ListEvents(c *fiber.Ctx) error {
	var q model.FindEventsQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid query parameters"})
	}

	page, err := h.service.FindAll(c.Context(), &q)
	if err != nil {
		return h.mapError(c, err, "")
	}
	return c.JSON(page)
}

// GetEvent handles GET /api/events/:id.
func (h *EventHandler) GetEvent(c *fiber.Ctx) error {
	event, err := h.service.FindOne(c.Context(), c.Params("id"))
	if err != nil {
		return h.mapError(c, err, c.Params("id"))
	}
	return c.JSON(event)
}

// UpdateEvent handles PATCH /api/events/:id.
func (h *EventHandler) UpdateEvent(c *fiber.Ctx) error {
	var req model.UpdateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	event, err := h.service.Update(c.Context(), c.Params("id"), &req, middleware.UserID(c))
	if err != nil {
		return h.mapError(c, err, c.Params("id"))
	}
	return c.JSON(event)
}

// DeleteEvent handles DELETE /api/events/:id.
func (h *EventHandler) DeleteEvent(c *fiber.Ctx) error {
	if err := h.service.Remove(c.Context(), c.Params("id"), middleware.UserID(c)); err != nil {
		return h.mapError(c, err, c.Params("id"))
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *EventHandler) mapError(c *fiber.Ctx, err error, subject string) error {
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "event not found"})
	case errors.Is(err, service.ErrEventExists):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "event already exists"})
	case errors.Is(err, service.ErrInvalidStatusTransition),
		errors.Is(err, service.ErrInvalidRequest):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	log.Error().
		Err(err).
		Str("request_id", c.GetRespHeader("X-Request-ID")).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Str("subject", subject).
		Msg("event operation failed")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}
