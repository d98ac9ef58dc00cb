package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyeongirlife/event-management-platform/internal/middleware"
	"github.com/hyeongirlife/event-management-platform/internal/model"
	"github.com/hyeongirlife/event-management-platform/internal/service"
	"github.com/hyeongirlife/event-management-platform/internal/validator"
)

// mockEventService is a mock implementation of EventServiceInterface.
type mockEventService struct {
	createFn  func(ctx context.Context, req *model.CreateEventRequest, userID string) (*model.Event, error)
	findAllFn func(ctx context.Context, q *model.FindEventsQuery) (*model.Paginated[model.Event], error)
	findOneFn func(ctx context.Context, id string) (*model.Event, error)
	updateFn  func(ctx context.Context, id string, req *model.UpdateEventRequest, userID string) (*model.Event, error)
	removeFn  func(ctx context.Context, id, userID string) error
}

func (m *mockEventService) Create(ctx context.Context, req *model.CreateEventRequest, userID string) (*model.Event, error) {
	if m.createFn != nil {
		return m.createFn(ctx, req, userID)
	}
	return nil, nil
}

func (m *mockEventService) FindAll(ctx context.Context, q *model.FindEventsQuery) (*model.Paginated[model.Event], error) {
	if m.findAllFn != nil {
		return m.findAllFn(ctx, q)
	}
	return model.NewPaginated([]model.Event{}, 0, 1, 10), nil
}

func (m *mockEventService) FindOne(ctx context.Context, id string) (*model.Event, error) {
	if m.findOneFn != nil {
		return m.findOneFn(ctx, id)
	}
	return nil, service.ErrEventNotFound
}

func (m *mockEventService) Update(ctx context.Context, id string, req *model.UpdateEventRequest, userID string) (*model.Event, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, req, userID)
	}
	return nil, nil
}

func (m *mockEventService) Remove(ctx context.Context, id, userID string) error {
	if m.removeFn != nil {
		return m.removeFn(ctx, id, userID)
	}
	return nil
}

func newEventTestApp(svc EventServiceInterface) *fiber.App {
	h := NewEventHandler(svc, validator.New())
	app := fiber.New()
	api := app.Group("/api", middleware.UserContext())
	events := api.Group("/events")
	events.Post("/", middleware.RequireRoles(middleware.RoleOperator, middleware.RoleAdmin), h.CreateEvent)
	events.Get("/", h.ListEvents)
	events.Get("/:id", h.GetEvent)
	events.Patch("/:id", middleware.RequireRoles(middleware.RoleOperator, middleware.RoleAdmin), h.UpdateEvent)
	events.Delete("/:id", middleware.RequireRoles(middleware.RoleAdmin), h.DeleteEvent)
	return app
}

func jsonRequest(t *testing.T, method, path string, body any, roles string) *http.Request {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "staff-1")
	req.Header.Set("X-User-Roles", roles)
	return req
}

func TestEventHandler_CreateEvent(t *testing.T) {
	start := time.Now().Add(time.Hour).UTC()
	end := start.Add(24 * time.Hour)

	svc := &mockEventService{
		createFn: func(ctx context.Context, req *model.CreateEventRequest, userID string) (*model.Event, error) {
			assert.Equal(t, "staff-1", userID)
			return &model.Event{
				ID:        "event-1",
				Name:      req.Name,
				StartDate: *req.StartDate,
				EndDate:   *req.EndDate,
				Status:    model.EventStatusScheduled,
			}, nil
		},
	}
	app := newEventTestApp(svc)

	req := jsonRequest(t, http.MethodPost, "/api/events/", model.CreateEventRequest{
		Name:      "summer festival",
		StartDate: &start,
		EndDate:   &end,
	}, "OPERATOR")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var event model.Event
	decodeBody(t, resp, &event)
	assert.Equal(t, "event-1", event.ID)
	assert.Equal(t, model.EventStatusScheduled, event.Status)
}

func TestEventHandler_CreateEvent_ValidationErrors(t *testing.T) {
	start := time.Now().UTC()
	end := start.Add(time.Hour)

	cases := []struct {
		name string
		body model.CreateEventRequest
	}{
		{"missing name", model.CreateEventRequest{StartDate: &start, EndDate: &end}},
		{"blank name", model.CreateEventRequest{Name: "   ", StartDate: &start, EndDate: &end}},
		{"missing dates", model.CreateEventRequest{Name: "event"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			svc := &mockEventService{
				createFn: func(ctx context.Context, req *model.CreateEventRequest, userID string) (*model.Event, error) {
					called = true
					return nil, nil
				},
			}
			app := newEventTestApp(svc)

			resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/events/", tc.body, "OPERATOR"))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
			assert.False(t, called)
		})
	}
}

func TestEventHandler_CreateEvent_RoleGuard(t *testing.T) {
	start := time.Now().UTC()
	end := start.Add(time.Hour)
	app := newEventTestApp(&mockEventService{
		createFn: func(ctx context.Context, req *model.CreateEventRequest, userID string) (*model.Event, error) {
			return &model.Event{ID: "event-1"}, nil
		},
	})

	body := model.CreateEventRequest{Name: "event", StartDate: &start, EndDate: &end}

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/events/", body, "USER"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode, "plain users cannot create events")

	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/api/events/", body, "ADMIN"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestEventHandler_CreateEvent_Duplicate(t *testing.T) {
	start := time.Now().UTC()
	end := start.Add(time.Hour)
	svc := &mockEventService{
		createFn: func(ctx context.Context, req *model.CreateEventRequest, userID string) (*model.Event, error) {
			return nil, service.ErrEventExists
		},
	}
	app := newEventTestApp(svc)

	req := jsonRequest(t, http.MethodPost, "/api/events/", model.CreateEventRequest{
		Name:      "summer festival",
		StartDate: &start,
		EndDate:   &end,
	}, "OPERATOR")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestEventHandler_GetEvent_NotFound(t *testing.T) {
	app := newEventTestApp(&mockEventService{})

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/events/missing", nil, "USER"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestEventHandler_ListEvents_PassesFilters(t *testing.T) {
	var captured *model.FindEventsQuery
	svc := &mockEventService{
		findAllFn: func(ctx context.Context, q *model.FindEventsQuery) (*model.Paginated[model.Event], error) {
			captured = q
			return model.NewPaginated([]model.Event{}, 0, 1, 10), nil
		},
	}
	app := newEventTestApp(svc)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/events/?status=ACTIVE&name=summer&page=3", nil, "USER"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotNil(t, captured)
	assert.Equal(t, "ACTIVE", captured.Status)
	assert.Equal(t, "summer", captured.Name)
	assert.Equal(t, 3, captured.Page)
}

func TestEventHandler_UpdateEvent_InvalidTransition(t *testing.T) {
	svc := &mockEventService{
		updateFn: func(ctx context.Context, id string, req *model.UpdateEventRequest, userID string) (*model.Event, error) {
			return nil, fmt.Errorf("%w: ENDED -> ACTIVE", service.ErrInvalidStatusTransition)
		},
	}
	app := newEventTestApp(svc)

	status := model.EventStatusActive
	req := jsonRequest(t, http.MethodPatch, "/api/events/event-1", model.UpdateEventRequest{
		Status: &status,
	}, "OPERATOR")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Contains(t, body["error"], "ENDED")
}

func TestEventHandler_UpdateEvent_RejectsUnknownStatus(t *testing.T) {
	called := false
	svc := &mockEventService{
		updateFn: func(ctx context.Context, id string, req *model.UpdateEventRequest, userID string) (*model.Event, error) {
			called = true
			return nil, nil
		},
	}
	app := newEventTestApp(svc)

	status := model.EventStatus("PAUSED")
	req := jsonRequest(t, http.MethodPatch, "/api/events/event-1", model.UpdateEventRequest{
		Status: &status,
	}, "OPERATOR")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.False(t, called)
}

func TestEventHandler_DeleteEvent(t *testing.T) {
	var gotID string
	svc := &mockEventService{
		removeFn: func(ctx context.Context, id, userID string) error {
			gotID = id
			return nil
		},
	}
	app := newEventTestApp(svc)

	resp, err := app.Test(jsonRequest(t, http.MethodDelete, "/api/events/event-1", nil, "ADMIN"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "event-1", gotID)
}

func TestEventHandler_DeleteEvent_AdminOnly(t *testing.T) {
	app := newEventTestApp(&mockEventService{})

	resp, err := app.Test(jsonRequest(t, http.MethodDelete, "/api/events/event-1", nil, "OPERATOR"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
