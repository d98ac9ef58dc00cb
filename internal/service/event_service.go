package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hyeongirlife/event-management-platform/internal/model"
)

// EventRepositoryInterface defines the interface for event data access.
type EventRepositoryInterface interface {
	Insert(ctx context.Context, event *model.Event) error
	GetByID(ctx context.Context, id string) (*model.Event, error)
	List(ctx context.Context, q *model.FindEventsQuery) ([]model.Event, int, error)
	Update(ctx context.Context, event *model.Event) error
	SoftDelete(ctx context.Context, id, deletedBy string) error
}

// EventReader is the read-only subset of event access used by the reward and
// claim services. Soft-deleted events are never returned.
type EventReader interface {
	GetByID(ctx context.Context, id string) (*model.Event, error)
}

// EventService provides business logic for event management.
type EventService struct {
	repo EventRepositoryInterface
}

// NewEventService creates a new EventService with the given repository.
func NewEventService(repo EventRepositoryInterface) *EventService {
	return &EventService{repo: repo}
}

// Create registers a new event in SCHEDULED status.
// Returns ErrEventExists if an event with the same name already exists.
// Returns ErrInvalidRequest if request data is nil or the dates are out of order.
func (s *EventService) Create(ctx context.Context, req *model.CreateEventRequest, userID string) (*model.Event, error) {
	// Defense-in-depth: check for nil pointers even though handler validates
	if req == nil || req.StartDate == nil || req.EndDate == nil {
		return nil, ErrInvalidRequest
	}
	if req.StartDate.After(*req.EndDate) {
		return nil, fmt.Errorf("%w: start date is after end date", ErrInvalidRequest)
	}

	event := &model.Event{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Condition:   req.Condition,
		StartDate:   *req.StartDate,
		EndDate:     *req.EndDate,
		Status:      model.EventStatusScheduled,
		CreatedBy:   userID,
	}
	if err := s.repo.Insert(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// FindAll retrieves a filtered, paginated page of non-deleted events.
func (s *EventService) FindAll(ctx context.Context, q *model.FindEventsQuery) (*model.Paginated[model.Event], error) {
	q.Normalize()
	events, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return model.NewPaginated(events, total, q.Page, q.Limit), nil
}

// FindOne retrieves a single non-deleted event.
// Returns ErrEventNotFound if the event doesn't exist or is soft-deleted.
func (s *EventService) FindOne(ctx context.Context, id string) (*model.Event, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event == nil {
		return nil, ErrEventNotFound
	}
	return event, nil
}

// Update applies a partial update to an event. Status changes must follow the
// lifecycle: SCHEDULED may become ACTIVE or CANCELLED, ACTIVE may become
// ENDED or CANCELLED, and ENDED/CANCELLED are terminal.
func (s *EventService) Update(ctx context.Context, id string, req *model.UpdateEventRequest, userID string) (*model.Event, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	event, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil && *req.Status != event.Status {
		if !canTransition(event.Status, *req.Status) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, event.Status, *req.Status)
		}
		event.Status = *req.Status
	}
	if req.Name != nil {
		event.Name = *req.Name
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Condition != nil {
		event.Condition = *req.Condition
	}
	if req.StartDate != nil {
		event.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		event.EndDate = *req.EndDate
	}
	if event.StartDate.After(event.EndDate) {
		return nil, fmt.Errorf("%w: start date is after end date", ErrInvalidRequest)
	}
	event.UpdatedBy = userID

	if err := s.repo.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// Remove soft-deletes an event. The record is kept but excluded from reads.
// Returns ErrEventNotFound if the event doesn't exist or is already deleted.
func (s *EventService) Remove(ctx context.Context, id, userID string) error {
	return s.repo.SoftDelete(ctx, id, userID)
}

// canTransition reports whether an event may move from one status to another.
// ENDED and CANCELLED are terminal.
func canTransition(from, to model.EventStatus) bool {
	switch from {
	case model.EventStatusScheduled:
		return to == model.EventStatusActive || to == model.EventStatusCancelled
	case model.EventStatusActive:
		return to == model.EventStatusEnded || to == model.EventStatusCancelled
	default:
		return false
	}
}
