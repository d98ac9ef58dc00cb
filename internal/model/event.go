package model

import "time"

// EventStatus is the lifecycle state of an event.
type EventStatus string

const (
	EventStatusScheduled EventStatus = "SCHEDULED" // registered, not started yet
	EventStatusActive    EventStatus = "ACTIVE"    // currently running
	EventStatusEnded     EventStatus = "ENDED"     // finished normally
	EventStatusCancelled EventStatus = "CANCELLED" // cancelled by an operator
)

// Event represents an event users can claim rewards for.
type Event struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Condition   string      `json:"condition"`
	StartDate   time.Time   `json:"start_date"`
	EndDate     time.Time   `json:"end_date"`
	Status      EventStatus `json:"status"`
	CreatedBy   string      `json:"created_by,omitempty"`
	UpdatedBy   string      `json:"updated_by,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	DeletedAt   *time.Time  `json:"-"`
	DeletedBy   string      `json:"-"`
}

// CreateEventRequest is the DTO for creating an event.
type CreateEventRequest struct {
	Name        string     `json:"name" validate:"required,notblank,max=255"`
	Description string     `json:"description" validate:"max=1000"`
	Condition   string     `json:"condition" validate:"max=1000"`
	StartDate   *time.Time `json:"start_date" validate:"required"`
	EndDate     *time.Time `json:"end_date" validate:"required"`
}

// UpdateEventRequest is the DTO for partially updating an event.
// Nil fields are left unchanged.
type UpdateEventRequest struct {
	Name        *string      `json:"name" validate:"omitempty,notblank,max=255"`
	Description *string      `json:"description" validate:"omitempty,max=1000"`
	Condition   *string      `json:"condition" validate:"omitempty,max=1000"`
	StartDate   *time.Time   `json:"start_date"`
	EndDate     *time.Time   `json:"end_date"`
	Status      *EventStatus `json:"status" validate:"omitempty,oneof=SCHEDULED ACTIVE ENDED CANCELLED"`
}

// FindEventsQuery holds filter, pagination and sort parameters for event listings.
type FindEventsQuery struct {
	Page            int        `query:"page"`
	Limit           int        `query:"limit"`
	SortBy          string     `query:"sortBy"`
	SortOrder       string     `query:"sortOrder"`
	Name            string     `query:"name"`
	Status          string     `query:"status"`
	StartDateAfter  *time.Time `query:"startDateAfter"`
	StartDateBefore *time.Time `query:"startDateBefore"`
	EndDateAfter    *time.Time `query:"endDateAfter"`
	EndDateBefore   *time.Time `query:"endDateBefore"`
}

// Normalize applies pagination defaults and caps the page size.
func (q *FindEventsQuery) Normalize() {
	normalizePagination(&q.Page, &q.Limit)
	if q.SortOrder != "ASC" {
		q.SortOrder = "DESC"
	}
}
