package service

import "errors"

var (
	// ErrEventExists is returned when creating an event whose name is already taken
	ErrEventExists = errors.New("event already exists")

	// ErrEventNotFound is returned when an event does not exist or is soft-deleted
	ErrEventNotFound = errors.New("event not found")

	// ErrEventNotActive is returned when claiming against an event that is not ACTIVE.
	// The returned error is wrapped with the event's current status.
	ErrEventNotActive = errors.New("event is not active")

	// ErrEventClosed is returned when mutating rewards of an ENDED or CANCELLED event
	ErrEventClosed = errors.New("event has ended or been cancelled")

	// ErrInvalidStatusTransition is returned when an event status change
	// violates the SCHEDULED -> ACTIVE/CANCELLED -> ENDED lifecycle
	ErrInvalidStatusTransition = errors.New("invalid event status transition")

	// ErrRewardNotFound is returned when a reward does not exist or is soft-deleted
	ErrRewardNotFound = errors.New("reward not found")

	// ErrDuplicateClaim is returned when a user claims an event they already
	// have an entry for, whatever that entry's status. The first attempt is final.
	ErrDuplicateClaim = errors.New("reward already claimed for this event")

	// ErrInvalidRequest is returned when request data is invalid or incomplete
	ErrInvalidRequest = errors.New("invalid request")
)
