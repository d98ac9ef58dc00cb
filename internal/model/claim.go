package model

import "time"

// ClaimStatus is the state of a user's reward claim for one event.
type ClaimStatus string

const (
	ClaimStatusRequested         ClaimStatus = "REQUESTED"
	ClaimStatusPendingValidation ClaimStatus = "PENDING_VALIDATION"
	ClaimStatusValidationFailed  ClaimStatus = "VALIDATION_FAILED"
	ClaimStatusPendingPayout     ClaimStatus = "PENDING_PAYOUT"
	ClaimStatusRewarded          ClaimStatus = "REWARDED"
	ClaimStatusFailedPayout      ClaimStatus = "FAILED_PAYOUT"
	ClaimStatusDuplicateRequest  ClaimStatus = "DUPLICATE_REQUEST"
)

// RewardSnapshot is a denormalized copy of a reward taken at grant time.
// Later edits to the reward never alter the snapshot.
type RewardSnapshot struct {
	RewardID string     `json:"reward_id"`
	Name     string     `json:"name"`
	Type     RewardType `json:"type"`
	Quantity int        `json:"quantity"`
}

// ClaimEntry records one user's single claim attempt for one event.
// At most one entry exists per (user, event) pair, enforced by a unique
// constraint in the store. Entries are never deleted and move only forward
// through the claim state machine.
type ClaimEntry struct {
	ID                   string           `json:"id"`
	UserID               string           `json:"user_id"`
	EventID              string           `json:"event_id"`
	Status               ClaimStatus      `json:"status"`
	ValidatedAt          *time.Time       `json:"validated_at,omitempty"`
	RewardedAt           *time.Time       `json:"rewarded_at,omitempty"`
	FailureReason        string           `json:"failure_reason,omitempty"`
	GrantedRewards       []string         `json:"granted_rewards"`
	GrantedRewardDetails []RewardSnapshot `json:"granted_reward_details"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

// ClaimRewardRequest is the DTO for claiming an event's rewards.
type ClaimRewardRequest struct {
	EventID string `json:"event_id" validate:"required,notblank,max=255"`
}

// FindClaimsQuery holds filter, pagination and sort parameters for claim
// entry listings. UserID is forced to the caller for the self-scoped view.
type FindClaimsQuery struct {
	Page      int    `query:"page"`
	Limit     int    `query:"limit"`
	SortBy    string `query:"sortBy"`
	SortOrder string `query:"sortOrder"`
	UserID    string `query:"userId"`
	EventID   string `query:"eventId"`
	Status    string `query:"status"`
}

// Normalize applies pagination defaults and caps the page size.
func (q *FindClaimsQuery) Normalize() {
	normalizePagination(&q.Page, &q.Limit)
	if q.SortOrder != "ASC" {
		q.SortOrder = "DESC"
	}
}
