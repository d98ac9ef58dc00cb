package model

import "time"

// RewardType classifies what a reward grants.
type RewardType string

const (
	RewardTypePoint  RewardType = "POINT"
	RewardTypeItem   RewardType = "ITEM"
	RewardTypeCoupon RewardType = "COUPON"
)

// Reward is a prize attached to an event. ItemCode is set only for ITEM
// rewards and CouponCode only for COUPON rewards.
type Reward struct {
	ID          string     `json:"id"`
	EventID     string     `json:"event_id"`
	Name        string     `json:"name"`
	Type        RewardType `json:"type"`
	Quantity    int        `json:"quantity"`
	Description string     `json:"description,omitempty"`
	ItemCode    string     `json:"item_code,omitempty"`
	CouponCode  string     `json:"coupon_code,omitempty"`
	CreatedBy   string     `json:"created_by,omitempty"`
	UpdatedBy   string     `json:"updated_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"-"`
	DeletedBy   string     `json:"-"`
}

// CreateRewardRequest is the DTO for creating a reward.
type CreateRewardRequest struct {
	EventID     string     `json:"event_id" validate:"required,notblank"`
	Name        string     `json:"name" validate:"required,notblank,max=255"`
	Type        RewardType `json:"type" validate:"required,oneof=POINT ITEM COUPON"`
	Quantity    *int       `json:"quantity" validate:"required,gte=0"`
	Description string     `json:"description" validate:"max=1000"`
	ItemCode    string     `json:"item_code" validate:"max=255"`
	CouponCode  string     `json:"coupon_code" validate:"max=255"`
}

// UpdateRewardRequest is the DTO for partially updating a reward.
// Nil fields are left unchanged.
type UpdateRewardRequest struct {
	Name        *string     `json:"name" validate:"omitempty,notblank,max=255"`
	Type        *RewardType `json:"type" validate:"omitempty,oneof=POINT ITEM COUPON"`
	Quantity    *int        `json:"quantity" validate:"omitempty,gte=0"`
	Description *string     `json:"description" validate:"omitempty,max=1000"`
	ItemCode    *string     `json:"item_code" validate:"omitempty,max=255"`
	CouponCode  *string     `json:"coupon_code" validate:"omitempty,max=255"`
}

// FindRewardsQuery holds filter, pagination and sort parameters for reward listings.
type FindRewardsQuery struct {
	Page      int    `query:"page"`
	Limit     int    `query:"limit"`
	SortBy    string `query:"sortBy"`
	SortOrder string `query:"sortOrder"`
	EventID   string `query:"eventId"`
	Type      string `query:"type"`
}

// Normalize applies pagination defaults and caps the page size.
func (q *FindRewardsQuery) Normalize() {
	normalizePagination(&q.Page, &q.Limit)
	if q.SortOrder != "ASC" {
		q.SortOrder = "DESC"
	}
}
