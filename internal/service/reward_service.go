package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hyeongirlife/event-management-platform/internal/model"
)

// RewardRepositoryInterface defines the interface for reward data access.
type RewardRepositoryInterface interface {
	Insert(ctx context.Context, reward *model.Reward) error
	GetByID(ctx context.Context, id string) (*model.Reward, error)
	List(ctx context.Context, q *model.FindRewardsQuery) ([]model.Reward, int, error)
	Update(ctx context.Context, reward *model.Reward) error
	SoftDelete(ctx context.Context, id, deletedBy string) error
}

// RewardService provides business logic for reward management.
type RewardService struct {
	repo   RewardRepositoryInterface
	events EventReader
}

// NewRewardService creates a new RewardService with the given repositories.
func NewRewardService(repo RewardRepositoryInterface, events EventReader) *RewardService {
	return &RewardService{repo: repo, events: events}
}

// Create attaches a new reward to an event.
// Returns ErrEventNotFound if the owning event doesn't exist,
// ErrEventClosed if it has ended or been cancelled, and ErrInvalidRequest
// when the type-conditional fields are inconsistent.
func (s *RewardService) Create(ctx context.Context, req *model.CreateRewardRequest, userID string) (*model.Reward, error) {
	if req == nil || req.Quantity == nil {
		return nil, ErrInvalidRequest
	}

	event, err := s.events.GetByID(ctx, req.EventID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event == nil {
		return nil, ErrEventNotFound
	}
	if event.Status == model.EventStatusEnded || event.Status == model.EventStatusCancelled {
		return nil, fmt.Errorf("%w: cannot add reward to a %s event", ErrEventClosed, event.Status)
	}

	if err := validateRewardTypeFields(req.Type, req.ItemCode, req.CouponCode); err != nil {
		return nil, err
	}

	reward := &model.Reward{
		ID:          uuid.NewString(),
		EventID:     req.EventID,
		Name:        req.Name,
		Type:        req.Type,
		Quantity:    *req.Quantity,
		Description: req.Description,
		CreatedBy:   userID,
	}
	// Only carry the code matching the reward type.
	switch req.Type {
	case model.RewardTypeItem:
		reward.ItemCode = req.ItemCode
	case model.RewardTypeCoupon:
		reward.CouponCode = req.CouponCode
	}

	if err := s.repo.Insert(ctx, reward); err != nil {
		return nil, err
	}
	return reward, nil
}

// FindAll retrieves a filtered, paginated page of non-deleted rewards.
func (s *RewardService) FindAll(ctx context.Context, q *model.FindRewardsQuery) (*model.Paginated[model.Reward], error) {
	q.Normalize()
	rewards, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list rewards: %w", err)
	}
	return model.NewPaginated(rewards, total, q.Page, q.Limit), nil
}

// FindOne retrieves a single non-deleted reward.
// Returns ErrRewardNotFound if the reward doesn't exist or is soft-deleted.
func (s *RewardService) FindOne(ctx context.Context, id string) (*model.Reward, error) {
	reward, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get reward: %w", err)
	}
	if reward == nil {
		return nil, ErrRewardNotFound
	}
	return reward, nil
}

// Update applies a partial update to a reward. Once the owning event is
// ENDED or CANCELLED the reward's defining fields are frozen.
func (s *RewardService) Update(ctx context.Context, id string, req *model.UpdateRewardRequest, userID string) (*model.Reward, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	reward, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}

	event, err := s.events.GetByID(ctx, reward.EventID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event != nil && (event.Status == model.EventStatusEnded || event.Status == model.EventStatusCancelled) {
		return nil, fmt.Errorf("%w: rewards of a %s event cannot be modified", ErrEventClosed, event.Status)
	}

	if req.Name != nil {
		reward.Name = *req.Name
	}
	if req.Type != nil {
		reward.Type = *req.Type
	}
	if req.Quantity != nil {
		reward.Quantity = *req.Quantity
	}
	if req.Description != nil {
		reward.Description = *req.Description
	}
	if req.ItemCode != nil {
		reward.ItemCode = *req.ItemCode
	}
	if req.CouponCode != nil {
		reward.CouponCode = *req.CouponCode
	}

	// Drop codes that no longer match the (possibly changed) type, then check
	// the final state against the type rules.
	switch reward.Type {
	case model.RewardTypePoint:
		reward.ItemCode = ""
		reward.CouponCode = ""
	case model.RewardTypeItem:
		reward.CouponCode = ""
	case model.RewardTypeCoupon:
		reward.ItemCode = ""
	}
	if err := validateRewardTypeFields(reward.Type, reward.ItemCode, reward.CouponCode); err != nil {
		return nil, err
	}
	reward.UpdatedBy = userID

	if err := s.repo.Update(ctx, reward); err != nil {
		return nil, err
	}
	return reward, nil
}

// Remove soft-deletes a reward.
// Returns ErrRewardNotFound if the reward doesn't exist or is already deleted.
func (s *RewardService) Remove(ctx context.Context, id, userID string) error {
	return s.repo.SoftDelete(ctx, id, userID)
}

// validateRewardTypeFields enforces the type-conditional field rules:
// itemCode required iff ITEM, couponCode required iff COUPON, both forbidden
// for POINT.
func validateRewardTypeFields(t model.RewardType, itemCode, couponCode string) error {
	switch t {
	case model.RewardTypeItem:
		if itemCode == "" {
			return fmt.Errorf("%w: item_code is required for ITEM rewards", ErrInvalidRequest)
		}
	case model.RewardTypeCoupon:
		if couponCode == "" {
			return fmt.Errorf("%w: coupon_code is required for COUPON rewards", ErrInvalidRequest)
		}
	case model.RewardTypePoint:
		if itemCode != "" || couponCode != "" {
			return fmt.Errorf("%w: item_code/coupon_code must not be set for POINT rewards", ErrInvalidRequest)
		}
	default:
		return fmt.Errorf("%w: unknown reward type %q", ErrInvalidRequest, t)
	}
	return nil
}
