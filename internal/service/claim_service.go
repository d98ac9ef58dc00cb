package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hyeongirlife/event-management-platform/internal/model"
)

// RewardReader lists the non-deleted rewards configured for an event.
type RewardReader interface {
	GetActiveByEvent(ctx context.Context, eventID string) ([]model.Reward, error)
}

// ClaimRepositoryInterface defines the interface for claim entry data access.
// InsertUnique must enforce the (userID, eventID) uniqueness constraint at
// the storage layer and return ErrDuplicateClaim on violation.
type ClaimRepositoryInterface interface {
	GetByUserAndEvent(ctx context.Context, userID, eventID string) (*model.ClaimEntry, error)
	InsertUnique(ctx context.Context, entry *model.ClaimEntry) error
	List(ctx context.Context, q *model.FindClaimsQuery) ([]model.ClaimEntry, int, error)
}

// ClaimService decides whether a user may claim the rewards of an event and
// records a durable, idempotent claim outcome. It holds no shared mutable
// state; concurrent claims for the same (user, event) pair are serialized
// solely by the store's unique constraint.
type ClaimService struct {
	events    EventReader
	rewards   RewardReader
	claims    ClaimRepositoryInterface
	evaluator ConditionEvaluator
}

// NewClaimService creates a new ClaimService with the given collaborators.
// A nil evaluator falls back to PlaceholderEvaluator.
func NewClaimService(events EventReader, rewards RewardReader, claims ClaimRepositoryInterface, evaluator ConditionEvaluator) *ClaimService {
	if evaluator == nil {
		evaluator = PlaceholderEvaluator{}
	}
	return &ClaimService{
		events:    events,
		rewards:   rewards,
		claims:    claims,
		evaluator: evaluator,
	}
}

// Claim records a user's one-time claim attempt for an event.
//
// Check order matters: each step assumes the previous ones passed.
// Returns:
//   - ErrEventNotFound if the event doesn't exist or is soft-deleted
//   - ErrEventNotActive (wrapped with the current status) if the event is not ACTIVE
//   - ErrDuplicateClaim if an entry for (user, event) already exists,
//     whatever its status, or if a concurrent claim wins the insert race
//
// A claim whose condition is unmet or whose event has no rewards configured
// is NOT an error: the rejection is persisted as a VALIDATION_FAILED entry
// and returned. Otherwise the entry is persisted as PENDING_PAYOUT with a
// snapshot of the granted rewards. Payout execution (PENDING_PAYOUT ->
// REWARDED/FAILED_PAYOUT) is a separate processing step that does not exist
// yet; entries stay PENDING_PAYOUT until it runs.
func (s *ClaimService) Claim(ctx context.Context, userID, eventID string) (*model.ClaimEntry, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event == nil {
		return nil, ErrEventNotFound
	}
	if event.Status != model.EventStatusActive {
		return nil, fmt.Errorf("%w: current status %s", ErrEventNotActive, event.Status)
	}

	existing, err := s.claims.GetByUserAndEvent(ctx, userID, eventID)
	if err != nil {
		return nil, fmt.Errorf("get claim entry: %w", err)
	}
	if existing != nil {
		log.Warn().
			Str("user_id", userID).
			Str("event_id", eventID).
			Str("status", string(existing.Status)).
			Msg("duplicate claim attempt")
		return nil, ErrDuplicateClaim
	}

	met, err := s.evaluator.Evaluate(ctx, userID, event)
	if err != nil {
		return nil, fmt.Errorf("evaluate condition: %w", err)
	}
	if !met {
		entry := newClaimEntry(userID, eventID)
		entry.Status = model.ClaimStatusValidationFailed
		entry.FailureReason = "event condition not met"
		return s.persist(ctx, entry)
	}

	rewards, err := s.rewards.GetActiveByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("get rewards: %w", err)
	}
	now := time.Now().UTC()
	if len(rewards) == 0 {
		log.Warn().Str("event_id", eventID).Msg("event has no rewards configured")
		entry := newClaimEntry(userID, eventID)
		entry.Status = model.ClaimStatusValidationFailed
		entry.FailureReason = "no rewards configured for this event"
		entry.ValidatedAt = &now
		return s.persist(ctx, entry)
	}

	entry := newClaimEntry(userID, eventID)
	entry.Status = model.ClaimStatusPendingPayout
	entry.ValidatedAt = &now
	entry.GrantedRewards = make([]string, 0, len(rewards))
	entry.GrantedRewardDetails = make([]model.RewardSnapshot, 0, len(rewards))
	for _, r := range rewards {
		entry.GrantedRewards = append(entry.GrantedRewards, r.ID)
		entry.GrantedRewardDetails = append(entry.GrantedRewardDetails, model.RewardSnapshot{
			RewardID: r.ID,
			Name:     r.Name,
			Type:     r.Type,
			Quantity: r.Quantity,
		})
	}

	entry, err = s.persist(ctx, entry)
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("user_id", userID).
		Str("event_id", eventID).
		Str("entry_id", entry.ID).
		Int("granted_rewards", len(entry.GrantedRewards)).
		Msg("claim recorded, pending payout")
	return entry, nil
}

// persist inserts the entry, translating a storage-level uniqueness violation
// into ErrDuplicateClaim. This is the authoritative duplicate check under
// concurrency; the earlier read is only a fast path.
func (s *ClaimService) persist(ctx context.Context, entry *model.ClaimEntry) (*model.ClaimEntry, error) {
	if err := s.claims.InsertUnique(ctx, entry); err != nil {
		if errors.Is(err, ErrDuplicateClaim) {
			log.Warn().
				Str("user_id", entry.UserID).
				Str("event_id", entry.EventID).
				Msg("duplicate claim detected at insert")
			return nil, ErrDuplicateClaim
		}
		return nil, fmt.Errorf("insert claim entry: %w", err)
	}
	return entry, nil
}

// FindUserRewards lists the caller's own claim entries. The user filter is
// forced to the caller regardless of what the query carries.
func (s *ClaimService) FindUserRewards(ctx context.Context, userID string, q *model.FindClaimsQuery) (*model.Paginated[model.ClaimEntry], error) {
	q.UserID = userID
	return s.findEntries(ctx, q)
}

// FindAllEntries lists claim entries across all users, filtered by userId,
// eventId and/or status.
func (s *ClaimService) FindAllEntries(ctx context.Context, q *model.FindClaimsQuery) (*model.Paginated[model.ClaimEntry], error) {
	return s.findEntries(ctx, q)
}

func (s *ClaimService) findEntries(ctx context.Context, q *model.FindClaimsQuery) (*model.Paginated[model.ClaimEntry], error) {
	q.Normalize()
	entries, total, err := s.claims.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list claim entries: %w", err)
	}
	return model.NewPaginated(entries, total, q.Page, q.Limit), nil
}

func newClaimEntry(userID, eventID string) *model.ClaimEntry {
	return &model.ClaimEntry{
		ID:                   uuid.NewString(),
		UserID:               userID,
		EventID:              eventID,
		GrantedRewards:       []string{},
		GrantedRewardDetails: []model.RewardSnapshot{},
	}
}
