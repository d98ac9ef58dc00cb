package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hyeongirlife/event-management-platform/internal/model"
)

// ConditionEvaluator decides whether a user meets an event's eligibility
// condition. Implementations are injected into ClaimService so the evaluation
// strategy can be replaced without touching the claim flow.
type ConditionEvaluator interface {
	Evaluate(ctx context.Context, userID string, event *model.Event) (bool, error)
}

// PlaceholderEvaluator treats a blank condition as met (no gate) and any
// non-empty condition as trivially met. Real condition parsing is pending
// design; do not rely on the non-empty branch as a business rule.
type PlaceholderEvaluator struct{}

// Evaluate implements ConditionEvaluator.
func (PlaceholderEvaluator) Evaluate(_ context.Context, userID string, event *model.Event) (bool, error) {
	if strings.TrimSpace(event.Condition) == "" {
		return true, nil
	}

	// TODO: parse event.Condition (e.g. "USER_LEVEL_GTE_10") and evaluate it
	// against user state from the user system.
	log.Debug().
		Str("user_id", userID).
		Str("event_id", event.ID).
		Str("condition", event.Condition).
		Msg("condition evaluation not implemented, assuming met")
	return true, nil
}
