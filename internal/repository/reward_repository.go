package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hyeongirlife/event-management-platform/internal/model"
	"github.com/hyeongirlife/event-management-platform/internal/service"
	"github.com/hyeongirlife/event-management-platform/pkg/database"
)

const rewardColumns = `id, event_id, name, type, quantity, description, item_code, coupon_code,
	created_by, updated_by, created_at, updated_at`

var rewardSortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"name":      "name",
	"type":      "type",
	"quantity":  "quantity",
}

// RewardRepository provides data access for rewards using pgx.
type RewardRepository struct {
	pool database.Querier
}

// NewRewardRepository creates a new RewardRepository with the given pool.
func NewRewardRepository(pool *pgxpool.Pool) *RewardRepository {
	return &RewardRepository{pool: pool}
}

// NewRewardRepositoryWithQuerier creates a RewardRepository with a custom querier.
// This is primarily used for testing.
func NewRewardRepositoryWithQuerier(q database.Querier) *RewardRepository {
	return &RewardRepository{pool: q}
}

// Insert inserts a new reward.
func (r *RewardRepository) Insert(ctx context.Context, reward *model.Reward) error {
	query := `INSERT INTO rewards (id, event_id, name, type, quantity, description, item_code, coupon_code, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		reward.ID, reward.EventID, reward.Name, reward.Type, reward.Quantity,
		reward.Description, reward.ItemCode, reward.CouponCode, reward.CreatedBy,
	).Scan(&reward.CreatedAt, &reward.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert reward: %w", err)
	}
	return nil
}

// GetByID retrieves a non-deleted reward by id.
// Returns nil, nil if the reward is not found (service layer handles this).
func (r *RewardRepository) GetByID(ctx context.Context, id string) (*model.Reward, error) {
	query := `SELECT ` + rewardColumns + ` FROM rewards WHERE id = $1 AND deleted_at IS NULL`

	var reward model.Reward
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&reward.ID, &reward.EventID, &reward.Name, &reward.Type, &reward.Quantity,
		&reward.Description, &reward.ItemCode, &reward.CouponCode,
		&reward.CreatedBy, &reward.UpdatedBy, &reward.CreatedAt, &reward.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reward by id %s: %w", id, err)
	}
	return &reward, nil
}

// GetActiveByEvent retrieves all non-deleted rewards of an event, oldest first.
// On success, returns an empty slice (not nil) when no rewards exist.
func (r *RewardRepository) GetActiveByEvent(ctx context.Context, eventID string) ([]model.Reward, error) {
	query := `SELECT ` + rewardColumns + ` FROM rewards
		WHERE event_id = $1 AND deleted_at IS NULL ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("get rewards for event %s: %w", eventID, err)
	}
	defer rows.Close()

	rewards := []model.Reward{}
	for rows.Next() {
		var reward model.Reward
		if err := rows.Scan(
			&reward.ID, &reward.EventID, &reward.Name, &reward.Type, &reward.Quantity,
			&reward.Description, &reward.ItemCode, &reward.CouponCode,
			&reward.CreatedBy, &reward.UpdatedBy, &reward.CreatedAt, &reward.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan reward row: %w", err)
		}
		rewards = append(rewards, reward)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reward rows: %w", err)
	}
	return rewards, nil
}

// List retrieves one page of non-deleted rewards matching the query filters,
// plus the total match count.
func (r *RewardRepository) List(ctx context.Context, q *model.FindRewardsQuery) ([]model.Reward, int, error) {
	where := []string{"deleted_at IS NULL"}
	var args []any

	if q.EventID != "" {
		args = append(args, q.EventID)
		where = append(where, fmt.Sprintf("event_id = $%d", len(args)))
	}
	if q.Type != "" {
		args = append(args, q.Type)
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}
	whereClause := strings.Join(where, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM rewards WHERE ` + whereClause
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count rewards: %w", err)
	}

	orderBy := orderClause(rewardSortColumns, q.SortBy, q.SortOrder, "created_at")
	args = append(args, q.Limit, (q.Page-1)*q.Limit)
	listQuery := fmt.Sprintf(`SELECT %s FROM rewards WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		rewardColumns, whereClause, orderBy, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list rewards: %w", err)
	}
	defer rows.Close()

	rewards := []model.Reward{}
	for rows.Next() {
		var reward model.Reward
		if err := rows.Scan(
			&reward.ID, &reward.EventID, &reward.Name, &reward.Type, &reward.Quantity,
			&reward.Description, &reward.ItemCode, &reward.CouponCode,
			&reward.CreatedBy, &reward.UpdatedBy, &reward.CreatedAt, &reward.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan reward row: %w", err)
		}
		rewards = append(rewards, reward)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate reward rows: %w", err)
	}
	return rewards, total, nil
}

// Update writes the reward's mutable fields.
// Returns service.ErrRewardNotFound if the reward doesn't exist or is deleted.
func (r *RewardRepository) Update(ctx context.Context, reward *model.Reward) error {
	query := `UPDATE rewards
		SET name = $2, type = $3, quantity = $4, description = $5,
			item_code = $6, coupon_code = $7, updated_by = $8, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`

	tag, err := r.pool.Exec(ctx, query,
		reward.ID, reward.Name, reward.Type, reward.Quantity,
		reward.Description, reward.ItemCode, reward.CouponCode, reward.UpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("update reward %s: %w", reward.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrRewardNotFound
	}
	return nil
}

// SoftDelete marks a reward as deleted without removing the row.
// Returns service.ErrRewardNotFound if the reward doesn't exist or is already deleted.
func (r *RewardRepository) SoftDelete(ctx context.Context, id, deletedBy string) error {
	query := `UPDATE rewards
		SET deleted_at = now(), deleted_by = $2, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`

	tag, err := r.pool.Exec(ctx, query, id, deletedBy)
	if err != nil {
		return fmt.Errorf("soft delete reward %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrRewardNotFound
	}
	return nil
}
