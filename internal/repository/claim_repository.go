package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hyeongirlife/event-management-platform/internal/model"
	"github.com/hyeongirlife/event-management-platform/internal/service"
	"github.com/hyeongirlife/event-management-platform/pkg/database"
)

const claimColumns = `id, user_id, event_id, status, validated_at, rewarded_at, failure_reason,
	granted_rewards, granted_reward_details, created_at, updated_at`

var claimSortColumns = map[string]string{
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"status":      "status",
	"validatedAt": "validated_at",
}

// ClaimRepository provides data access for user reward claim entries using pgx.
// Entries are append-only: this repository inserts and reads, never updates.
type ClaimRepository struct {
	pool database.Querier
}

// NewClaimRepository creates a new ClaimRepository with the given pool.
func NewClaimRepository(pool *pgxpool.Pool) *ClaimRepository {
	return &ClaimRepository{pool: pool}
}

// NewClaimRepositoryWithQuerier creates a ClaimRepository with a custom querier.
// This is primarily used for testing.
func NewClaimRepositoryWithQuerier(q database.Querier) *ClaimRepository {
	return &ClaimRepository{pool: q}
}

// GetByUserAndEvent retrieves the claim entry for a (user, event) pair.
// Returns nil, nil if no entry exists (service layer handles this).
func (r *ClaimRepository) GetByUserAndEvent(ctx context.Context, userID, eventID string) (*model.ClaimEntry, error) {
	query := `SELECT ` + claimColumns + ` FROM user_reward_entries
		WHERE user_id = $1 AND event_id = $2`

	entry, err := scanClaimEntry(r.pool.QueryRow(ctx, query, userID, eventID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get claim entry for user %s event %s: %w", userID, eventID, err)
	}
	return entry, nil
}

// InsertUnique inserts a new claim entry, relying on the (user_id, event_id)
// unique constraint to serialize concurrent claims.
// Returns service.ErrDuplicateClaim if an entry for the pair already exists.
func (r *ClaimRepository) InsertUnique(ctx context.Context, entry *model.ClaimEntry) error {
	details, err := json.Marshal(entry.GrantedRewardDetails)
	if err != nil {
		return fmt.Errorf("marshal granted reward details: %w", err)
	}

	query := `INSERT INTO user_reward_entries
		(id, user_id, event_id, status, validated_at, rewarded_at, failure_reason, granted_rewards, granted_reward_details)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	err = r.pool.QueryRow(ctx, query,
		entry.ID, entry.UserID, entry.EventID, entry.Status,
		entry.ValidatedAt, entry.RewardedAt, entry.FailureReason,
		entry.GrantedRewards, details,
	).Scan(&entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return service.ErrDuplicateClaim
		}
		return fmt.Errorf("insert claim entry: %w", err)
	}
	return nil
}

// List retrieves one page of claim entries matching the query filters, plus
// the total match count.
func (r *ClaimRepository) List(ctx context.Context, q *model.FindClaimsQuery) ([]model.ClaimEntry, int, error) {
	where := []string{"TRUE"}
	var args []any

	if q.UserID != "" {
		args = append(args, q.UserID)
		where = append(where, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if q.EventID != "" {
		args = append(args, q.EventID)
		where = append(where, fmt.Sprintf("event_id = $%d", len(args)))
	}
	if q.Status != "" {
		args = append(args, q.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	whereClause := strings.Join(where, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM user_reward_entries WHERE ` + whereClause
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count claim entries: %w", err)
	}

	orderBy := orderClause(claimSortColumns, q.SortBy, q.SortOrder, "created_at")
	args = append(args, q.Limit, (q.Page-1)*q.Limit)
	listQuery := fmt.Sprintf(`SELECT %s FROM user_reward_entries WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		claimColumns, whereClause, orderBy, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list claim entries: %w", err)
	}
	defer rows.Close()

	entries := []model.ClaimEntry{}
	for rows.Next() {
		entry, err := scanClaimEntry(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan claim entry row: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate claim entry rows: %w", err)
	}
	return entries, total, nil
}

func scanClaimEntry(row pgx.Row) (*model.ClaimEntry, error) {
	var entry model.ClaimEntry
	var details []byte
	err := row.Scan(
		&entry.ID, &entry.UserID, &entry.EventID, &entry.Status,
		&entry.ValidatedAt, &entry.RewardedAt, &entry.FailureReason,
		&entry.GrantedRewards, &details,
		&entry.CreatedAt, &entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if entry.GrantedRewards == nil {
		entry.GrantedRewards = []string{}
	}
	entry.GrantedRewardDetails = []model.RewardSnapshot{}
	if len(details) > 0 {
		if err := json.Unmarshal(details, &entry.GrantedRewardDetails); err != nil {
			return nil, fmt.Errorf("unmarshal granted reward details: %w", err)
		}
	}
	return &entry, nil
}
