package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hyeongirlife/event-management-platform/internal/model"
	"github.com/hyeongirlife/event-management-platform/internal/service"
	"github.com/hyeongirlife/event-management-platform/pkg/database"
)

const eventColumns = `id, name, description, condition, start_date, end_date, status,
	created_by, updated_by, created_at, updated_at`

// eventSortColumns whitelists sortable columns; query parameters use the API's
// camelCase names.
var eventSortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"startDate": "start_date",
	"endDate":   "end_date",
	"name":      "name",
	"status":    "status",
}

// EventRepository provides data access for events using pgx.
type EventRepository struct {
	pool database.Querier
}

// NewEventRepository creates a new EventRepository with the given pool.
func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

// NewEventRepositoryWithQuerier creates an EventRepository with a custom querier.
// This is primarily used for testing.
func NewEventRepositoryWithQuerier(q database.Querier) *EventRepository {
	return &EventRepository{pool: q}
}

// Insert inserts a new event.
// Returns service.ErrEventExists if a non-deleted event with the same name exists.
func (r *EventRepository) Insert(ctx context.Context, event *model.Event) error {
	query := `INSERT INTO events (id, name, description, condition, start_date, end_date, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		event.ID, event.Name, event.Description, event.Condition,
		event.StartDate, event.EndDate, event.Status, event.CreatedBy,
	).Scan(&event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return service.ErrEventExists
		}
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// GetByID retrieves a non-deleted event by id.
// Returns nil, nil if the event is not found (service layer handles this).
func (r *EventRepository) GetByID(ctx context.Context, id string) (*model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 AND deleted_at IS NULL`

	var event model.Event
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&event.ID, &event.Name, &event.Description, &event.Condition,
		&event.StartDate, &event.EndDate, &event.Status,
		&event.CreatedBy, &event.UpdatedBy, &event.CreatedAt, &event.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found - let service handle
		}
		return nil, fmt.Errorf("get event by id %s: %w", id, err)
	}
	return &event, nil
}

// List retrieves one page of non-deleted events matching the query filters,
// plus the total match count.
func (r *EventRepository) List(ctx context.Context, q *model.FindEventsQuery) ([]model.Event, int, error) {
	where := []string{"deleted_at IS NULL"}
	var args []any

	if q.Name != "" {
		args = append(args, "%"+q.Name+"%")
		where = append(where, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if q.Status != "" {
		args = append(args, q.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if q.StartDateAfter != nil {
		args = append(args, *q.StartDateAfter)
		where = append(where, fmt.Sprintf("start_date >= $%d", len(args)))
	}
	if q.StartDateBefore != nil {
		args = append(args, *q.StartDateBefore)
		where = append(where, fmt.Sprintf("start_date <= $%d", len(args)))
	}
	if q.EndDateAfter != nil {
		args = append(args, *q.EndDateAfter)
		where = append(where, fmt.Sprintf("end_date >= $%d", len(args)))
	}
	if q.EndDateBefore != nil {
		args = append(args, *q.EndDateBefore)
		where = append(where, fmt.Sprintf("end_date <= $%d", len(args)))
	}
	whereClause := strings.Join(where, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM events WHERE ` + whereClause
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	orderBy := orderClause(eventSortColumns, q.SortBy, q.SortOrder, "created_at")
	args = append(args, q.Limit, (q.Page-1)*q.Limit)
	listQuery := fmt.Sprintf(`SELECT %s FROM events WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		eventColumns, whereClause, orderBy, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := []model.Event{}
	for rows.Next() {
		var event model.Event
		if err := rows.Scan(
			&event.ID, &event.Name, &event.Description, &event.Condition,
			&event.StartDate, &event.EndDate, &event.Status,
			&event.CreatedBy, &event.UpdatedBy, &event.CreatedAt, &event.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan event row: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate event rows: %w", err)
	}
	return events, total, nil
}

// Update writes the event's mutable fields.
// Returns service.ErrEventNotFound if the event doesn't exist or is deleted,
// and service.ErrEventExists on a name conflict.
func (r *EventRepository) Update(ctx context.Context, event *model.Event) error {
	query := `UPDATE events
		SET name = $2, description = $3, condition = $4, start_date = $5,
			end_date = $6, status = $7, updated_by = $8, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`

	tag, err := r.pool.Exec(ctx, query,
		event.ID, event.Name, event.Description, event.Condition,
		event.StartDate, event.EndDate, event.Status, event.UpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return service.ErrEventExists
		}
		return fmt.Errorf("update event %s: %w", event.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrEventNotFound
	}
	return nil
}

// SoftDelete marks an event as deleted without removing the row.
// Returns service.ErrEventNotFound if the event doesn't exist or is already deleted.
func (r *EventRepository) SoftDelete(ctx context.Context, id, deletedBy string) error {
	query := `UPDATE events
		SET deleted_at = now(), deleted_by = $2, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`

	tag, err := r.pool.Exec(ctx, query, id, deletedBy)
	if err != nil {
		return fmt.Errorf("soft delete event %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrEventNotFound
	}
	return nil
}

// ActivateDue moves SCHEDULED events whose start date has passed to ACTIVE.
// The status guard in the WHERE clause keeps the transition monotonic.
func (r *EventRepository) ActivateDue(ctx context.Context, now time.Time) (int64, error) {
	query := `UPDATE events SET status = $1, updated_at = now()
		WHERE status = $2 AND start_date <= $3 AND deleted_at IS NULL`

	tag, err := r.pool.Exec(ctx, query, model.EventStatusActive, model.EventStatusScheduled, now)
	if err != nil {
		return 0, fmt.Errorf("activate due events: %w", err)
	}
	return tag.RowsAffected(), nil
}

// EndDue moves ACTIVE events whose end date has passed to ENDED.
func (r *EventRepository) EndDue(ctx context.Context, now time.Time) (int64, error) {
	query := `UPDATE events SET status = $1, updated_at = now()
		WHERE status = $2 AND end_date <= $3 AND deleted_at IS NULL`

	tag, err := r.pool.Exec(ctx, query, model.EventStatusEnded, model.EventStatusActive, now)
	if err != nil {
		return 0, fmt.Errorf("end due events: %w", err)
	}
	return tag.RowsAffected(), nil
}

// orderClause resolves a whitelisted sort column and direction, falling back
// to the given default column and DESC. Never interpolates user input.
func orderClause(columns map[string]string, sortBy, sortOrder, defaultColumn string) string {
	col, ok := columns[sortBy]
	if !ok {
		col = defaultColumn
	}
	dir := "DESC"
	if sortOrder == "ASC" {
		dir = "ASC"
	}
	return col + " " + dir
}
