package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"eventportals/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

const eventColumns = "id, name, event_code, owner_id, capacity, registration_deadline, description, date, created_at, updated_at"

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner, extra ...any) (*domain.Event, error) {
	e := &domain.Event{}
	var capacityNull sql.NullInt64
	var deadlineNull, dateNull sql.NullTime
	var descNull sql.NullString
	dest := []any{
		&e.ID, &e.Name, &e.EventCode, &e.OwnerID,
		&capacityNull, &deadlineNull, &descNull, &dateNull,
		&e.CreatedAt, &e.UpdatedAt,
	}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if capacityNull.Valid {
		capacity := int(capacityNull.Int64)
		e.Capacity = &capacity
	}
	if deadlineNull.Valid {
		e.RegistrationDeadline = &deadlineNull.Time
	}
	if descNull.Valid {
		e.Description = &descNull.String
	}
	if dateNull.Valid {
		e.Date = &dateNull.Time
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (name, event_code, owner_id, capacity, registration_deadline, description, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		e.Name, e.EventCode, e.OwnerID, e.Capacity, e.RegistrationDeadline,
		e.Description, e.Date, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE id = $1`, eventColumns)
	return scanEvent(r.DB.QueryRowContext(ctx, query, id))
}

func (r *eventRepository) GetByEventCode(ctx context.Context, eventCode string) (*domain.Event, error) {
	code := strings.ToLower(strings.TrimSpace(eventCode))
	query := fmt.Sprintf(`SELECT %s FROM events WHERE event_code = $1`, eventColumns)
	return scanEvent(r.DB.QueryRowContext(ctx, query, code))
}

func (r *eventRepository) ListByOwnerID(ctx context.Context, ownerID string) ([]*domain.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM events
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, eventColumns)
	rows, err := r.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (r *eventRepository) List(ctx context.Context, p domain.PaginationParams) ([]*domain.Event, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total FROM events
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, eventColumns)
	rows, err := r.DB.QueryContext(ctx, query, p.Limit(), p.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var events []*domain.Event
	total := 0
	for rows.Next() {
		e, err := scanEvent(rows, &total)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, total, nil
}

func (r *eventRepository) Update(ctx context.Context, eventID string, upd domain.EventUpdate) (*domain.Event, error) {
	set := []string{"updated_at = NOW()"}
	args := []any{eventID}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if upd.Name != nil {
		set = append(set, "name = "+arg(*upd.Name))
	}
	if upd.ClearCapacity {
		set = append(set, "capacity = NULL")
	} else if upd.Capacity != nil {
		set = append(set, "capacity = "+arg(*upd.Capacity))
	}
	if upd.ClearDeadline {
		set = append(set, "registration_deadline = NULL")
	} else if upd.Deadline != nil {
		set = append(set, "registration_deadline = "+arg(*upd.Deadline))
	}
	if upd.Description != nil {
		set = append(set, "description = "+arg(*upd.Description))
	}
	if upd.Date != nil {
		set = append(set, "date = "+arg(*upd.Date))
	}

	query := fmt.Sprintf(`
		UPDATE events SET %s
		WHERE id = $1
		RETURNING %s
	`, strings.Join(set, ", "), eventColumns)
	return scanEvent(r.DB.QueryRowContext(ctx, query, args...))
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
