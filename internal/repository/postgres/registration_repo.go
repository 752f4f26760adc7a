package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"eventportals/internal/domain"
)

// registrationQueries holds the registration SQL shared between the plain
// repository (over *sql.DB) and the transaction view (over *sql.Tx).
type registrationQueries struct {
	q Querier
}

type registrationRepository struct {
	registrationQueries
	DB *sql.DB
}

// NewRegistrationRepository returns a domain.RegistrationRepository
// implemented with Postgres.
func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{
		registrationQueries: registrationQueries{q: db},
		DB:                  db,
	}
}

// registrationTx is the transaction-scoped view handed to InTx callbacks.
type registrationTx struct {
	registrationQueries
}

func (r *registrationRepository) InTx(ctx context.Context, fn func(tx domain.RegistrationTx) error) error {
	return runTx(ctx, r.DB, func(tx *sql.Tx) error {
		return fn(&registrationTx{registrationQueries{q: tx}})
	})
}

// EventForUpdate locks the event row until the transaction resolves. Every
// register/cancel unit of work takes this lock first, so the confirmed count
// read below cannot go stale before the corresponding write commits.
func (r *registrationQueries) EventForUpdate(ctx context.Context, eventID string) (*domain.Event, error) {
	query := `
		SELECT id, name, event_code, owner_id, capacity, registration_deadline, description, date, created_at, updated_at
		FROM events
		WHERE id = $1
		FOR UPDATE
	`
	return scanEvent(r.q.QueryRowContext(ctx, query, eventID))
}

func (r *registrationQueries) FindActive(ctx context.Context, eventID, userID string) (*domain.Registration, error) {
	query := `
		SELECT id, event_id, user_id, status, created_at, updated_at
		FROM registrations
		WHERE event_id = $1 AND user_id = $2 AND status IN ('confirmed', 'waitlisted')
	`
	reg := &domain.Registration{}
	err := r.q.QueryRowContext(ctx, query, eventID, userID).
		Scan(&reg.ID, &reg.EventID, &reg.UserID, &reg.Status, &reg.CreatedAt, &reg.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *registrationQueries) CountConfirmed(ctx context.Context, eventID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM registrations
		WHERE event_id = $1 AND status = 'confirmed'
	`
	var n int
	if err := r.q.QueryRowContext(ctx, query, eventID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *registrationQueries) CountActive(ctx context.Context, eventID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM registrations
		WHERE event_id = $1 AND status IN ('confirmed', 'waitlisted')
	`
	var n int
	if err := r.q.QueryRowContext(ctx, query, eventID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *registrationQueries) EarliestWaitlisted(ctx context.Context, eventID string) (*domain.Registration, error) {
	query := `
		SELECT id, event_id, user_id, status, created_at, updated_at
		FROM registrations
		WHERE event_id = $1 AND status = 'waitlisted'
		ORDER BY created_at ASC, id ASC
		LIMIT 1
	`
	reg := &domain.Registration{}
	err := r.q.QueryRowContext(ctx, query, eventID).
		Scan(&reg.ID, &reg.EventID, &reg.UserID, &reg.Status, &reg.CreatedAt, &reg.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *registrationQueries) Insert(ctx context.Context, reg *domain.Registration) error {
	query := `
		INSERT INTO registrations (event_id, user_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.q.QueryRowContext(ctx, query, reg.EventID, reg.UserID, reg.Status, reg.CreatedAt, reg.UpdatedAt).
		Scan(&reg.ID)
	if err != nil {
		// A partial unique index on active rows backs the one-active-
		// registration-per-user invariant even across lost races.
		if isUniqueViolation(err, "registrations_one_active_per_user") {
			return domain.ErrDuplicateRegistration
		}
		return err
	}
	return nil
}

func (r *registrationQueries) UpdateStatus(ctx context.Context, id string, status domain.RegistrationStatus) error {
	query := `
		UPDATE registrations
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.q.ExecContext(ctx, query, id, status)
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

func (r *registrationQueries) InsertTicket(ctx context.Context, t *domain.Ticket) error {
	query := `
		INSERT INTO tickets (id, registration_id, code, issued_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.q.ExecContext(ctx, query, t.ID, t.RegistrationID, t.Code, t.IssuedAt)
	return err
}

// WaitlistPosition ranks by created_at with id as tie-break, counting only
// waitlisted rows, so deleted or cancelled history never skews the rank.
func (r *registrationQueries) WaitlistPosition(ctx context.Context, eventID, registrationID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM registrations w
		JOIN registrations me ON me.id = $2
		WHERE w.event_id = $1
		  AND w.status = 'waitlisted'
		  AND (w.created_at, w.id) <= (me.created_at, me.id)
	`
	var pos int
	if err := r.q.QueryRowContext(ctx, query, eventID, registrationID).Scan(&pos); err != nil {
		return 0, err
	}
	if pos == 0 {
		return 0, domain.ErrNotFound
	}
	return pos, nil
}

func (r *registrationRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Registration, error) {
	query := `
		SELECT id, event_id, user_id, status, created_at, updated_at
		FROM registrations
		WHERE user_id = $1 AND status != 'cancelled'
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regs []*domain.Registration
	for rows.Next() {
		reg := &domain.Registration{}
		if err := rows.Scan(&reg.ID, &reg.EventID, &reg.UserID, &reg.Status, &reg.CreatedAt, &reg.UpdatedAt); err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if regs == nil {
		regs = []*domain.Registration{}
	}
	return regs, nil
}

func (r *registrationRepository) ListByEventID(ctx context.Context, eventID string, p domain.PaginationParams) ([]*domain.Registration, int, error) {
	query := `
		SELECT id, event_id, user_id, status, created_at, updated_at, COUNT(*) OVER() AS total
		FROM registrations
		WHERE event_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID, p.Limit(), p.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var regs []*domain.Registration
	total := 0
	for rows.Next() {
		reg := &domain.Registration{}
		if err := rows.Scan(&reg.ID, &reg.EventID, &reg.UserID, &reg.Status, &reg.CreatedAt, &reg.UpdatedAt, &total); err != nil {
			return nil, 0, err
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if regs == nil {
		regs = []*domain.Registration{}
	}
	return regs, total, nil
}

func (r *registrationQueries) GetByTicketCode(ctx context.Context, code string) (*domain.Registration, error) {
	query := `
		SELECT r.id, r.event_id, r.user_id, r.status, r.created_at, r.updated_at
		FROM registrations r
		JOIN tickets t ON t.registration_id = r.id
		WHERE t.code = $1
	`
	reg := &domain.Registration{}
	err := r.q.QueryRowContext(ctx, query, code).
		Scan(&reg.ID, &reg.EventID, &reg.UserID, &reg.Status, &reg.CreatedAt, &reg.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

// ticketRepository reads issued tickets.
type ticketRepository struct {
	DB *sql.DB
}

// NewTicketRepository returns a domain.TicketRepository implemented with Postgres.
func NewTicketRepository(db *sql.DB) domain.TicketRepository {
	return &ticketRepository{DB: db}
}

func (r *ticketRepository) GetByRegistrationID(ctx context.Context, registrationID string) (*domain.Ticket, error) {
	query := `
		SELECT id, registration_id, code, issued_at
		FROM tickets
		WHERE registration_id = $1
	`
	t := &domain.Ticket{}
	var issuedAt time.Time
	err := r.DB.QueryRowContext(ctx, query, registrationID).
		Scan(&t.ID, &t.RegistrationID, &t.Code, &issuedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	t.IssuedAt = issuedAt
	return t, nil
}
