package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id int64) (*Booking, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)

	// UpdateStatus sets the status of a booking unless it has already been
	// approved. It reports whether a row was updated, so of two racing
	// approval attempts exactly one succeeds and the other observes false.
	UpdateStatus(ctx context.Context, id int64, status Status) (bool, error)

	// ListByState runs one of the twelve listing shapes: {six states} x
	// {by booker, by items' owner}, optionally paginated, classified against
	// the single now supplied by the caller.
	ListByState(ctx context.Context, subjectID int64, role Role, state State, now time.Time, page *Page) ([]*Booking, error)

	// Item-view lookups for last/next booking display.
	LastEndedForItem(ctx context.Context, itemID int64, now time.Time) (*Booking, error)
	NextApprovedForItem(ctx context.Context, itemID int64, now time.Time) (*Booking, error)
	LastEndedForOwner(ctx context.Context, ownerID int64, now time.Time) (*Booking, error)
	EarliestStartedForOwner(ctx context.Context, ownerID int64, now time.Time) (*Booking, error)
	NextApprovedForOwner(ctx context.Context, ownerID int64, now time.Time) (*Booking, error)

	// ExistsFinished reports whether the booker has a booking of the item
	// that ended strictly before now. Comment eligibility depends on it.
	ExistsFinished(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var bookingColumns = []string{
	"b.id", "b.item_id", "i.name", "i.owner_id",
	"b.booker_id", "u.name",
	"b.start_time", "b.end_time", "b.status",
}

func selectBookings() squirrel.SelectBuilder {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	return psql.Select(bookingColumns...).
		From("public.bookings b").
		Join("public.items i ON b.item_id = i.id").
		Join("public.users u ON b.booker_id = u.id")
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	if err := row.Scan(
		&b.ID, &b.ItemID, &b.ItemName, &b.ItemOwnerID,
		&b.BookerID, &b.BookerName,
		&b.StartTime, &b.EndTime, &b.Status,
	); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.bookings").
		Columns("item_id", "booker_id", "start_time", "end_time", "status").
		Values(b.ItemID, b.BookerID, b.StartTime, b.EndTime, b.Status).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&b.ID); err != nil {
		return fmt.Errorf("create booking failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id int64) (*Booking, error) {
	query, args, err := selectBookings().Where(squirrel.Eq{"b.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM public.bookings WHERE id = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check booking exists failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id int64, status Status) (bool, error) {
	// The predicate keeps the approval decision single-shot: once APPROVED,
	// no further decision can land, even under concurrent calls.
	const query = `
		UPDATE public.bookings
		SET status = $1
		WHERE id = $2 AND status <> 'APPROVED'
	`

	ct, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return false, fmt.Errorf("update booking status failed: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

// listClauses translates a (role, state) pair into SQL conditions and the
// ordering the wire contract defines for that shape. The lone asymmetry:
// the paginated ALL-by-owner listing is oldest-first while every other ALL
// listing is newest-first. Existing clients depend on it, so it stays.
func listClauses(role Role, state State, now time.Time, paginated bool) (conds []squirrel.Sqlizer, orderBy string) {
	switch state {
	case StateAll:
		if role == RoleOwner && paginated {
			orderBy = "b.start_time ASC"
		} else {
			orderBy = "b.start_time DESC"
		}
	case StateCurrent:
		conds = append(conds,
			squirrel.LtOrEq{"b.start_time": now},
			squirrel.GtOrEq{"b.end_time": now},
		)
	case StatePast:
		conds = append(conds, squirrel.Lt{"b.end_time": now})
		orderBy = "b.start_time DESC"
	case StateFuture:
		conds = append(conds, squirrel.Gt{"b.start_time": now})
		orderBy = "b.start_time DESC"
	case StateWaiting:
		conds = append(conds, squirrel.Eq{"b.status": StatusWaiting})
	case StateRejected:
		conds = append(conds, squirrel.Eq{"b.status": StatusRejected})
	}
	return conds, orderBy
}

func subjectClause(subjectID int64, role Role) squirrel.Sqlizer {
	if role == RoleOwner {
		return squirrel.Eq{"i.owner_id": subjectID}
	}
	return squirrel.Eq{"b.booker_id": subjectID}
}

func (r *pgxRepository) ListByState(ctx context.Context, subjectID int64, role Role, state State, now time.Time, page *Page) ([]*Booking, error) {
	query := selectBookings().Where(subjectClause(subjectID, role))

	conds, orderBy := listClauses(role, state, now, page != nil)
	for _, cond := range conds {
		query = query.Where(cond)
	}
	if orderBy != "" {
		query = query.OrderBy(orderBy)
	}

	if page != nil {
		query = query.
			Limit(uint64(page.Size)).
			Offset(uint64(page.Number() * page.Size))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *pgxRepository) queryOne(ctx context.Context, query squirrel.SelectBuilder) (*Booking, error) {
	sql, args, err := query.Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build booking lookup failed: %w", err)
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("booking lookup failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) LastEndedForItem(ctx context.Context, itemID int64, now time.Time) (*Booking, error) {
	return r.queryOne(ctx, selectBookings().
		Where(squirrel.Eq{"b.item_id": itemID}).
		Where(squirrel.Lt{"b.end_time": now}).
		OrderBy("b.end_time DESC"))
}

func (r *pgxRepository) NextApprovedForItem(ctx context.Context, itemID int64, now time.Time) (*Booking, error) {
	return r.queryOne(ctx, selectBookings().
		Where(squirrel.Eq{"b.item_id": itemID, "b.status": StatusApproved}).
		Where(squirrel.Gt{"b.start_time": now}).
		OrderBy("b.start_time ASC"))
}

func (r *pgxRepository) LastEndedForOwner(ctx context.Context, ownerID int64, now time.Time) (*Booking, error) {
	return r.queryOne(ctx, selectBookings().
		Where(squirrel.Eq{"i.owner_id": ownerID}).
		Where(squirrel.Lt{"b.end_time": now}).
		OrderBy("b.end_time DESC"))
}

func (r *pgxRepository) EarliestStartedForOwner(ctx context.Context, ownerID int64, now time.Time) (*Booking, error) {
	return r.queryOne(ctx, selectBookings().
		Where(squirrel.Eq{"i.owner_id": ownerID}).
		Where(squirrel.Lt{"b.start_time": now}).
		OrderBy("b.end_time ASC"))
}

func (r *pgxRepository) NextApprovedForOwner(ctx context.Context, ownerID int64, now time.Time) (*Booking, error) {
	return r.queryOne(ctx, selectBookings().
		Where(squirrel.Eq{"i.owner_id": ownerID, "b.status": StatusApproved}).
		Where(squirrel.Gt{"b.start_time": now}).
		OrderBy("b.start_time ASC"))
}

func (r *pgxRepository) ExistsFinished(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sub, args, err := psql.Select("1").
		From("public.bookings").
		Where(squirrel.Eq{"booker_id": bookerID, "item_id": itemID}).
		Where(squirrel.Lt{"end_time": now}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build finished booking query failed: %w", err)
	}

	query := "SELECT EXISTS (" + sub + ")"

	var exists bool
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check finished booking failed: %w", err)
	}
	return exists, nil
}
