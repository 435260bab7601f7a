package request

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Page holds page-index pagination for request listings.
type Page struct {
	From int
	Size int
}

type Repository interface {
	Create(ctx context.Context, req *Request) error
	GetByID(ctx context.Context, id int64) (*Request, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	ListByRequestor(ctx context.Context, requestorID int64) ([]*Request, error)
	ListOthers(ctx context.Context, requestorID int64, page *Page) ([]*Request, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, req *Request) error {
	const query = `
		INSERT INTO public.requests (description, requestor_id, created)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	if err := r.pool.QueryRow(ctx, query,
		req.Description, req.RequestorID, req.Created,
	).Scan(&req.ID); err != nil {
		return fmt.Errorf("create request failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id int64) (*Request, error) {
	const query = `
		SELECT id, description, requestor_id, created
		FROM public.requests
		WHERE id = $1
	`

	var req Request
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&req.ID, &req.Description, &req.RequestorID, &req.Created,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get request failed: %w", err)
	}

	if err := r.attachItems(ctx, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *pgxRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM public.requests WHERE id = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check request exists failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) ListByRequestor(ctx context.Context, requestorID int64) ([]*Request, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select("id", "description", "requestor_id", "created").
		From("public.requests").
		Where(squirrel.Eq{"requestor_id": requestorID}).
		OrderBy("created DESC")

	return r.queryRequests(ctx, query)
}

func (r *pgxRepository) ListOthers(ctx context.Context, requestorID int64, page *Page) ([]*Request, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select("id", "description", "requestor_id", "created").
		From("public.requests").
		Where(squirrel.NotEq{"requestor_id": requestorID}).
		OrderBy("created DESC")

	if page != nil {
		query = query.Limit(uint64(page.Size)).Offset(uint64(page.From * page.Size))
	}

	return r.queryRequests(ctx, query)
}

func (r *pgxRepository) queryRequests(ctx context.Context, query squirrel.SelectBuilder) ([]*Request, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build requests query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query requests failed: %w", err)
	}
	defer rows.Close()

	var requests []*Request
	for rows.Next() {
		var req Request
		if err := rows.Scan(&req.ID, &req.Description, &req.RequestorID, &req.Created); err != nil {
			return nil, fmt.Errorf("scan request failed: %w", err)
		}
		requests = append(requests, &req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, req := range requests {
		if err := r.attachItems(ctx, req); err != nil {
			return nil, err
		}
	}
	return requests, nil
}

func (r *pgxRepository) attachItems(ctx context.Context, req *Request) error {
	const query = `
		SELECT id, name, description, available, request_id
		FROM public.items
		WHERE request_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, req.ID)
	if err != nil {
		return fmt.Errorf("query request items failed: %w", err)
	}
	defer rows.Close()

	req.Items = make([]AnswerItem, 0)
	for rows.Next() {
		var i AnswerItem
		if err := rows.Scan(&i.ID, &i.Name, &i.Description, &i.Available, &i.RequestID); err != nil {
			return fmt.Errorf("scan request item failed: %w", err)
		}
		req.Items = append(req.Items, i)
	}
	return rows.Err()
}
