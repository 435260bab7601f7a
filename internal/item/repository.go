package item

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Page holds pagination parameters for item listings. From is a page index
// for owner listings and a row offset for search; the two endpoints have
// always paginated differently.
type Page struct {
	From int
	Size int
}

// Repository defines methods for accessing item data from storage.
type Repository interface {
	Create(ctx context.Context, i *Item) error
	GetByID(ctx context.Context, id int64) (*Item, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	Update(ctx context.Context, i *Item) error
	ListByOwner(ctx context.Context, ownerID int64, page *Page) ([]*Item, error)
	Search(ctx context.Context, text string, page *Page) ([]*Item, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, i *Item) error {
	const query = `
		INSERT INTO public.items (name, description, available, owner_id, request_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	if err := r.pool.QueryRow(ctx, query,
		i.Name, i.Description, i.Available, i.OwnerID, i.RequestID,
	).Scan(&i.ID); err != nil {
		return fmt.Errorf("create item failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id int64) (*Item, error) {
	const query = `
		SELECT id, name, description, available, owner_id, request_id
		FROM public.items
		WHERE id = $1
	`

	var i Item
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&i.ID, &i.Name, &i.Description, &i.Available, &i.OwnerID, &i.RequestID,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get item failed: %w", err)
	}
	return &i, nil
}

func (r *pgxRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM public.items WHERE id = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check item exists failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) Update(ctx context.Context, i *Item) error {
	const query = `
		UPDATE public.items
		SET name = $1, description = $2, available = $3
		WHERE id = $4
	`

	ct, err := r.pool.Exec(ctx, query, i.Name, i.Description, i.Available, i.ID)
	if err != nil {
		return fmt.Errorf("update item failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) ListByOwner(ctx context.Context, ownerID int64, page *Page) ([]*Item, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select("id", "name", "description", "available", "owner_id", "request_id").
		From("public.items").
		Where(squirrel.Eq{"owner_id": ownerID}).
		OrderBy("id")

	if page != nil {
		// Owner listings are paginated by page index.
		query = query.Limit(uint64(page.Size)).Offset(uint64(page.From * page.Size))
	}

	return r.queryItems(ctx, query)
}

func (r *pgxRepository) Search(ctx context.Context, text string, page *Page) ([]*Item, error) {
	pattern := "%" + text + "%"

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select("id", "name", "description", "available", "owner_id", "request_id").
		From("public.items").
		Where(squirrel.Eq{"available": true}).
		Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"description": pattern},
		}).
		OrderBy("id")

	if page != nil {
		// Search is paginated by row offset.
		query = query.Limit(uint64(page.Size)).Offset(uint64(page.From))
	}

	return r.queryItems(ctx, query)
}

func (r *pgxRepository) queryItems(ctx context.Context, query squirrel.SelectBuilder) ([]*Item, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build items query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query items failed: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		var i Item
		if err := rows.Scan(
			&i.ID, &i.Name, &i.Description, &i.Available, &i.OwnerID, &i.RequestID,
		); err != nil {
			return nil, fmt.Errorf("scan item failed: %w", err)
		}
		items = append(items, &i)
	}
	return items, rows.Err()
}
