package comment

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, c *Comment) error
	ListByItem(ctx context.Context, itemID int64) ([]*Comment, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, c *Comment) error {
	const query = `
		INSERT INTO public.comments (text, item_id, author_id, created)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	if err := r.pool.QueryRow(ctx, query,
		c.Text, c.ItemID, c.AuthorID, c.Created,
	).Scan(&c.ID); err != nil {
		return fmt.Errorf("create comment failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) ListByItem(ctx context.Context, itemID int64) ([]*Comment, error) {
	const query = `
		SELECT c.id, c.text, c.item_id, c.author_id, u.name, c.created
		FROM public.comments c
		JOIN public.users u ON c.author_id = u.id
		WHERE c.item_id = $1
		ORDER BY c.id
	`

	rows, err := r.pool.Query(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("list comments failed: %w", err)
	}
	defer rows.Close()

	var comments []*Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(
			&c.ID, &c.Text, &c.ItemID, &c.AuthorID, &c.AuthorName, &c.Created,
		); err != nil {
			return nil, fmt.Errorf("scan comment failed: %w", err)
		}
		comments = append(comments, &c)
	}
	return comments, rows.Err()
}
