package category

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookreview/internal/entity"
	"bookreview/internal/metrics"
	"bookreview/internal/platform/database"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) GetAll(ctx context.Context) ([]entity.Category, error) {
	defer metrics.ObserveQuery("categories", "get_all", time.Now())
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT id, name, description FROM categories ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []entity.Category{}
	ids := []int64{}
	for rows.Next() {
		c := entity.Category{Books: []entity.BookSummary{}}
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, err
		}
		categories = append(categories, c)
		ids = append(ids, c.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	books, err := r.booksByCategory(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range categories {
		if b, ok := books[categories[i].ID]; ok {
			categories[i].Books = b
		}
	}
	return categories, nil
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (entity.Category, error) {
	defer metrics.ObserveQuery("categories", "get_by_id", time.Now())
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	c := entity.Category{Books: []entity.BookSummary{}}
	err := r.db.QueryRow(ctx, `SELECT id, name, description FROM categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Category{}, ErrNotFound
		}
		return entity.Category{}, err
	}

	books, err := r.booksByCategory(ctx, []int64{id})
	if err != nil {
		return entity.Category{}, err
	}
	if b, ok := books[id]; ok {
		c.Books = b
	}
	return c, nil
}

func (r *PostgresRepo) booksByCategory(ctx context.Context, ids []int64) (map[int64][]entity.BookSummary, error) {
	out := make(map[int64][]entity.BookSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, title, isbn, published_date, author_id, category_id
		FROM books
		WHERE category_id = ANY($1)
		ORDER BY title, id`, ids)
	if err != nil {
		return nil, fmt.Errorf("load category books: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var b entity.BookSummary
		if err := rows.Scan(&b.ID, &b.Title, &b.ISBN, &b.PublishedDate, &b.AuthorID, &b.CategoryID); err != nil {
			return nil, err
		}
		out[*b.CategoryID] = append(out[*b.CategoryID], b)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Add(ctx context.Context, c *entity.Category) error {
	defer metrics.ObserveQuery("categories", "add", time.Now())
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.db.QueryRow(ctx,
		`INSERT INTO categories (name, description) VALUES ($1, $2) RETURNING id`,
		c.Name, c.Description,
	).Scan(&c.ID)
}

func (r *PostgresRepo) Update(ctx context.Context, c *entity.Category) error {
	defer metrics.ObserveQuery("categories", "update", time.Now())
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(ctx,
		`UPDATE categories SET name = $2, description = $3 WHERE id = $1`,
		c.ID, c.Name, c.Description,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	defer metrics.ObserveQuery("categories", "delete", time.Now())
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	_, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		err = database.Classify(err)
		if errors.Is(err, database.ErrForeignKey) {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (r *PostgresRepo) Count(ctx context.Context) (int, error) {
	defer metrics.ObserveQuery("categories", "count", time.Now())
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM categories`).Scan(&n)
	return n, err
}
