package author

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

const selectAuthor = `SELECT id, first_name, last_name, biography, birth_date FROM authors`

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

func scanAuthor(row pgx.Row) (entity.Author, error) {
	a := entity.Author{Books: []entity.BookSummary{}}
	if err := row.Scan(&a.ID, &a.FirstName, &a.LastName, &a.Biography, &a.BirthDate); err != nil {
		return entity.Author{}, err
	}
	a.FullName = entity.FullName(a.FirstName, a.LastName)
	return a, nil
}

func (r *PostgresRepo) GetAll(ctx context.Context) ([]entity.Author, error) {
	defer metrics.ObserveQuery("authors", "get_all", time.Now())
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(ctx, selectAuthor+` ORDER BY last_name, first_name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	authors := []entity.Author{}
	ids := []int64{}
	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, err
		}
		authors = append(authors, a)
		ids = append(ids, a.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	books, err := r.booksByAuthor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range authors {
		if b, ok := books[authors[i].ID]; ok {
			authors[i].Books = b
		}
	}
	return authors, nil
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (entity.Author, error) {
	defer metrics.ObserveQuery("authors", "get_by_id", time.Now())
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	a, err := scanAuthor(r.db.QueryRow(ctx, selectAuthor+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Author{}, ErrNotFound
		}
		return entity.Author{}, err
	}

	books, err := r.booksByAuthor(ctx, []int64{id})
	if err != nil {
		return entity.Author{}, err
	}
	if b, ok := books[id]; ok {
		a.Books = b
	}
	return a, nil
}

func (r *PostgresRepo) booksByAuthor(ctx context.Context, ids []int64) (map[int64][]entity.BookSummary, error) {
	out := make(map[int64][]entity.BookSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, title, isbn, published_date, author_id, category_id
		FROM books
		WHERE author_id = ANY($1)
		ORDER BY published_date DESC, id`, ids)
	if err != nil {
		return nil, fmt.Errorf("load author books: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var b entity.BookSummary
		if err := rows.Scan(&b.ID, &b.Title, &b.ISBN, &b.PublishedDate, &b.AuthorID, &b.CategoryID); err != nil {
			return nil, err
		}
		out[b.AuthorID] = append(out[b.AuthorID], b)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Add(ctx context.Context, a *entity.Author) error {
	defer metrics.ObserveQuery("authors", "add", time.Now())
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.db.QueryRow(ctx, `
		INSERT INTO authors (first_name, last_name, biography, birth_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		a.FirstName, a.LastName, a.Biography, a.BirthDate,
	).Scan(&a.ID)
}

func (r *PostgresRepo) Update(ctx context.Context, a *entity.Author) error {
	defer metrics.ObserveQuery("authors", "update", time.Now())
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE authors
		SET first_name = $2, last_name = $3, biography = $4, birth_date = $5
		WHERE id = $1`,
		a.ID, a.FirstName, a.LastName, a.Biography, a.BirthDate,
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
	defer metrics.ObserveQuery("authors", "delete", time.Now())
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if _, err := r.db.Exec(ctx, `DELETE FROM authors WHERE id = $1`, id); err != nil {
		err = database.Classify(err)
		if errors.Is(err, database.ErrForeignKey) {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (r *PostgresRepo) Count(ctx context.Context) (int, error) {
	defer metrics.ObserveQuery("authors", "count", time.Now())
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM authors`).Scan(&n)
	return n, err
}
