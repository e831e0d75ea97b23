package book

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookreview/internal/entity"
	"bookreview/internal/metrics"
	"bookreview/internal/platform/database"
)

const selectBook = `
	SELECT b.id, b.title, b.isbn, b.description, b.published_date, b.author_id, b.category_id,
	       a.first_name, a.last_name, c.name
	FROM books b
	JOIN authors a ON a.id = b.author_id
	LEFT JOIN categories c ON c.id = b.category_id`

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

func scanBook(row pgx.Row) (entity.Book, error) {
	var (
		b            entity.Book
		author       entity.AuthorSummary
		categoryName *string
	)
	err := row.Scan(
		&b.ID, &b.Title, &b.ISBN, &b.Description, &b.PublishedDate, &b.AuthorID, &b.CategoryID,
		&author.FirstName, &author.LastName, &categoryName,
	)
	if err != nil {
		return entity.Book{}, err
	}

	author.ID = b.AuthorID
	author.FullName = entity.FullName(author.FirstName, author.LastName)
	b.Author = &author
	if b.CategoryID != nil && categoryName != nil {
		b.Category = &entity.CategorySummary{ID: *b.CategoryID, Name: *categoryName}
	}
	b.Reviews = []entity.ReviewSummary{}
	return b, nil
}

func (r *PostgresRepo) queryBooks(ctx context.Context, sql string, args ...any) ([]entity.Book, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := []entity.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachReviews(ctx, books); err != nil {
		return nil, err
	}
	return books, nil
}

func (r *PostgresRepo) attachReviews(ctx context.Context, books []entity.Book) error {
	if len(books) == 0 {
		return nil
	}
	ids := make([]int64, len(books))
	index := make(map[int64]int, len(books))
	for i, b := range books {
		ids[i] = b.ID
		index[b.ID] = i
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, book_id, content, rating, created_date, user_id
		FROM reviews
		WHERE book_id = ANY($1)
		ORDER BY created_date DESC, id DESC`, ids)
	if err != nil {
		return fmt.Errorf("load book reviews: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			rv     entity.ReviewSummary
			bookID int64
		)
		if err := rows.Scan(&rv.ID, &bookID, &rv.Content, &rv.Rating, &rv.CreatedDate, &rv.UserID); err != nil {
			return err
		}
		i := index[bookID]
		books[i].Reviews = append(books[i].Reviews, rv)
	}
	return rows.Err()
}

func (r *PostgresRepo) GetAll(ctx context.Context) ([]entity.Book, error) {
	defer metrics.ObserveQuery("books", "get_all", time.Now())
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.queryBooks(ctx, selectBook+` ORDER BY b.title, b.id`)
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (entity.Book, error) {
	defer metrics.ObserveQuery("books", "get_by_id", time.Now())
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	books, err := r.queryBooks(ctx, selectBook+` WHERE b.id = $1`, id)
	if err != nil {
		return entity.Book{}, err
	}
	if len(books) == 0 {
		return entity.Book{}, ErrNotFound
	}
	return books[0], nil
}

func (r *PostgresRepo) Recent(ctx context.Context, limit int) ([]entity.Book, error) {
	defer metrics.ObserveQuery("books", "recent", time.Now())
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.queryBooks(ctx, selectBook+` ORDER BY b.published_date DESC, b.id DESC LIMIT $1`, limit)
}

func (r *PostgresRepo) Add(ctx context.Context, b *entity.Book) error {
	defer metrics.ObserveQuery("books", "add", time.Now())
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	err := r.db.QueryRow(ctx, `
		INSERT INTO books (title, isbn, description, published_date, author_id, category_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		b.Title, b.ISBN, b.Description, b.PublishedDate, b.AuthorID, b.CategoryID,
	).Scan(&b.ID)
	return classifyWrite(err)
}

func (r *PostgresRepo) Update(ctx context.Context, b *entity.Book) error {
	defer metrics.ObserveQuery("books", "update", time.Now())
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE books
		SET title = $2, isbn = $3, description = $4, published_date = $5, author_id = $6, category_id = $7
		WHERE id = $1`,
		b.ID, b.Title, b.ISBN, b.Description, b.PublishedDate, b.AuthorID, b.CategoryID,
	)
	if err != nil {
		return classifyWrite(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func classifyWrite(err error) error {
	if err == nil {
		return nil
	}
	err = database.Classify(err)
	if constraint, ok := database.ViolatedConstraint(err, database.ErrForeignKey); ok {
		if field, known := constraintFields[constraint]; known {
			return &InvalidReferenceError{Field: field}
		}
	}
	return err
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	defer metrics.ObserveQuery("books", "delete", time.Now())
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	// Reviews go with the book through ON DELETE CASCADE.
	if _, err := r.db.Exec(ctx, `DELETE FROM books WHERE id = $1`, id); err != nil {
		return database.Classify(err)
	}
	return nil
}

func (r *PostgresRepo) Count(ctx context.Context) (int, error) {
	defer metrics.ObserveQuery("books", "count", time.Now())
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM books`).Scan(&n)
	return n, err
}
