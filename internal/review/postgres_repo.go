package review

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookreview/internal/entity"
	"bookreview/internal/metrics"
	"bookreview/internal/platform/database"
)

const selectReview = `
	SELECT r.id, r.content, r.rating, r.created_date, r.book_id, r.user_id,
	       b.title, b.isbn, b.published_date, b.author_id, b.category_id,
	       u.email
	FROM reviews r
	JOIN books b ON b.id = r.book_id
	JOIN users u ON u.id = r.user_id`

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

func scanReview(row pgx.Row) (entity.Review, error) {
	var (
		rv    entity.Review
		book  entity.BookSummary
		email string
	)
	err := row.Scan(
		&rv.ID, &rv.Content, &rv.Rating, &rv.CreatedDate, &rv.BookID, &rv.UserID,
		&book.Title, &book.ISBN, &book.PublishedDate, &book.AuthorID, &book.CategoryID,
		&email,
	)
	if err != nil {
		return entity.Review{}, err
	}
	book.ID = rv.BookID
	rv.Book = &book
	// Accounts sign in with their email, so it doubles as the user name.
	rv.User = &entity.ReviewUser{ID: rv.UserID, UserName: email, Email: email}
	return rv, nil
}

func (r *PostgresRepo) queryReviews(ctx context.Context, sql string, args ...any) ([]entity.Review, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []entity.Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}

func (r *PostgresRepo) GetAll(ctx context.Context) ([]entity.Review, error) {
	defer metrics.ObserveQuery("reviews", "get_all", time.Now())
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.queryReviews(ctx, selectReview+` ORDER BY r.created_date DESC, r.id DESC`)
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (entity.Review, error) {
	defer metrics.ObserveQuery("reviews", "get_by_id", time.Now())
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rv, err := scanReview(r.db.QueryRow(ctx, selectReview+` WHERE r.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Review{}, ErrNotFound
		}
		return entity.Review{}, err
	}
	return rv, nil
}

func (r *PostgresRepo) GetByBookID(ctx context.Context, bookID int64) ([]entity.Review, error) {
	defer metrics.ObserveQuery("reviews", "get_by_book", time.Now())
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.queryReviews(ctx, selectReview+` WHERE r.book_id = $1 ORDER BY r.created_date DESC, r.id DESC`, bookID)
}

func (r *PostgresRepo) BookExists(ctx context.Context, bookID int64) (bool, error) {
	defer metrics.ObserveQuery("books", "exists", time.Now())
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM books WHERE id = $1)`, bookID).Scan(&exists)
	return exists, err
}

func (r *PostgresRepo) Add(ctx context.Context, rv *entity.Review) error {
	defer metrics.ObserveQuery("reviews", "add", time.Now())
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	err := r.db.QueryRow(ctx, `
		INSERT INTO reviews (content, rating, book_id, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_date`,
		rv.Content, rv.Rating, rv.BookID, rv.UserID,
	).Scan(&rv.ID, &rv.CreatedDate)
	return classifyWrite(err)
}

func (r *PostgresRepo) Update(ctx context.Context, rv *entity.Review) error {
	defer metrics.ObserveQuery("reviews", "update", time.Now())
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE reviews SET content = $2, rating = $3, book_id = $4
		WHERE id = $1`,
		rv.ID, rv.Content, rv.Rating, rv.BookID,
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
	if errors.Is(err, database.ErrCheck) {
		return ErrInvalidRating
	}
	return err
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	defer metrics.ObserveQuery("reviews", "delete", time.Now())
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	_, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	return err
}

func (r *PostgresRepo) Count(ctx context.Context) (int, error) {
	defer metrics.ObserveQuery("reviews", "count", time.Now())
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reviews`).Scan(&n)
	return n, err
}

func (r *PostgresRepo) AverageRating(ctx context.Context) (float64, error) {
	defer metrics.ObserveQuery("reviews", "average_rating", time.Now())
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var avg float64
	err := r.db.QueryRow(ctx, `SELECT COALESCE(AVG(rating), 0)::float8 FROM reviews`).Scan(&avg)
	return avg, err
}
