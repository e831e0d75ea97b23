//go:build integration

package testutil

import (
	"context"
	"fmt"
	"os/exec"
	"testing"
	"time"

	"bookreview/internal/platform/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const postgresImage = "postgres:16-alpine"

// SkipIfNoDocker skips the test when the Docker daemon is not reachable.
func SkipIfNoDocker(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if exec.CommandContext(ctx, "docker", "info").Run() != nil {
		t.Skip("Skipping test: Docker not available")
	}
}

// NewPostgres starts a throwaway PostgreSQL container, applies the embedded
// migrations and returns a pool. Both are released when the test ends.
func NewPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	SkipIfNoDocker(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        postgresImage,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_DB":       "bookreview",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		).WithDeadline(90 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("container port: %v", err)
	}

	dsn := fmt.Sprintf("postgres://postgres:postgres@%s:%s/bookreview?sslmode=disable", host, port.Port())
	pool, err := database.Open(ctx, database.PoolConfig{DSN: dsn, MaxConns: 5, PingTimeout: 10 * time.Second})
	if err != nil {
		t.Fatalf("open pool: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := database.Migrate(ctx, pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return pool
}

// Truncate empties every table and resets identities.
func Truncate(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(),
		`TRUNCATE reviews, books, authors, categories, password_resets, users RESTART IDENTITY CASCADE`)
	if err != nil {
		t.Fatalf("truncate: %v", err)
	}
}

// InsertUser adds a user row directly and returns its id.
func InsertUser(t *testing.T, pool *pgxpool.Pool, id, email string) string {
	t.Helper()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO users (id, email, password_hash, first_name, last_name) VALUES ($1, $2, 'x', 'Test', 'User')`,
		id, email)
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}
	return id
}

// InsertAuthor adds an author row and returns its id.
func InsertAuthor(t *testing.T, pool *pgxpool.Pool, first, last string) int64 {
	t.Helper()
	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO authors (first_name, last_name) VALUES ($1, $2) RETURNING id`, first, last).Scan(&id)
	if err != nil {
		t.Fatalf("insert author: %v", err)
	}
	return id
}

// InsertCategory adds a category row and returns its id.
func InsertCategory(t *testing.T, pool *pgxpool.Pool, name string) int64 {
	t.Helper()
	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO categories (name) VALUES ($1) RETURNING id`, name).Scan(&id)
	if err != nil {
		t.Fatalf("insert category: %v", err)
	}
	return id
}

// InsertBook adds a book row and returns its id. categoryID may be nil.
func InsertBook(t *testing.T, pool *pgxpool.Pool, title string, published time.Time, authorID int64, categoryID *int64) int64 {
	t.Helper()
	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO books (title, published_date, author_id, category_id) VALUES ($1, $2, $3, $4) RETURNING id`,
		title, published, authorID, categoryID).Scan(&id)
	if err != nil {
		t.Fatalf("insert book: %v", err)
	}
	return id
}

// InsertReview adds a review row and returns its id.
func InsertReview(t *testing.T, pool *pgxpool.Pool, bookID int64, userID string, rating int) int64 {
	t.Helper()
	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO reviews (content, rating, book_id, user_id) VALUES ('seeded', $1, $2, $3) RETURNING id`,
		rating, bookID, userID).Scan(&id)
	if err != nil {
		t.Fatalf("insert review: %v", err)
	}
	return id
}
