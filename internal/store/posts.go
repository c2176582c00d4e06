package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when a post id has no row.
var ErrNotFound = errors.New("post not found")

// Post is a row of the posts table.
type Post struct {
	ID         int64     `db:"id"`
	Title      string    `db:"title"`
	Content    string    `db:"content"`
	Department string    `db:"department"`
	Author     string    `db:"author"`
	CreatedAt  time.Time `db:"created_at"`
}

// Repository reads and writes posts.
type Repository struct {
	dbConn *sqlx.DB
}

// NewRepository wraps an open connection.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{dbConn: db}
}

// Close terminates the database connection.
func (repo *Repository) Close() error {
	if err := repo.dbConn.Close(); err != nil {
		return fmt.Errorf("closing repo: %w", err)
	}
	return nil
}

// PostIDs returns every post id in ascending order.
func (repo *Repository) PostIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := repo.dbConn.SelectContext(ctx, &ids, `SELECT id FROM posts ORDER BY id`); err != nil {
		return nil, fmt.Errorf("fetching post ids: %w", err)
	}
	return ids, nil
}

// Post fetches a single post by id.
func (repo *Repository) Post(ctx context.Context, id int64) (Post, error) {
	var p Post
	err := repo.dbConn.GetContext(ctx, &p, `SELECT id, title, content, department, author, created_at FROM posts WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Post{}, ErrNotFound
		}
		return Post{}, fmt.Errorf("fetching post %d: %w", id, err)
	}
	return p, nil
}

// InsertPost stores a new post and returns its id. A zero CreatedAt is
// replaced with the current time.
func (repo *Repository) InsertPost(ctx context.Context, p Post) (int64, error) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	res, err := repo.dbConn.NamedExecContext(ctx,
		`INSERT INTO posts (title, content, department, author, created_at)
		 VALUES (:title, :content, :department, :author, :created_at)`, p)
	if err != nil {
		return 0, fmt.Errorf("inserting post %q: %w", p.Title, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading inserted id: %w", err)
	}
	return id, nil
}

// CountPosts returns the number of stored posts.
func (repo *Repository) CountPosts(ctx context.Context) (int, error) {
	var n int
	if err := repo.dbConn.GetContext(ctx, &n, `SELECT COUNT(*) FROM posts`); err != nil {
		return 0, fmt.Errorf("counting posts: %w", err)
	}
	return n, nil
}
