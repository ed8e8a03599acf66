package blog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/navidved/storefront/internal/db"
	"github.com/navidved/storefront/internal/resource"
	"github.com/navidved/storefront/internal/storage"
)

const columns = `id, title, content, excerpt, author, category, tags, read_time, images, created_at, updated_at`

// Repository handles all blog database operations.
type Repository struct {
	db db.Querier
}

var _ resource.Repository[*Blog] = (*Repository)(nil)

func NewRepository(q db.Querier) *Repository {
	return &Repository{db: q}
}

func scan(row pgx.Row) (*Blog, error) {
	b := &Blog{}
	err := row.Scan(&b.ID, &b.Title, &b.Content, &b.Excerpt, &b.Author, &b.Category,
		&b.Tags, &b.ReadTime, &b.Images, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if b.Images == nil {
		b.Images = []storage.Image{}
	}
	return b, nil
}

// Create inserts a new post.
func (r *Repository) Create(ctx context.Context, b *Blog) (*Blog, error) {
	b.ApplyDefaults()
	created, err := scan(r.db.QueryRow(ctx,
		`INSERT INTO blogs (title, content, excerpt, author, category, tags, read_time, images)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+columns,
		b.Title, b.Content, b.Excerpt, b.Author, b.Category, b.Tags, b.ReadTime, b.Images,
	))
	if err != nil {
		return nil, fmt.Errorf("create blog: %w", err)
	}
	return created, nil
}

// GetByID fetches a post by its UUID.
func (r *Repository) GetByID(ctx context.Context, id string) (*Blog, error) {
	b, err := scan(r.db.QueryRow(ctx, `SELECT `+columns+` FROM blogs WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, resource.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get blog by id: %w", err)
	}
	return b, nil
}

// Update overwrites every mutable column and refreshes updated_at.
func (r *Repository) Update(ctx context.Context, b *Blog) (*Blog, error) {
	b.ApplyDefaults()
	updated, err := scan(r.db.QueryRow(ctx,
		`UPDATE blogs
		 SET title = $2, content = $3, excerpt = $4, author = $5, category = $6,
		     tags = $7, read_time = $8, images = $9, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+columns,
		b.ID, b.Title, b.Content, b.Excerpt, b.Author, b.Category, b.Tags, b.ReadTime, b.Images,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, resource.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update blog: %w", err)
	}
	return updated, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete blog: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return resource.ErrNotFound
	}
	return nil
}

// List returns posts newest first.
func (r *Repository) List(ctx context.Context, f resource.Filter, offset, limit int) ([]*Blog, error) {
	where, args := filterClause(f)
	args = append(args, limit, offset)
	rows, err := r.db.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM blogs%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
			columns, where, len(args)-1, len(args)),
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("list blogs: %w", err)
	}
	defer rows.Close()

	var out []*Blog
	for rows.Next() {
		b, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan blog: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list blogs: %w", err)
	}
	return out, nil
}

func (r *Repository) Count(ctx context.Context, f resource.Filter) (int64, error) {
	where, args := filterClause(f)
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM blogs`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count blogs: %w", err)
	}
	return n, nil
}

func (r *Repository) Stamps(ctx context.Context) ([]resource.Stamp, error) {
	rows, err := r.db.Query(ctx, `SELECT id, updated_at FROM blogs ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list blog stamps: %w", err)
	}
	defer rows.Close()

	var out []resource.Stamp
	for rows.Next() {
		var s resource.Stamp
		if err := rows.Scan(&s.ID, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan blog stamp: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func filterClause(f resource.Filter) (string, []any) {
	if f.Category == "" {
		return "", nil
	}
	return ` WHERE category = $1`, []any{f.Category}
}
