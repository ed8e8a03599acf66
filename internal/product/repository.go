package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/navidved/storefront/internal/db"
	"github.com/navidved/storefront/internal/resource"
	"github.com/navidved/storefront/internal/storage"
)

const columns = `id, title, description, price, category, features, tags, in_stock, images, created_at, updated_at`

// Repository handles all product database operations.
type Repository struct {
	db db.Querier
}

var _ resource.Repository[*Product] = (*Repository)(nil)

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(q db.Querier) *Repository {
	return &Repository{db: q}
}

func scan(row pgx.Row) (*Product, error) {
	p := &Product{}
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Price, &p.Category,
		&p.Features, &p.Tags, &p.InStock, &p.Images, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if p.Images == nil {
		p.Images = []storage.Image{}
	}
	return p, nil
}

// Create inserts a new product and returns the stored record.
func (r *Repository) Create(ctx context.Context, p *Product) (*Product, error) {
	p.ApplyDefaults()
	created, err := scan(r.db.QueryRow(ctx,
		`INSERT INTO products (title, description, price, category, features, tags, in_stock, images)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+columns,
		p.Title, p.Description, p.Price, p.Category, p.Features, p.Tags, p.InStock, p.Images,
	))
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return created, nil
}

// GetByID fetches a product by its UUID.
func (r *Repository) GetByID(ctx context.Context, id string) (*Product, error) {
	p, err := scan(r.db.QueryRow(ctx, `SELECT `+columns+` FROM products WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, resource.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product by id: %w", err)
	}
	return p, nil
}

// Update overwrites every mutable column and refreshes updated_at.
func (r *Repository) Update(ctx context.Context, p *Product) (*Product, error) {
	p.ApplyDefaults()
	updated, err := scan(r.db.QueryRow(ctx,
		`UPDATE products
		 SET title = $2, description = $3, price = $4, category = $5, features = $6,
		     tags = $7, in_stock = $8, images = $9, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+columns,
		p.ID, p.Title, p.Description, p.Price, p.Category, p.Features, p.Tags, p.InStock, p.Images,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, resource.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return updated, nil
}

// Delete removes a product row.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return resource.ErrNotFound
	}
	return nil
}

// List returns products newest first.
func (r *Repository) List(ctx context.Context, f resource.Filter, offset, limit int) ([]*Product, error) {
	where, args := filterClause(f)
	args = append(args, limit, offset)
	rows, err := r.db.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM products%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
			columns, where, len(args)-1, len(args)),
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []*Product
	for rows.Next() {
		p, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return out, nil
}

// Count returns the number of products matching f.
func (r *Repository) Count(ctx context.Context, f resource.Filter) (int64, error) {
	where, args := filterClause(f)
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

// Stamps returns id and updated_at of every product.
func (r *Repository) Stamps(ctx context.Context) ([]resource.Stamp, error) {
	rows, err := r.db.Query(ctx, `SELECT id, updated_at FROM products ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list product stamps: %w", err)
	}
	defer rows.Close()

	var out []resource.Stamp
	for rows.Next() {
		var s resource.Stamp
		if err := rows.Scan(&s.ID, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product stamp: %w", err)
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
