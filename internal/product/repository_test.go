package product

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navidved/storefront/internal/resource"
)

func newMock(t *testing.T) (pgxmock.PgxPoolIface, *Repository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewRepository(mock)
}

func TestRepositoryGetByIDNotFound(t *testing.T) {
	mock, repo := newMock(t)
	mock.ExpectQuery(`SELECT .+ FROM products WHERE id = \$1`).
		WithArgs("p1").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "p1")

	assert.ErrorIs(t, err, resource.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryCount(t *testing.T) {
	tests := []struct {
		name   string
		filter resource.Filter
		args   []any
	}{
		{"all", resource.Filter{}, nil},
		{"category", resource.Filter{Category: "chairs"}, []any{"chairs"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, repo := newMock(t)
			q := mock.ExpectQuery(`SELECT COUNT\(\*\) FROM products`)
			if tt.args != nil {
				q = q.WithArgs(tt.args...)
			}
			q.WillReturnRows(mock.NewRows([]string{"count"}).AddRow(int64(7)))

			n, err := repo.Count(context.Background(), tt.filter)

			require.NoError(t, err)
			assert.EqualValues(t, 7, n)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepositoryListError(t *testing.T) {
	mock, repo := newMock(t)
	mock.ExpectQuery(`SELECT .+ FROM products WHERE category = \$1 ORDER BY created_at DESC, id DESC LIMIT \$2 OFFSET \$3`).
		WithArgs("chairs", 10, 20).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.List(context.Background(), resource.Filter{Category: "chairs"}, 20, 10)

	assert.ErrorContains(t, err, "list products")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryDelete(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		mock, repo := newMock(t)
		mock.ExpectExec(`DELETE FROM products WHERE id = \$1`).
			WithArgs("p1").
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		assert.NoError(t, repo.Delete(context.Background(), "p1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		mock, repo := newMock(t)
		mock.ExpectExec(`DELETE FROM products WHERE id = \$1`).
			WithArgs("p1").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		assert.ErrorIs(t, repo.Delete(context.Background(), "p1"), resource.ErrNotFound)
	})
}

func TestRepositoryStamps(t *testing.T) {
	mock, repo := newMock(t)
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT id, updated_at FROM products`).
		WillReturnRows(mock.NewRows([]string{"id", "updated_at"}).
			AddRow("p1", ts).
			AddRow("p2", ts.Add(-time.Hour)))

	stamps, err := repo.Stamps(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []resource.Stamp{
		{ID: "p1", UpdatedAt: ts},
		{ID: "p2", UpdatedAt: ts.Add(-time.Hour)},
	}, stamps)
}
