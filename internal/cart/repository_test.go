package cart

import (
	"context"
	"strings"
	"testing"

	"github.com/angelmondragon/salonstore-backend/pkg/db"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestRepositoryLineLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	repo := NewRepository(f.db)
	user := uuid.New()
	p := f.product(t, 1500, 5, pct(20))

	product, err := repo.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, product.Salon)
	assert.Equal(t, "Glow Studio", product.Salon.Name)

	_, err = repo.GetCartLine(ctx, user, p.ID)
	assert.True(t, db.IsNotFound(err))

	line, err := repo.InsertCartLine(ctx, user, p.ID, 2)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, line.ID)

	found, err := repo.GetCartLine(ctx, user, p.ID)
	require.NoError(t, err)
	assert.Equal(t, line.ID, found.ID)

	updated, err := repo.UpdateCartLineQuantity(ctx, line.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Quantity)

	listed, err := repo.ListCartLines(ctx, user)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.NotNil(t, listed[0].Product)
	require.NotNil(t, listed[0].Product.Salon)
	assert.Equal(t, 20, *listed[0].Product.DiscountPercent)

	removed, err := repo.DeleteCartLine(ctx, uuid.New(), line.ID)
	require.NoError(t, err)
	assert.False(t, removed, "lines owned by other users are left alone")

	removed, err = repo.DeleteCartLine(ctx, user, line.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = repo.GetCartLineByID(ctx, line.ID)
	assert.True(t, db.IsNotFound(err))
}

func TestRepositoryUpdateMissingLine(t *testing.T) {
	f := newFixture(t)
	_, err := NewRepository(f.db).UpdateCartLineQuantity(context.Background(), uuid.New(), 2)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryUniqueLinePerProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	repo := NewRepository(f.db)
	user := uuid.New()
	p := f.product(t, 100, 5, nil)

	_, err := repo.InsertCartLine(ctx, user, p.ID, 1)
	require.NoError(t, err)

	_, err = repo.InsertCartLine(ctx, user, p.ID, 1)
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err, ""))
}

func TestRepositoryWithTxRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	repo := NewRepository(f.db)
	user := uuid.New()
	p := f.product(t, 100, 5, nil)

	err := db.NewFromGorm(f.db).WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := repo.WithTx(tx).InsertCartLine(ctx, user, p.ID, 1); err != nil {
			return err
		}
		return gorm.ErrInvalidTransaction
	})
	require.Error(t, err)

	count, err := repo.DeleteAllCartLines(ctx, user)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRepositoryLockProductMissing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := db.NewFromGorm(f.db).WithTx(ctx, func(tx *gorm.DB) error {
		_, err := NewRepository(f.db).WithTx(tx).LockProduct(ctx, uuid.New())
		return err
	})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

// capturePostgresSQL opens a postgres dialector in dry-run mode and records the
// SQL of every query statement gorm builds.
func capturePostgresSQL(t *testing.T) (*gorm.DB, *[]string) {
	t.Helper()
	conn, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=127.0.0.1 user=salon dbname=salonstore sslmode=disable",
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)

	var statements []string
	require.NoError(t, conn.Callback().Query().After("gorm:query").Register("test:capture_sql", func(tx *gorm.DB) {
		statements = append(statements, tx.Statement.SQL.String())
	}))
	return conn, &statements
}

func productQueries(statements []string) []string {
	var out []string
	for _, stmt := range statements {
		if strings.Contains(stmt, `FROM "products"`) {
			out = append(out, stmt)
		}
	}
	return out
}

func TestLockProductSelectsForUpdateOnPostgres(t *testing.T) {
	conn, statements := capturePostgresSQL(t)
	repo := NewRepository(conn)

	_, _ = repo.LockProduct(context.Background(), uuid.New())

	queries := productQueries(*statements)
	require.NotEmpty(t, queries, "expected a products query, got %v", *statements)
	assert.Contains(t, queries[0], "FOR UPDATE")
}

func TestGetProductDoesNotLockOnPostgres(t *testing.T) {
	conn, statements := capturePostgresSQL(t)
	repo := NewRepository(conn)

	_, _ = repo.GetProduct(context.Background(), uuid.New())

	queries := productQueries(*statements)
	require.NotEmpty(t, queries, "expected a products query, got %v", *statements)
	assert.NotContains(t, queries[0], "FOR UPDATE")
}
