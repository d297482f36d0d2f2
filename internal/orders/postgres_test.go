package orders

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"
)

func setupTestDB(t *testing.T) *PostgresRepository {
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	repo, err := NewPostgresRepository(ctx, dsn, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	require.NoError(t, repo.RunMigrations())
	return repo
}

func TestPostgresRepository_RecordAndList(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	first := newTestReceipt("order_1", "1")
	second := newTestReceipt("order_2", "1")
	second.CreatedAt = first.CreatedAt.Add(time.Hour)
	require.NoError(t, repo.Record(ctx, first))
	require.NoError(t, repo.Record(ctx, second))
	require.NoError(t, repo.Record(ctx, newTestReceipt("order_3", "2")))

	got, err := repo.ListByUser(ctx, "1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "order_2", got[0].OrderID)
	assert.Equal(t, "order_1", got[1].OrderID)
	assert.True(t, first.Total.Equal(got[1].Total))
	assert.Equal(t, "INR", got[1].Currency)
	assert.True(t, first.CreatedAt.Equal(got[1].CreatedAt))
	require.Len(t, got[1].Lines, 1)
	assert.Equal(t, "Premium UI Kit", got[1].Lines[0].Title)
	assert.True(t, first.Lines[0].UnitPrice.Equal(got[1].Lines[0].UnitPrice))
}

func TestPostgresRepository_Duplicate(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.Record(ctx, newTestReceipt("order_1", "1")))
	assert.ErrorIs(t, repo.Record(ctx, newTestReceipt("order_1", "1")), ErrDuplicateReceipt)
}

func TestPostgresRepository_MigrationsIdempotent(t *testing.T) {
	repo := setupTestDB(t)
	assert.NoError(t, repo.RunMigrations())

	got, err := repo.ListByUser(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, got)
}
