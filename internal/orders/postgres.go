package orders

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type PostgresRepository struct {
	db  *sql.DB
	log *zap.Logger
}

func NewPostgresRepository(ctx context.Context, dsn string, log *zap.Logger) (*PostgresRepository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	log.Info("connected to postgres")
	return &PostgresRepository{db: db, log: log}, nil
}

func (r *PostgresRepository) RunMigrations() error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("could not open migrations: %w", err)
	}

	driver, err := postgres.WithInstance(r.db, &postgres.Config{
		MigrationsTable: "receipts_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Record(ctx context.Context, receipt domain.Receipt) error {
	linesJSON, err := json.Marshal(receipt.Lines)
	if err != nil {
		return fmt.Errorf("failed to marshal receipt lines: %w", err)
	}

	query := `INSERT INTO receipts (order_id, payment_id, user_id, lines, total, currency, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = r.db.ExecContext(ctx, query,
		receipt.OrderID,
		receipt.PaymentID,
		receipt.UserID,
		linesJSON,
		receipt.Total,
		receipt.Currency,
		receipt.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateReceipt
		}
		return fmt.Errorf("%w: insert receipt: %w", domain.ErrExternal, err)
	}
	return nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]domain.Receipt, error) {
	query := `SELECT order_id, payment_id, user_id, lines, total, currency, created_at
	          FROM receipts WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: query receipts by user id: %w", domain.ErrExternal, err)
	}
	defer rows.Close()

	receipts := make([]domain.Receipt, 0)
	for rows.Next() {
		var rc domain.Receipt
		var linesJSON []byte
		if err := rows.Scan(
			&rc.OrderID,
			&rc.PaymentID,
			&rc.UserID,
			&linesJSON,
			&rc.Total,
			&rc.Currency,
			&rc.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan receipt row: %w", err)
		}
		if err := json.Unmarshal(linesJSON, &rc.Lines); err != nil {
			return nil, fmt.Errorf("unmarshal receipt lines: %w", err)
		}
		receipts = append(receipts, rc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return receipts, nil
}

func (r *PostgresRepository) Close() error {
	return r.db.Close()
}
