package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"jihanki/backend/internal/domain"
	"jihanki/backend/internal/history"
)

// Store persists transaction records in PostgreSQL.
type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(8)
	db.SetMaxOpenConns(30)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Store{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS transactions (
			id             text PRIMARY KEY,
			sales_id       integer NOT NULL,
			slot_id        integer NOT NULL,
			price_amount   bigint NOT NULL,
			payment_method text NOT NULL,
			created_at     timestamptz NOT NULL DEFAULT now()
		)
	`)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Save(ctx context.Context, rec domain.TransactionRecord) error {
	if rec.ID == "" || rec.SlotID < 1 || rec.PriceAmount < 0 {
		return history.ErrInvalidRecord
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (id, sales_id, slot_id, price_amount, payment_method, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, rec.ID, int(rec.SalesID), int(rec.SlotID), rec.PriceAmount, string(rec.PaymentMethod), rec.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return history.ErrInvalidRecord
		}
		return err
	}
	return nil
}

func (s *Store) GetAll(ctx context.Context) ([]domain.TransactionRecord, error) {
	return s.query(ctx, `
		SELECT id, sales_id, slot_id, price_amount, payment_method, created_at
		FROM transactions
		ORDER BY created_at, id
	`)
}

func (s *Store) GetBySlot(ctx context.Context, slotID domain.SlotID) ([]domain.TransactionRecord, error) {
	return s.query(ctx, `
		SELECT id, sales_id, slot_id, price_amount, payment_method, created_at
		FROM transactions
		WHERE slot_id = $1
		ORDER BY created_at, id
	`, int(slotID))
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]domain.TransactionRecord, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]domain.TransactionRecord, 0, 64)
	for rows.Next() {
		var (
			rec     domain.TransactionRecord
			salesID int
			slotID  int
			method  string
		)
		if err := rows.Scan(&rec.ID, &salesID, &slotID, &rec.PriceAmount, &method, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.SalesID = domain.SalesID(salesID)
		rec.SlotID = domain.SlotID(slotID)
		rec.PaymentMethod = domain.PaymentMethod(method)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

func (s *Store) TotalRevenue(ctx context.Context) (int64, error) {
	var total int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(price_amount), 0) FROM transactions
	`).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM transactions`)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
