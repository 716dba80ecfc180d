package sink

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
)

// record is one order_records row.
type record struct {
	ID            string
	PlacedAt      time.Time
	CustomerName  string
	Phone         string
	Email         string
	Address       string
	Items         string
	TotalAmount   float64
	PaymentMethod string
	Status        string
}

func newRecord(p order.Payload) record {
	placedAt, err := time.Parse(time.RFC3339, p.Date)
	if err != nil {
		placedAt = time.Now().UTC()
	}
	return record{
		ID:            uuid.NewString(),
		PlacedAt:      placedAt,
		CustomerName:  p.CustomerName,
		Phone:         p.Phone,
		Email:         p.Email,
		Address:       p.Address,
		Items:         p.Items,
		TotalAmount:   p.TotalAmount,
		PaymentMethod: p.PaymentMethod,
		Status:        p.Status,
	}
}

func (r record) args() []any {
	return []any{r.ID, r.PlacedAt, r.CustomerName, r.Phone, r.Email, r.Address, r.Items, r.TotalAmount, r.PaymentMethod, r.Status}
}

// DBPool matches the methods from *pgxpool.Pool that we use.
type DBPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// Postgres inserts each order into the order_records table.
type Postgres struct {
	pool DBPool
}

func NewPostgres(pool DBPool) *Postgres {
	return &Postgres{pool: pool}
}

func (s *Postgres) Name() string { return "postgres" }

func (s *Postgres) Submit(ctx context.Context, p order.Payload) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO order_records (id, placed_at, customer_name, phone, email, address, items, total_amount, payment_method, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, newRecord(p).args()...)
	if err != nil {
		return fmt.Errorf("insert order record: %w", err)
	}
	return nil
}

// SQLite keeps a local order log in a single-file database.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

func (s *SQLite) Name() string { return "sqlite" }

func (s *SQLite) Submit(ctx context.Context, p order.Payload) error {
	r := newRecord(p)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO order_records (id, placed_at, customer_name, phone, email, address, items, total_amount, payment_method, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.PlacedAt.Format(time.RFC3339), r.CustomerName, r.Phone, r.Email, r.Address, r.Items, r.TotalAmount, r.PaymentMethod, r.Status)
	if err != nil {
		return fmt.Errorf("insert order record: %w", err)
	}
	return nil
}
