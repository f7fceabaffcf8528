package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go-bookstore/models"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // pure Go driver
)

// SQLiteStore persists accounts and orders in a single SQLite file. Money is
// stored as decimal text so no precision is lost.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS users(
  email TEXT PRIMARY KEY,
  password TEXT NOT NULL,
  name TEXT NOT NULL,
  address TEXT NOT NULL,
  created_unix INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS orders(
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  order_id TEXT NOT NULL UNIQUE,
  user_email TEXT NOT NULL,
  ship_name TEXT NOT NULL,
  ship_address TEXT NOT NULL,
  ship_city TEXT NOT NULL,
  ship_zip TEXT NOT NULL,
  payment_method TEXT NOT NULL,
  transaction_id TEXT NOT NULL,
  subtotal TEXT NOT NULL,
  discount_code TEXT NOT NULL,
  total TEXT NOT NULL,
  created_unix_nano INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS order_lines(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  order_seq INTEGER NOT NULL,
  position INTEGER NOT NULL,
  title TEXT NOT NULL,
  category TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price TEXT NOT NULL,
  FOREIGN KEY(order_seq) REFERENCES orders(seq) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_email, seq);
CREATE INDEX IF NOT EXISTS idx_lines_order ON order_lines(order_seq, position);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

func (s *SQLiteStore) Close(context.Context) error { return s.db.Close() }

func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	res, err := s.db.ExecContext(ctx, `
  INSERT INTO users(email, password, name, address, created_unix)
  VALUES(?,?,?,?,?)
  ON CONFLICT(email) DO NOTHING`,
		models.NormalizeEmail(user.Email), user.Password, user.Name, user.Address, user.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	if n == 0 {
		return ErrDuplicateUser
	}
	return nil
}

func (s *SQLiteStore) FindUser(ctx context.Context, email string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `
    SELECT email, password, name, address, created_unix
    FROM users WHERE email=?`, models.NormalizeEmail(email))
	var (
		u       models.User
		created int64
	)
	if err := row.Scan(&u.Email, &u.Password, &u.Name, &u.Address, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	u.CreatedAt = time.Unix(created, 0).UTC()
	return &u, nil
}

func (s *SQLiteStore) UpdateUser(ctx context.Context, user *models.User) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET password=?, name=?, address=? WHERE email=?`,
		user.Password, user.Name, user.Address, models.NormalizeEmail(user.Email))
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// AppendOrder writes the order and its lines in one transaction.
func (s *SQLiteStore) AppendOrder(ctx context.Context, email string, o models.Order) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
  INSERT INTO orders(order_id, user_email, ship_name, ship_address, ship_city, ship_zip,
    payment_method, transaction_id, subtotal, discount_code, total, created_unix_nano)
  VALUES(?,?,?,?,?,?,?,?,?,?,?,?)`,
		o.ID, models.NormalizeEmail(email), o.Shipping.Name, o.Shipping.Address, o.Shipping.City, o.Shipping.Zip,
		string(o.Payment.Method), o.Payment.TransactionID, o.Subtotal.String(), o.DiscountCode, o.Total.String(),
		o.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
  INSERT INTO order_lines(order_seq, position, title, category, quantity, unit_price)
  VALUES(?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare lines: %w", err)
	}
	defer stmt.Close()

	for i, l := range o.Lines {
		if _, err := stmt.ExecContext(ctx, seq, i, l.Title, l.Category, l.Quantity, l.UnitPrice.String()); err != nil {
			return fmt.Errorf("insert line: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit order: %w", err)
	}
	return nil
}

func (s *SQLiteStore) OrderHistory(ctx context.Context, email string) ([]models.Order, error) {
	rows, err := s.db.QueryContext(ctx, `
    SELECT seq, order_id, user_email, ship_name, ship_address, ship_city, ship_zip,
      payment_method, transaction_id, subtotal, discount_code, total, created_unix_nano
    FROM orders WHERE user_email=? ORDER BY seq DESC`, models.NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}

	var (
		out  []models.Order
		seqs []int64
	)
	for rows.Next() {
		var (
			o                       models.Order
			seq, created            int64
			method, subtotal, total string
		)
		if err := rows.Scan(&seq, &o.ID, &o.UserEmail, &o.Shipping.Name, &o.Shipping.Address, &o.Shipping.City,
			&o.Shipping.Zip, &method, &o.Payment.TransactionID, &subtotal, &o.DiscountCode, &total, &created); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan order: %w", err)
		}
		o.Payment.Method = models.PaymentMethod(method)
		if o.Subtotal, err = decimal.NewFromString(subtotal); err != nil {
			rows.Close()
			return nil, fmt.Errorf("order %s subtotal: %w", o.ID, err)
		}
		if o.Total, err = decimal.NewFromString(total); err != nil {
			rows.Close()
			return nil, fmt.Errorf("order %s total: %w", o.ID, err)
		}
		o.CreatedAt = time.Unix(0, created).UTC()
		out = append(out, o)
		seqs = append(seqs, seq)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range out {
		lines, err := s.listLines(ctx, seqs[i])
		if err != nil {
			return nil, err
		}
		out[i].Lines = lines
	}
	return out, nil
}

func (s *SQLiteStore) listLines(ctx context.Context, seq int64) ([]models.OrderLine, error) {
	rows, err := s.db.QueryContext(ctx, `
    SELECT title, category, quantity, unit_price
    FROM order_lines WHERE order_seq=? ORDER BY position`, seq)
	if err != nil {
		return nil, fmt.Errorf("query lines: %w", err)
	}
	defer rows.Close()
	var out []models.OrderLine
	for rows.Next() {
		var (
			l     models.OrderLine
			price string
		)
		if err := rows.Scan(&l.Title, &l.Category, &l.Quantity, &price); err != nil {
			return nil, fmt.Errorf("scan line: %w", err)
		}
		if l.UnitPrice, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("line %s price: %w", l.Title, err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
