package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-plant-doctor/internal/logger"
	"github.com/sbilibin2017/gw-plant-doctor/internal/models"
)

const (
	mysqlDuplicateEntry     = 1062
	postgresUniqueViolation = "23505"
)

// UserSQLRepository stores accounts in the relational users table.
// Queries use ? placeholders and are rebound for the connected driver.
type UserSQLRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewUserSQLRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *UserSQLRepository {
	return &UserSQLRepository{db: db, txGetter: txGetter}
}

// executor returns the request transaction when one is attached to ctx.
func (r *UserSQLRepository) executor(ctx context.Context) sqlx.ExtContext {
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			return tx
		}
	}
	return r.db
}

// GetByEmail returns the account with the given email, or nil when there is none.
func (r *UserSQLRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	const query = `
		SELECT id, username, email, password, role, created_at, updated_at
		FROM users
		WHERE email = ?
		LIMIT 1
	`

	ex := r.executor(ctx)
	var user models.User
	err := sqlx.GetContext(ctx, ex, &user, ex.Rebind(query), email)

	logger.Log.Infow("sql",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{email},
		"result", user.ID,
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns all accounts ordered by id.
func (r *UserSQLRepository) List(ctx context.Context) ([]models.User, error) {
	const query = `
		SELECT id, username, email, password, role, created_at, updated_at
		FROM users
		ORDER BY id
	`

	ex := r.executor(ctx)
	users := []models.User{}
	err := sqlx.SelectContext(ctx, ex, &users, ex.Rebind(query))

	logger.Log.Infow("sql",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{},
		"result", len(users),
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return users, nil
}

// Save inserts a new account. A duplicate email yields models.ErrDuplicateKey.
func (r *UserSQLRepository) Save(ctx context.Context, user *models.User) error {
	const query = `
		INSERT INTO users (username, email, password, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	now := time.Now().UTC()
	args := []any{user.Username, user.Email, user.PasswordHash, user.Role, now, now}

	ex := r.executor(ctx)
	res, err := ex.ExecContext(ctx, ex.Rebind(query), args...)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow("sql",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{user.Username, user.Email, user.Role},
		"result", rowsAffected,
		"error", err,
	)

	if err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("save user %q: %w", user.Email, models.ErrDuplicateKey)
		}
		return err
	}
	user.CreatedAt, user.UpdatedAt = now, now
	return nil
}

// UpdatePassword replaces the stored hash. An unknown email yields models.ErrNotFound.
func (r *UserSQLRepository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	const query = `
		UPDATE users
		SET password = ?, updated_at = ?
		WHERE email = ?
	`
	return r.update(ctx, query, email, passwordHash, time.Now().UTC(), email)
}

// UpdateRole changes the role of an account. An unknown email yields models.ErrNotFound.
func (r *UserSQLRepository) UpdateRole(ctx context.Context, email, role string) error {
	const query = `
		UPDATE users
		SET role = ?, updated_at = ?
		WHERE email = ?
	`
	return r.update(ctx, query, email, role, time.Now().UTC(), email)
}

func (r *UserSQLRepository) update(ctx context.Context, query, email string, args ...any) error {
	ex := r.executor(ctx)
	res, err := ex.ExecContext(ctx, ex.Rebind(query), args...)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow("sql",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{email},
		"result", rowsAffected,
		"error", err,
	)

	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user %q: %w", email, models.ErrNotFound)
	}
	return nil
}

// isDuplicateKey reports whether err is a unique-constraint violation from MySQL or Postgres.
func isDuplicateKey(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == postgresUniqueViolation {
		return true
	}
	return false
}
