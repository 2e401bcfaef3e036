package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/datex"
	"github.com/dmitrijs2005/gophjournal/internal/dbx"
	"github.com/dmitrijs2005/gophjournal/internal/models"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const selectUsers = `SELECT UserId, Username, PasswordHash, CreatedAt, LastLogin FROM Users`

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, user *models.User) error {
	query := `INSERT INTO Users (Username, PasswordHash, CreatedAt, LastLogin) VALUES (?, ?, ?, ?)`

	var lastLogin sql.NullString
	if user.LastLogin != nil {
		lastLogin = sql.NullString{String: datex.FormatTimestamp(*user.LastLogin), Valid: true}
	}

	res, err := r.db.ExecContext(ctx, query,
		user.Username, user.PasswordHash, datex.FormatTimestamp(user.CreatedAt), lastLogin)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user %q: %w", user.Username, common.ErrorAlreadyExists)
		}
		return fmt.Errorf("failed to create user %q: %w", user.Username, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted user id: %w", err)
	}
	user.ID = id
	return nil
}

func (r *SQLiteRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, selectUsers+` WHERE Username = ?`, username)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %q: %w", username, common.ErrorNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %q: %w", username, err)
	}
	return u, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, selectUsers+` WHERE UserId = ?`, id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", id, common.ErrorNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return u, nil
}

func (r *SQLiteRepository) Exists(ctx context.Context, username string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM Users WHERE Username = ?`, username).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check user %q: %w", username, err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM Users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	return r.updateOne(ctx, id, `UPDATE Users SET PasswordHash = ? WHERE UserId = ?`, hash, id)
}

func (r *SQLiteRepository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	return r.updateOne(ctx, id, `UPDATE Users SET LastLogin = ? WHERE UserId = ?`, datex.FormatTimestamp(at), id)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM Users WHERE UserId = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete user %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) updateOne(ctx context.Context, id int64, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update user %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("user %d: %w", id, common.ErrorNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		u         models.User
		created   sql.NullString
		lastLogin sql.NullString
	)
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &created, &lastLogin); err != nil {
		return nil, err
	}

	if t, err := datex.Parse(created.String); err == nil {
		u.CreatedAt = t
	}
	if lastLogin.Valid {
		if t, err := datex.Parse(lastLogin.String); err == nil {
			u.LastLogin = &t
		}
	}
	return &u, nil
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	code := se.Code()
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT
}
