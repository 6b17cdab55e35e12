package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/postboard/postboard-go/internal/model"
)

const accountColumns = `id, public_id, display_name, email, password_hash, created_at, last_login, last_api_activity`

// AccountRepository handles account persistence operations.
type AccountRepository struct {
	db DBTX
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(db DBTX) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create inserts a new account and sets the generated ID on it. Email and
// display name uniqueness is enforced by the schema.
func (r *AccountRepository) Create(ctx context.Context, account *model.Account) error {
	query := `INSERT INTO accounts (public_id, display_name, email, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`

	account.CreatedAt = dbTime(account.CreatedAt)
	result, err := r.db.ExecContext(ctx, query,
		account.PublicID, nullIfEmpty(account.DisplayName), account.Email, account.PasswordHash, account.CreatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			key := violatedKey(err)
			switch {
			case strings.Contains(key, "display_name"):
				return ErrDuplicateDisplayName
			case strings.Contains(key, "email"):
				return ErrDuplicateEmail
			}
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	account.ID = id
	return nil
}

// GetByEmail retrieves an account by email address. Matching is
// case-insensitive on both backends.
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = ?`
	return scanAccount(r.db.QueryRowContext(ctx, query, email))
}

// GetByPublicID retrieves an account by its public identifier.
func (r *AccountRepository) GetByPublicID(ctx context.Context, publicID string) (*model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE public_id = ?`
	return scanAccount(r.db.QueryRowContext(ctx, query, publicID))
}

// List returns every account in registration order.
func (r *AccountRepository) List(ctx context.Context) ([]model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *account)
	}
	return accounts, rows.Err()
}

// TouchLastLogin records a successful login.
func (r *AccountRepository) TouchLastLogin(ctx context.Context, publicID string, at time.Time) error {
	return r.touch(ctx, `UPDATE accounts SET last_login = ? WHERE public_id = ?`, publicID, at)
}

// TouchLastAPIActivity records an authenticated request.
func (r *AccountRepository) TouchLastAPIActivity(ctx context.Context, publicID string, at time.Time) error {
	return r.touch(ctx, `UPDATE accounts SET last_api_activity = ? WHERE public_id = ?`, publicID, at)
}

func (r *AccountRepository) touch(ctx context.Context, query, publicID string, at time.Time) error {
	result, err := r.db.ExecContext(ctx, query, dbTime(at), publicID)
	if err != nil {
		return err
	}
	// MySQL reports 0 affected rows when the value is unchanged, so a
	// second touch within the same second must not look like a miss.
	n, err := rowsAffected(result)
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByPublicID(ctx, publicID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the account row only. Callers remove dependent posts and
// likes first; see Repositories.DeleteAccount.
func (r *AccountRepository) Delete(ctx context.Context, publicID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE public_id = ?`, publicID)
	if err != nil {
		if isForeignKeyError(err) {
			return ErrStillReferenced
		}
		return err
	}
	n, err := rowsAffected(result)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*model.Account, error) {
	var (
		account     model.Account
		displayName sql.NullString
		lastLogin   sql.NullTime
		lastAPI     sql.NullTime
	)
	err := row.Scan(
		&account.ID, &account.PublicID, &displayName, &account.Email, &account.PasswordHash,
		&account.CreatedAt, &lastLogin, &lastAPI,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	account.DisplayName = displayName.String
	account.CreatedAt = account.CreatedAt.UTC()
	account.LastLogin = nullTime(lastLogin)
	account.LastAPIActivity = nullTime(lastAPI)
	return &account, nil
}
