package user

import (
	c "accounts/internal/core/domain/common"
	"accounts/internal/core/domain/user"
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
)

const PG_UNIQUE_CONSTRAINT_ERR_CODE = "23505"
const EMAIL_CONSTRAINT_NAME = "account_email_idx"

const accountColumns = `
	id, email, full_name, phone, password_hash,
	reset_token_hash, reset_token_expires_at, created_at
`

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type PgxUserRepository struct {
	db DBTX
}

func NewPgxRepository(db DBTX) *PgxUserRepository {
	if db == nil {
		panic("Argument db must not be nil.")
	}
	return &PgxUserRepository{db: db}
}

func (r *PgxUserRepository) Create(ctx context.Context, input user.CreateUserInput) (u user.User, err error) {
	row := r.db.QueryRow(
		ctx,
		`INSERT INTO account (id, email, full_name, phone, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+accountColumns,
		encodeID(user.NewID()),
		string(input.Email),
		input.FullName,
		input.Phone,
		string(input.PasswordHash),
		input.CreatedAt,
	)
	u, err = scanUser(row)

	var errEmailUniqueConstraint *pgconn.PgError
	if errors.As(err, &errEmailUniqueConstraint) {
		if errEmailUniqueConstraint.Code == PG_UNIQUE_CONSTRAINT_ERR_CODE &&
			errEmailUniqueConstraint.ConstraintName == EMAIL_CONSTRAINT_NAME {
			return u, user.ErrEmailAlreadyExists
		}
	}
	if err != nil {
		return u, err
	}
	return u, u.Validate()
}

func (r *PgxUserRepository) GetByID(ctx context.Context, id user.ID) (u user.User, err error) {
	row := r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM account WHERE id = $1`, encodeID(id))
	return r.get(row)
}

func (r *PgxUserRepository) GetByEmail(ctx context.Context, email c.Email) (u user.User, err error) {
	row := r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM account WHERE email = $1`, string(email))
	return r.get(row)
}

func (r *PgxUserRepository) List(ctx context.Context, input user.ListUsersInput) ([]user.User, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT `+accountColumns+` FROM account ORDER BY created_at, id LIMIT $1 OFFSET $2`,
		int64(input.Limit),
		int64(input.Offset),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]user.User, 0, input.Limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *PgxUserRepository) Count(ctx context.Context) (uint, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM account`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return uint(count), nil
}

func (r *PgxUserRepository) SetPasswordReset(ctx context.Context, id user.ID, reset user.PasswordReset) error {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE account SET reset_token_hash = $2, reset_token_expires_at = $3 WHERE id = $1`,
		encodeID(id),
		string(reset.TokenHash),
		reset.ExpiresAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserDoesNotExist
	}
	return nil
}

func (r *PgxUserRepository) ClearPasswordReset(
	ctx context.Context,
	id user.ID,
	tokenHash user.PasswordResetTokenHash,
) error {
	_, err := r.db.Exec(
		ctx,
		`UPDATE account SET reset_token_hash = NULL, reset_token_expires_at = NULL
		WHERE id = $1 AND reset_token_hash = $2`,
		encodeID(id),
		string(tokenHash),
	)
	return err
}

func (r *PgxUserRepository) GetByPasswordResetToken(
	ctx context.Context,
	tokenHash user.PasswordResetTokenHash,
	at time.Time,
) (u user.User, err error) {
	row := r.db.QueryRow(
		ctx,
		`SELECT `+accountColumns+` FROM account
		WHERE reset_token_hash = $1 AND reset_token_expires_at > $2`,
		string(tokenHash),
		at,
	)
	u, err = r.get(row)
	if errors.Is(err, user.ErrUserDoesNotExist) {
		return u, user.ErrInvalidPasswordResetToken
	}
	return u, err
}

func (r *PgxUserRepository) ResetPassword(ctx context.Context, input user.ResetPasswordInput) (u user.User, err error) {
	row := r.db.QueryRow(
		ctx,
		`UPDATE account
		SET password_hash = $3, reset_token_hash = NULL, reset_token_expires_at = NULL
		WHERE id = $1 AND reset_token_hash = $2 AND reset_token_expires_at > $4
		RETURNING `+accountColumns,
		encodeID(input.ID),
		string(input.TokenHash),
		string(input.PasswordHash),
		input.At,
	)
	u, err = r.get(row)
	if errors.Is(err, user.ErrUserDoesNotExist) {
		return u, user.ErrInvalidPasswordResetToken
	}
	return u, err
}

func (r *PgxUserRepository) get(row pgx.Row) (u user.User, err error) {
	u, err = scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return u, user.ErrUserDoesNotExist
	}
	if err != nil {
		return u, err
	}
	return u, u.Validate()
}

func encodeID(id user.ID) pgtype.UUID {
	return pgtype.UUID{Bytes: [16]byte(id), Status: pgtype.Present}
}

func scanUser(row pgx.Row) (u user.User, err error) {
	var (
		id                  pgtype.UUID
		email               string
		passwordHash        string
		resetTokenHash      sql.NullString
		resetTokenExpiresAt sql.NullTime
	)
	err = row.Scan(
		&id,
		&email,
		&u.FullName,
		&u.Phone,
		&passwordHash,
		&resetTokenHash,
		&resetTokenExpiresAt,
		&u.CreatedAt,
	)
	if err != nil {
		return u, err
	}
	u.ID = user.ID(id.Bytes)
	u.Email = c.Email(email)
	u.PasswordHash = user.PasswordHash(passwordHash)
	u.CreatedAt = u.CreatedAt.UTC()
	u.PasswordReset = decodePasswordReset(resetTokenHash, resetTokenExpiresAt)
	return u, nil
}

func decodePasswordReset(tokenHash sql.NullString, expiresAt sql.NullTime) c.Optional[user.PasswordReset] {
	if !tokenHash.Valid || !expiresAt.Valid {
		return c.None[user.PasswordReset]()
	}
	return c.Some(user.PasswordReset{
		TokenHash: user.PasswordResetTokenHash(tokenHash.String),
		ExpiresAt: expiresAt.Time.UTC(),
	})
}
