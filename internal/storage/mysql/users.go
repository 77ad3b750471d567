package mysql

import (
	"context"
	"database/sql"
	"errors"

	"hotel_portal/internal/domain"
)

// DuplicateUser returns a DuplicateUser error when user is already registered.
func (r *Repo) DuplicateUser(ctx context.Context, user string) error {
	ok, err := r.exists(ctx, userExistsSQL, user)
	if err != nil {
		return sqlErr("user exists", err)
	}
	if ok {
		return domain.Failf(domain.DuplicateUser, "user %s", user)
	}
	return nil
}

func (r *Repo) RegisterUser(ctx context.Context, user, hash, salt string) error {
	if err := r.DuplicateUser(ctx, user); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, registerUserSQL, user, hash, salt)
	if isDuplicate(err) {
		return domain.Failf(domain.DuplicateUser, "user %s", user)
	}
	if err != nil {
		return sqlErr("register user", err)
	}
	return nil
}

func (r *Repo) UserSalt(ctx context.Context, user string) (string, error) {
	var salt string
	err := r.db.QueryRowContext(ctx, userSaltSQL, user).Scan(&salt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.Failf(domain.InvalidUser, "user %s", user)
	}
	if err != nil {
		return "", sqlErr("user salt", err)
	}
	return salt, nil
}

// Authenticate checks the stored hash; any mismatch is InvalidLogin.
func (r *Repo) Authenticate(ctx context.Context, user, hash string) error {
	ok, err := r.exists(ctx, authenticateSQL, user, hash)
	if err != nil {
		return sqlErr("authenticate", err)
	}
	if !ok {
		return domain.Failf(domain.InvalidLogin, "user %s", user)
	}
	return nil
}

func (r *Repo) RemoveUser(ctx context.Context, user string) error {
	res, err := r.db.ExecContext(ctx, deleteUserSQL, user)
	if err != nil {
		return sqlErr("remove user", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Failf(domain.InvalidUser, "user %s", user)
	}
	return nil
}

func (r *Repo) LastLogin(ctx context.Context, user string) (domain.LoginTimes, error) {
	var (
		name          string
		last, current sql.NullString
	)
	err := r.db.QueryRowContext(ctx, lastLoginSQL, user).Scan(&name, &last, &current)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.LoginTimes{}, domain.Failf(domain.InvalidUser, "user %s", user)
	}
	if err != nil {
		return domain.LoginTimes{}, sqlErr("last login", err)
	}
	return domain.LoginTimes{Last: last.String, Current: current.String}, nil
}

// UpdateLastLogin shifts the stored current login into lastlogin and records
// current. The row is locked for the read-modify-write.
func (r *Repo) UpdateLastLogin(ctx context.Context, user, current string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return sqlErr("begin", err)
	}
	defer func() { _ = tx.Rollback() }()

	var (
		name           string
		last, previous sql.NullString
	)
	err = tx.QueryRowContext(ctx, lastLoginForUpdateSQL, user).Scan(&name, &last, &previous)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Failf(domain.InvalidUser, "user %s", user)
	}
	if err != nil {
		return sqlErr("read login", err)
	}
	if _, err := tx.ExecContext(ctx, updateLastLoginSQL, valStr(previous.String), current, user); err != nil {
		return sqlErr("update login", err)
	}
	if err := tx.Commit(); err != nil {
		return sqlErr("commit", err)
	}
	return nil
}
