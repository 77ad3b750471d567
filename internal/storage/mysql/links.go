package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"hotel_portal/internal/domain"
)

// Links is a (id, user) table: saved hotels or visited Expedia links.
type Links struct {
	db        *sql.DB
	table     string
	duplicate domain.Status
	invalid   domain.Status
}

func newLinks(db *sql.DB, table string, duplicate, invalid domain.Status) *Links {
	return &Links{db: db, table: table, duplicate: duplicate, invalid: invalid}
}

func (l *Links) q(format string) string { return fmt.Sprintf(format, l.table) }

func (l *Links) Save(ctx context.Context, user, id string) error {
	if strings.TrimSpace(user) == "" || strings.TrimSpace(id) == "" {
		return domain.Failf(l.invalid, "user %q id %q", user, id)
	}
	var one int
	err := l.db.QueryRowContext(ctx, l.q(linkExistsFmt), id, user).Scan(&one)
	switch {
	case err == nil:
		return domain.Failf(l.duplicate, "%s %s/%s", l.table, user, id)
	case !errors.Is(err, sql.ErrNoRows):
		return sqlErr(l.table+" exists", err)
	}
	_, err = l.db.ExecContext(ctx, l.q(insertLinkFmt), id, user)
	if isDuplicate(err) {
		return domain.Failf(l.duplicate, "%s %s/%s", l.table, user, id)
	}
	if err != nil {
		return sqlErr(l.table+" insert", err)
	}
	return nil
}

// Remove deletes the pair if it is stored; otherwise the invalid status is returned.
func (l *Links) Remove(ctx context.Context, user, id string) error {
	res, err := l.db.ExecContext(ctx, l.q(deleteLinkFmt), id, user)
	if err != nil {
		return sqlErr(l.table+" delete", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Failf(l.invalid, "%s %s/%s", l.table, user, id)
	}
	return nil
}

func (l *Links) ListByUser(ctx context.Context, user string) ([]string, error) {
	rows, err := l.db.QueryContext(ctx, l.q(listLinksFmt), user)
	if err != nil {
		return nil, sqlErr(l.table+" list", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, sqlErr(l.table+" scan", err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, sqlErr(l.table+" list", err)
	}
	return out, nil
}

func (l *Links) ClearByUser(ctx context.Context, user string) error {
	if _, err := l.db.ExecContext(ctx, l.q(clearLinksFmt), user); err != nil {
		return sqlErr(l.table+" clear", err)
	}
	return nil
}
