package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	drv "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"hotel_portal/internal/domain"
)

const errDuplicateKey = 1062

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

// sqlErr tags a driver error as SqlException.
func sqlErr(op string, err error) error {
	return domain.Fail(domain.SqlException, fmt.Errorf("%s: %w", op, err))
}

func isDuplicate(err error) bool {
	var me *drv.MySQLError
	return errors.As(err, &me) && me.Number == errDuplicateKey
}

type Repo struct {
	db      *sql.DB
	saved   *Links
	visited *Links
}

func New(db *sql.DB) *Repo {
	return &Repo{
		db:      db,
		saved:   newLinks(db, savedHotelsTable, domain.DuplicateSaveHotel, domain.InvalidSaveHotel),
		visited: newLinks(db, visitedLinksTable, domain.DuplicateLink, domain.InvalidLink),
	}
}

// Connect opens a pooled handle and verifies it answers.
func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, domain.Fail(domain.ConnectionFailed, err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, domain.Fail(domain.ConnectionFailed, err)
	}
	return db, nil
}

// EnsureSchema creates any missing table.
func (r *Repo) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		createHotelsSQL,
		createReviewsSQL,
		createUsersSQL,
		fmt.Sprintf(createLinkTableFmt, savedHotelsTable),
		fmt.Sprintf(createLinkTableFmt, visitedLinksTable),
	}
	for _, s := range stmts {
		if _, err := r.db.ExecContext(ctx, s); err != nil {
			return domain.Fail(domain.CreateFailed, err)
		}
	}
	log.Debug().Int("tables", len(stmts)).Msg("schema ready")
	return nil
}

func (r *Repo) SavedHotels() *Links  { return r.saved }
func (r *Repo) VisitedLinks() *Links { return r.visited }

// exists runs a single-row existence query.
func (r *Repo) exists(ctx context.Context, q string, args ...any) (bool, error) {
	var one any
	err := r.db.QueryRowContext(ctx, q, args...).Scan(&one)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		return false, err
	}
	return true, nil
}
