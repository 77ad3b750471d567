package mysql

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"hotel_portal/internal/domain"
)

func (r *Repo) HotelExists(ctx context.Context, id string) (bool, error) {
	ok, err := r.exists(ctx, hotelExistsSQL, id)
	if err != nil {
		return false, sqlErr("hotel exists", err)
	}
	return ok, nil
}

// AddHotel inserts h unless a hotel with the same id is stored (DuplicateHotel).
func (r *Repo) AddHotel(ctx context.Context, h domain.Hotel) error {
	if strings.TrimSpace(h.ID) == "" || strings.TrimSpace(h.Name) == "" {
		return domain.Failf(domain.InvalidHotel, "id %q name %q", h.ID, h.Name)
	}
	ok, err := r.HotelExists(ctx, h.ID)
	if err != nil {
		return err
	}
	if ok {
		return domain.Failf(domain.DuplicateHotel, "hotel %s", h.ID)
	}
	_, err = r.db.ExecContext(ctx, insertHotelSQL,
		h.ID,
		h.Name,
		valStr(h.Street),
		valStr(h.City),
		valStr(h.State),
		h.Lat,
		h.Lng,
		valStr(h.AreaDesc),
		valStr(h.PropertyDesc),
	)
	if isDuplicate(err) {
		return domain.Failf(domain.DuplicateHotel, "hotel %s", h.ID)
	}
	if err != nil {
		return sqlErr("insert hotel", err)
	}
	return nil
}

// RemoveHotel deletes the hotel together with its reviews and saved links.
func (r *Repo) RemoveHotel(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return sqlErr("begin", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, q := range []string{deleteHotelReviewsSQL, deleteHotelSavedSQL} {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return sqlErr("remove hotel children", err)
		}
	}
	res, err := tx.ExecContext(ctx, deleteHotelSQL, id)
	if err != nil {
		return sqlErr("remove hotel", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Failf(domain.InvalidHotel, "hotel %s", id)
	}
	if err := tx.Commit(); err != nil {
		return sqlErr("commit", err)
	}
	return nil
}

func (r *Repo) SetDescriptions(ctx context.Context, id string, d domain.Descriptions) error {
	ok, err := r.HotelExists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.Failf(domain.InvalidHotel, "hotel %s", id)
	}
	if _, err := r.db.ExecContext(ctx, updateDescriptionsSQL, valStr(d.Area), valStr(d.Property), id); err != nil {
		return sqlErr("set descriptions", err)
	}
	return nil
}

func (r *Repo) GetHotel(ctx context.Context, id string) (domain.Hotel, error) {
	h, err := scanHotel(r.db.QueryRowContext(ctx, selectHotelSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Hotel{}, domain.Failf(domain.InvalidHotel, "hotel %s", id)
	}
	if err != nil {
		return domain.Hotel{}, sqlErr("get hotel", err)
	}
	return h, nil
}

func (r *Repo) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	return r.queryHotels(ctx, listHotelsSQL)
}

// SearchHotels matches hotels whose name contains name and whose city equals
// city. A blank argument drops its condition; both blank lists every hotel.
func (r *Repo) SearchHotels(ctx context.Context, name, city string) ([]domain.Hotel, error) {
	var (
		where []string
		args  []any
	)
	if name = strings.TrimSpace(name); name != "" {
		where = append(where, "name LIKE ?")
		args = append(args, "%"+escapeLike(name)+"%")
	}
	if city = strings.TrimSpace(city); city != "" {
		where = append(where, "city = ?")
		args = append(args, city)
	}
	q := searchHotelsBase
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY name, id"
	return r.queryHotels(ctx, q, args...)
}

func (r *Repo) ListCities(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, listCitiesSQL)
	if err != nil {
		return nil, sqlErr("list cities", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, sqlErr("scan city", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, sqlErr("list cities", err)
	}
	return out, nil
}

func (r *Repo) queryHotels(ctx context.Context, q string, args ...any) ([]domain.Hotel, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, sqlErr("query hotels", err)
	}
	defer rows.Close()

	var out []domain.Hotel
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, sqlErr("scan hotel", err)
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, sqlErr("query hotels", err)
	}
	return out, nil
}

type scanner interface{ Scan(dest ...any) error }

func scanHotel(s scanner) (domain.Hotel, error) {
	var (
		h                   domain.Hotel
		street, city, state sql.NullString
		area, property      sql.NullString
		lat, lng            sql.NullFloat64
	)
	if err := s.Scan(&h.ID, &h.Name, &street, &city, &state, &lat, &lng, &area, &property); err != nil {
		return domain.Hotel{}, err
	}
	h.Street, h.City, h.State = street.String, city.String, state.String
	h.Lat, h.Lng = lat.Float64, lng.Float64
	h.AreaDesc, h.PropertyDesc = area.String, property.String
	return h, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
