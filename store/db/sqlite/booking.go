package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/aparatus/aparatus/store"
)

func (d *DB) CreateBooking(ctx context.Context, create *store.Booking) (*store.Booking, error) {
	fields := []string{"uid", "user_id", "service_id", "barbershop_id", "date_ts"}
	args := []any{create.UID, create.UserID, create.ServiceID, create.BarbershopID, create.DateTs}

	stmt := "INSERT INTO booking (" + strings.Join(fields, ", ") + ") VALUES (" + placeholders(len(args)) + ") RETURNING id, created_ts, cancelled"
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&create.ID,
		&create.CreatedTs,
		&create.Cancelled,
	); err != nil {
		return nil, err
	}

	return create, nil
}

func (d *DB) ListBookings(ctx context.Context, find *store.FindBooking) ([]*store.Booking, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.ID; v != nil {
		where, args = append(where, "id = ?"), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "uid = ?"), append(args, *v)
	}
	if v := find.UserID; v != nil {
		where, args = append(where, "user_id = ?"), append(args, *v)
	}
	if v := find.BarbershopID; v != nil {
		where, args = append(where, "barbershop_id = ?"), append(args, *v)
	}
	if v := find.DateAfter; v != nil {
		where, args = append(where, "date_ts >= ?"), append(args, *v)
	}
	if v := find.DateBefore; v != nil {
		where, args = append(where, "date_ts < ?"), append(args, *v)
	}
	if find.ExcludeCancelled {
		where = append(where, "cancelled = 0")
	}

	order := "date_ts ASC"
	if find.OrderByDateDesc {
		order = "date_ts DESC"
	}
	query := `
		SELECT id, uid, created_ts, user_id, service_id, barbershop_id, date_ts, cancelled
		FROM booking
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY ` + order
	if v := find.Limit; v != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *v)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []*store.Booking{}
	for rows.Next() {
		booking := &store.Booking{}
		if err := rows.Scan(
			&booking.ID,
			&booking.UID,
			&booking.CreatedTs,
			&booking.UserID,
			&booking.ServiceID,
			&booking.BarbershopID,
			&booking.DateTs,
			&booking.Cancelled,
		); err != nil {
			return nil, err
		}
		list = append(list, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

func (d *DB) UpdateBooking(ctx context.Context, update *store.UpdateBooking) (*store.Booking, error) {
	set, args := []string{}, []any{}
	if v := update.Cancelled; v != nil {
		set, args = append(set, "cancelled = ?"), append(args, *v)
	}
	args = append(args, update.ID)

	booking := &store.Booking{}
	if err := d.db.QueryRowContext(ctx, `
		UPDATE booking
		SET `+strings.Join(set, ", ")+`
		WHERE id = ?
		RETURNING id, uid, created_ts, user_id, service_id, barbershop_id, date_ts, cancelled`,
		args...,
	).Scan(
		&booking.ID,
		&booking.UID,
		&booking.CreatedTs,
		&booking.UserID,
		&booking.ServiceID,
		&booking.BarbershopID,
		&booking.DateTs,
		&booking.Cancelled,
	); err != nil {
		return nil, err
	}

	return booking, nil
}
