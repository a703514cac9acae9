package postgres

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"

	"github.com/aparatus/aparatus/store"
)

func (d *DB) CreateBarbershop(ctx context.Context, create *store.Barbershop) (*store.Barbershop, error) {
	phones, err := marshalPhones(create.Phones)
	if err != nil {
		return nil, err
	}

	fields := []string{"uid", "name", "address", "description", "image_url", "phones"}
	args := []any{create.UID, create.Name, create.Address, create.Description, create.ImageURL, phones}

	stmt := "INSERT INTO barbershop (" + strings.Join(fields, ", ") + ") VALUES (" + placeholders(len(args)) + ") RETURNING id, created_ts"
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&create.ID,
		&create.CreatedTs,
	); err != nil {
		return nil, err
	}

	return create, nil
}

func (d *DB) ListBarbershops(ctx context.Context, find *store.FindBarbershop) ([]*store.Barbershop, error) {
	where, args := []string{"TRUE"}, []any{}
	if v := find.ID; v != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "uid = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.NameContains; v != nil {
		where, args = append(where, "name ILIKE "+placeholder(len(args)+1)), append(args, "%"+*v+"%")
	}

	rows, err := d.db.QueryContext(ctx, `
		SELECT id, uid, created_ts, name, address, description, image_url, phones
		FROM barbershop
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY name`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []*store.Barbershop{}
	for rows.Next() {
		barbershop := &store.Barbershop{}
		var phones string
		if err := rows.Scan(
			&barbershop.ID,
			&barbershop.UID,
			&barbershop.CreatedTs,
			&barbershop.Name,
			&barbershop.Address,
			&barbershop.Description,
			&barbershop.ImageURL,
			&phones,
		); err != nil {
			return nil, err
		}
		if barbershop.Phones, err = unmarshalPhones(phones); err != nil {
			return nil, err
		}
		list = append(list, barbershop)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

func (d *DB) CreateBarberService(ctx context.Context, create *store.BarberService) (*store.BarberService, error) {
	fields := []string{"uid", "barbershop_id", "name", "description", "price_cents", "image_url"}
	args := []any{create.UID, create.BarbershopID, create.Name, create.Description, create.PriceCents, create.ImageURL}

	stmt := "INSERT INTO barber_service (" + strings.Join(fields, ", ") + ") VALUES (" + placeholders(len(args)) + ") RETURNING id"
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&create.ID); err != nil {
		return nil, err
	}

	return create, nil
}

func (d *DB) ListBarberServices(ctx context.Context, find *store.FindBarberService) ([]*store.BarberService, error) {
	where, args := []string{"TRUE"}, []any{}
	if v := find.ID; v != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "uid = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.BarbershopID; v != nil {
		where, args = append(where, "barbershop_id = "+placeholder(len(args)+1)), append(args, *v)
	}

	rows, err := d.db.QueryContext(ctx, `
		SELECT id, uid, barbershop_id, name, description, price_cents, image_url
		FROM barber_service
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY id`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []*store.BarberService{}
	for rows.Next() {
		service := &store.BarberService{}
		if err := rows.Scan(
			&service.ID,
			&service.UID,
			&service.BarbershopID,
			&service.Name,
			&service.Description,
			&service.PriceCents,
			&service.ImageURL,
		); err != nil {
			return nil, err
		}
		list = append(list, service)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

func marshalPhones(phones []string) (string, error) {
	if phones == nil {
		phones = []string{}
	}
	buf, err := json.Marshal(phones)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal phones")
	}
	return string(buf), nil
}

func unmarshalPhones(raw string) ([]string, error) {
	phones := []string{}
	if raw == "" {
		return phones, nil
	}
	if err := json.Unmarshal([]byte(raw), &phones); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal phones")
	}
	return phones, nil
}
