package postgres

import (
	"context"
	"strings"

	"github.com/aparatus/aparatus/store"
)

func (d *DB) CreateUser(ctx context.Context, create *store.User) (*store.User, error) {
	fields := []string{"uid", "email", "nickname", "password_hash"}
	args := []any{create.UID, create.Email, create.Nickname, create.PasswordHash}

	stmt := `INSERT INTO "user" (` + strings.Join(fields, ", ") + `) VALUES (` + placeholders(len(args)) + `) RETURNING id, created_ts, updated_ts`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&create.ID,
		&create.CreatedTs,
		&create.UpdatedTs,
	); err != nil {
		return nil, err
	}

	return create, nil
}

func (d *DB) ListUsers(ctx context.Context, find *store.FindUser) ([]*store.User, error) {
	where, args := []string{"TRUE"}, []any{}
	if v := find.ID; v != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "uid = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Email; v != nil {
		where, args = append(where, "email = "+placeholder(len(args)+1)), append(args, *v)
	}

	rows, err := d.db.QueryContext(ctx, `
		SELECT id, uid, created_ts, updated_ts, email, nickname, password_hash
		FROM "user"
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY id`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []*store.User{}
	for rows.Next() {
		user := &store.User{}
		if err := rows.Scan(
			&user.ID,
			&user.UID,
			&user.CreatedTs,
			&user.UpdatedTs,
			&user.Email,
			&user.Nickname,
			&user.PasswordHash,
		); err != nil {
			return nil, err
		}
		list = append(list, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}
