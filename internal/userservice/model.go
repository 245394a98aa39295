package userservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/sushihentaime/startuphub/internal/common"
	"github.com/sushihentaime/startuphub/internal/permission"
)

var (
	ErrDuplicateEmail = errors.New("duplicate email")
)

func NewUserModel(db *sql.DB) *UserModel {
	return &UserModel{db: db}
}

const userColumns = `id, email, full_name, role, bio, avatar_url, created_at, updated_at, version`

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (*User, error) {
	var u User
	err := s.Scan(&u.ID, &u.Email, &u.FullName, &u.Role, &u.Bio, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt, &u.Version)
	if err != nil {
		return nil, err
	}

	return &u, nil
}

func (m *UserModel) insert(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (id, email, full_name, role)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at, version`

	err := m.db.QueryRowContext(ctx, query, u.ID, u.Email, u.FullName, u.Role).Scan(&u.CreatedAt, &u.UpdatedAt, &u.Version)
	if err != nil {
		switch {
		case common.UniqueViolation(err, "users_email_key"):
			return ErrDuplicateEmail
		default:
			return err
		}
	}

	return nil
}

func (m *UserModel) getByID(ctx context.Context, id uuid.UUID) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(m.db.QueryRowContext(ctx, query, id))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return u, nil
}

func (m *UserModel) updateProfile(ctx context.Context, u *User) error {
	query := `
		UPDATE users
		SET full_name = $1, bio = $2, avatar_url = $3, updated_at = NOW(), version = version + 1
		WHERE id = $4 AND version = $5
		RETURNING updated_at, version`

	err := m.db.QueryRowContext(ctx, query, u.FullName, u.Bio, u.AvatarURL, u.ID, u.Version).Scan(&u.UpdatedAt, &u.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return common.ErrEditConflict
		default:
			return err
		}
	}

	return nil
}

func (m *UserModel) updateRole(ctx context.Context, id uuid.UUID, role permission.Role) (*User, error) {
	query := `
		UPDATE users
		SET role = $1, updated_at = NOW(), version = version + 1
		WHERE id = $2
		RETURNING ` + userColumns

	u, err := scanUser(m.db.QueryRowContext(ctx, query, role, id))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return u, nil
}

func (m *UserModel) list(ctx context.Context, limit, offset int) ([]*User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC, email LIMIT $1 OFFSET $2`

	rows, err := m.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}
