package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/wardenauth/warden/internal/warden/domain"
)

type clientsRepo struct {
	db dbtx
}

const clientColumns = `id, user_id, name, secret, redirect,
	personal_access_client, password_client, revoked, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (domain.Client, error) {
	var (
		c                    domain.Client
		userID               sql.NullString
		createdAt, updatedAt string
	)

	err := row.Scan(
		&c.ID, &userID, &c.Name, &c.Secret, &c.Redirect,
		&c.PersonalAccessClient, &c.PasswordClient, &c.Revoked,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return domain.Client{}, err
	}

	c.UserID = mapNullString(userID)
	c.CreatedAt = parseTime(createdAt)
	c.UpdatedAt = parseTime(updatedAt)
	return c, nil
}

func (r *clientsRepo) GetClientByID(ctx context.Context, id string) (domain.Client, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE id = ?`, id)

	c, err := scanClient(row)
	if err != nil {
		return domain.Client{}, mapNotFound(err)
	}
	return c, nil
}

func (r *clientsRepo) GetClientForUser(ctx context.Context, id, userID string) (domain.Client, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE id = ? AND user_id = ?`, id, userID)

	c, err := scanClient(row)
	if err != nil {
		return domain.Client{}, mapNotFound(err)
	}
	return c, nil
}

func (r *clientsRepo) ListClientsForUser(ctx context.Context, userID string) ([]domain.Client, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE user_id = ? ORDER BY name ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []domain.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (r *clientsRepo) CreateClient(ctx context.Context, c domain.Client) error {
	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = now
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO clients (`+clientColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, mapStringNull(c.UserID), c.Name, c.Secret, c.Redirect,
		c.PersonalAccessClient, c.PasswordClient, c.Revoked,
		fmtTime(c.CreatedAt), fmtTime(c.UpdatedAt),
	)
	return err
}

func (r *clientsRepo) UpdateClient(ctx context.Context, clientID, name, redirect string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE clients SET name = ?, redirect = ?, updated_at = ? WHERE id = ?`,
		name, redirect, fmtTime(time.Now()), clientID)
	return err
}

func (r *clientsRepo) UpdateClientSecret(ctx context.Context, clientID, secret string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE clients SET secret = ?, updated_at = ? WHERE id = ?`,
		secret, fmtTime(time.Now()), clientID)
	return err
}

func (r *clientsRepo) RevokeClient(ctx context.Context, clientID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE clients SET revoked = 1, updated_at = ? WHERE id = ? AND revoked = 0`,
		fmtTime(time.Now()), clientID)
	return err
}
