package sqlite

import (
	"context"
	"time"

	"github.com/wardenauth/warden/internal/warden/domain"
)

type personalAccessClientsRepo struct {
	db dbtx
}

func (r *personalAccessClientsRepo) CreatePersonalAccessClient(
	ctx context.Context,
	rec domain.PersonalAccessClientRecord,
) error {
	now := time.Now()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = now
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO personal_access_clients (id, client_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?)`,
		rec.ID, rec.ClientID, fmtTime(rec.CreatedAt), fmtTime(rec.UpdatedAt),
	)
	return err
}

func (r *personalAccessClientsRepo) GetLatestPersonalAccessClient(
	ctx context.Context,
) (domain.PersonalAccessClientRecord, error) {
	var (
		rec                  domain.PersonalAccessClientRecord
		createdAt, updatedAt string
	)

	err := r.db.QueryRowContext(ctx,
		`SELECT id, client_id, created_at, updated_at FROM personal_access_clients
		 ORDER BY created_at DESC, id DESC
		 LIMIT 1`,
	).Scan(&rec.ID, &rec.ClientID, &createdAt, &updatedAt)
	if err != nil {
		return domain.PersonalAccessClientRecord{}, mapNotFound(err)
	}

	rec.CreatedAt = parseTime(createdAt)
	rec.UpdatedAt = parseTime(updatedAt)
	return rec, nil
}
