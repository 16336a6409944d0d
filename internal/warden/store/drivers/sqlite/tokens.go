package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/wardenauth/warden/internal/warden/domain"
)

type tokensRepo struct {
	db dbtx
}

const tokenColumns = `id, user_id, client_id, scopes, revoked,
	created_at, updated_at, expires_at`

func scanToken(row rowScanner) (domain.Token, error) {
	var (
		t                               domain.Token
		userID                          sql.NullString
		scopes                          string
		createdAt, updatedAt, expiresAt string
	)

	err := row.Scan(
		&t.ID, &userID, &t.ClientID, &scopes, &t.Revoked,
		&createdAt, &updatedAt, &expiresAt,
	)
	if err != nil {
		return domain.Token{}, err
	}

	t.UserID = mapNullString(userID)
	t.Scopes = splitScopes(scopes)
	t.CreatedAt = parseTime(createdAt)
	t.UpdatedAt = parseTime(updatedAt)
	t.ExpiresAt = parseTime(expiresAt)
	return t, nil
}

func (r *tokensRepo) CreateToken(ctx context.Context, t domain.Token) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tokens (`+tokenColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, mapStringNull(t.UserID), t.ClientID, joinScopes(t.Scopes), t.Revoked,
		fmtTime(t.CreatedAt), fmtTime(t.UpdatedAt), fmtTime(t.ExpiresAt),
	)
	return err
}

func (r *tokensRepo) GetTokenByID(ctx context.Context, id string) (domain.Token, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+tokenColumns+` FROM tokens WHERE id = ?`, id)

	t, err := scanToken(row)
	if err != nil {
		return domain.Token{}, mapNotFound(err)
	}
	return t, nil
}

func (r *tokensRepo) GetTokenForUser(ctx context.Context, id, userID string) (domain.Token, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+tokenColumns+` FROM tokens WHERE id = ? AND user_id = ?`, id, userID)

	t, err := scanToken(row)
	if err != nil {
		return domain.Token{}, mapNotFound(err)
	}
	return t, nil
}

func (r *tokensRepo) ListTokensForUser(ctx context.Context, userID string) ([]domain.Token, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+tokenColumns+` FROM tokens WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []domain.Token
	for rows.Next() {
		t, err := scanToken(rows)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}

func (r *tokensRepo) GetLatestValidToken(
	ctx context.Context,
	userID, clientID string,
	now time.Time,
) (domain.Token, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+tokenColumns+` FROM tokens
		 WHERE user_id = ? AND client_id = ? AND revoked = 0 AND expires_at > ?
		 ORDER BY expires_at DESC
		 LIMIT 1`,
		userID, clientID, fmtTime(now))

	t, err := scanToken(row)
	if err != nil {
		return domain.Token{}, mapNotFound(err)
	}
	return t, nil
}

func (r *tokensRepo) SaveToken(ctx context.Context, t domain.Token) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tokens (`+tokenColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		 	user_id = excluded.user_id,
		 	client_id = excluded.client_id,
		 	scopes = excluded.scopes,
		 	revoked = excluded.revoked,
		 	updated_at = excluded.updated_at,
		 	expires_at = excluded.expires_at`,
		t.ID, mapStringNull(t.UserID), t.ClientID, joinScopes(t.Scopes), t.Revoked,
		fmtTime(t.CreatedAt), fmtTime(t.UpdatedAt), fmtTime(t.ExpiresAt),
	)
	return err
}

func (r *tokensRepo) RevokeToken(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tokens SET revoked = 1, updated_at = ? WHERE id = ? AND revoked = 0`,
		fmtTime(time.Now()), id)
	return err
}

func (r *tokensRepo) RevokeAllClientTokens(ctx context.Context, clientID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tokens SET revoked = 1, updated_at = ? WHERE client_id = ? AND revoked = 0`,
		fmtTime(time.Now()), clientID)
	return err
}
