package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prepdeck/qbank-admin/internal/entity"
)

// WizardPostgresRepository persists wizard sessions as JSONB rows, for
// deployments where the gateway runs more than one replica. Rows carry an
// expiry so an abandoned wizard does not live forever.
type WizardPostgresRepository struct {
	db  *pgxpool.Pool
	ttl time.Duration
}

func NewWizardPostgresRepository(db *pgxpool.Pool, ttl time.Duration) *WizardPostgresRepository {
	return &WizardPostgresRepository{
		db:  db,
		ttl: ttl,
	}
}

func (r *WizardPostgresRepository) Get(ctx context.Context, sessionID string) (*entity.WizardSession, error) {
	var state []byte
	err := r.db.QueryRow(ctx,
		`SELECT state FROM wizard_sessions WHERE id = $1 AND expires_at > now()`,
		sessionID,
	).Scan(&state)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrWizardNotFound
		}
		return nil, fmt.Errorf("query wizard session: %w", err)
	}

	var session entity.WizardSession
	if err := json.Unmarshal(state, &session); err != nil {
		return nil, fmt.Errorf("unmarshal wizard session state: %w", err)
	}
	return &session, nil
}

func (r *WizardPostgresRepository) Save(ctx context.Context, session *entity.WizardSession) error {
	state, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal wizard session state: %w", err)
	}

	expiresAt := time.Now().Add(r.ttl)
	_, err = r.db.Exec(ctx,
		`INSERT INTO wizard_sessions (id, state, updated_at, expires_at)
		 VALUES ($1, $2, now(), $3)
		 ON CONFLICT (id) DO UPDATE
		 SET state = EXCLUDED.state, updated_at = now(), expires_at = $3`,
		session.ID, state, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("upsert wizard session: %w", err)
	}
	return nil
}

func (r *WizardPostgresRepository) Delete(ctx context.Context, sessionID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM wizard_sessions WHERE id = $1`, sessionID)
	if err != nil {
		return fmt.Errorf("delete wizard session: %w", err)
	}
	return nil
}

// PurgeExpired removes sessions past their expiry. Called periodically by
// the application loop.
func (r *WizardPostgresRepository) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM wizard_sessions WHERE expires_at <= now()`)
	if err != nil {
		return 0, fmt.Errorf("purge expired wizard sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
