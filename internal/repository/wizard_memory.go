package repository

import (
	"context"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/prepdeck/qbank-admin/internal/entity"
)

// WizardMemoryRepository keeps wizard sessions in process memory with a TTL.
// Suitable for single-replica deployments; sessions are transient by
// contract, so losing them on restart only means reopening the wizard.
type WizardMemoryRepository struct {
	sessions *cache.Cache
}

func NewWizardMemoryRepository(ttl time.Duration) *WizardMemoryRepository {
	return &WizardMemoryRepository{
		sessions: cache.New(ttl, ttl/2),
	}
}

func (r *WizardMemoryRepository) Get(ctx context.Context, sessionID string) (*entity.WizardSession, error) {
	item, ok := r.sessions.Get(sessionID)
	if !ok {
		return nil, entity.ErrWizardNotFound
	}

	session, ok := item.(*entity.WizardSession)
	if !ok {
		return nil, entity.ErrWizardNotFound
	}
	return cloneSession(session), nil
}

func (r *WizardMemoryRepository) Save(ctx context.Context, session *entity.WizardSession) error {
	// Store a copy so later mutations of the caller's session do not leak
	// into the cache before the next Save.
	r.sessions.SetDefault(session.ID, cloneSession(session))
	return nil
}

func (r *WizardMemoryRepository) Delete(ctx context.Context, sessionID string) error {
	r.sessions.Delete(sessionID)
	return nil
}
