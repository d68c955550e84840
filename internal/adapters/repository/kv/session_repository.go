package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/democrasee/internal/core/domain"
	"github.com/vncsmyrnk/democrasee/internal/core/ports"
)

type SessionRepository struct {
	store ports.Store
}

func NewSessionRepository(store ports.Store) *SessionRepository {
	return &SessionRepository{store: store}
}

func (r *SessionRepository) Store(ctx context.Context, session *domain.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	return r.store.Set(ctx, sessionKey(session.ID), raw)
}

func (r *SessionRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error) {
	entries, err := r.store.List(ctx, sessionPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	for key, raw := range entries {
		var session domain.Session
		if err := json.Unmarshal(raw, &session); err != nil {
			return nil, fmt.Errorf("failed to decode session %s: %w", key, err)
		}
		if session.TokenHash == tokenHash {
			return &session, nil
		}
	}
	return nil, nil
}

func (r *SessionRepository) Revoke(ctx context.Context, id uuid.UUID) error {
	return r.store.Update(ctx, func(tx ports.Tx) error {
		raw, err := tx.Get(ctx, sessionKey(id))
		if err != nil {
			if errors.Is(err, ports.ErrKeyNotFound) {
				return nil
			}
			return fmt.Errorf("failed to get session: %w", err)
		}

		var session domain.Session
		if err := json.Unmarshal(raw, &session); err != nil {
			return fmt.Errorf("failed to decode session: %w", err)
		}
		session.Revoked = true

		updated, err := json.Marshal(&session)
		if err != nil {
			return fmt.Errorf("failed to encode session: %w", err)
		}
		return tx.Set(ctx, sessionKey(id), updated)
	})
}
