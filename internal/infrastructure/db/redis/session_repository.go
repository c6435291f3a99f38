package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/clinicdesk/clinic-web/internal/core/ports"
)

const defaultSessionTTL = 7 * 24 * time.Hour

// SessionRepository stores session records as JSON under session:<sid>.
// Every save renews the TTL, so active sessions stay alive.
type SessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.SessionRepository = (*SessionRepository)(nil)

// NewSessionRepository wraps client. A non-positive ttl uses seven days.
func NewSessionRepository(client *redis.Client, ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionRepository{client: client, ttl: ttl}
}

func (r *SessionRepository) Save(ctx context.Context, sid string, rec *ports.SessionRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("session save: encode: %w", err)
	}
	if err := r.client.Set(ctx, r.key(sid), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("session save: %w", err)
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, sid string) (*ports.SessionRecord, error) {
	raw, err := r.client.Get(ctx, r.key(sid)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}

	var rec ports.SessionRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("session get: decode: %w", err)
	}
	return &rec, nil
}

func (r *SessionRepository) Delete(ctx context.Context, sid string) error {
	if err := r.client.Del(ctx, r.key(sid)).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}

func (r *SessionRepository) key(sid string) string {
	return "session:" + sid
}
