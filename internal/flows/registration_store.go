package flows

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const defaultRegistrationTTL = 30 * time.Minute

// RegistrationStateStore persists wizard state between the two
// registration requests, keyed by browser session. The TTL bounds how
// long an abandoned wizard survives; expiry resets the patient to the
// address step.
type RegistrationStateStore struct {
	redis  *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
}

// NewRegistrationStateStore creates a wizard state store. ttl of zero
// falls back to the default.
func NewRegistrationStateStore(rdb *redis.Client, ttl time.Duration) *RegistrationStateStore {
	if rdb == nil {
		panic("flows: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = defaultRegistrationTTL
	}
	return &RegistrationStateStore{
		redis:  rdb,
		ttl:    ttl,
		tracer: otel.Tracer("portal.internal.flows.registration"),
	}
}

// Save persists the wizard state for a session. A nil state deletes it.
func (s *RegistrationStateStore) Save(ctx context.Context, sessionID string, state *RegistrationState) error {
	ctx, span := s.tracer.Start(ctx, "registration.save_state")
	defer span.End()

	if state == nil {
		if err := s.redis.Del(ctx, registrationKey(sessionID)).Err(); err != nil {
			span.RecordError(err)
			return fmt.Errorf("flows: delete registration state: %w", err)
		}
		return nil
	}

	data, err := json.Marshal(state)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("flows: marshal registration state: %w", err)
	}
	if err := s.redis.Set(ctx, registrationKey(sessionID), data, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("flows: persist registration state: %w", err)
	}
	return nil
}

// Load retrieves the wizard state for a session, or nil when none is
// stored.
func (s *RegistrationStateStore) Load(ctx context.Context, sessionID string) (*RegistrationState, error) {
	ctx, span := s.tracer.Start(ctx, "registration.load_state")
	defer span.End()

	data, err := s.redis.Get(ctx, registrationKey(sessionID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("flows: load registration state: %w", err)
	}

	var state RegistrationState
	if err := json.Unmarshal(data, &state); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("flows: decode registration state: %w", err)
	}
	return &state, nil
}

// Clear removes the wizard state after registration completes.
func (s *RegistrationStateStore) Clear(ctx context.Context, sessionID string) error {
	return s.Save(ctx, sessionID, nil)
}

func registrationKey(sessionID string) string {
	return fmt.Sprintf("registration:%s", sessionID)
}
