// Package session persists the authenticated patient snapshot for each
// browser session. The stored value is exactly what the last successful
// login wrote; there is no expiry by default, no refresh and no integrity
// check (a known trust-boundary limitation of the upstream contract).
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/hcportal/patient-portal/internal/gateway"
	"github.com/hcportal/patient-portal/pkg/logging"
)

// Store keeps patient snapshots in redis, one per session id.
type Store struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *logging.Logger
	tracer trace.Tracer
}

// NewStore creates a session store. ttl of zero means sessions persist
// until Clear.
func NewStore(rdb *redis.Client, ttl time.Duration, logger *logging.Logger) *Store {
	if rdb == nil {
		panic("session: redis client cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{
		redis:  rdb,
		ttl:    ttl,
		logger: logger,
		tracer: otel.Tracer("portal.internal.session"),
	}
}

// Save stores the full patient snapshot for the session, replacing any
// prior value.
func (s *Store) Save(ctx context.Context, sessionID string, patient *gateway.Patient) error {
	ctx, span := s.tracer.Start(ctx, "session.save")
	defer span.End()

	data, err := json.Marshal(patient)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: marshal patient: %w", err)
	}
	if err := s.redis.Set(ctx, sessionKey(sessionID), data, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: persist patient: %w", err)
	}
	return nil
}

// Current returns the stored patient, or nil when the session holds none.
// A value that fails to deserialize is treated identically to absence and
// is never surfaced to the caller.
func (s *Store) Current(ctx context.Context, sessionID string) *gateway.Patient {
	ctx, span := s.tracer.Start(ctx, "session.current")
	defer span.End()

	data, err := s.redis.Get(ctx, sessionKey(sessionID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			span.RecordError(err)
			s.logger.Warn("session lookup failed", "error", err)
		}
		return nil
	}

	var patient gateway.Patient
	if err := json.Unmarshal(data, &patient); err != nil {
		span.RecordError(err)
		s.logger.Warn("discarding corrupt session value", "error", err)
		return nil
	}
	return &patient
}

// IsAuthenticated reports whether the session holds a patient snapshot.
func (s *Store) IsAuthenticated(ctx context.Context, sessionID string) bool {
	return s.Current(ctx, sessionID) != nil
}

// Clear removes the stored value unconditionally. Clearing an absent
// session is not an error.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	ctx, span := s.tracer.Start(ctx, "session.clear")
	defer span.End()

	if err := s.redis.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: clear: %w", err)
	}
	return nil
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}
