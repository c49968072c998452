package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"backoffice/internal/platform/querier"
)

var ErrIdempotencyConflict = errors.New("idempotency key conflicts with existing request")

// IdempotencyTTL bounds how long a stored salary-create response is replayed.
const IdempotencyTTL = 24 * time.Hour

// Idempotency remembers the response to a keyed request so a retry with the
// same body replays it instead of writing twice.
type Idempotency interface {
	Check(ctx context.Context, userID, endpoint, key, requestHash string) (json.RawMessage, bool, error)
	Save(ctx context.Context, userID, endpoint, key, requestHash string, response json.RawMessage) error
}

type IdempotencyStore struct {
	db  querier.Querier
	ttl time.Duration
}

func NewIdempotencyStore(db querier.Querier) *IdempotencyStore {
	return &IdempotencyStore{db: db, ttl: IdempotencyTTL}
}

// RequestHash fingerprints a raw request body.
func RequestHash(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

func (s *IdempotencyStore) enabled() bool {
	return s != nil && s.db != nil
}

// Check returns the saved response for key. Entries older than the TTL are
// treated as absent.
func (s *IdempotencyStore) Check(ctx context.Context, userID, endpoint, key, requestHash string) (json.RawMessage, bool, error) {
	if !s.enabled() {
		return nil, false, nil
	}
	var (
		hash     string
		response json.RawMessage
	)
	err := s.db.QueryRow(ctx, `
    SELECT request_hash, response_json
    FROM idempotency_keys
    WHERE user_id = $1 AND endpoint = $2 AND key = $3
      AND created_at > now() - make_interval(secs => $4)
  `, userID, endpoint, key, s.ttl.Seconds()).Scan(&hash, &response)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return nil, false, nil
	case err != nil:
		return nil, false, err
	case hash != requestHash:
		return nil, false, ErrIdempotencyConflict
	}
	return response, true, nil
}

// Save stores response under key. A live entry with a different body hash
// is a conflict; an expired one is replaced.
func (s *IdempotencyStore) Save(ctx context.Context, userID, endpoint, key, requestHash string, response json.RawMessage) error {
	if !s.enabled() {
		return nil
	}
	tag, err := s.db.Exec(ctx, `
    INSERT INTO idempotency_keys (user_id, endpoint, key, request_hash, response_json)
    VALUES ($1, $2, $3, $4, $5)
    ON CONFLICT (user_id, key, endpoint) DO UPDATE
      SET request_hash = EXCLUDED.request_hash,
          response_json = EXCLUDED.response_json,
          created_at = now()
    WHERE idempotency_keys.request_hash = EXCLUDED.request_hash
       OR idempotency_keys.created_at <= now() - make_interval(secs => $6)
  `, userID, endpoint, key, requestHash, response, s.ttl.Seconds())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrIdempotencyConflict
	}
	return nil
}
