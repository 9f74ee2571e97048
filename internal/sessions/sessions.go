// package sessions persists conversion results under short share codes
// with a time-to-live.
//
// Sessions are a time-bounded cache, not a system of record: entries
// expire at their TTL and expired rows are treated as absent.
package sessions

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/auxshare/auxd/internal/models"
	"github.com/auxshare/auxd/internal/shared"
	"github.com/charmbracelet/log"
)

// DefaultTTL is how long a session stays retrievable.
const DefaultTTL = 24 * time.Hour

// codeSpace is the 4-digit keyspace: 1000-9999, no leading zeros.
const (
	codeMin   = 1000
	codeSpace = 9000
)

// Store keeps session payloads in a SQLite table keyed by share code.
type Store struct {
	db     *sql.DB
	logger *log.Logger
	now    func() time.Time
}

// NewStore creates a session store over db, applying pending schema
// migrations.
func NewStore(db *sql.DB, logger *log.Logger) (*Store, error) {
	if err := shared.RunMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to prepare session schema: %w", err)
	}

	return &Store{db: db, logger: shared.WithLogger(logger, "component", "sessions"), now: time.Now}, nil
}

// Save persists a session payload under a freshly allocated code and
// returns the code. A non-positive ttl falls back to [DefaultTTL].
//
// Code reservation is a single INSERT, so concurrent savers cannot claim
// the same code; collisions with live codes re-draw.
func (s *Store) Save(ctx context.Context, payload models.SessionPayload, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	now := s.now()
	payload.CreatedAt = now.Unix()

	blob, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to serialize session: %w", err)
	}

	// Lazily purge expired rows so dead codes return to the keyspace.
	if _, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at <= ?", now.Unix()); err != nil {
		return "", fmt.Errorf("failed to purge expired sessions: %w", err)
	}

	expiresAt := now.Add(ttl).Unix()
	for {
		code, err := generateCode()
		if err != nil {
			return "", fmt.Errorf("failed to generate session code: %w", err)
		}

		_, err = s.db.ExecContext(ctx,
			"INSERT INTO sessions (code, payload, created_at, expires_at) VALUES (?, ?, ?, ?)",
			code, string(blob), now.Unix(), expiresAt)
		if err == nil {
			s.logger.Info("session saved", "code", code, "tracks", len(payload.Tracks), "ttl", ttl)
			return code, nil
		}
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			continue // code taken, draw again
		}
		return "", fmt.Errorf("failed to save session: %w", err)
	}
}

// Get retrieves the payload stored under code. Expired or missing codes
// return [shared.ErrSessionNotFound].
func (s *Store) Get(ctx context.Context, code string) (*models.SessionPayload, error) {
	var blob string
	var expiresAt int64

	err := s.db.QueryRowContext(ctx,
		"SELECT payload, expires_at FROM sessions WHERE code = ?", code).Scan(&blob, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, shared.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	if expiresAt <= s.now().Unix() {
		s.Delete(ctx, code)
		return nil, shared.ErrSessionNotFound
	}

	var payload models.SessionPayload
	if err := json.Unmarshal([]byte(blob), &payload); err != nil {
		return nil, fmt.Errorf("failed to decode session payload: %w", err)
	}

	return &payload, nil
}

// Exists reports whether code maps to a live session.
func (s *Store) Exists(ctx context.Context, code string) bool {
	var expiresAt int64
	err := s.db.QueryRowContext(ctx,
		"SELECT expires_at FROM sessions WHERE code = ?", code).Scan(&expiresAt)
	return err == nil && expiresAt > s.now().Unix()
}

// TTL returns the remaining lifetime in whole seconds, or -1 when the
// code is absent or expired.
func (s *Store) TTL(ctx context.Context, code string) int64 {
	var expiresAt int64
	err := s.db.QueryRowContext(ctx,
		"SELECT expires_at FROM sessions WHERE code = ?", code).Scan(&expiresAt)
	if err != nil {
		return -1
	}

	remaining := expiresAt - s.now().Unix()
	if remaining <= 0 {
		return -1
	}
	return remaining
}

// Delete removes a session, reporting whether a live row was removed.
func (s *Store) Delete(ctx context.Context, code string) bool {
	result, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE code = ?", code)
	if err != nil {
		s.logger.Warn("failed to delete session", "code", code, "error", err)
		return false
	}

	affected, err := result.RowsAffected()
	return err == nil && affected > 0
}

// Ping verifies the backing store is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// generateCode draws a 4-digit code from a cryptographically strong
// random source.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpace))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+codeMin), nil
}
