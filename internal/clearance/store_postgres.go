package clearance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"zonegate/internal/zone"
	id "zonegate/pkg/domain"
	"zonegate/pkg/platform/sentinel"
)

// PostgresStore reads clearance records maintained by the enrollment
// pipeline. The access core only queries; writes happen out of process.
//
// Expected schema:
//
//	CREATE TABLE clearances (
//	    user_id             UUID PRIMARY KEY,
//	    clearance_level     INT NOT NULL,
//	    active_credentials  TEXT[] NOT NULL DEFAULT '{}',
//	    revoked_credentials TEXT[] NOT NULL DEFAULT '{}',
//	    last_verified       TIMESTAMPTZ NOT NULL,
//	    expiration_date     TIMESTAMPTZ
//	);
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a Postgres-backed clearance reader.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) FindByUser(ctx context.Context, userID id.UserID) (*Status, error) {
	query := `
		SELECT clearance_level, active_credentials, revoked_credentials,
		       last_verified, COALESCE(expiration_date, 'epoch'::timestamptz)
		FROM clearances
		WHERE user_id = $1
	`
	var (
		status  Status
		active  []string
		revoked []string
	)
	err := s.db.QueryRowContext(ctx, query, userID.String()).Scan(
		&status.ClearanceLevel,
		pq.Array(&active),
		pq.Array(&revoked),
		&status.LastVerified,
		&status.ExpirationDate,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find clearance: %w", err)
	}
	status.UserID = userID
	status.ActiveCredentials = toCredentialTypes(active)
	status.RevokedCredentials = toCredentialTypes(revoked)
	if status.ExpirationDate.Unix() == 0 {
		// COALESCE'd epoch means no expiry is recorded.
		status.ExpirationDate = time.Time{}
	}
	return &status, nil
}

// Health verifies the database connection is usable.
func (s *PostgresStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func toCredentialTypes(values []string) []zone.CredentialType {
	out := make([]zone.CredentialType, 0, len(values))
	for _, v := range values {
		t, err := zone.ParseCredentialType(v)
		if err != nil {
			// Unknown types in storage are skipped rather than failing the
			// read; they cannot satisfy any requirement anyway.
			continue
		}
		out = append(out, t)
	}
	return out
}
