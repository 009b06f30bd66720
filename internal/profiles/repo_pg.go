package profiles

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"kyc-backend/internal/aadhaar"
	"kyc-backend/internal/documents"
	"kyc-backend/internal/reconcile"
	"kyc-backend/internal/rtc"
)

// PGRepo implements Repo on the farmer_profiles table.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Get(ctx context.Context, userID string) (Profile, error) {
	const query = `
SELECT user_id, name_verification_status, result, documents, identity_source, land_source, created_at, updated_at
FROM farmer_profiles
WHERE user_id = $1`

	var (
		p                    Profile
		status               string
		resultRaw, docsRaw   []byte
		identityRaw, landRaw []byte
	)
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(
		&p.UserID,
		&status,
		&resultRaw,
		&docsRaw,
		&identityRaw,
		&landRaw,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, fmt.Errorf("get profile: %w", err)
	}

	if err := json.Unmarshal(resultRaw, &p.Result); err != nil {
		return Profile{}, fmt.Errorf("decode profile result: %w", err)
	}
	p.NameVerificationStatus = reconcile.Status(status)
	if !p.NameVerificationStatus.Valid() {
		p.NameVerificationStatus = reconcile.StatusPending
	}
	if p.NameVerificationStatus != reconcile.StatusVerified {
		p.Land = nil
	}

	p.Documents = map[documents.Kind]DocumentStatus{}
	if len(docsRaw) > 0 {
		if err := json.Unmarshal(docsRaw, &p.Documents); err != nil {
			return Profile{}, fmt.Errorf("decode profile documents: %w", err)
		}
	}
	for _, k := range documents.Kinds {
		if _, ok := p.Documents[k]; !ok {
			p.Documents[k] = DocumentStatus{}
		}
	}

	if len(identityRaw) > 0 {
		var id aadhaar.Identity
		if err := json.Unmarshal(identityRaw, &id); err != nil {
			return Profile{}, fmt.Errorf("decode identity source: %w", err)
		}
		p.IdentitySource = &id
	}
	if len(landRaw) > 0 {
		var land rtc.Record
		if err := json.Unmarshal(landRaw, &land); err != nil {
			return Profile{}, fmt.Errorf("decode land source: %w", err)
		}
		p.LandSource = &land
	}
	return p, nil
}

func (r *PGRepo) Upsert(ctx context.Context, p Profile) (Profile, error) {
	const query = `
INSERT INTO farmer_profiles (user_id, name_verification_status, result, documents, identity_source, land_source, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (user_id) DO UPDATE SET
  name_verification_status = EXCLUDED.name_verification_status,
  result = EXCLUDED.result,
  documents = EXCLUDED.documents,
  identity_source = EXCLUDED.identity_source,
  land_source = EXCLUDED.land_source,
  updated_at = EXCLUDED.updated_at
RETURNING created_at`

	result, err := json.Marshal(p.Result)
	if err != nil {
		return Profile{}, fmt.Errorf("encode profile result: %w", err)
	}
	docs, err := json.Marshal(p.Documents)
	if err != nil {
		return Profile{}, fmt.Errorf("encode profile documents: %w", err)
	}
	identity, err := nullableJSON(p.IdentitySource)
	if err != nil {
		return Profile{}, fmt.Errorf("encode identity source: %w", err)
	}
	land, err := nullableJSON(p.LandSource)
	if err != nil {
		return Profile{}, fmt.Errorf("encode land source: %w", err)
	}

	err = r.DB.QueryRowContext(ctx, query,
		p.UserID,
		string(p.NameVerificationStatus),
		result,
		docs,
		identity,
		land,
		p.CreatedAt,
		p.UpdatedAt,
	).Scan(&p.CreatedAt)
	if err != nil {
		return Profile{}, fmt.Errorf("upsert profile: %w", err)
	}
	return p, nil
}

// nullableJSON encodes v, mapping a nil pointer to SQL NULL.
func nullableJSON[T any](v *T) (any, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return b, nil
}

var _ Repo = (*PGRepo)(nil)
