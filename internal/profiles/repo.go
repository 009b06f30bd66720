package profiles

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("profile not found")

// Repo persists farmer profiles.
type Repo interface {
	// Get returns ErrNotFound when the user has no profile yet.
	Get(ctx context.Context, userID string) (Profile, error)
	// Upsert replaces every extraction-derived field. CreatedAt of an
	// existing profile is kept.
	Upsert(ctx context.Context, p Profile) (Profile, error)
}
