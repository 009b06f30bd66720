// Package kyc runs farmer document submissions through extraction, parsing
// and name reconciliation, and keeps the farmer profile up to date.
package kyc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"kyc-backend/internal/aadhaar"
	"kyc-backend/internal/documents"
	"kyc-backend/internal/extract"
	"kyc-backend/internal/profiles"
	"kyc-backend/internal/reconcile"
	"kyc-backend/internal/rtc"
	"kyc-backend/internal/shared/metrics"
	"kyc-backend/internal/shared/storage/object"
	"kyc-backend/internal/shared/telemetry"
)

// TextExtractor turns PDF bytes into text. Failures are reported in the
// result, never as a separate error.
type TextExtractor interface {
	Extract(ctx context.Context, pdfData []byte) extract.Result
}

// Service contains the KYC submission workflow.
type Service struct {
	Store     object.ObjectStore
	Extractor TextExtractor
	Documents *documents.Service
	Profiles  profiles.Repo
	Now       func() time.Time
}

// NewService constructs a Service.
func NewService(store object.ObjectStore, extractor TextExtractor, docs *documents.Service, repo profiles.Repo) *Service {
	return &Service{
		Store:     store,
		Extractor: extractor,
		Documents: docs,
		Profiles:  repo,
		Now:       func() time.Time { return time.Now().UTC() },
	}
}

type parsed struct {
	kind     documents.Kind
	land     *rtc.Record
	identity *aadhaar.Identity
}

// Process stores and parses the uploads concurrently, then recomputes the
// profile from the new sources plus the stored ones for kinds not uploaded.
// Unreadable documents never fail the call; only storage and repository
// errors do.
func (s *Service) Process(ctx context.Context, userID string, uploads ...Upload) (Outcome, error) {
	if err := validate(userID, uploads); err != nil {
		return Outcome{}, err
	}

	results := make([]parsed, len(uploads))
	g, gctx := errgroup.WithContext(ctx)
	for i, up := range uploads {
		g.Go(func() error {
			res, err := s.handleUpload(gctx, userID, up)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Outcome{}, err
	}

	now := s.Now()
	profile, err := s.Profiles.Get(ctx, userID)
	switch {
	case errors.Is(err, profiles.ErrNotFound):
		profile = profiles.New(userID, now)
	case err != nil:
		return Outcome{}, fmt.Errorf("load profile: %w", err)
	}
	if profile.Documents == nil {
		profile.Documents = map[documents.Kind]profiles.DocumentStatus{}
	}

	land, identity := profile.LandSource, profile.IdentitySource
	for _, r := range results {
		switch r.kind {
		case documents.KindRTC:
			land = r.land
		case documents.KindAadhaar:
			identity = r.identity
		}
		at := now
		profile.Documents[r.kind] = profiles.DocumentStatus{Uploaded: true, UploadedAt: &at}
	}

	result := reconcile.Reconcile(land, identity)
	profile.Result = result
	profile.IdentitySource = identity
	profile.LandSource = nil
	if result.NameVerificationStatus == reconcile.StatusVerified {
		profile.LandSource = land
	}
	profile.UpdatedAt = now

	saved, err := s.Profiles.Upsert(ctx, profile)
	if err != nil {
		return Outcome{}, fmt.Errorf("save profile: %w", err)
	}

	status := result.NameVerificationStatus
	metrics.IncVerification(string(status))
	telemetry.Info("kyc.processed", map[string]any{
		"user_id":             userID,
		"document_kinds":      kindNames(uploads),
		"verification_status": string(status),
	})

	return Outcome{
		Profile:                saved,
		Message:                message(status, land, identity),
		NameVerificationStatus: status,
	}, nil
}

// Profile returns the farmer's profile, or an empty pending one when
// nothing has been uploaded yet.
func (s *Service) Profile(ctx context.Context, userID string) (profiles.Profile, error) {
	if strings.TrimSpace(userID) == "" {
		return profiles.Profile{}, ErrInvalidUpload
	}
	p, err := s.Profiles.Get(ctx, userID)
	if errors.Is(err, profiles.ErrNotFound) {
		return profiles.New(userID, s.Now()), nil
	}
	if err != nil {
		return profiles.Profile{}, fmt.Errorf("load profile: %w", err)
	}
	return p, nil
}

func (s *Service) handleUpload(ctx context.Context, userID string, up Upload) (parsed, error) {
	kind := string(up.Kind)

	stored, err := s.Store.Save(ctx, userID, kind, up.FileName, bytes.NewReader(up.Data))
	if err != nil {
		return parsed{}, fmt.Errorf("store %s upload: %w", kind, err)
	}

	res := s.Extractor.Extract(ctx, up.Data)
	metrics.ObserveExtractionDurationMs(float64(res.Duration.Milliseconds()))
	status := documents.ExtractionCompleted
	if res.Err != nil || res.Text == "" {
		status = documents.ExtractionFailed
		metrics.IncExtractionFailure(kind)
	}

	if res.Text != "" {
		if _, err := s.Store.SaveWithKey(ctx, object.ExtractedKey(stored.Key), "text/plain; charset=utf-8", strings.NewReader(res.Text)); err != nil {
			return parsed{}, fmt.Errorf("store %s text: %w", kind, err)
		}
	}

	out := parsed{kind: up.Kind}
	lines := extract.Lines(res.Text)
	switch up.Kind {
	case documents.KindRTC:
		rec := rtc.Parse(lines)
		out.land = &rec
	case documents.KindAadhaar:
		id := aadhaar.ParseLines(res.Text, lines)
		out.identity = &id
	}

	if _, err := s.Documents.Record(ctx, documents.Document{
		UserID:           userID,
		Kind:             up.Kind,
		FileName:         up.FileName,
		MimeType:         stored.MimeType,
		SizeBytes:        stored.Size,
		StorageKey:       stored.Key,
		ExtractionStatus: status,
		TextChars:        utf8.RuneCountInString(res.Text),
	}); err != nil {
		return parsed{}, err
	}
	metrics.IncUpload(kind)
	return out, nil
}

func validate(userID string, uploads []Upload) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("%w: user id required", ErrInvalidUpload)
	}
	if len(uploads) == 0 {
		return ErrNoUploads
	}
	seen := make(map[documents.Kind]bool, len(uploads))
	for _, up := range uploads {
		if !up.Kind.Valid() {
			return fmt.Errorf("%w: unsupported kind %q", ErrInvalidUpload, up.Kind)
		}
		if seen[up.Kind] {
			return fmt.Errorf("%w: %s", ErrDuplicateKind, up.Kind)
		}
		seen[up.Kind] = true
	}
	return nil
}

func kindNames(uploads []Upload) []string {
	out := make([]string, 0, len(uploads))
	for _, up := range uploads {
		out = append(out, string(up.Kind))
	}
	return out
}
