package documents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service contains business logic for documents.
type Service struct {
	Repo DocumentsRepo
	Now  func() time.Time
}

// NewService constructs a Service.
func NewService(repo DocumentsRepo) *Service {
	return &Service{Repo: repo, Now: func() time.Time { return time.Now().UTC() }}
}

// Record validates doc, assigns its id and timestamp, and stores it.
func (s *Service) Record(ctx context.Context, doc Document) (Document, error) {
	if strings.TrimSpace(doc.UserID) == "" || !doc.Kind.Valid() || doc.StorageKey == "" {
		return Document{}, ErrInvalidInput
	}
	if doc.ExtractionStatus != ExtractionCompleted {
		doc.ExtractionStatus = ExtractionFailed
	}
	doc.ID = uuid.NewString()
	doc.CreatedAt = s.Now()

	if err := s.Repo.Create(ctx, doc); err != nil {
		return Document{}, fmt.Errorf("record %s document: %w", doc.Kind, err)
	}
	return doc, nil
}

// List returns a user's documents newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Document, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}
