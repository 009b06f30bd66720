package documents

import "context"

// DocumentsRepo defines persistence operations for documents.
type DocumentsRepo interface {
	Create(ctx context.Context, doc Document) error
	// ListByUser returns the user's documents newest first. A limit of zero
	// means no limit.
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Document, error)
}
