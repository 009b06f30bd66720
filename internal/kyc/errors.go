package kyc

import "errors"

var (
	ErrNoUploads     = errors.New("at least one document is required")
	ErrDuplicateKind = errors.New("only one document per kind is allowed")
	ErrInvalidUpload = errors.New("invalid upload")
)
