package kyc

import (
	"kyc-backend/internal/documents"
	"kyc-backend/internal/profiles"
	"kyc-backend/internal/reconcile"
)

// Upload is one document submitted by a farmer.
type Upload struct {
	Kind     documents.Kind
	FileName string
	Data     []byte
}

// Outcome is what a processed submission returns to the caller.
type Outcome struct {
	Profile                profiles.Profile `json:"profile"`
	Message                string           `json:"message"`
	NameVerificationStatus reconcile.Status `json:"nameVerificationStatus"`
}
