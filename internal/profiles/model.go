package profiles

import (
	"time"

	"kyc-backend/internal/aadhaar"
	"kyc-backend/internal/documents"
	"kyc-backend/internal/reconcile"
	"kyc-backend/internal/rtc"
)

// DocumentStatus tracks whether a kind has been uploaded.
type DocumentStatus struct {
	Uploaded   bool       `json:"uploaded"`
	UploadedAt *time.Time `json:"uploadedAt"`
}

// Profile is the persisted farmer KYC profile. The reconciled fields are
// flattened into the JSON object; the parsed sources are kept only for
// recomputation on the next upload.
type Profile struct {
	UserID string `json:"userId"`
	reconcile.Result
	Documents map[documents.Kind]DocumentStatus `json:"documents"`
	CreatedAt time.Time                         `json:"createdAt"`
	UpdatedAt time.Time                         `json:"updatedAt"`

	IdentitySource *aadhaar.Identity `json:"-"`
	// LandSource is set only when the record was verified.
	LandSource *rtc.Record `json:"-"`
}

// New returns an empty pending profile for userID.
func New(userID string, now time.Time) Profile {
	p := Profile{
		UserID:    userID,
		Result:    reconcile.Result{NameVerificationStatus: reconcile.StatusPending},
		Documents: map[documents.Kind]DocumentStatus{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, k := range documents.Kinds {
		p.Documents[k] = DocumentStatus{}
	}
	return p
}

// Clone returns a deep copy of the mutable parts of p.
func (p Profile) Clone() Profile {
	out := p
	out.Documents = make(map[documents.Kind]DocumentStatus, len(p.Documents))
	for k, v := range p.Documents {
		out.Documents[k] = v
	}
	if p.IdentitySource != nil {
		id := *p.IdentitySource
		out.IdentitySource = &id
	}
	if p.LandSource != nil {
		land := *p.LandSource
		out.LandSource = &land
	}
	return out
}
