package documents

import "time"

// Kind is the type of KYC document an upload holds.
type Kind string

const (
	KindRTC     Kind = "rtc"
	KindAadhaar Kind = "aadhaar"
)

// Kinds lists every supported kind in a stable order.
var Kinds = []Kind{KindRTC, KindAadhaar}

// Valid reports whether k is a supported kind.
func (k Kind) Valid() bool {
	return k == KindRTC || k == KindAadhaar
}

// ExtractionStatus records whether text could be read from the upload.
type ExtractionStatus string

const (
	ExtractionCompleted ExtractionStatus = "completed"
	ExtractionFailed    ExtractionStatus = "failed"
)

// Document represents an uploaded KYC file owned by a user.
type Document struct {
	ID               string
	UserID           string
	Kind             Kind
	FileName         string
	MimeType         string
	SizeBytes        int64
	StorageKey       string
	ExtractionStatus ExtractionStatus
	TextChars        int
	CreatedAt        time.Time
}
