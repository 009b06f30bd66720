package documents

import "time"

// DocumentResponse is the outward-facing representation of a document.
type DocumentResponse struct {
	DocumentID       string           `json:"documentId"`
	Kind             Kind             `json:"kind"`
	FileName         string           `json:"fileName"`
	MimeType         string           `json:"mimeType"`
	SizeBytes        int64            `json:"sizeBytes"`
	ExtractionStatus ExtractionStatus `json:"extractionStatus"`
	TextChars        int              `json:"textChars"`
	UploadedAt       time.Time        `json:"uploadedAt"`
}

func toResponse(doc Document) DocumentResponse {
	return DocumentResponse{
		DocumentID:       doc.ID,
		Kind:             doc.Kind,
		FileName:         doc.FileName,
		MimeType:         doc.MimeType,
		SizeBytes:        doc.SizeBytes,
		ExtractionStatus: doc.ExtractionStatus,
		TextChars:        doc.TextChars,
		UploadedAt:       doc.CreatedAt,
	}
}
