package kyc

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"kyc-backend/internal/documents"
	"kyc-backend/internal/shared/server/middleware"
	"kyc-backend/internal/shared/server/respond"
	"kyc-backend/internal/shared/util"
)

const (
	maxFileSize = 5 << 20 // 5MB per document
	maxBodySize = 2*maxFileSize + 1<<20
)

var errFileTooLarge = errors.New("file too large")

// formParts maps multipart field names to document kinds. Both spellings
// of Aadhaar are accepted.
var formParts = []struct {
	field string
	kind  documents.Kind
}{
	{field: "rtc", kind: documents.KindRTC},
	{field: "aadhar", kind: documents.KindAadhaar},
	{field: "aadhaar", kind: documents.KindAadhaar},
}

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches KYC routes to the farmer router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/kyc", h.submit)
	rg.GET("/kyc", h.profile)
}

func (h *Handler) submit(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize)

	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "Each document must be 5 MB or smaller", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "Please choose at least one document", nil)
		return
	}

	uploads, err := readUploads(form)
	if err != nil {
		if errors.Is(err, errFileTooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "Each document must be 5 MB or smaller", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "We could not read the uploaded file. Please try again.", nil)
		return
	}
	c.Set(middleware.DocumentKindsKey, kindNames(uploads))

	out, err := h.Svc.Process(c.Request.Context(), userID, uploads...)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoUploads):
			respond.Error(c, http.StatusBadRequest, "validation_error", "Please choose at least one document", nil)
		case errors.Is(err, ErrDuplicateKind):
			respond.Error(c, http.StatusBadRequest, "validation_error", "Please upload only one file per document type", nil)
		case errors.Is(err, ErrInvalidUpload):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "We could not save your documents right now. Please try again in a few minutes.", nil)
		}
		return
	}
	c.Set(middleware.VerificationStatusKey, string(out.NameVerificationStatus))

	respond.OK(c, out)
}

func (h *Handler) profile(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	p, err := h.Svc.Profile(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidUpload):
			respond.Error(c, http.StatusBadRequest, "validation_error", "user id required", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load profile", nil)
		}
		return
	}
	c.Set(middleware.VerificationStatusKey, string(p.NameVerificationStatus))

	respond.OK(c, gin.H{"profile": p})
}

// readUploads collects the known parts in a fixed order. Unknown parts are
// ignored; a part sent twice is passed through so the service rejects it.
func readUploads(form *multipart.Form) ([]Upload, error) {
	var uploads []Upload
	for _, part := range formParts {
		for _, fh := range form.File[part.field] {
			up, err := readUpload(part.kind, fh)
			if err != nil {
				return nil, err
			}
			uploads = append(uploads, up)
		}
	}
	return uploads, nil
}

func readUpload(kind documents.Kind, fh *multipart.FileHeader) (Upload, error) {
	if fh.Size > maxFileSize {
		return Upload{}, errFileTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return Upload{}, fmt.Errorf("open %s part: %w", kind, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxFileSize+1))
	if err != nil {
		return Upload{}, fmt.Errorf("read %s part: %w", kind, err)
	}
	if len(data) > maxFileSize {
		return Upload{}, errFileTooLarge
	}

	name := strings.TrimSpace(fh.Filename)
	if clean, err := util.SanitizeFileName(name); err == nil {
		name = clean
	} else {
		name = string(kind) + ".pdf"
	}
	return Upload{Kind: kind, FileName: name, Data: data}, nil
}
