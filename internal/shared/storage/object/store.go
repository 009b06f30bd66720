package object

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"

	"github.com/google/uuid"

	"kyc-backend/internal/shared/util"
)

// Stored describes an object written by Save.
type Stored struct {
	Key      string
	Size     int64
	MimeType string
}

// ObjectStore defines the contract for saving and retrieving binary objects.
type ObjectStore interface {
	// Save writes r under the user's namespace, grouped by document kind.
	Save(ctx context.Context, userID, kind, fileName string, r io.Reader) (Stored, error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	SaveWithKey(ctx context.Context, storageKey, contentType string, r io.Reader) (int64, error)
}

// NewKey builds a collision-free storage key: <user hash>/<kind>/<uuid>_<name>.
func NewKey(userID, kind, fileName string) (string, error) {
	name, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", fmt.Errorf("sanitize file name: %w", err)
	}
	return path.Join(util.HashUserKey(userID), kind, uuid.NewString()+"_"+name), nil
}

// ExtractedKey is where the plain-text copy of an upload lives.
func ExtractedKey(storageKey string) string {
	return storageKey + ".extracted.txt"
}

// Sniff detects the content type from the first 512 bytes and returns a
// reader that replays them.
func Sniff(r io.Reader) (string, io.Reader, error) {
	var head [512]byte
	n, err := io.ReadFull(r, head[:])
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", nil, fmt.Errorf("read sniff: %w", err)
	}
	return http.DetectContentType(head[:n]), io.MultiReader(bytes.NewReader(head[:n]), r), nil
}
