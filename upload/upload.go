package upload

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/segmentio/ksuid"
)

// Provider represents an image hosting implementation.
// Upload returns a durable public URL for the image;
// every call is a new upload, even for identical bytes
type Provider interface {
	Upload(ctx context.Context, image io.Reader, ext string, mime string) (string, error)
}

// NewFileName generates a random, sortable file name with the given extension
func NewFileName(ext string) (string, error) {
	fileID, err := ksuid.NewRandom()
	if err != nil {
		return "", err
	}

	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		return fileID.String(), nil
	}
	return fmt.Sprintf("%s.%s", fileID, ext), nil
}
