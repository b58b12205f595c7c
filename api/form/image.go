package form

import (
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/c2h5oh/datasize"
	"github.com/pkg/errors"

	"github.com/aquaswift/aquaswift-api/env"
)

// ImageKey is the multipart entry holding the uploaded image
const ImageKey = "image"

// Only the first 512 bytes are used to sniff the content type
const sniffLength = 512

// Image is an uploaded image that passed the size and type checks
type Image struct {
	Data        []byte
	ContentType string
	Ext         string
}

// Reader returns a fresh reader over the image bytes
func (i *Image) Reader() io.Reader {
	return bytes.NewReader(i.Data)
}

// ImageRules holds the limits applied to every uploaded image
type ImageRules struct {
	MaxBytes  int64
	mimeTypes map[string]struct{}
}

// NewImageRules creates a new ImageRules.
// An empty allow list accepts any image/* type
func NewImageRules(maxBytes int64, mimeTypes []string) *ImageRules {
	allowed := make(map[string]struct{})
	for _, m := range mimeTypes {
		m = strings.TrimSpace(m)
		if m != "" {
			allowed[m] = struct{}{}
		}
	}

	return &ImageRules{
		MaxBytes:  maxBytes,
		mimeTypes: allowed,
	}
}

// NewImageRulesFromEnv creates a new ImageRules
// and parses environment variables
func NewImageRulesFromEnv() (*ImageRules, error) {
	maxBytes, err := env.GetBytesEnvOrDefault("max upload file size", "UPLOAD_MAX_SIZE", "10MB")
	if err != nil {
		return nil, err
	}

	var mimeTypes []string
	if value := env.GetEnvOrDefault("UPLOAD_MIME_TYPES", ""); value != "" {
		mimeTypes = strings.Split(value, "|")
	}

	return NewImageRules(int64(maxBytes.Bytes()), mimeTypes), nil
}

func (rules *ImageRules) validMime(m string) bool {
	if !strings.HasPrefix(m, "image/") {
		return false
	}
	if len(rules.mimeTypes) == 0 {
		return true
	}

	_, ok := rules.mimeTypes[m]
	return ok
}

// Load reads and checks an uploaded file
func (rules *ImageRules) Load(header *multipart.FileHeader) (*Image, error) {
	if header.Size > rules.MaxBytes {
		return nil, rules.tooLarge()
	}

	file, err := header.Open()
	if err != nil {
		return nil, errors.Wrap(err, "open uploaded image")
	}
	defer file.Close()

	return rules.Read(file)
}

// Read reads an image from the stream, enforcing the size limit
// and sniffing its MIME type from the leading bytes
func (rules *ImageRules) Read(r io.Reader) (*Image, error) {
	data, err := ioutil.ReadAll(io.LimitReader(r, rules.MaxBytes+1))
	if err != nil {
		return nil, errors.Wrap(err, "read uploaded image")
	}
	if int64(len(data)) > rules.MaxBytes {
		return nil, rules.tooLarge()
	}
	if len(data) == 0 {
		return nil, NewValidationError(ImageKey, "Image is required")
	}

	header := data
	if len(header) > sniffLength {
		header = header[:sniffLength]
	}

	// DetectContentType always returns a valid content-type,
	// falling back to "application/octet-stream"
	contentType := http.DetectContentType(header)
	if !rules.validMime(contentType) {
		return nil, NewValidationError(ImageKey,
			fmt.Sprintf("Unsupported image type '%s'", contentType))
	}

	return &Image{
		Data:        data,
		ContentType: contentType,
		Ext:         extensionFor(contentType),
	}, nil
}

func (rules *ImageRules) tooLarge() *ValidationError {
	return NewValidationError(ImageKey,
		fmt.Sprintf("Image is larger than %s", datasize.ByteSize(rules.MaxBytes).String()))
}

// extensionFor derives the file extension from the MIME type,
// falling back to the subtype when the system table has no entry
func extensionFor(contentType string) string {
	if extensions, err := mime.ExtensionsByType(contentType); err == nil && len(extensions) > 0 {
		return extensions[0]
	}

	return "." + strings.TrimPrefix(contentType, "image/")
}
