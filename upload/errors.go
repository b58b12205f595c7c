package upload

import "fmt"

// UpstreamError is an error used to encode when the image host
// reported a failure for an upload
type UpstreamError struct {
	Provider string
	Message  string
}

// NewUpstreamError constructs a new UpstreamError
func NewUpstreamError(provider string, message string) *UpstreamError {
	return &UpstreamError{
		Provider: provider,
		Message:  message,
	}
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s upload failed: %s", e.Provider, e.Message)
}
