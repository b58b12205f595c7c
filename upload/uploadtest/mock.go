package uploadtest

import (
	"context"
	"io"
	"io/ioutil"

	"github.com/stretchr/testify/mock"
)

// MockProvider is a testify mock of upload.Provider.
// The image is read fully so expectations can match on its bytes
type MockProvider struct {
	mock.Mock
}

// Upload records the call and returns the configured URL and error
func (m *MockProvider) Upload(ctx context.Context, image io.Reader, ext string, mime string) (string, error) {
	contents, err := ioutil.ReadAll(image)
	if err != nil {
		return "", err
	}

	args := m.Called(contents, ext, mime)
	return args.String(0), args.Error(1)
}
