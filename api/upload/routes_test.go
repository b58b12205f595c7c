package upload

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aquaswift/aquaswift-api/api/form"
	"github.com/aquaswift/aquaswift-api/upload/uploadtest"
)

func imageRequest(t *testing.T, image []byte) *http.Request {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", "banner.png")
	require.NoError(t, err)
	_, err = part.Write(image)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	r := httptest.NewRequest(http.MethodPost, "/", &body)
	r.Header.Set("Content-Type", writer.FormDataContentType())
	return r
}

func TestUpload(t *testing.T) {
	image := []byte("\x89PNG\r\n\x1a\nbanner")
	uploader := &uploadtest.MockProvider{}
	uploader.On("Upload", image, ".png", "image/png").Return("https://i.ibb.co/banner.png", nil)

	w := httptest.NewRecorder()
	Routes(uploader, form.NewImageRules(1024, nil)).ServeHTTP(w, imageRequest(t, image))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"url":"https://i.ibb.co/banner.png"}`, w.Body.String())
}

func TestUpload_RejectsNonImage(t *testing.T) {
	uploader := &uploadtest.MockProvider{}

	w := httptest.NewRecorder()
	Routes(uploader, form.NewImageRules(1024, nil)).ServeHTTP(w, imageRequest(t, []byte("plain text, not an image")))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Unsupported image type 'text/plain; charset=utf-8'"}`, w.Body.String())
	uploader.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
}
