package testimonials

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aquaswift/aquaswift-api/api/form"
	"github.com/aquaswift/aquaswift-api/db/memory"
	"github.com/aquaswift/aquaswift-api/types"
	"github.com/aquaswift/aquaswift-api/upload/uploadtest"
)

var jpegImage = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00")

func postForm(t *testing.T, router http.Handler, fields map[string]string, image []byte) *httptest.ResponseRecorder {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if image != nil {
		part, err := writer.CreateFormFile("image", "customer.jpg")
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	r := httptest.NewRequest(http.MethodPost, "/", &body)
	r.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func TestCreate(t *testing.T) {
	database := memory.NewProvider()
	uploader := &uploadtest.MockProvider{}
	uploader.On("Upload", jpegImage, mock.Anything, "image/jpeg").Return("https://i.ibb.co/priya.jpg", nil)
	router := Routes(database, uploader, form.NewImageRules(1024, nil))

	w := postForm(t, router, map[string]string{
		"name":    "Priya Sharma",
		"company": "Blue Cafe",
		"quote":   "The water tastes great.",
		"aiHint":  "smiling woman",
	}, jpegImage)

	require.Equal(t, http.StatusCreated, w.Code)
	var result types.InsertResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))

	testimonials, err := database.GetAllTestimonials(context.Background())
	require.NoError(t, err)
	require.Len(t, testimonials, 1)
	assert.Equal(t, result.InsertedID, testimonials[0].ID)
	assert.Equal(t, "https://i.ibb.co/priya.jpg", testimonials[0].ImageURL)
	assert.Equal(t, "Priya Sharma", testimonials[0].Name)
	assert.Equal(t, "Blue Cafe", testimonials[0].Company)
	assert.Equal(t, "The water tastes great.", testimonials[0].Quote)
	assert.Equal(t, "smiling woman", testimonials[0].AIHint)
	uploader.AssertExpectations(t)
}

func TestCreate_MissingImage(t *testing.T) {
	database := memory.NewProvider()
	uploader := &uploadtest.MockProvider{}
	router := Routes(database, uploader, form.NewImageRules(1024, nil))

	w := postForm(t, router, map[string]string{"name": "Priya", "quote": "Great"}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Image is required"}`, w.Body.String())
	uploader.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetAllAndDelete(t *testing.T) {
	database := memory.NewProvider()
	ctx := context.Background()
	first, err := database.CreateTestimonial(ctx, types.Testimonial{Name: "Priya Sharma", Quote: "Great"})
	require.NoError(t, err)
	_, err = database.CreateTestimonial(ctx, types.Testimonial{Name: "Tom Baker", Quote: "Clean"})
	require.NoError(t, err)
	router := Routes(database, &uploadtest.MockProvider{}, form.NewImageRules(1024, nil))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/?search=tom", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var testimonials []types.Testimonial
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &testimonials))
	require.Len(t, testimonials, 1)
	assert.Equal(t, "Tom Baker", testimonials[0].Name)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/"+first, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Testimonial deleted successfully"}`, w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/"+first, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/not-an-id", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Invalid testimonial ID"}`, w.Body.String())
}
