package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var body chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-test", body.Model)
		assert.Equal(t, "json_object", body.ResponseFormat.Type)
		require.Len(t, body.Messages, 2)
		assert.Equal(t, "user", body.Messages[1].Role)
		assert.Equal(t, "hello", body.Messages[1].Content)

		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"report\":\"ok\"}"}}]}`))
	}))
	defer server.Close()

	client := NewClient(" secret ", "gpt-test", server.URL, server.Client())
	text, err := client.Generate(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, `{"report":"ok"}`, text)
}

func TestClient_GenerateErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "api error", status: http.StatusUnauthorized, body: `{"error":{"message":"Incorrect API key provided"}}`, wantErr: "Incorrect API key"},
		{name: "no choices", status: http.StatusOK, body: `{"choices":[]}`, wantErr: "no content"},
		{name: "garbage", status: http.StatusBadGateway, body: `<html>`, wantErr: "status 502"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewClient("key", "", server.URL, server.Client()).Generate(context.Background(), "hi")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
