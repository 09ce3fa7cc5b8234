package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_DefaultModel(t *testing.T) {
	client := NewClient("sk-or-test-key", "")
	assert.Equal(t, defaultModel, client.model)

	client = NewClient("sk-or-test-key", "google/gemini-2.5-pro")
	assert.Equal(t, "google/gemini-2.5-pro", client.model)
}

func TestBuildRequest_TextOnly(t *testing.T) {
	client := NewClient("test-key", "")

	req, err := client.buildRequest("translate this", "", 4000, 0.3)
	require.NoError(t, err)

	require.Len(t, req.Messages, 1)
	require.Len(t, req.Messages[0].Content, 1)
	assert.Equal(t, "text", req.Messages[0].Content[0].Type)
	assert.Equal(t, "translate this", req.Messages[0].Content[0].Text)
	assert.Equal(t, 4000, req.MaxTokens)
	assert.Equal(t, 0.3, req.Temperature)
}

func TestBuildRequest_WithImage(t *testing.T) {
	client := NewClient("test-key", "")

	imgPath := filepath.Join(t.TempDir(), "page_001.jpg")
	require.NoError(t, os.WriteFile(imgPath, []byte("fake-jpeg-bytes"), 0644))

	req, err := client.buildRequest("translate this page", imgPath, 4000, 0.3)
	require.NoError(t, err)

	require.Len(t, req.Messages[0].Content, 2)
	part := req.Messages[0].Content[1]
	assert.Equal(t, "image_url", part.Type)
	require.NotNil(t, part.ImageURL)
	assert.True(t, strings.HasPrefix(part.ImageURL.URL, "data:image/jpeg;base64,"))
}

func TestBuildRequest_MissingImage(t *testing.T) {
	client := NewClient("test-key", "")

	_, err := client.buildRequest("prompt", "/nonexistent/page.jpg", 4000, 0.3)
	assert.Error(t, err)
}

func TestComplete_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 0.3, req.Temperature)

		resp := Response{ID: "gen-1"}
		resp.Choices = []Choice{{}}
		resp.Choices[0].Message.Content = "תרגום לדוגמה"
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client := NewClient("test-key", "")
	client.baseURL = srv.URL

	out, err := client.Complete(context.Background(), "prompt", "", 2000, 0.3)
	require.NoError(t, err)
	assert.Equal(t, "תרגום לדוגמה", out)
}

func TestComplete_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient("test-key", "")
	client.baseURL = srv.URL

	_, err := client.Complete(context.Background(), "prompt", "", 2000, 0.3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestComplete_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Response{ID: "gen-2"})
	}))
	defer srv.Close()

	client := NewClient("test-key", "")
	client.baseURL = srv.URL

	_, err := client.Complete(context.Background(), "prompt", "", 2000, 0.3)
	assert.Error(t, err)
}
