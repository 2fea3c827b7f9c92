package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tancho-go/internal/config"
)

func TestCreateEmbedding_Success(t *testing.T) {
	var captured embeddingRequest
	var authHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{"embedding": []float32{0.1, 0.2, 0.3}},
			},
		})
	}))
	defer server.Close()

	client := NewClient(config.EmbeddingConfig{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		Model:      "text-embedding-3-large",
		Dimensions: 3,
	})

	vector, err := client.CreateEmbedding(context.Background(), "Learn hiragana hiragana writing")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vector)

	assert.Equal(t, "Bearer test-key", authHeader)
	assert.Equal(t, "text-embedding-3-large", captured.Model)
	assert.Equal(t, []string{"Learn hiragana hiragana writing"}, captured.Input)
	assert.Equal(t, 3, captured.Dimensions)
}

func TestCreateEmbedding_Non200IsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(config.EmbeddingConfig{BaseURL: server.URL})
	_, err := client.CreateEmbedding(context.Background(), "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-200")
}

func TestCreateEmbedding_EmptyDataIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	client := NewClient(config.EmbeddingConfig{BaseURL: server.URL})
	_, err := client.CreateEmbedding(context.Background(), "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty embedding")
}
