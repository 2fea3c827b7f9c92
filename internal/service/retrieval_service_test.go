package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tancho-go/internal/model"
)

// stubEmbedder 实现 embedding.Client。
type stubEmbedder struct {
	vector []float32
	err    error

	calls     int
	lastInput string
}

func (s *stubEmbedder) CreateEmbedding(ctx context.Context, text string) ([]float32, error) {
	s.calls++
	s.lastInput = text
	if s.err != nil {
		return nil, s.err
	}
	return s.vector, nil
}

// stubSearcher 实现 VectorSearcher。
type stubSearcher struct {
	payloads []model.ResourcePayload
	err      error

	lastVector []float32
	lastTopK   int
}

func (s *stubSearcher) SearchSimilar(ctx context.Context, vector []float32, topK int) ([]model.ResourcePayload, error) {
	s.lastVector = vector
	s.lastTopK = topK
	if s.err != nil {
		return nil, s.err
	}
	if len(s.payloads) > topK {
		return s.payloads[:topK], nil
	}
	return s.payloads, nil
}

func payloadFixture(name string) model.ResourcePayload {
	return model.ResourcePayload{
		Name:               name,
		Description:        "desc",
		Topics:             []string{"hiragana"},
		Language:           "Japanese",
		Category:           "Book",
		Difficulty:         "Beginner",
		EstimatedStudyTime: 45,
		ContentHash:        "cafebabe",
	}
}

func TestRetrieve_ProjectsHitsInOrder(t *testing.T) {
	embedder := &stubEmbedder{vector: []float32{0.5, 0.5}}
	searcher := &stubSearcher{payloads: []model.ResourcePayload{
		payloadFixture("Genki I"),
		payloadFixture("TTMIK"),
	}}
	svc := NewRetrievalService(embedder, searcher)

	results, err := svc.Retrieve(context.Background(), "teach me hiragana", 3)
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "Genki I", results[0].Name)
	assert.Equal(t, "TTMIK", results[1].Name)
	assert.Equal(t, 45, results[0].EstimatedStudyTime)

	assert.Equal(t, 1, embedder.calls, "查询只向量化一次")
	assert.Equal(t, "teach me hiragana", embedder.lastInput)
	assert.Equal(t, []float32{0.5, 0.5}, searcher.lastVector)
	assert.Equal(t, 3, searcher.lastTopK)
}

func TestRetrieve_TopKBound(t *testing.T) {
	payloads := []model.ResourcePayload{
		payloadFixture("a"), payloadFixture("b"), payloadFixture("c"),
		payloadFixture("d"), payloadFixture("e"),
	}
	svc := NewRetrievalService(&stubEmbedder{vector: []float32{1}}, &stubSearcher{payloads: payloads})

	for _, k := range []int{1, 2, 5, 10} {
		results, err := svc.Retrieve(context.Background(), "q", k)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(results), k)
	}
}

func TestRetrieve_EmptyStore(t *testing.T) {
	svc := NewRetrievalService(&stubEmbedder{vector: []float32{1}}, &stubSearcher{})

	results, err := svc.Retrieve(context.Background(), "q", 3)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.NotNil(t, results)
}

func TestRetrieve_EmbeddingErrorPropagates(t *testing.T) {
	svc := NewRetrievalService(&stubEmbedder{err: errors.New("provider down")}, &stubSearcher{})

	_, err := svc.Retrieve(context.Background(), "q", 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider down")
}

func TestRetrieve_SearchErrorPropagates(t *testing.T) {
	svc := NewRetrievalService(&stubEmbedder{vector: []float32{1}}, &stubSearcher{err: errors.New("es down")})

	_, err := svc.Retrieve(context.Background(), "q", 3)
	require.Error(t, err)
}
