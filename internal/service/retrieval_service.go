// Package service 包含了应用的业务逻辑层。
package service

import (
	"context"
	"fmt"

	"tancho-go/internal/model"
	"tancho-go/pkg/embedding"
	"tancho-go/pkg/log"
)

// VectorSearcher 抽象了检索依赖的相似度搜索操作。
type VectorSearcher interface {
	SearchSimilar(ctx context.Context, vector []float32, topK int) ([]model.ResourcePayload, error)
}

// RetrievalService 接口定义了资源检索操作。
type RetrievalService interface {
	// Retrieve 返回与查询最相似的至多 topK 条资源，按相似度降序。
	Retrieve(ctx context.Context, query string, topK int) ([]model.RetrievedResource, error)
}

type retrievalService struct {
	embeddingClient embedding.Client
	searcher        VectorSearcher
}

// NewRetrievalService 创建一个新的 RetrievalService 实例。
func NewRetrievalService(embeddingClient embedding.Client, searcher VectorSearcher) RetrievalService {
	return &retrievalService{
		embeddingClient: embeddingClient,
		searcher:        searcher,
	}
}

// Retrieve 向量化查询并执行 knn 搜索，将命中负载投影为检索结果。
// 不做重排、过滤或去重，排序完全以存储返回的相似度为准。
func (s *retrievalService) Retrieve(ctx context.Context, query string, topK int) ([]model.RetrievedResource, error) {
	log.Infof("[RetrievalService] 开始检索资源, query: '%s', topK: %d", query, topK)

	queryVector, err := s.embeddingClient.CreateEmbedding(ctx, query)
	if err != nil {
		log.Errorf("[RetrievalService] 向量化查询失败: %v", err)
		return nil, fmt.Errorf("failed to create query embedding: %w", err)
	}

	payloads, err := s.searcher.SearchSimilar(ctx, queryVector, topK)
	if err != nil {
		log.Errorf("[RetrievalService] 相似度搜索失败: %v", err)
		return nil, fmt.Errorf("similarity search failed: %w", err)
	}

	results := make([]model.RetrievedResource, 0, len(payloads))
	for _, p := range payloads {
		results = append(results, p.Retrieved())
	}
	log.Infof("[RetrievalService] 检索完成, 返回 %d 条结果", len(results))
	return results, nil
}
