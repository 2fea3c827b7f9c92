// Package es 提供了基于 Elasticsearch 的资源向量存储。
package es

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"tancho-go/internal/config"
	"tancho-go/internal/model"
	"tancho-go/pkg/log"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// Store 封装了资源向量索引的全部存储操作。
// 通过构造函数注入使用，索引中所有向量的维度固定为 dims。
type Store struct {
	client *elasticsearch.Client
	index  string
	dims   int
}

// NewStore 创建一个连接到 Elasticsearch 的资源存储。
func NewStore(esCfg config.ElasticsearchConfig, dims int) (*Store, error) {
	if dims <= 0 {
		return nil, errors.New("向量维度必须为正数")
	}
	cfg := elasticsearch.Config{
		Addresses: []string{esCfg.Addresses},
		Username:  esCfg.Username,
		Password:  esCfg.Password,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}
	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return &Store{client: client, index: esCfg.IndexName, dims: dims}, nil
}

// EnsureIndex 检查索引是否存在，如果不存在则按配置的维度创建它。
// 保留已有索引，内容哈希变更检测才有意义。
func (s *Store) EnsureIndex(ctx context.Context) error {
	res, err := s.client.Indices.Exists([]string{s.index}, s.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		log.Errorf("检查索引是否存在时出错: %v", err)
		return err
	}
	defer res.Body.Close()
	if !res.IsError() && res.StatusCode == http.StatusOK {
		log.Infof("索引 '%s' 已存在", s.index)
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("检查索引是否存在时收到意外的状态码: %d", res.StatusCode)
	}
	return s.createIndex(ctx)
}

// RecreateIndex 删除并重建索引。仅在向量维度变更时使用：
// 旧维度的向量全部失效，只能整体重建，不做迁移。
func (s *Store) RecreateIndex(ctx context.Context) error {
	res, err := s.client.Indices.Delete(
		[]string{s.index},
		s.client.Indices.Delete.WithContext(ctx),
		s.client.Indices.Delete.WithIgnoreUnavailable(true),
	)
	if err != nil {
		log.Errorf("删除索引 '%s' 失败: %v", s.index, err)
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("删除索引时 Elasticsearch 返回错误: %s", res.String())
	}
	log.Infof("已删除索引 '%s'，准备以维度 %d 重建", s.index, s.dims)
	return s.createIndex(ctx)
}

func (s *Store) createIndex(ctx context.Context) error {
	// 负载字段与向量字段的映射，向量使用 cosine 相似度
	mapping := fmt.Sprintf(`{
		"mappings": {
			"properties": {
				"name": { "type": "text" },
				"description": { "type": "text" },
				"topics": { "type": "keyword" },
				"language": { "type": "keyword" },
				"category": { "type": "keyword" },
				"difficulty": { "type": "keyword" },
				"estimatedStudyTime": { "type": "integer" },
				"contentHash": { "type": "keyword" },
				"vector": {
					"type": "dense_vector",
					"dims": %d,
					"index": true,
					"similarity": "cosine"
				}
			}
		}
	}`, s.dims)

	res, err := s.client.Indices.Create(
		s.index,
		s.client.Indices.Create.WithContext(ctx),
		s.client.Indices.Create.WithBody(strings.NewReader(mapping)),
	)
	if err != nil {
		log.Errorf("创建索引 '%s' 失败: %v", s.index, err)
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		log.Errorf("创建索引 '%s' 时 Elasticsearch 返回错误: %s", s.index, res.String())
		return errors.New("创建索引时 Elasticsearch 返回错误")
	}
	log.Infof("索引 '%s' 创建成功, 向量维度: %d", s.index, s.dims)
	return nil
}

// GetResource 按资源 ID 读取已存储的负载。
// 文档不存在返回 (nil, false, nil)；连接或服务端错误返回 error，
// 由调用方决定是否按“记录不存在”处理。
func (s *Store) GetResource(ctx context.Context, id int) (*model.ResourcePayload, bool, error) {
	req := esapi.GetRequest{
		Index:      s.index,
		DocumentID: strconv.Itoa(id),
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, false, err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, false, nil
	}
	if res.IsError() {
		return nil, false, fmt.Errorf("读取资源 %d 时 Elasticsearch 返回错误: %s", id, res.String())
	}

	var doc struct {
		Source model.ResourcePayload `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&doc); err != nil {
		return nil, false, fmt.Errorf("解析资源 %d 的文档失败: %w", id, err)
	}
	return &doc.Source, true, nil
}

// UpsertResource 将资源文档写入索引，文档 ID 即资源 ID。
// 向量维度与索引配置不一致的文档一律拒绝写入。
func (s *Store) UpsertResource(ctx context.Context, id int, doc model.ResourceDocument) error {
	if len(doc.Vector) != s.dims {
		return fmt.Errorf("资源 %d 的向量维度 %d 与索引配置的 %d 不一致", id, len(doc.Vector), s.dims)
	}

	docBytes, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      s.index,
		DocumentID: strconv.Itoa(id),
		Body:       bytes.NewReader(docBytes),
		Refresh:    "true",
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		log.Errorf("写入资源 %d 到 Elasticsearch 出错: %s", id, res.String())
		return fmt.Errorf("写入资源 %d 失败", id)
	}
	return nil
}

// SearchSimilar 对查询向量执行 knn 相似度搜索，按相似度降序返回
// 最多 topK 条负载。排序完全依赖存储本身，不做任何重排。
func (s *Store) SearchSimilar(ctx context.Context, vector []float32, topK int) ([]model.ResourcePayload, error) {
	var buf bytes.Buffer
	esQuery := map[string]interface{}{
		"knn": map[string]interface{}{
			"field":          "vector",
			"query_vector":   vector,
			"k":              topK,
			"num_candidates": topK * 10,
		},
		"size": topK,
		"_source": map[string]interface{}{
			"excludes": []string{"vector"},
		},
	}
	if err := json.NewEncoder(&buf).Encode(esQuery); err != nil {
		return nil, fmt.Errorf("序列化 Elasticsearch 查询失败: %w", err)
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch search failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch returned an error: %s", res.String())
	}

	var esResponse struct {
		Hits struct {
			Hits []struct {
				Source model.ResourcePayload `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&esResponse); err != nil {
		return nil, fmt.Errorf("解析 Elasticsearch 响应失败: %w", err)
	}

	payloads := make([]model.ResourcePayload, 0, len(esResponse.Hits.Hits))
	for _, hit := range esResponse.Hits.Hits {
		payloads = append(payloads, hit.Source)
	}
	return payloads, nil
}
