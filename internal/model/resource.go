// Package model 定义了业务数据结构。
package model

import (
	"crypto/md5"
	"fmt"
	"strings"
)

// Resource 代表学习资源目录中的一条资源（书籍、播客等）。
// ID 在目录中唯一且跨多次索引运行保持稳定，同时作为向量索引的文档 ID。
type Resource struct {
	ID                 int
	Name               string
	Description        string
	Topics             []string
	Language           string
	Category           string
	Difficulty         string
	EstimatedStudyTime int // 预计学习时长，单位分钟
}

// EmbeddingText 返回用于向量化的文本：描述 + 空格连接的主题标签。
func (r Resource) EmbeddingText() string {
	return r.Description + " " + strings.Join(r.Topics, " ")
}

// ContentHash 返回 EmbeddingText 的 MD5 摘要（十六进制小写）。
// 仅用于变更检测，判断资源是否需要重新向量化，不作为身份标识。
func (r Resource) ContentHash() string {
	return fmt.Sprintf("%x", md5.Sum([]byte(r.EmbeddingText())))
}

// Payload 构建写入向量索引的负载字段（不含向量本身）。
func (r Resource) Payload() ResourcePayload {
	return ResourcePayload{
		Name:               r.Name,
		Description:        r.Description,
		Topics:             r.Topics,
		Language:           r.Language,
		Category:           r.Category,
		Difficulty:         r.Difficulty,
		EstimatedStudyTime: r.EstimatedStudyTime,
		ContentHash:        r.ContentHash(),
	}
}

// ResourcePayload 定义了存储在 Elasticsearch 文档中除向量外的负载字段。
type ResourcePayload struct {
	Name               string   `json:"name"`
	Description        string   `json:"description"`
	Topics             []string `json:"topics"`
	Language           string   `json:"language"`
	Category           string   `json:"category"`
	Difficulty         string   `json:"difficulty"`
	EstimatedStudyTime int      `json:"estimatedStudyTime"`
	ContentHash        string   `json:"contentHash"`
}

// ResourceDocument 定义了存储在 Elasticsearch 中的完整文档结构。
type ResourceDocument struct {
	ResourcePayload
	Vector []float32 `json:"vector"`
}

// RetrievedResource 定义了返回给生成环节的检索结果投影。
// 向量与内容哈希永远不会暴露给下游。
type RetrievedResource struct {
	Name               string   `json:"name"`
	Description        string   `json:"description"`
	Topics             []string `json:"topics"`
	Difficulty         string   `json:"difficulty"`
	EstimatedStudyTime int      `json:"estimatedStudyTime"`
}

// Retrieved 将负载投影为 RetrievedResource。缺失字段保持零值，不报错。
func (p ResourcePayload) Retrieved() RetrievedResource {
	return RetrievedResource{
		Name:               p.Name,
		Description:        p.Description,
		Topics:             p.Topics,
		Difficulty:         p.Difficulty,
		EstimatedStudyTime: p.EstimatedStudyTime,
	}
}
