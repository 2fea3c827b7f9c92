// Package indexer 定义了资源目录向量化导入的核心流程。
package indexer

import (
	"context"
	"fmt"

	"tancho-go/internal/model"
	"tancho-go/pkg/embedding"
	"tancho-go/pkg/log"
)

// ResourceStore 抽象了 Indexer 依赖的向量存储操作。
type ResourceStore interface {
	EnsureIndex(ctx context.Context) error
	RecreateIndex(ctx context.Context) error
	GetResource(ctx context.Context, id int) (*model.ResourcePayload, bool, error)
	UpsertResource(ctx context.Context, id int, doc model.ResourceDocument) error
}

// Indexer 封装了目录导入的所有依赖和逻辑。
// 一次性批处理任务：按目录顺序逐条处理，无内部并发，无重试。
type Indexer struct {
	embeddingClient embedding.Client
	store           ResourceStore
}

// Stats 汇总一次导入运行的处理结果。
type Stats struct {
	Total    int // 目录总条数
	Embedded int // 实际向量化并写入的条数
	Skipped  int // 内容未变更、跳过的条数
}

// New 创建一个新的 Indexer 实例。
func New(embeddingClient embedding.Client, store ResourceStore) *Indexer {
	return &Indexer{
		embeddingClient: embeddingClient,
		store:           store,
	}
}

// Run 将目录中的全部资源同步到向量索引。
// recreate 为 true 时先删除重建索引（维度变更时使用），否则仅在
// 索引缺失时创建，以保留既有条目供内容哈希变更检测。
// 单条资源的向量化或写入失败会使整个运行失败。
func (ix *Indexer) Run(ctx context.Context, resources []model.Resource, recreate bool) (Stats, error) {
	stats := Stats{Total: len(resources)}

	log.Infof("[Indexer] 开始导入资源目录, 共 %d 条, recreate: %v", len(resources), recreate)
	if recreate {
		if err := ix.store.RecreateIndex(ctx); err != nil {
			return stats, fmt.Errorf("重建索引失败: %w", err)
		}
	} else {
		if err := ix.store.EnsureIndex(ctx); err != nil {
			return stats, fmt.Errorf("初始化索引失败: %w", err)
		}
	}

	for i, r := range resources {
		log.Infof("[Indexer] 正在处理资源 %d/%d, ID: %d, Name: %s", i+1, len(resources), r.ID, r.Name)

		currentHash := r.ContentHash()

		// 变更检测：读取失败（含不存在）一律按“无既有记录”处理，不中断运行
		existing, found, err := ix.store.GetResource(ctx, r.ID)
		if err != nil {
			log.Warnf("[Indexer] 读取资源 %d 的既有记录失败, 按不存在处理: %v", r.ID, err)
			found = false
		}
		if found && existing.ContentHash == currentHash {
			log.Infof("[Indexer] 资源 %d (%s) 内容未变更, 跳过", r.ID, r.Name)
			stats.Skipped++
			continue
		}

		vector, err := ix.embeddingClient.CreateEmbedding(ctx, r.EmbeddingText())
		if err != nil {
			log.Errorf("[Indexer] 资源 %d 向量化失败: %v", r.ID, err)
			return stats, fmt.Errorf("资源 %d 向量化失败: %w", r.ID, err)
		}

		doc := model.ResourceDocument{
			ResourcePayload: r.Payload(),
			Vector:          vector,
		}
		if err := ix.store.UpsertResource(ctx, r.ID, doc); err != nil {
			log.Errorf("[Indexer] 写入资源 %d 失败: %v", r.ID, err)
			return stats, fmt.Errorf("写入资源 %d 失败: %w", r.ID, err)
		}
		log.Infof("[Indexer] 资源 %d (%s) 已向量化并写入", r.ID, r.Name)
		stats.Embedded++
	}

	log.Infof("[Indexer] 导入完成, 总计: %d, 写入: %d, 跳过: %d", stats.Total, stats.Embedded, stats.Skipped)
	return stats, nil
}
