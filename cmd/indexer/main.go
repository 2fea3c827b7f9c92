// Package main 是资源目录导入批处理任务的入口点。
package main

import (
	"context"
	"flag"

	"tancho-go/internal/catalog"
	"tancho-go/internal/config"
	"tancho-go/internal/indexer"
	"tancho-go/pkg/embedding"
	"tancho-go/pkg/es"
	"tancho-go/pkg/log"

	"github.com/joho/godotenv"
)

func main() {
	configPath := flag.String("config", "./configs/config.yaml", "配置文件路径")
	sourcePath := flag.String("source", "", "目录表 CSV 路径，缺省使用配置中的 catalog.source_path")
	recreate := flag.Bool("recreate", false, "删除并重建索引（向量维度变更时使用）")
	flag.Parse()

	_ = godotenv.Load()
	config.Init(*configPath)
	cfg := config.Conf

	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync()

	source := *sourcePath
	if source == "" {
		source = cfg.Catalog.SourcePath
	}

	resources, err := catalog.Load(source)
	if err != nil {
		log.Fatal("读取资源目录失败", err)
	}
	log.Infof("已读取资源目录 '%s', 共 %d 条", source, len(resources))

	store, err := es.NewStore(cfg.Elasticsearch, cfg.Embedding.Dimensions)
	if err != nil {
		log.Fatal("Elasticsearch 初始化失败", err)
	}
	embeddingClient := embedding.NewClient(cfg.Embedding)

	ix := indexer.New(embeddingClient, store)
	stats, err := ix.Run(context.Background(), resources, *recreate)
	if err != nil {
		log.Fatal("资源目录导入失败", err)
	}
	log.Infof("资源目录导入成功, 总计: %d, 写入: %d, 跳过: %d", stats.Total, stats.Embedded, stats.Skipped)
}
