// Package main 是语义检索的手动冒烟检查工具。
package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"tancho-go/internal/config"
	"tancho-go/pkg/embedding"
	"tancho-go/pkg/es"
	"tancho-go/pkg/log"

	"github.com/joho/godotenv"
)

func main() {
	configPath := flag.String("config", "./configs/config.yaml", "配置文件路径")
	query := flag.String("query", "How can I learn flower names in Japanese?", "测试查询")
	topK := flag.Int("k", 3, "返回条数")
	flag.Parse()

	_ = godotenv.Load()
	config.Init(*configPath)
	cfg := config.Conf

	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync()

	store, err := es.NewStore(cfg.Elasticsearch, cfg.Embedding.Dimensions)
	if err != nil {
		log.Fatal("Elasticsearch 初始化失败", err)
	}
	embeddingClient := embedding.NewClient(cfg.Embedding)

	ctx := context.Background()
	vector, err := embeddingClient.CreateEmbedding(ctx, *query)
	if err != nil {
		log.Fatal("查询向量化失败", err)
	}

	hits, err := store.SearchSimilar(ctx, vector, *topK)
	if err != nil {
		log.Fatal("相似度搜索失败", err)
	}

	fmt.Printf("\nTop matches for: %s\n", *query)
	for _, hit := range hits {
		fmt.Printf("\n• %s\n", hit.Name)
		fmt.Printf("  Description: %s\n", hit.Description)
		fmt.Printf("  Topics: %s\n", strings.Join(hit.Topics, ", "))
		fmt.Printf("  Difficulty: %s\n", hit.Difficulty)
	}
	fmt.Println("\n语义检索工作正常")
}
