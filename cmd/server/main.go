// Package main 是聊天服务的入口点。
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tancho-go/internal/config"
	"tancho-go/internal/handler"
	"tancho-go/internal/middleware"
	"tancho-go/internal/service"
	"tancho-go/pkg/embedding"
	"tancho-go/pkg/es"
	"tancho-go/pkg/llm"
	"tancho-go/pkg/log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// 1. 加载 .env（可选）与配置
	_ = godotenv.Load()
	config.Init("./configs/config.yaml")
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync()
	log.Info("日志记录器初始化成功")

	// 3. 初始化资源向量存储
	store, err := es.NewStore(cfg.Elasticsearch, cfg.Embedding.Dimensions)
	if err != nil {
		log.Fatal("Elasticsearch 初始化失败", err)
	}
	if err := store.EnsureIndex(context.Background()); err != nil {
		log.Fatal("资源索引初始化失败", err)
	}

	// 4. 初始化 Service (依赖注入)
	embeddingClient := embedding.NewClient(cfg.Embedding)
	llmClient := llm.NewClient(cfg.LLM)
	retrievalService := service.NewRetrievalService(embeddingClient, store)
	chatService := service.NewChatService(retrievalService, llmClient, cfg.LLM.Generation)

	// 5. 设置 Gin 模式并注册路由
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())
	r.POST("/chat", handler.NewChatHandler(chatService).Chat)

	// 6. 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("HTTP 服务器关闭失败: %v", err)
	}
	log.Info("服务已优雅关闭")
}
