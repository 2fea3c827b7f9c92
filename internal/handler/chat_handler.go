// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"net/http"

	"tancho-go/internal/model"
	"tancho-go/internal/service"
	"tancho-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// 未显式指定 top_k 时的默认检索条数
const defaultTopK = 3

// ChatHandler 负责处理聊天请求并以 SSE 流式返回。
type ChatHandler struct {
	chatService service.ChatService
}

// NewChatHandler 创建一个新的 ChatHandler。
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Chat 是处理聊天请求的 Gin 处理函数。
func (h *ChatHandler) Chat(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("[ChatHandler] 请求体解析失败: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求体"})
		return
	}
	if len(req.Messages) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "messages 不能为空"})
		return
	}
	if req.TopK <= 0 {
		req.TopK = defaultTopK
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	w := &sseFrameWriter{writer: c.Writer}
	if err := h.chatService.StreamChat(c.Request.Context(), req, w); err != nil {
		log.Errorf("[ChatHandler] 处理流式响应失败: %v", err)
		// 尚未写出任何帧时才能返回错误响应，流已开始则只能记录
		if !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "AI服务暂时不可用，请稍后重试"})
		}
		return
	}
}

// sseFrameWriter 将帧写入 HTTP 响应并逐帧 flush，消费端按提供方
// 的节奏拉取，不做任何预读缓冲。
type sseFrameWriter struct {
	writer gin.ResponseWriter
}

// WriteFrame 满足 service.FrameWriter 接口。
func (w *sseFrameWriter) WriteFrame(data []byte) error {
	if _, err := w.writer.Write(data); err != nil {
		return err
	}
	w.writer.Flush()
	return nil
}
