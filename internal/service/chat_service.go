package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"tancho-go/internal/config"
	"tancho-go/internal/model"
	"tancho-go/pkg/llm"
	"tancho-go/pkg/log"
)

// FrameWriter 将一帧 SSE 数据写给客户端。
type FrameWriter interface {
	WriteFrame(data []byte) error
}

// ChatService 定义了聊天操作的接口。
type ChatService interface {
	// StreamChat 执行检索增强的聊天流程，把生成的增量逐帧写入 w。
	StreamChat(ctx context.Context, req model.ChatRequest, w FrameWriter) error
}

type chatService struct {
	retrieval RetrievalService
	llmClient llm.Client
	genCfg    config.LLMGenerationConfig
}

// NewChatService 创建一个新的 ChatService 实例。
func NewChatService(retrieval RetrievalService, llmClient llm.Client, genCfg config.LLMGenerationConfig) ChatService {
	return &chatService{
		retrieval: retrieval,
		llmClient: llmClient,
		genCfg:    genCfg,
	}
}

// 流结束标记帧，任何一次成功开始的流都以它收尾，且只出现一次
var doneFrame = []byte("data: [DONE]\n\n")

// StreamChat 协调 检索 -> 组装提示 -> 流式生成 的完整流程。
func (s *chatService) StreamChat(ctx context.Context, req model.ChatRequest, w FrameWriter) error {
	query := req.LastUserMessage()
	log.Infof("[ChatService] 开始处理聊天请求, query: '%s', topK: %d", query, req.TopK)

	// 1. 检索相关资源
	retrieved, err := s.retrieval.Retrieve(ctx, query, req.TopK)
	if err != nil {
		return fmt.Errorf("failed to retrieve resources: %w", err)
	}

	// 2. 组装 system 指令与完整消息序列
	systemPrompt := ComposeSystemPrompt(retrieved)
	messages := make([]llm.Message, 0, len(req.Messages)+1)
	messages = append(messages, llm.Message{Role: "system", Content: systemPrompt})
	for _, m := range req.Messages {
		messages = append(messages, llm.Message{Role: m.Role, Content: m.Content})
	}

	// 3. 流式生成：每个非空增量写出一帧，按到达顺序，不缓冲
	streamed := false
	streamErr := s.llmClient.StreamChatMessages(ctx, messages, s.buildGenerationParams(), func(content string) error {
		streamed = true
		return w.WriteFrame(encodeContentFrame(content))
	})

	// 4. 收尾：取消后不再发送任何帧；请求阶段失败原样上抛，
	//    由上层返回错误响应；其余情况下恰好发送一次结束标记
	if ctx.Err() != nil {
		log.Warnf("[ChatService] 请求已取消, 中止流式响应: %v", ctx.Err())
		return ctx.Err()
	}
	if streamErr != nil && !streamed {
		return streamErr
	}
	if err := w.WriteFrame(doneFrame); err != nil {
		return err
	}
	if streamErr != nil {
		log.Errorf("[ChatService] 流式生成中途失败: %v", streamErr)
		return streamErr
	}
	log.Info("[ChatService] 流式响应完成")
	return nil
}

// 增量内容的 SSE 帧：data: {"choices":[{"delta":{"content":...}}]}
type streamDelta struct {
	Content string `json:"content"`
}

type streamChoice struct {
	Delta streamDelta `json:"delta"`
}

type streamChunk struct {
	Choices []streamChoice `json:"choices"`
}

// encodeContentFrame 把一个增量内容编码为一帧 SSE 数据。
// 禁用 HTML 转义，非 ASCII 文本原样下发。
func encodeContentFrame(content string) []byte {
	chunk := streamChunk{Choices: []streamChoice{{Delta: streamDelta{Content: content}}}}

	var buf bytes.Buffer
	buf.WriteString("data: ")
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(chunk) // Encode 自带换行，帧尾再补一个空行
	buf.WriteString("\n")
	return buf.Bytes()
}

func (s *chatService) buildGenerationParams() *llm.GenerationParams {
	var gp llm.GenerationParams
	if s.genCfg.Temperature != 0 {
		t := s.genCfg.Temperature
		gp.Temperature = &t
	}
	if s.genCfg.TopP != 0 {
		p := s.genCfg.TopP
		gp.TopP = &p
	}
	if s.genCfg.MaxTokens != 0 {
		m := s.genCfg.MaxTokens
		gp.MaxTokens = &m
	}
	if gp.Temperature == nil && gp.TopP == nil && gp.MaxTokens == nil {
		return nil
	}
	return &gp
}
