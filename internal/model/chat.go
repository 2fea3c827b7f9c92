package model

// ChatMessage 表示一条角色消息，role 取值 system/user/assistant。
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest 定义了聊天接口的请求体。
// Messages 按时间顺序排列，最后一条 user 消息是检索的查询对象。
type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
	TopK     int           `json:"top_k"`
}

// LastUserMessage 从后向前找到最后一条 user 消息的内容，找不到返回空串。
func (r ChatRequest) LastUserMessage() string {
	for i := len(r.Messages) - 1; i >= 0; i-- {
		if r.Messages[i].Role == "user" {
			return r.Messages[i].Content
		}
	}
	return ""
}
