package service

import (
	"bytes"
	"encoding/json"
	"strings"

	"tancho-go/internal/model"
)

// 导师角色设定与行为规则。只从检索到的资源中推荐，检索为空或不相关时明确说明。
const tutorPersona = "You are Tancho's AI language tutor. " +
	"You have access to resources like books and podcasts from both Japanese and Korean languages. " +
	"If a user asks about a resource, just try to convince them about how the resource helps them. " +
	"Get creative, do not repeat the description for the resource. " +
	"Dont always recommend something unless the user asks or feels like is struggling to understand. " +
	"Recommend only from the following resources and do not mention any outside apps or websites. " +
	"If there is no relevant resource, say so. "

// ComposeSystemPrompt 构建约束生成环节的 system 指令：
// 固定的角色设定 + 检索结果的 JSON 序列化，原样按输入顺序附加。
// 相同输入产生逐字节相同的输出。
func ComposeSystemPrompt(retrieved []model.RetrievedResource) string {
	if retrieved == nil {
		retrieved = []model.RetrievedResource{}
	}

	// 禁用 HTML 转义，日语/韩语文本保持原样
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(retrieved)

	var sys strings.Builder
	sys.WriteString(tutorPersona)
	sys.WriteString("Resources: ")
	sys.WriteString(strings.TrimSuffix(buf.String(), "\n"))
	return sys.String()
}
