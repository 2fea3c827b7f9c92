package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResource_EmbeddingText(t *testing.T) {
	r := Resource{
		Description: "Learn hiragana",
		Topics:      []string{"hiragana", "writing"},
	}
	assert.Equal(t, "Learn hiragana hiragana writing", r.EmbeddingText())
}

func TestResource_ContentHash(t *testing.T) {
	r := Resource{
		Description: "Learn hiragana",
		Topics:      []string{"hiragana", "writing"},
	}
	// md5("Learn hiragana hiragana writing")
	assert.Equal(t, "f66baf0495c51469331e790cae2d5aef", r.ContentHash())
}

func TestResource_ContentHashSensitivity(t *testing.T) {
	base := Resource{
		Description: "Learn hiragana",
		Topics:      []string{"hiragana", "writing"},
		Difficulty:  "Beginner",
	}

	changedDesc := base
	changedDesc.Description = "Learn hiragana!"
	assert.NotEqual(t, base.ContentHash(), changedDesc.ContentHash())

	changedTopics := base
	changedTopics.Topics = []string{"hiragana", "reading"}
	assert.NotEqual(t, base.ContentHash(), changedTopics.ContentHash())

	// 无关字段变更不影响哈希
	changedDifficulty := base
	changedDifficulty.Difficulty = "Advanced"
	assert.Equal(t, base.ContentHash(), changedDifficulty.ContentHash())
}

func TestResourcePayload_Retrieved(t *testing.T) {
	p := ResourcePayload{
		Name:               "Genki I",
		Description:        "Learn hiragana",
		Topics:             []string{"hiragana"},
		Language:           "Japanese",
		Category:           "Book",
		Difficulty:         "Beginner",
		EstimatedStudyTime: 45,
		ContentHash:        "deadbeef",
	}
	got := p.Retrieved()
	assert.Equal(t, "Genki I", got.Name)
	assert.Equal(t, "Learn hiragana", got.Description)
	assert.Equal(t, []string{"hiragana"}, got.Topics)
	assert.Equal(t, "Beginner", got.Difficulty)
	assert.Equal(t, 45, got.EstimatedStudyTime)
}

func TestChatRequest_LastUserMessage(t *testing.T) {
	req := ChatRequest{Messages: []ChatMessage{
		{Role: "user", Content: "first"},
		{Role: "assistant", Content: "reply"},
		{Role: "user", Content: "teach me hiragana"},
	}}
	assert.Equal(t, "teach me hiragana", req.LastUserMessage())

	empty := ChatRequest{Messages: []ChatMessage{{Role: "assistant", Content: "hi"}}}
	assert.Equal(t, "", empty.LastUserMessage())
}
