package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 原始目录表的表头：带尾随空格与拼写错误
const legacyHeader = "No. ,Name ,Langugage,Type,Description,Key topics,Difficulty,Study Time\n"

func TestParse_LegacyHeaders(t *testing.T) {
	csv := legacyHeader +
		"1,Genki I,Japanese,Book,Learn hiragana,\"hiragana, writing\",Beginner,45-60 mins\n"

	resources, err := Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, resources, 1)

	r := resources[0]
	assert.Equal(t, 1, r.ID)
	assert.Equal(t, "Genki I", r.Name)
	assert.Equal(t, "Japanese", r.Language)
	assert.Equal(t, "Book", r.Category)
	assert.Equal(t, "Learn hiragana", r.Description)
	assert.Equal(t, []string{"hiragana", "writing"}, r.Topics)
	assert.Equal(t, "Beginner", r.Difficulty)
	assert.Equal(t, 45, r.EstimatedStudyTime)
}

func TestParse_CanonicalHeaders(t *testing.T) {
	csv := "id,name,language,category,description,topics,difficulty,study time\n" +
		"7,TTMIK,Korean,Podcast,Everyday Korean conversation,\"listening, speaking\",Intermediate,about 2 hours\n"

	resources, err := Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, resources, 1)
	assert.Equal(t, 7, resources[0].ID)
	assert.Equal(t, 2, resources[0].EstimatedStudyTime)
}

func TestParse_MissingColumnFails(t *testing.T) {
	// 缺少 Difficulty 列
	csv := "No. ,Name ,Langugage,Type,Description,Key topics,Study Time\n" +
		"1,Genki I,Japanese,Book,Learn hiragana,hiragana,45 mins\n"

	_, err := Parse(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "difficulty")
}

func TestParse_InvalidIDFails(t *testing.T) {
	for _, id := range []string{"abc", "0", "-3", ""} {
		csv := legacyHeader + id + ",Genki I,Japanese,Book,desc,topic,Beginner,45 mins\n"
		_, err := Parse(strings.NewReader(csv))
		assert.Error(t, err, "id=%q", id)
	}
}

func TestParse_RaggedRowFails(t *testing.T) {
	csv := legacyHeader + "1,Genki I,Japanese\n"
	_, err := Parse(strings.NewReader(csv))
	require.Error(t, err)
}

func TestParse_TopicsTrimmed(t *testing.T) {
	csv := legacyHeader +
		"2,Book,Japanese,Book,desc,\" kanji , reading ,, \",Beginner,n/a\n"

	resources, err := Parse(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, []string{"kanji", "reading"}, resources[0].Topics)
}

func TestExtractStudyTime(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"45-60 mins", 45},
		{"about 2 hours", 2},
		{"n/a", 0},
		{"", 0},
		{"30", 30},
		{"mins 15", 15},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ExtractStudyTime(tc.raw), "raw=%q", tc.raw)
	}
}
