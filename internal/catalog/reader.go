// Package catalog 负责读取学习资源目录表（CSV）。
package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"tancho-go/internal/model"
)

// 表头到规范列名的别名映射。原始目录表的表头带有空格甚至拼写错误
// （"No. "、"Langugage"），统一做 trim + 小写后再按别名匹配。
var headerAliases = map[string]string{
	"no.":                  "id",
	"id":                   "id",
	"name":                 "name",
	"language":             "language",
	"langugage":            "language",
	"type":                 "category",
	"category":             "category",
	"description":          "description",
	"key topics":           "topics",
	"topics":               "topics",
	"difficulty":           "difficulty",
	"study time":           "studyTime",
	"estimated study time": "studyTime",
}

// 缺一列整个导入运行都应失败，不允许部分目录状态
var requiredColumns = []string{"id", "name", "language", "category", "description", "topics", "difficulty", "studyTime"}

var numberPattern = regexp.MustCompile(`\d+`)

// Load 读取并解析指定路径的目录表文件。
func Load(path string) ([]model.Resource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开目录表文件失败: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse 从 reader 解析目录表。首行为表头；任何必需列缺失、
// 行字段数不符或资源 ID 非法都会使整个解析失败。
func Parse(r io.Reader) ([]model.Resource, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("读取目录表表头失败: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if canonical, ok := headerAliases[key]; ok {
			columns[canonical] = i
		}
	}
	for _, col := range requiredColumns {
		if _, ok := columns[col]; !ok {
			return nil, fmt.Errorf("目录表缺少必需列: %s", col)
		}
	}

	var resources []model.Resource
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("读取目录表第 %d 行失败: %w", line, err)
		}

		field := func(name string) string {
			return strings.TrimSpace(record[columns[name]])
		}

		id, err := strconv.Atoi(field("id"))
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("目录表第 %d 行资源 ID 非法: %q", line, field("id"))
		}

		resources = append(resources, model.Resource{
			ID:                 id,
			Name:               field("name"),
			Description:        field("description"),
			Topics:             splitTopics(field("topics")),
			Language:           field("language"),
			Category:           field("category"),
			Difficulty:         field("difficulty"),
			EstimatedStudyTime: ExtractStudyTime(field("studyTime")),
		})
	}

	return resources, nil
}

// splitTopics 按逗号切分主题标签并去除空白项。
func splitTopics(raw string) []string {
	parts := strings.Split(raw, ",")
	topics := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			topics = append(topics, t)
		}
	}
	return topics
}

// ExtractStudyTime 从自由文本中提取第一个整数作为学习时长（分钟）。
// "45-60 mins" -> 45, "about 2 hours" -> 2, 无数字 -> 0。
func ExtractStudyTime(raw string) int {
	match := numberPattern.FindString(raw)
	if match == "" {
		return 0
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}
	return n
}
