package catalog

import (
	"errors"
	"strings"

	"github.com/goccy/go-json"
)

type genrePair struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// parseGenreNames 解析序列化的类型列表
// 支持 JSON（双引号）与 Python 字面量（单引号）两种写法：
// [{"id": 28, "name": "Action"}] / [{'id': 28, 'name': 'Action'}]
func parseGenreNames(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("empty genre list")
	}

	var pairs []genrePair
	if err := json.Unmarshal([]byte(raw), &pairs); err != nil {
		if !strings.Contains(raw, "'") {
			return nil, err
		}
		// Python 字面量，单双引号互换后再尝试一次
		swapped := strings.Map(func(r rune) rune {
			switch r {
			case '\'':
				return '"'
			case '"':
				return '\''
			}
			return r
		}, raw)
		if err := json.Unmarshal([]byte(swapped), &pairs); err != nil {
			return nil, err
		}
	}

	names := make([]string, 0, len(pairs))
	for _, p := range pairs {
		if n := strings.TrimSpace(p.Name); n != "" {
			names = append(names, n)
		}
	}
	return names, nil
}
