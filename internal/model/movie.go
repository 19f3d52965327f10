package model

import (
	"math"
	"strings"
)

// ItemType 条目类型
type ItemType string

const (
	TypeMovie ItemType = "Movie"
	TypeAnime ItemType = "Anime"
)

// AnimeGenre 动画条目统一使用的类型标签
const AnimeGenre = "Anime"

// ParseItemType 解析条目类型（大小写不敏感）
func ParseItemType(s string) (ItemType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "movie":
		return TypeMovie, true
	case "anime":
		return TypeAnime, true
	}
	return "", false
}

// ItemRecord 统一后的目录条目（电影/动画）
type ItemRecord struct {
	ID         string   `json:"id"`         // 源数据内的 ID，仅在同一来源内唯一
	Title      string   `json:"title"`      // 标题，缺失时为空串
	Type       ItemType `json:"type"`       // Movie / Anime
	TextBlob   string   `json:"text_blob"`  // 词袋模型输入
	TextChunk  string   `json:"text_chunk"` // 向量化输入
	Rating     float64  `json:"rating"`     // 评分（各来源量纲不同，不做跨源归一）
	VoteCount  float64  `json:"vote_count"` // 投票数 / 动画成员数
	Popularity float64  `json:"popularity"` // 热度
	GenreList  string   `json:"genre_list"` // 类型标签，动画固定为 "Anime"
}

// Key 全局唯一键，同时作为向量库主键
func (r ItemRecord) Key() string {
	return string(r.Type) + "_" + r.ID
}

// Genres 拆分类型标签（按空格和逗号）
func (r ItemRecord) Genres() []string {
	return SplitGenres(r.GenreList)
}

// Valid 校验条目是否满足基本约束
func (r ItemRecord) Valid() bool {
	if r.Type != TypeMovie && r.Type != TypeAnime {
		return false
	}
	for _, v := range []float64{r.Rating, r.VoteCount, r.Popularity} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// SplitGenres 将类型字符串按空格、逗号拆分，去掉空白项
func SplitGenres(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' '
	})
	res := make([]string, 0, len(fields))
	for _, f := range fields {
		if t := strings.TrimSpace(f); t != "" {
			res = append(res, t)
		}
	}
	return res
}
