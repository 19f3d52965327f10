package model

// SearchResult 检索结果
type SearchResult struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Type   ItemType `json:"type"`
	Score  float64  `json:"score"`
	Rating float64  `json:"rating"`
}

// Recommendation 带推荐理由的结果
type Recommendation struct {
	SearchResult
	Reason string `json:"reason"`
}

// QuizItem 问卷条目
type QuizItem struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Type   ItemType `json:"type"`
	Poster *string  `json:"poster"` // 海报由前端自行补全，这里恒为 null
}

// LuckyPick 随机推荐
type LuckyPick struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Type   ItemType `json:"type"`
	Rating float64  `json:"rating"`
	Reason string   `json:"reason"`
}

// SimilarItem 本地相似度矩阵给出的相似条目
type SimilarItem struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Type       ItemType `json:"type"`
	Score      float64  `json:"score"`
	Rating     float64  `json:"rating"`
	Reason     string   `json:"reason"`
	ReasonType string   `json:"reason_type"`
}
