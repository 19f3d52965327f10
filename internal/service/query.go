package service

import (
	"fmt"
	"strings"

	"github.com/muaazl/cine-match/internal/model"
)

// Intent 请求意图
type Intent string

const (
	IntentSearch Intent = "search"
	IntentMood   Intent = "mood"
	IntentQuiz   Intent = "quiz"
	IntentHybrid Intent = "hybrid"
	IntentLucky  Intent = "lucky"
)

// 各意图的候选集大小，后续有重排或排除步骤的取更大的 K
const (
	SearchTopK = 80
	QuizTopK   = 20
	HybridTopK = 60
	LuckyTopK  = 50
)

// FilterAll 不过滤类型
const FilterAll = "All"

// LuckyPhrase 随机推荐使用的固定查询
const LuckyPhrase = "Masterpiece, highly rated, famous, classic, 5 stars"

// moodPhrases 心情 -> 描述性查询
var moodPhrases = map[string]string{
	"Happy":        "Feel good movie, comedy, lighthearted, happy ending",
	"Dark":         "Dark, psychological thriller, disturbing, gritty, noir",
	"Adrenaline":   "High stakes action, fast paced, car chases, explosions",
	"Mind-Bending": "Confusing plot, time travel, philosophy, deep thoughts",
	"Romantic":     "Love story, romance, heartbreak, relationship",
	"Scary":        "Horror, ghosts, jump scares, terrifying",
}

// Query 发送给向量库的一次查询
type Query struct {
	Intent Intent
	Text   string
	Filter model.Filter
	TopK   int
}

// Rerank 是否做标题字面重排
func (q Query) Rerank() bool {
	return q.Intent == IntentSearch || q.Intent == IntentMood
}

// SearchQuery 自由文本搜索，文本原样使用，类型过滤单独传递
func SearchQuery(text, filterType string) Query {
	q := Query{Intent: IntentSearch, Text: text, TopK: SearchTopK}
	if filterType != "" && filterType != FilterAll {
		q.Filter = model.Filter{"type": filterType}
	}
	return q
}

// MoodPhrase 心情对应的描述，未知心情原样返回
func MoodPhrase(mood string) string {
	if phrase, ok := moodPhrases[mood]; ok {
		return phrase
	}
	return mood
}

// Moods 支持的心情
func Moods() []string {
	return []string{"Happy", "Dark", "Adrenaline", "Mind-Bending", "Romantic", "Scary"}
}

// MoodQuery 心情搜索
func MoodQuery(mood string) Query {
	q := SearchQuery(MoodPhrase(mood), FilterAll)
	q.Intent = IntentMood
	return q
}

// QuizQuery 问卷条目查询，Anime 只查动画，其余只查电影
func QuizQuery(genre string) Query {
	t := model.TypeMovie
	if genre == model.AnimeGenre {
		t = model.TypeAnime
	}
	return Query{
		Intent: IntentQuiz,
		Text:   fmt.Sprintf("Popular, famous, high rated %s movies or anime", genre),
		Filter: model.TypeFilter(t),
		TopK:   QuizTopK,
	}
}

// HybridQuery 心情 + 类型 + 种子标题
func HybridQuery(mood, genre string, seeds []string) Query {
	return Query{
		Intent: IntentHybrid,
		Text:   fmt.Sprintf("%s %s similar to %s", mood, genre, strings.Join(seeds, ", ")),
		TopK:   HybridTopK,
	}
}

// LuckyQuery 随机推荐
func LuckyQuery() Query {
	return Query{Intent: IntentLucky, Text: LuckyPhrase, TopK: LuckyTopK}
}
