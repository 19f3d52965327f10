package quiz

import (
	"sort"
	"strings"

	"github.com/muaazl/cine-match/internal/model"
)

// MaxPerGenre 每个类型最多保留的条目数
const MaxPerGenre = 20

// minTokenLen 类型词最短长度（不含）
const minTokenLen = 2

// Entry 问卷条目
type Entry struct {
	ID    string         `json:"id"`
	Title string         `json:"title"`
	Type  model.ItemType `json:"type"`
}

// Index 类型 -> 按评分降序的条目列表，构建后只读
type Index map[string][]Entry

// Build 从语料构建问卷索引
func Build(items []model.ItemRecord) Index {
	tokens := make(map[string]struct{})
	for _, it := range items {
		for _, g := range it.Genres() {
			if len(g) > minTokenLen {
				tokens[g] = struct{}{}
			}
		}
	}

	idx := make(Index, len(tokens))
	for genre := range tokens {
		bucket := selectBucket(items, genre)
		if len(bucket) == 0 {
			continue
		}
		sort.SliceStable(bucket, func(i, j int) bool {
			return bucket[i].Rating > bucket[j].Rating
		})
		if len(bucket) > MaxPerGenre {
			bucket = bucket[:MaxPerGenre]
		}

		entries := make([]Entry, len(bucket))
		for i, it := range bucket {
			entries[i] = Entry{ID: it.ID, Title: it.Title, Type: it.Type}
		}
		idx[genre] = entries
	}
	return idx
}

// selectBucket 按类型词挑选候选条目（保持语料顺序）
func selectBucket(items []model.ItemRecord, genre string) []model.ItemRecord {
	var out []model.ItemRecord
	if genre == model.AnimeGenre {
		for _, it := range items {
			if it.Type == model.TypeAnime {
				out = append(out, it)
			}
		}
		return out
	}

	needle := strings.ToLower(genre)
	for _, it := range items {
		if it.Type == model.TypeMovie && strings.Contains(strings.ToLower(it.GenreList), needle) {
			out = append(out, it)
		}
	}
	return out
}

// Genres 所有类型名（排序）
func (idx Index) Genres() []string {
	names := make([]string, 0, len(idx))
	for g := range idx {
		names = append(names, g)
	}
	sort.Strings(names)
	return names
}

// Items 某类型的条目，不存在时返回 nil
func (idx Index) Items(genre string) []Entry {
	return idx[genre]
}
