package service

import (
	"fmt"
	"math"
	"strings"

	"github.com/muaazl/cine-match/internal/model"
)

// 推荐理由类型
const (
	ReasonGenre   = "genre"
	ReasonAnime   = "anime"
	ReasonRating  = "rating"
	ReasonContent = "content"
)

// coreGenres 作为推荐理由优先展示的核心类型
var coreGenres = []string{
	"Science", "Fiction", "Mystery", "Thriller", "Action", "Comedy",
	"Romance", "Drama", "War", "History", "Horror", "Animation", "Fantasy",
}

// calculateGenreSimilarity 计算类型重合度
func calculateGenreSimilarity(source, target model.ItemRecord) (float64, []string) {
	sourceList := source.Genres()
	targetList := target.Genres()

	common := []string{}
	for _, s := range sourceList {
		for _, t := range targetList {
			if strings.EqualFold(s, t) {
				common = append(common, s)
				break
			}
		}
	}

	maxLen := math.Max(float64(len(sourceList)), float64(len(targetList)))
	if maxLen == 0 {
		return 0, common
	}
	return float64(len(common)) / maxLen, common
}

// calculateRatingSimilarity 计算评分相似度（10 分制）
func calculateRatingSimilarity(sourceRating, targetRating float64) float64 {
	diff := math.Abs(sourceRating - targetRating)
	return math.Max(0, 1-diff/10.0)
}

// GenerateSimilarReason 生成相似条目的推荐理由（按优先级）
func GenerateSimilarReason(source, target model.ItemRecord) (string, string) {
	// 1. 同为动画
	if source.Type == model.TypeAnime && target.Type == model.TypeAnime {
		return fmt.Sprintf("Another anime in the spirit of %s", source.Title), ReasonAnime
	}

	// 2. 核心类型重合
	_, common := calculateGenreSimilarity(source, target)
	var core []string
	for _, g := range common {
		for _, c := range coreGenres {
			if strings.EqualFold(g, c) {
				core = append(core, g)
				break
			}
		}
	}
	if len(core) > 0 {
		if len(core) > 3 {
			core = core[:3]
		}
		return fmt.Sprintf("Shares %s with %s", strings.Join(core, ", "), source.Title), ReasonGenre
	}

	// 3. 评分接近且都较高
	if source.Type == target.Type && calculateRatingSimilarity(source.Rating, target.Rating) > 0.9 && target.Rating >= 7 {
		return fmt.Sprintf("Similarly acclaimed (%.1f vs %.1f)", source.Rating, target.Rating), ReasonRating
	}

	return fmt.Sprintf("Similar story and themes to %s", source.Title), ReasonContent
}
