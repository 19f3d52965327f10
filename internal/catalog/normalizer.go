package catalog

import (
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/muaazl/cine-match/internal/model"
)

// Profile 一条构建路径的过滤阈值
// 两条路径的阈值不同，均可由配置覆盖
type Profile struct {
	Name             string
	MinYear          int     // 上映年份下限（含）
	ClassicVoteFloor float64 // 早于 MinYear 的影片投票数超过该值时保留，<=0 表示不放行
	MinMovieVotes    float64 // 影片投票数需严格大于该值，<=0 表示不限制
	MinAnimeMembers  float64 // 动画成员数需严格大于该值
	MaxItems         int     // 语料上限
}

// LegacyProfile 词袋 + 本地相似度矩阵路径
func LegacyProfile() Profile {
	return Profile{
		Name:             "legacy",
		MinYear:          2000,
		ClassicVoteFloor: 1500,
		MinAnimeMembers:  40000,
		MaxItems:         12000,
	}
}

// EmbeddingProfile 向量库路径
func EmbeddingProfile() Profile {
	return Profile{
		Name:            "embedding",
		MinYear:         1980,
		MinMovieVotes:   50,
		MinAnimeMembers: 10000,
		MaxItems:        40000,
	}
}

// 丢弃原因
const (
	DropMissingID = "missing_id"
	DropBadDate   = "bad_date"
	DropBadNumber = "bad_number"
	DropFiltered  = "filtered"
)

// Stats 归一化统计
type Stats struct {
	Source  string
	Read    int
	Kept    int
	Dropped map[string]int
}

func newStats(source string) Stats {
	return Stats{Source: source, Dropped: map[string]int{}}
}

func (s *Stats) drop(reason string) {
	s.Dropped[reason]++
}

// TotalDropped 丢弃总数
func (s Stats) TotalDropped() int {
	n := 0
	for _, c := range s.Dropped {
		n += c
	}
	return n
}

// Normalizer 将原始数据集转换为统一的 ItemRecord
type Normalizer struct {
	Profile Profile
}

// NewNormalizer 创建归一化器
func NewNormalizer(p Profile) *Normalizer {
	return &Normalizer{Profile: p}
}

var dateLayouts = []string{"2006-01-02", "2006/01/02", "01/02/2006", "2006-01-02 15:04:05", "2006"}

// parseYear 解析上映日期，返回年份
func parseYear(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Year(), true
		}
	}
	return 0, false
}

// parseNumber 解析数值；空串返回 (0, false, true)，无法解析返回 ok=false
func parseNumber(s string) (v float64, present bool, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, true, false
	}
	return v, true, true
}

// optionalNumber 可选数值：空串记为 0，非法值视为失败
func optionalNumber(s string) (float64, bool) {
	v, _, ok := parseNumber(s)
	return v, ok
}

// requiredNumber 必需数值：空串与非法值均视为失败
func requiredNumber(s string) (float64, bool) {
	v, present, ok := parseNumber(s)
	return v, present && ok
}

// NormalizeMovies 归一化电影数据集
func (n *Normalizer) NormalizeMovies(rows []RawMovie) ([]model.ItemRecord, Stats) {
	p := n.Profile
	stats := newStats("movies")
	items := make([]model.ItemRecord, 0, len(rows))

	for _, row := range rows {
		stats.Read++

		if row.ID == "" {
			stats.drop(DropMissingID)
			continue
		}
		year, ok := parseYear(row.ReleaseDate)
		if !ok {
			stats.drop(DropBadDate)
			continue
		}
		votes, ok := requiredNumber(row.VoteCount)
		if !ok {
			stats.drop(DropBadNumber)
			continue
		}
		rating, ok := optionalNumber(row.VoteAverage)
		if !ok {
			stats.drop(DropBadNumber)
			continue
		}
		popularity, ok := optionalNumber(row.Popularity)
		if !ok {
			stats.drop(DropBadNumber)
			continue
		}

		if p.MinMovieVotes > 0 && votes <= p.MinMovieVotes {
			stats.drop(DropFiltered)
			continue
		}
		classic := p.ClassicVoteFloor > 0 && votes > p.ClassicVoteFloor
		if year < p.MinYear && !classic {
			stats.drop(DropFiltered)
			continue
		}

		// 类型解析失败时使用空串，不丢弃该行
		genreStr := ""
		if names, err := parseGenreNames(row.Genres); err == nil {
			genreStr = strings.Join(names, " ")
		}

		items = append(items, model.ItemRecord{
			ID:         row.ID,
			Title:      row.Title,
			Type:       model.TypeMovie,
			TextBlob:   row.Overview + " " + genreStr,
			TextChunk:  "Movie: " + row.Title + ". Plot: " + row.Overview,
			Rating:     rating,
			VoteCount:  votes,
			Popularity: popularity,
			GenreList:  genreStr,
		})
		stats.Kept++
	}

	logStats(p, stats)
	return items, stats
}

// NormalizeAnime 归一化动画数据集
func (n *Normalizer) NormalizeAnime(rows []RawAnime) ([]model.ItemRecord, Stats) {
	p := n.Profile
	stats := newStats("anime")
	items := make([]model.ItemRecord, 0, len(rows))

	for _, row := range rows {
		stats.Read++

		if row.ID == "" {
			stats.drop(DropMissingID)
			continue
		}
		members, ok := requiredNumber(row.Members)
		if !ok {
			stats.drop(DropBadNumber)
			continue
		}
		rating, ok := optionalNumber(row.Rating)
		if !ok {
			stats.drop(DropBadNumber)
			continue
		}
		if members <= p.MinAnimeMembers {
			stats.drop(DropFiltered)
			continue
		}

		sourceType := row.Type
		if sourceType == "" {
			sourceType = model.AnimeGenre
		}

		items = append(items, model.ItemRecord{
			ID:         row.ID,
			Title:      row.Name,
			Type:       model.TypeAnime,
			TextBlob:   row.Genre + " " + sourceType + " " + row.Name,
			TextChunk:  "Anime: " + row.Name + ". Genres: " + row.Genre + ". Type: " + sourceType,
			Rating:     rating,
			VoteCount:  members,
			Popularity: members,
			GenreList:  model.AnimeGenre,
		})
		stats.Kept++
	}

	logStats(p, stats)
	return items, stats
}

func logStats(p Profile, s Stats) {
	log.Printf("[Normalizer] %s/%s: 读取 %d 行，保留 %d 行，丢弃 %d 行 %v",
		p.Name, s.Source, s.Read, s.Kept, s.TotalDropped(), s.Dropped)
}
