package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// RawMovie 电影数据集中的一行（字段保持原始字符串）
type RawMovie struct {
	ID          string
	Title       string
	Overview    string
	Genres      string
	VoteAverage string
	VoteCount   string
	Popularity  string
	ReleaseDate string
}

// RawAnime 动画数据集中的一行
type RawAnime struct {
	ID      string
	Name    string
	Genre   string
	Type    string
	Rating  string
	Members string
}

// ReadMovies 读取电影 CSV（tmdb_5000_movies.csv / movies_metadata.csv 均可）
func ReadMovies(path string) ([]RawMovie, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开电影数据集失败: %w", err)
	}
	defer f.Close()
	return ParseMovies(f)
}

// ParseMovies 从 reader 解析电影 CSV
func ParseMovies(r io.Reader) ([]RawMovie, error) {
	var rows []RawMovie
	err := readCSV(r, []string{"id", "title"}, func(get func(string) string) {
		rows = append(rows, RawMovie{
			ID:          get("id"),
			Title:       get("title"),
			Overview:    get("overview"),
			Genres:      get("genres"),
			VoteAverage: get("vote_average"),
			VoteCount:   get("vote_count"),
			Popularity:  get("popularity"),
			ReleaseDate: get("release_date"),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("解析电影数据集失败: %w", err)
	}
	return rows, nil
}

// ReadAnime 读取动画 CSV（anime.csv）
func ReadAnime(path string) ([]RawAnime, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开动画数据集失败: %w", err)
	}
	defer f.Close()
	return ParseAnime(f)
}

// ParseAnime 从 reader 解析动画 CSV
func ParseAnime(r io.Reader) ([]RawAnime, error) {
	var rows []RawAnime
	err := readCSV(r, []string{"anime_id", "members"}, func(get func(string) string) {
		rows = append(rows, RawAnime{
			ID:      get("anime_id"),
			Name:    get("name"),
			Genre:   get("genre"),
			Type:    get("type"),
			Rating:  get("rating"),
			Members: get("members"),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("解析动画数据集失败: %w", err)
	}
	return rows, nil
}

// readCSV 按表头名读取每一行，required 中的列必须存在
func readCSV(r io.Reader, required []string, fn func(get func(string) string)) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("数据集为空")
		}
		return err
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, col := range required {
		if _, ok := index[col]; !ok {
			return fmt.Errorf("缺少必需列: %s", col)
		}
	}

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if len(row) == 0 {
			continue
		}
		fn(func(col string) string {
			i, ok := index[col]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		})
	}
}
