package corpus

import (
	"regexp"
	"sort"
	"strings"
)

// DefaultMaxFeatures 词表上限
const DefaultMaxFeatures = 5000

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// SparseVector 词频稀疏向量，Indices 升序
type SparseVector struct {
	Indices []int
	Counts  []float32
}

// Vectorizer 固定词表的词袋模型
type Vectorizer struct {
	MaxFeatures int
	StopWords   map[string]struct{}

	vocab map[string]int
	terms []string
}

// NewVectorizer 创建词袋模型，默认去除英文停用词
func NewVectorizer(maxFeatures int) *Vectorizer {
	if maxFeatures <= 0 {
		maxFeatures = DefaultMaxFeatures
	}
	return &Vectorizer{
		MaxFeatures: maxFeatures,
		StopWords:   EnglishStopWords,
	}
}

// Tokenize 小写化后切分词元并去除停用词
func (v *Vectorizer) Tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	tokens := raw[:0]
	for _, t := range raw {
		if _, stop := v.StopWords[t]; stop {
			continue
		}
		tokens = append(tokens, t)
	}
	return tokens
}

// Fit 统计全语料词频，保留出现次数最多的 MaxFeatures 个词（同频按字典序）
func (v *Vectorizer) Fit(texts []string) {
	freq := make(map[string]int)
	for _, text := range texts {
		for _, t := range v.Tokenize(text) {
			freq[t]++
		}
	}

	terms := make([]string, 0, len(freq))
	for t := range freq {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if freq[terms[i]] != freq[terms[j]] {
			return freq[terms[i]] > freq[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > v.MaxFeatures {
		terms = terms[:v.MaxFeatures]
	}
	// 词表列按字典序排列
	sort.Strings(terms)

	v.terms = terms
	v.vocab = make(map[string]int, len(terms))
	for i, t := range terms {
		v.vocab[t] = i
	}
}

// Transform 将文本转换为词频向量
func (v *Vectorizer) Transform(texts []string) []SparseVector {
	out := make([]SparseVector, len(texts))
	for i, text := range texts {
		counts := make(map[int]float32)
		for _, t := range v.Tokenize(text) {
			if idx, ok := v.vocab[t]; ok {
				counts[idx]++
			}
		}
		sv := SparseVector{
			Indices: make([]int, 0, len(counts)),
			Counts:  make([]float32, 0, len(counts)),
		}
		for idx := range counts {
			sv.Indices = append(sv.Indices, idx)
		}
		sort.Ints(sv.Indices)
		for _, idx := range sv.Indices {
			sv.Counts = append(sv.Counts, counts[idx])
		}
		out[i] = sv
	}
	return out
}

// FitTransform Fit + Transform
func (v *Vectorizer) FitTransform(texts []string) []SparseVector {
	v.Fit(texts)
	return v.Transform(texts)
}

// Vocabulary 词表（按列序）
func (v *Vectorizer) Vocabulary() []string {
	return v.terms
}
