// Package fuzzy 提供 0-100 的字符串相似度评分
//
// Ratio 基于插入/删除编辑距离归一化：round(200 * LCS / (len(a) + len(b)))，
// 即 InDel 比率；PartialRatio 将较短串与较长串的每个等长窗口比对取最大值。
package fuzzy

import "math"

// Scorer 默认评分器，零值可用
type Scorer struct{}

// Ratio 整串相似度
func (Scorer) Ratio(a, b string) int {
	return Ratio(a, b)
}

// PartialRatio 子串相似度
func (Scorer) PartialRatio(a, b string) int {
	return PartialRatio(a, b)
}

// Ratio 整串相似度，任一为空时返回 0
func Ratio(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	return round(ratio(ra, rb))
}

// PartialRatio 子串相似度，任一为空时返回 0
func PartialRatio(a, b string) int {
	short, long := []rune(a), []rune(b)
	if len(short) == 0 || len(long) == 0 {
		return 0
	}
	if len(short) > len(long) {
		short, long = long, short
	}

	n, m := len(short), len(long)
	best := 0.0
	consider := func(window []rune) bool {
		if s := ratio(short, window); s > best {
			best = s
		}
		return best >= 100
	}

	// 完整窗口
	for i := 0; i+n <= m; i++ {
		if consider(long[i : i+n]) {
			return 100
		}
	}
	// 首尾不足一个窗口长度的部分
	for k := 1; k < n && k <= m; k++ {
		if consider(long[:k]) || consider(long[m-k:]) {
			return 100
		}
	}
	return round(best)
}

func ratio(a, b []rune) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 0
	}
	return 200 * float64(lcs(a, b)) / float64(total)
}

// lcs 最长公共子序列长度，滚动数组
func lcs(a, b []rune) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				cur[j] = prev[j-1] + 1
			case prev[j] >= cur[j-1]:
				cur[j] = prev[j]
			default:
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func round(v float64) int {
	return int(math.RoundToEven(v))
}
