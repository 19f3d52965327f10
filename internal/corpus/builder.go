package corpus

import (
	"log"
	"math/rand"
	"sort"

	"github.com/muaazl/cine-match/internal/model"
)

// DefaultSeed 抽样打乱使用的固定种子，属于产物约定的一部分
const DefaultSeed int64 = 42

// Merge 合并多个归一化序列，按 Key 去重（保留首次出现）
func Merge(seqs ...[]model.ItemRecord) []model.ItemRecord {
	total := 0
	for _, s := range seqs {
		total += len(s)
	}

	seen := make(map[string]struct{}, total)
	merged := make([]model.ItemRecord, 0, total)
	dup := 0
	for _, s := range seqs {
		for _, it := range s {
			k := it.Key()
			if _, ok := seen[k]; ok {
				dup++
				continue
			}
			seen[k] = struct{}{}
			merged = append(merged, it)
		}
	}

	if dup > 0 {
		log.Printf("[Corpus] 合并去重: 移除 %d 条重复条目", dup)
	}
	return merged
}

// SampleCap 用固定种子打乱后截断到 max 条
// 截断结果是跨来源的可复现随机样本，而不是按来源顺序截断
func SampleCap(items []model.ItemRecord, seed int64, max int) []model.ItemRecord {
	out := make([]model.ItemRecord, len(items))
	copy(out, items)

	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})

	if max > 0 && len(out) > max {
		log.Printf("[Corpus] 语料从 %d 条截断为 %d 条", len(out), max)
		out = out[:max]
	}
	return out
}

// TopByVotes 按投票数降序（稳定）截断到 max 条
func TopByVotes(items []model.ItemRecord, max int) []model.ItemRecord {
	out := make([]model.ItemRecord, len(items))
	copy(out, items)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].VoteCount > out[j].VoteCount
	})

	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}
