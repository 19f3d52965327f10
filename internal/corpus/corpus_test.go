package corpus

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/muaazl/cine-match/internal/model"
)

func items(prefix string, typ model.ItemType, n int) []model.ItemRecord {
	out := make([]model.ItemRecord, n)
	for i := range out {
		out[i] = model.ItemRecord{
			ID:        fmt.Sprint(i),
			Title:     fmt.Sprintf("%s %d", prefix, i),
			Type:      typ,
			TextBlob:  fmt.Sprintf("%s story number%d adventure", prefix, i%7),
			VoteCount: float64(i),
			GenreList: "Drama",
		}
	}
	return out
}

func TestMerge_DedupesByKey(t *testing.T) {
	movies := items("movie", model.TypeMovie, 3)
	anime := items("anime", model.TypeAnime, 3)
	dup := []model.ItemRecord{{ID: "1", Type: model.TypeMovie, Title: "dup"}}

	merged := Merge(movies, anime, dup)
	if len(merged) != 6 {
		t.Fatalf("len = %d, want 6", len(merged))
	}
	for _, it := range merged {
		if it.Title == "dup" {
			t.Error("later duplicate must not replace the first occurrence")
		}
	}
}

func TestSampleCap_DeterministicAndCapped(t *testing.T) {
	all := Merge(items("movie", model.TypeMovie, 100), items("anime", model.TypeAnime, 100))

	a := SampleCap(all, DefaultSeed, 50)
	b := SampleCap(all, DefaultSeed, 50)
	if len(a) != 50 {
		t.Fatalf("len = %d, want 50", len(a))
	}
	for i := range a {
		if a[i].Key() != b[i].Key() {
			t.Fatalf("row %d differs between builds: %s vs %s", i, a[i].Key(), b[i].Key())
		}
	}

	// 截断结果应混合两个来源
	var anime int
	for _, it := range a {
		if it.Type == model.TypeAnime {
			anime++
		}
	}
	if anime == 0 || anime == 50 {
		t.Errorf("sample is source-biased: %d anime of 50", anime)
	}

	if all[0].Title != "movie 0" {
		t.Error("SampleCap must not mutate its input")
	}
}

func TestTopByVotes(t *testing.T) {
	got := TopByVotes(items("m", model.TypeMovie, 10), 3)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, want := range []float64{9, 8, 7} {
		if got[i].VoteCount != want {
			t.Errorf("got[%d].VoteCount = %v, want %v", i, got[i].VoteCount, want)
		}
	}
}

func TestVectorizer_StopWordsAndVocab(t *testing.T) {
	v := NewVectorizer(3)
	v.Fit([]string{
		"the ninja and the samurai",
		"ninja ninja robot",
		"samurai robot x",
		"pirate",
	})

	vocab := v.Vocabulary()
	want := []string{"ninja", "robot", "samurai"}
	if fmt.Sprint(vocab) != fmt.Sprint(want) {
		t.Errorf("Vocabulary() = %v, want %v", vocab, want)
	}

	for _, tok := range v.Tokenize("The Ninja and a robot") {
		if _, stop := EnglishStopWords[tok]; stop {
			t.Errorf("stop word %q not removed", tok)
		}
	}
}

func TestCosineMatrix_SymmetricUnitDiagonal(t *testing.T) {
	texts := []string{
		"space opera galaxy war",
		"galaxy war robots",
		"romantic comedy wedding",
		"", // 空行
	}
	v := NewVectorizer(0)
	m, err := CosineMatrix(context.Background(), v.FitTransform(texts), 2)
	if err != nil {
		t.Fatalf("CosineMatrix: %v", err)
	}

	for i := 0; i < m.N; i++ {
		for j := 0; j < m.N; j++ {
			if m.At(i, j) != m.At(j, i) {
				t.Errorf("M[%d][%d] != M[%d][%d]", i, j, j, i)
			}
			if s := m.At(i, j); s < -1-1e-6 || s > 1+1e-6 {
				t.Errorf("M[%d][%d] = %v out of range", i, j, s)
			}
		}
	}
	for i := 0; i < 3; i++ {
		if math.Abs(float64(m.At(i, i))-1) > 1e-6 {
			t.Errorf("diagonal M[%d][%d] = %v, want 1", i, i, m.At(i, i))
		}
	}
	if m.At(3, 3) != 0 {
		t.Errorf("empty row diagonal = %v, want 0", m.At(3, 3))
	}
	if m.At(0, 1) <= m.At(0, 2) {
		t.Errorf("related texts should be more similar: %v <= %v", m.At(0, 1), m.At(0, 2))
	}
}

func TestCosineMatrix_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	v := NewVectorizer(0)
	if _, err := CosineMatrix(ctx, v.FitTransform([]string{"a long text", "another text"}), 1); err == nil {
		t.Error("expected error on cancelled context")
	}
}

func TestBuildLegacy(t *testing.T) {
	opts := LegacyOptions{Seed: DefaultSeed, MaxItems: 30, MaxFeatures: 100, Workers: 2}
	movies := items("movie", model.TypeMovie, 25)
	anime := items("anime", model.TypeAnime, 25)

	a, err := BuildLegacy(context.Background(), opts, movies, anime)
	if err != nil {
		t.Fatalf("BuildLegacy: %v", err)
	}
	b, err := BuildLegacy(context.Background(), opts, movies, anime)
	if err != nil {
		t.Fatalf("BuildLegacy: %v", err)
	}

	if len(a.Items) != 30 || a.Matrix.N != 30 || a.Manifest.Count != 30 {
		t.Fatalf("unexpected sizes: items=%d matrix=%d manifest=%d", len(a.Items), a.Matrix.N, a.Manifest.Count)
	}
	for i := range a.Items {
		if a.Items[i].Key() != b.Items[i].Key() {
			t.Fatalf("row %d differs between identical builds", i)
		}
	}
	if len(a.Quiz.Items("Drama")) == 0 {
		t.Error("expected Drama quiz bucket")
	}
	if a.Manifest.Seed != DefaultSeed {
		t.Errorf("manifest seed = %d", a.Manifest.Seed)
	}
}

func TestBuildLegacy_Empty(t *testing.T) {
	if _, err := BuildLegacy(context.Background(), LegacyOptions{Seed: DefaultSeed}); err == nil {
		t.Error("expected error for empty corpus")
	}
}
