package service

import (
	"testing"

	"github.com/muaazl/cine-match/internal/model"
)

func TestMoodQuery(t *testing.T) {
	tests := []struct {
		mood string
		want string
	}{
		{"Dark", "Dark, psychological thriller, disturbing, gritty, noir"},
		{"Happy", "Feel good movie, comedy, lighthearted, happy ending"},
		{"Scary", "Horror, ghosts, jump scares, terrifying"},
		{"Melancholic", "Melancholic"},
	}

	for _, tt := range tests {
		q := MoodQuery(tt.mood)
		if q.Text != tt.want {
			t.Errorf("MoodQuery(%q).Text = %q, want %q", tt.mood, q.Text, tt.want)
		}
		if q.Filter != nil {
			t.Errorf("MoodQuery(%q) has filter %v", tt.mood, q.Filter)
		}
		if !q.Rerank() || q.TopK != SearchTopK {
			t.Errorf("MoodQuery(%q) = %+v", tt.mood, q)
		}
	}

	for _, m := range Moods() {
		if MoodPhrase(m) == m {
			t.Errorf("mood %q has no phrase", m)
		}
	}
}

func TestSearchQuery_Filter(t *testing.T) {
	tests := []struct {
		filter string
		want   model.Filter
	}{
		{"", nil},
		{"All", nil},
		{"Movie", model.Filter{"type": "Movie"}},
		{"Anime", model.Filter{"type": "Anime"}},
	}
	for _, tt := range tests {
		q := SearchQuery("inception", tt.filter)
		if q.Text != "inception" {
			t.Errorf("text changed: %q", q.Text)
		}
		if len(q.Filter) != len(tt.want) || q.Filter["type"] != tt.want["type"] {
			t.Errorf("SearchQuery filter %q = %v, want %v", tt.filter, q.Filter, tt.want)
		}
	}
}

func TestQuizQuery(t *testing.T) {
	tests := []struct {
		genre    string
		wantType string
	}{
		{"Anime", "Anime"},
		{"Comedy", "Movie"},
		{"anime", "Movie"},
	}
	for _, tt := range tests {
		q := QuizQuery(tt.genre)
		if q.Filter["type"] != tt.wantType {
			t.Errorf("QuizQuery(%q) filter = %v, want type %s", tt.genre, q.Filter, tt.wantType)
		}
		if q.TopK != QuizTopK || q.Rerank() {
			t.Errorf("QuizQuery(%q) = %+v", tt.genre, q)
		}
	}
	if got := QuizQuery("Comedy").Text; got != "Popular, famous, high rated Comedy movies or anime" {
		t.Errorf("QuizQuery text = %q", got)
	}
}

func TestHybridAndLuckyQuery(t *testing.T) {
	q := HybridQuery("Dark", "Thriller", []string{"Se7en", "Zodiac"})
	if q.Text != "Dark Thriller similar to Se7en, Zodiac" {
		t.Errorf("HybridQuery text = %q", q.Text)
	}
	if q.Filter != nil || q.TopK != HybridTopK {
		t.Errorf("HybridQuery = %+v", q)
	}

	l := LuckyQuery()
	if l.Text != LuckyPhrase || l.Filter != nil || l.TopK != LuckyTopK {
		t.Errorf("LuckyQuery = %+v", l)
	}
}
