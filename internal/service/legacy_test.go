package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/muaazl/cine-match/internal/artifact"
	"github.com/muaazl/cine-match/internal/corpus"
	"github.com/muaazl/cine-match/internal/fuzzy"
	"github.com/muaazl/cine-match/internal/model"
)

func legacyBundle(t *testing.T) *corpus.Bundle {
	t.Helper()
	items := []model.ItemRecord{
		{ID: "1", Title: "Alien", Type: model.TypeMovie, TextBlob: "space crew monster ship horror", Rating: 8.1, GenreList: "Horror Science Fiction"},
		{ID: "2", Title: "Aliens", Type: model.TypeMovie, TextBlob: "space marines monster ship colony", Rating: 7.9, GenreList: "Action Science Fiction"},
		{ID: "3", Title: "Notting Hill", Type: model.TypeMovie, TextBlob: "romance bookshop london actress", Rating: 7.1, GenreList: "Romance Comedy"},
		{ID: "4", Title: "Akira", Type: model.TypeAnime, TextBlob: "Anime TV psychic biker city", Rating: 8.2, GenreList: "Anime"},
		{ID: "5", Title: "Event Horizon", Type: model.TypeMovie, TextBlob: "space ship horror rescue crew", Rating: 6.7, GenreList: "Horror"},
	}
	b, err := corpus.BuildLegacy(context.Background(), corpus.LegacyOptions{Seed: corpus.DefaultSeed}, items)
	if err != nil {
		t.Fatalf("BuildLegacy: %v", err)
	}
	return b
}

func TestLegacyEngine_Similar(t *testing.T) {
	e := NewLegacyEngineFromBundle(legacyBundle(t), fuzzy.Scorer{})

	source, similar, err := e.Similar("alien", 3)
	if err != nil {
		t.Fatalf("Similar: %v", err)
	}
	if source.Title != "Alien" {
		t.Errorf("source = %q", source.Title)
	}
	if len(similar) != 3 {
		t.Fatalf("len = %d, want 3", len(similar))
	}
	for i, s := range similar {
		if s.Title == "Alien" {
			t.Error("source included in its own results")
		}
		if i > 0 && s.Score > similar[i-1].Score {
			t.Error("results not sorted by similarity")
		}
		if s.Reason == "" {
			t.Errorf("missing reason for %q", s.Title)
		}
	}
	if similar[0].Title == "Notting Hill" {
		t.Error("unrelated title ranked first")
	}
}

func TestLegacyEngine_FuzzyTitle(t *testing.T) {
	e := NewLegacyEngineFromBundle(legacyBundle(t), fuzzy.Scorer{})
	source, _, err := e.Similar("Event Horizn", 2)
	if err != nil {
		t.Fatalf("Similar: %v", err)
	}
	if source.Title != "Event Horizon" {
		t.Errorf("matched %q", source.Title)
	}

	if _, _, err := e.Similar("zzzzzzzz", 2); !errors.Is(err, ErrNoResults) {
		t.Errorf("unknown title err = %v", err)
	}
}

func TestLegacyEngine_Quiz(t *testing.T) {
	e := NewLegacyEngineFromBundle(legacyBundle(t), fuzzy.Scorer{})

	horror, err := e.Quiz("Horror")
	if err != nil {
		t.Fatal(err)
	}
	if len(horror) != 2 || horror[0].Title != "Alien" {
		t.Errorf("Horror = %+v", horror)
	}
	if _, err := e.Quiz("Western"); !errors.Is(err, ErrNoResults) {
		t.Errorf("missing genre err = %v", err)
	}
	genres, _ := e.Genres()
	if len(genres) == 0 {
		t.Error("no genres")
	}
}

func TestLegacyEngine_NotReady(t *testing.T) {
	e := NewLegacyEngine(t.TempDir(), fuzzy.Scorer{})
	if e.Ready() {
		t.Error("engine ready before load")
	}
	if _, _, err := e.Similar("Alien", 1); !errors.Is(err, ErrNotReady) {
		t.Errorf("err = %v", err)
	}
	if _, err := e.Reload(); !errors.Is(err, artifact.ErrNoBuild) {
		t.Errorf("Reload err = %v", err)
	}
}

func TestArtifactWatcher_ReloadsNewBuild(t *testing.T) {
	dir := t.TempDir()
	b := legacyBundle(t)
	b.Manifest.BuildID = "20260101T000000"
	if _, err := artifact.Save(dir, b); err != nil {
		t.Fatal(err)
	}

	e := NewLegacyEngine(dir, fuzzy.Scorer{})
	reloaded := make(chan string, 4)
	w := NewArtifactWatcher(e, 10*time.Millisecond, func(id string) { reloaded <- id })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	if got := <-reloaded; got != "20260101T000000" {
		t.Fatalf("first reload = %q", got)
	}

	b2 := legacyBundle(t)
	b2.Manifest.BuildID = "20260102T000000"
	if _, err := artifact.Save(dir, b2); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-reloaded:
		if got != "20260102T000000" || e.BuildID() != got {
			t.Errorf("reloaded %q, engine at %q", got, e.BuildID())
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not pick up the new build")
	}
}
