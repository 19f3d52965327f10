package main

import (
	"flag"
	"io"
	"testing"

	"github.com/muaazl/cine-match/internal/catalog"
)

func parseSourceFlags(t *testing.T, p catalog.Profile, args ...string) catalog.Profile {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var src sourceFlags
	src.register(fs, p)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse: %v", err)
	}
	return src.apply(p)
}

func TestSourceFlags_Defaults(t *testing.T) {
	for _, p := range []catalog.Profile{catalog.LegacyProfile(), catalog.EmbeddingProfile()} {
		t.Run(p.Name, func(t *testing.T) {
			if got := parseSourceFlags(t, p); got != p {
				t.Errorf("profile = %+v, want %+v", got, p)
			}
		})
	}
}

func TestSourceFlags_Override(t *testing.T) {
	got := parseSourceFlags(t, catalog.LegacyProfile(),
		"-min-year", "1990",
		"-classic-votes", "0",
		"-min-votes", "25",
		"-min-anime-members", "5000",
		"-max", "300",
	)

	if got.MinYear != 1990 || got.ClassicVoteFloor != 0 || got.MinMovieVotes != 25 ||
		got.MinAnimeMembers != 5000 || got.MaxItems != 300 {
		t.Errorf("profile = %+v", got)
	}
	if got.Name != "legacy" {
		t.Errorf("name = %q", got.Name)
	}

	// 覆盖后的阈值实际作用于归一化
	rows := []catalog.RawAnime{{ID: "1", Name: "Haibane Renmei", Genre: "Drama", Type: "TV", Rating: "8.0", Members: "20000"}}
	if items, _ := catalog.NewNormalizer(catalog.LegacyProfile()).NormalizeAnime(rows); len(items) != 0 {
		t.Errorf("default legacy profile kept %d items, want 0", len(items))
	}
	if items, _ := catalog.NewNormalizer(got).NormalizeAnime(rows); len(items) != 1 {
		t.Errorf("overridden profile kept %d items, want 1", len(items))
	}
}

func TestSeedDefault_FromEnv(t *testing.T) {
	t.Setenv("SHUFFLE_SEED", "1234")
	fs := flag.NewFlagSet("legacy", flag.ContinueOnError)
	seed := legacySeedFlag(fs)
	if err := fs.Parse(nil); err != nil {
		t.Fatal(err)
	}
	if *seed != 1234 {
		t.Errorf("seed = %d, want 1234", *seed)
	}
}
