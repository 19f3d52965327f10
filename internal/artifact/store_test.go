package artifact

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/muaazl/cine-match/internal/corpus"
	"github.com/muaazl/cine-match/internal/model"
)

func testBundle(t *testing.T, buildID string) *corpus.Bundle {
	t.Helper()

	var items []model.ItemRecord
	for i := 0; i < 12; i++ {
		items = append(items, model.ItemRecord{
			ID:        fmt.Sprint(i),
			Title:     fmt.Sprintf("Title %d", i),
			Type:      model.TypeMovie,
			TextBlob:  fmt.Sprintf("heist crew plan%d city", i%3),
			Rating:    float64(i),
			GenreList: "Crime Thriller",
		})
	}

	b, err := corpus.BuildLegacy(context.Background(), corpus.LegacyOptions{Seed: corpus.DefaultSeed, MaxItems: 10}, items)
	if err != nil {
		t.Fatalf("BuildLegacy: %v", err)
	}
	b.Manifest.BuildID = buildID
	return b
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	want := testBundle(t, "20260101T000000")

	id, err := Save(dir, want)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if cur, _ := CurrentID(dir); cur != id {
		t.Errorf("CurrentID = %q, want %q", cur, id)
	}

	got, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(got.Items) != len(want.Items) {
		t.Fatalf("items = %d, want %d", len(got.Items), len(want.Items))
	}
	for i := range want.Items {
		if got.Items[i] != want.Items[i] {
			t.Errorf("row %d = %+v, want %+v", i, got.Items[i], want.Items[i])
		}
	}
	for i := range want.Matrix.Data {
		if got.Matrix.Data[i] != want.Matrix.Data[i] {
			t.Fatalf("matrix differs at %d", i)
		}
	}
	if len(got.Quiz.Items("Crime")) != len(want.Quiz.Items("Crime")) {
		t.Error("quiz index not restored")
	}
	if got.Manifest.Seed != corpus.DefaultSeed || got.Manifest.Count != 10 {
		t.Errorf("manifest = %+v", got.Manifest)
	}
}

func TestLoad_NoBuild(t *testing.T) {
	if _, err := Load(t.TempDir()); !errors.Is(err, ErrNoBuild) {
		t.Errorf("Load on empty dir err = %v, want ErrNoBuild", err)
	}
}

func TestSave_PrunesOldBuilds(t *testing.T) {
	dir := t.TempDir()
	ids := []string{"20260101T000000", "20260102T000000", "20260103T000000"}
	for _, id := range ids {
		if _, err := Save(dir, testBundle(t, id)); err != nil {
			t.Fatalf("Save %s: %v", id, err)
		}
	}

	entries, err := os.ReadDir(filepath.Join(dir, buildsDir))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != KeepBuilds {
		t.Errorf("builds on disk = %d, want %d", len(entries), KeepBuilds)
	}
	if _, err := os.Stat(filepath.Join(dir, buildsDir, ids[0])); !os.IsNotExist(err) {
		t.Error("oldest build should be pruned")
	}
	if cur, _ := CurrentID(dir); cur != ids[2] {
		t.Errorf("CurrentID = %q, want %q", cur, ids[2])
	}
}

func TestSave_SameIDGetsSuffix(t *testing.T) {
	dir := t.TempDir()
	first, err := Save(dir, testBundle(t, "same"))
	if err != nil {
		t.Fatal(err)
	}
	second, err := Save(dir, testBundle(t, "same"))
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Errorf("second build reused id %q", first)
	}
	if _, err := Load(dir); err != nil {
		t.Errorf("Load after second save: %v", err)
	}
}

func TestSave_RejectsMismatchedMatrix(t *testing.T) {
	b := testBundle(t, "bad")
	b.Items = b.Items[:3]
	if _, err := Save(t.TempDir(), b); err == nil {
		t.Error("expected error for matrix/corpus mismatch")
	}
}

func TestLoad_IgnoresTmpBuild(t *testing.T) {
	dir := t.TempDir()
	id, err := Save(dir, testBundle(t, "20260101T000000"))
	if err != nil {
		t.Fatal(err)
	}
	// 半写入的构建目录不影响读取
	if err := os.MkdirAll(filepath.Join(dir, buildsDir, "20260109T000000"+tmpSuffix), 0o755); err != nil {
		t.Fatal(err)
	}
	b, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if b.Manifest.BuildID != id {
		t.Errorf("loaded %q, want %q", b.Manifest.BuildID, id)
	}
}
