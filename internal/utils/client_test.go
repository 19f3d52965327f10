package utils

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/muaazl/cine-match/internal/model"
)

func TestOllamaEmbedder_Embed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embeddings" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req EmbeddingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if req.Model != "all-minilm" || req.Prompt != "space opera" {
			t.Errorf("request = %+v", req)
		}
		io.WriteString(w, `{"embedding":[0.1,0.2,0.3]}`)
	}))
	defer srv.Close()

	emb := NewOllamaEmbedder(srv.URL, "all-minilm", 3, time.Second)
	vec, err := emb.Embed(context.Background(), "space opera")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vec) != 3 || vec[2] != 0.3 {
		t.Errorf("vec = %v", vec)
	}

	emb = NewOllamaEmbedder(srv.URL, "all-minilm", 384, time.Second)
	if _, err := emb.Embed(context.Background(), "space opera"); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("err = %v, want ErrDimensionMismatch", err)
	}
}

func TestOllamaEmbedder_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewOllamaEmbedder(srv.URL, "missing", 0, time.Second).Embed(context.Background(), "x")
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusNotFound {
		t.Fatalf("err = %v, want StatusError 404", err)
	}
	if !strings.Contains(se.Body, "model not found") {
		t.Errorf("body = %q", se.Body)
	}
}

func TestPineconeIndex_Query(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Api-Key") != "test-key" {
			t.Errorf("Api-Key header = %q", r.Header.Get("Api-Key"))
		}
		if r.URL.Path != "/query" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req map[string]interface{}
		json.NewDecoder(r.Body).Decode(&req)
		if req["topK"].(float64) != 20 {
			t.Errorf("topK = %v", req["topK"])
		}
		filter := req["filter"].(map[string]interface{})
		if filter["type"].(map[string]interface{})["$eq"] != "Anime" {
			t.Errorf("filter = %v", filter)
		}
		io.WriteString(w, `{"matches":[{"id":"Anime_1","score":0.9,"metadata":{"title":"Akira","type":"Anime","original_id":"1","rating":8.2}}]}`)
	}))
	defer srv.Close()

	idx := NewPineconeIndex(srv.URL, "test-key", "", time.Second)
	matches, err := idx.Query(context.Background(), []float32{1, 0}, 20, model.TypeFilter(model.TypeAnime))
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("matches = %d", len(matches))
	}
	m := matches[0]
	if m.Key != "Anime_1" || m.Metadata.Title != "Akira" || m.Metadata.OriginalID != "1" || m.Metadata.Rating != 8.2 {
		t.Errorf("match = %+v", m)
	}
}

func TestPineconeIndex_Upsert(t *testing.T) {
	var got pineconeUpsertRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/vectors/upsert" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		io.WriteString(w, `{"upsertedCount":1}`)
	}))
	defer srv.Close()

	item := model.ItemRecord{ID: "603", Title: "The Matrix", Type: model.TypeMovie, Rating: 8.2, GenreList: "Action Science Fiction"}
	idx := NewPineconeIndex(srv.URL, "k", "", time.Second)
	if err := idx.Upsert(context.Background(), []model.Vector{model.NewVector(item, []float32{0.5})}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if len(got.Vectors) != 1 || got.Vectors[0].ID != "Movie_603" || got.Vectors[0].Metadata.OriginalID != "603" {
		t.Errorf("upsert body = %+v", got)
	}
}

func TestPineconeIndex_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := NewPineconeIndex(srv.URL, "k", "", 0).Query(ctx, []float32{1}, 5, nil); err == nil {
		t.Error("expected timeout error")
	}
}
