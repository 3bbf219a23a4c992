package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOllama_Embed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embeddings" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req struct {
			Model  string `json:"model"`
			Prompt string `json:"prompt"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "nomic-embed-text" || req.Prompt != "hello" {
			t.Errorf("request = %+v", req)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"embedding": []float64{0.1, 0.2, 0.3},
		})
	}))
	defer srv.Close()

	o := NewOllama(srv.URL, "nomic-embed-text", 3)
	vec, err := o.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vec) != 3 || vec[0] != 0.1 {
		t.Errorf("vec = %v", vec)
	}
	if o.ModelName() != "ollama/nomic-embed-text" {
		t.Errorf("ModelName = %q", o.ModelName())
	}
}

func TestOllama_EmbedErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	o := NewOllama(srv.URL, "nomic-embed-text", 3)
	if _, err := o.Embed(context.Background(), "hello"); err == nil {
		t.Error("expected error for 500 response")
	}

	srv.Close()
	if _, err := o.Embed(context.Background(), "hello"); err == nil {
		t.Error("expected error for unreachable server")
	}
}

func TestOllama_Available(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))

	o := NewOllama(srv.URL, "nomic-embed-text", 3)
	if !o.Available(context.Background()) {
		t.Error("expected available")
	}

	srv.Close()
	if o.Available(context.Background()) {
		t.Error("expected unavailable after server shutdown")
	}
}
