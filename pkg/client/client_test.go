package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClient_RequiresBaseURL(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("expected error without BaseURL")
	}
}

func TestClient_Retrieve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/knowledge/retrieve" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("authorization = %q", got)
		}

		var params RetrieveParams
		if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
			t.Errorf("decode params: %v", err)
		}
		if params.Query != "refund rules" || params.Scope != "/api/refunds" {
			t.Errorf("params = %+v", params)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{"id": "01X", "title": "refund window", "final_score": 0.9},
			},
		})
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL, APIKey: "sk-test"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	results, err := c.Retrieve(context.Background(), RetrieveParams{
		Query: "refund rules",
		Scope: "/api/refunds",
	})
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(results) != 1 || results[0].ID != "01X" {
		t.Errorf("results = %+v", results)
	}
}

func TestClient_BuildContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"context": "[business_rule] refund window"})
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, err := c.BuildContext(context.Background(), ContextParams{
		RetrieveParams: RetrieveParams{Query: "refunds"},
		Budget:         500,
	})
	if err != nil {
		t.Fatalf("BuildContext: %v", err)
	}
	if !strings.Contains(ctx, "refund window") {
		t.Errorf("context = %q", ctx)
	}
}

func TestClient_UsageAndFeedback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/knowledge/usage":
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]any{"id": 7})
		case r.Method == http.MethodPatch && r.URL.Path == "/api/v1/knowledge/usage/7":
			var body map[string]int
			json.NewDecoder(r.Body).Decode(&body)
			if body["helpful"] != 1 {
				t.Errorf("helpful = %d, want 1", body["helpful"])
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	id, err := c.RecordUsage(context.Background(), UsageEvent{
		KnowledgeID: "01X",
		UsedIn:      "test_generation",
	})
	if err != nil {
		t.Fatalf("RecordUsage: %v", err)
	}
	if id != 7 {
		t.Errorf("usage id = %d, want 7", id)
	}

	if err := c.Feedback(context.Background(), id, 1); err != nil {
		t.Errorf("Feedback: %v", err)
	}
}

func TestClient_ErrorIncludesStatusAndDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"detail": "version conflict"}`))
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = c.Retrieve(context.Background(), RetrieveParams{Query: "x"})
	if err == nil {
		t.Fatal("expected error for 409 response")
	}
	if !strings.Contains(err.Error(), "409") || !strings.Contains(err.Error(), "version conflict") {
		t.Errorf("error = %v, want status and detail", err)
	}
}
