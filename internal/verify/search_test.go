package verify

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/snedea/veracity/internal/model"
)

func newTestSearchClient(baseURL string, maxResults int) *SearchClient {
	return NewSearchClient(model.SearchConfig{
		BaseURL:    baseURL,
		Timeout:    5,
		MaxResults: maxResults,
	}, model.HTTPConfig{})
}

func TestSearchClient_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "quantum computing fact check" {
			t.Errorf("Unexpected query: %q", got)
		}
		if got := r.URL.Query().Get("format"); got != "json" {
			t.Errorf("Unexpected format: %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, `{"results": [
			{"title": "First", "content": "Snippet one", "url": "https://a.example.com"},
			{"title": "Second", "content": "Snippet two", "url": "https://b.example.com"}
		]}`)
	}))
	defer server.Close()

	client := newTestSearchClient(server.URL, 8)
	results, err := client.Search(context.Background(), "quantum computing fact check")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].Title != "First" || results[0].URL != "https://a.example.com" {
		t.Errorf("Unexpected first result: %+v", results[0])
	}
}

func TestSearchClient_CapsResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, `{"results": [`)
		for i := 0; i < 12; i++ {
			if i > 0 {
				_, _ = fmt.Fprint(w, ",")
			}
			_, _ = fmt.Fprintf(w, `{"title": "r%d", "content": "", "url": "https://example.com/%d"}`, i, i)
		}
		_, _ = fmt.Fprint(w, `]}`)
	}))
	defer server.Close()

	client := newTestSearchClient(server.URL, 8)
	results, err := client.Search(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(results) != 8 {
		t.Errorf("Expected results capped at 8, got %d", len(results))
	}
}

func TestSearchClient_BackendError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestSearchClient(server.URL, 8)
	if _, err := client.Search(context.Background(), "anything"); err == nil {
		t.Fatal("Expected error for 500 response")
	}
}

func TestSearchClient_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, "not json at all")
	}))
	defer server.Close()

	client := newTestSearchClient(server.URL, 8)
	if _, err := client.Search(context.Background(), "anything"); err == nil {
		t.Fatal("Expected error for malformed response")
	}
}

func TestSearchClient_MissingBaseURL(t *testing.T) {
	client := newTestSearchClient("", 8)
	if _, err := client.Search(context.Background(), "anything"); err == nil {
		t.Fatal("Expected error when backend URL is not configured")
	}
}
