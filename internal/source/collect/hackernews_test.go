package collect

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"infocurator/internal/source"
)

func TestHackerNewsCollect(t *testing.T) {
	t.Parallel()

	now := time.Now().Unix()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("query"); got != "LLM" {
			t.Errorf("expected query=LLM, got %q", got)
		}
		if got := r.URL.Query().Get("tags"); got != "story" {
			t.Errorf("expected tags=story, got %q", got)
		}
		fmt.Fprintf(w, `{"hits": [
			{"objectID": "101", "title": "LLM inference on a laptop", "url": "https://example.com/llm",
			 "points": 120, "num_comments": 45, "created_at_i": %d, "author": "alice"},
			{"objectID": "102", "title": "Crypto scam of the week", "url": "https://example.com/scam",
			 "points": 80, "num_comments": 10, "created_at_i": %d, "author": "bob"},
			{"objectID": "103", "title": "", "points": 5, "created_at_i": %d}
		]}`, now, now, now)
	}))
	defer server.Close()

	hn := NewHackerNews(server.Client())
	hn.baseURL = server.URL

	items, err := hn.Collect(context.Background(), source.Query{
		Keywords: []string{"LLM"},
		Exclude:  []string{"crypto"},
	})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	if len(items) != 1 {
		t.Fatalf("expected 1 item after exclusion and empty-title filtering, got %d", len(items))
	}
	item := items[0]
	if item.ID != "hackernews_101" {
		t.Fatalf("unexpected id: %s", item.ID)
	}
	if item.EngagementPrimary != 120 || item.EngagementSecondary != 45 {
		t.Fatalf("unexpected engagement: %d/%d", item.EngagementPrimary, item.EngagementSecondary)
	}
	if item.MatchedKeyword != "LLM" {
		t.Fatalf("unexpected matched keyword: %s", item.MatchedKeyword)
	}
}

func TestHackerNewsCommentsURLFallback(t *testing.T) {
	t.Parallel()

	now := time.Now().Unix()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, `{"hits": [
			{"objectID": "55", "title": "Ask HN: favorite tools?", "points": 40, "created_at_i": %d}
		]}`, now)
	}))
	defer server.Close()

	hn := NewHackerNews(server.Client())
	hn.baseURL = server.URL

	items, err := hn.Collect(context.Background(), source.Query{})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].URL != "https://news.ycombinator.com/item?id=55" {
		t.Fatalf("expected comments fallback URL, got %s", items[0].URL)
	}
}

func TestHackerNewsUpstreamError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	hn := NewHackerNews(server.Client())
	hn.baseURL = server.URL

	if _, err := hn.Collect(context.Background(), source.Query{Keywords: []string{"go"}}); err == nil {
		t.Fatal("expected an error when every search fails")
	}
}
