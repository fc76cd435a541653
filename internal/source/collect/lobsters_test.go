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

func TestLobstersCollectKeywordFilter(t *testing.T) {
	t.Parallel()

	fresh := time.Now().Add(-time.Hour).Format(time.RFC3339)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/hottest.json" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		fmt.Fprintf(w, `[
			{"short_id": "aa1", "title": "Profiling Go services in production",
			 "url": "https://example.com/profiling", "score": 40, "comment_count": 12,
			 "description_plain": "a writeup", "tags": ["go", "performance"],
			 "created_at": "%s", "submitter_user": "alice"},
			{"short_id": "bb2", "title": "CSS tricks nobody asked for",
			 "url": "https://example.com/css", "score": 25, "comment_count": 3,
			 "tags": ["css"], "created_at": "%s", "submitter_user": "bob"}
		]`, fresh, fresh)
	}))
	defer server.Close()

	lb := NewLobsters(server.Client())
	lb.baseURL = server.URL

	items, err := lb.Collect(context.Background(), source.Query{Keywords: []string{"go"}})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	// "go" matches the first story's tag; client-side filtering since the
	// API has no search.
	if len(items) != 1 {
		t.Fatalf("expected 1 matching story, got %d", len(items))
	}
	if items[0].ID != "lobsters_aa1" {
		t.Fatalf("unexpected id: %s", items[0].ID)
	}
	if items[0].EngagementPrimary != 40 || items[0].EngagementSecondary != 12 {
		t.Fatalf("unexpected engagement: %d/%d",
			items[0].EngagementPrimary, items[0].EngagementSecondary)
	}
}

func TestLobstersCollectUnthemedTakesAll(t *testing.T) {
	t.Parallel()

	fresh := time.Now().Add(-time.Hour).Format(time.RFC3339)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, `[
			{"short_id": "aa1", "title": "Story one", "url": "https://example.com/1",
			 "score": 10, "created_at": "%s"},
			{"short_id": "bb2", "title": "Story two", "url": "https://example.com/2",
			 "score": 20, "created_at": "%s"}
		]`, fresh, fresh)
	}))
	defer server.Close()

	lb := NewLobsters(server.Client())
	lb.baseURL = server.URL

	items, err := lb.Collect(context.Background(), source.Query{})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("unthemed run should keep every fresh story, got %d", len(items))
	}
}

func TestLobstersCommentsURLFallback(t *testing.T) {
	t.Parallel()

	fresh := time.Now().Add(-time.Hour).Format(time.RFC3339)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, `[
			{"short_id": "tx9", "title": "Text-only post", "url": "",
			 "comments_url": "https://lobste.rs/s/tx9", "score": 5, "created_at": "%s"}
		]`, fresh)
	}))
	defer server.Close()

	lb := NewLobsters(server.Client())
	lb.baseURL = server.URL

	items, err := lb.Collect(context.Background(), source.Query{})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(items) != 1 || items[0].URL != "https://lobste.rs/s/tx9" {
		t.Fatalf("expected comments URL fallback, got %+v", items)
	}
}
