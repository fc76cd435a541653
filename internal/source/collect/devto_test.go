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

func TestDevToCollectTagQueries(t *testing.T) {
	t.Parallel()

	fresh := time.Now().Add(-time.Hour).Format(time.RFC3339)
	var tags []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tags = append(tags, r.URL.Query().Get("tag"))
		fmt.Fprintf(w, `[
			{"id": 7, "title": "Machine learning on the edge", "url": "https://example.com/7",
			 "description": "short intro", "positive_reactions_count": 55, "comments_count": 9,
			 "published_at": "%s", "user": {"username": "dev1"}}
		]`, fresh)
	}))
	defer server.Close()

	d := NewDevTo(server.Client())
	d.baseURL = server.URL

	items, err := d.Collect(context.Background(), source.Query{
		Keywords: []string{"machine learning"},
	})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	// Multi-word keywords fold into one tag slug.
	if len(tags) != 1 || tags[0] != "machinelearning" {
		t.Fatalf("expected one machinelearning tag query, got %v", tags)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 article, got %d", len(items))
	}
	item := items[0]
	if item.ID != "devto_7" {
		t.Fatalf("unexpected id: %s", item.ID)
	}
	if item.EngagementPrimary != 55 || item.EngagementSecondary != 9 {
		t.Fatalf("unexpected engagement: %d/%d", item.EngagementPrimary, item.EngagementSecondary)
	}
	if item.MatchedKeyword != "machine learning" {
		t.Fatalf("unexpected matched keyword: %s", item.MatchedKeyword)
	}
}

func TestDevToCollectUnthemedUsesTop(t *testing.T) {
	t.Parallel()

	var top string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		top = r.URL.Query().Get("top")
		fmt.Fprint(w, `[]`)
	}))
	defer server.Close()

	d := NewDevTo(server.Client())
	d.baseURL = server.URL

	if _, err := d.Collect(context.Background(), source.Query{}); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if top != "1" {
		t.Fatalf("unthemed run should request top articles, got top=%q", top)
	}
}

func TestDevToCollectDropsStale(t *testing.T) {
	t.Parallel()

	stale := time.Now().Add(-72 * time.Hour).Format(time.RFC3339)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, `[
			{"id": 9, "title": "Old article", "url": "https://example.com/9",
			 "published_at": "%s", "user": {"username": "dev2"}}
		]`, stale)
	}))
	defer server.Close()

	d := NewDevTo(server.Client())
	d.baseURL = server.URL

	items, err := d.Collect(context.Background(), source.Query{})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("stale articles must be dropped, got %d", len(items))
	}
}
