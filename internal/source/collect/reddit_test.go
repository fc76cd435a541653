package collect

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"infocurator/internal/source"
)

func TestRedditCollectThemed(t *testing.T) {
	t.Parallel()

	now := float64(time.Now().Unix())
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/r/MachineLearning/search.json") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("restrict_sr"); got != "1" {
			t.Errorf("expected restrict_sr=1, got %q", got)
		}
		fmt.Fprintf(w, `{"data": {"children": [
			{"data": {"id": "x1", "title": "New transformer paper", "url": "https://example.com/x1",
			 "selftext": "long selftext body", "score": 350, "num_comments": 60,
			 "subreddit_name_prefixed": "r/MachineLearning", "created_utc": %f, "author": "ml_fan"}}
		]}}`, now)
	}))
	defer server.Close()

	rd := NewReddit(server.Client(), []string{"MachineLearning"})
	rd.baseURL = server.URL

	items, err := rd.Collect(context.Background(), source.Query{Keywords: []string{"transformer"}})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	item := items[0]
	if item.ID != "reddit_x1" {
		t.Fatalf("unexpected id: %s", item.ID)
	}
	if item.SubSource != "r/MachineLearning" {
		t.Fatalf("unexpected sub-source: %s", item.SubSource)
	}
	if item.BodyExcerpt != "long selftext body" {
		t.Fatalf("unexpected excerpt: %s", item.BodyExcerpt)
	}
}

func TestRedditCollectUnthemedUsesHot(t *testing.T) {
	t.Parallel()

	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		fmt.Fprint(w, `{"data": {"children": []}}`)
	}))
	defer server.Close()

	rd := NewReddit(server.Client(), []string{"technology"})
	rd.baseURL = server.URL

	if _, err := rd.Collect(context.Background(), source.Query{}); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if path != "/r/technology/hot.json" {
		t.Fatalf("unthemed run should hit hot.json, got %s", path)
	}
}

func TestRedditPartialSubredditFailure(t *testing.T) {
	t.Parallel()

	now := float64(time.Now().Unix())
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "broken") {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprintf(w, `{"data": {"children": [
			{"data": {"id": "ok1", "title": "AI news roundup", "url": "https://example.com/ok",
			 "score": 100, "created_utc": %f, "author": "u1"}}
		]}}`, now)
	}))
	defer server.Close()

	rd := NewReddit(server.Client(), []string{"broken", "artificial"})
	rd.baseURL = server.URL

	items, err := rd.Collect(context.Background(), source.Query{Keywords: []string{"AI"}})
	if err != nil {
		t.Fatalf("one failing subreddit must not fail the collector: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected the healthy subreddit's item, got %d", len(items))
	}
}
