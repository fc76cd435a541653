package collect

import (
	"testing"

	"infocurator/internal/domain"
)

func TestExcluded(t *testing.T) {
	t.Parallel()

	if !excluded("Big Crypto Scam Uncovered", []string{"crypto"}) {
		t.Fatal("case-insensitive match expected")
	}
	if excluded("Plain tech news", []string{"crypto"}) {
		t.Fatal("unrelated title must pass")
	}
	if excluded("Anything", nil) {
		t.Fatal("no exclude terms means nothing is excluded")
	}
}

func TestMatchesAny(t *testing.T) {
	t.Parallel()

	keyword, ok := matchesAny("A new LLM benchmark dropped", []string{"GPU", "llm"})
	if !ok {
		t.Fatal("expected a match")
	}
	if keyword != "llm" {
		t.Fatalf("expected the matching keyword back, got %q", keyword)
	}

	if _, ok := matchesAny("Nothing relevant", []string{"GPU"}); ok {
		t.Fatal("expected no match")
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	if got := truncate("  short  ", 100); got != "short" {
		t.Fatalf("expected trimmed passthrough, got %q", got)
	}
	if got := truncate("abcdef", 3); got != "abc" {
		t.Fatalf("expected 3-byte cut, got %q", got)
	}
}

func TestDedupeByURL(t *testing.T) {
	t.Parallel()

	items := []domain.RawItem{
		{ID: "a", URL: "https://example.com/1"},
		{ID: "b", URL: "https://example.com/1"},
		{ID: "c", URL: "https://example.com/2"},
		{ID: "d"}, // no URL, deduped by id
		{ID: "d"},
	}

	got := dedupeByURL(items)
	if len(got) != 3 {
		t.Fatalf("expected 3 unique items, got %d", len(got))
	}
	if got[0].ID != "a" {
		t.Fatalf("first occurrence must win, got %s", got[0].ID)
	}
}

func TestHTMLToExcerpt(t *testing.T) {
	t.Parallel()

	got := htmlToExcerpt("<p>Hello   <b>world</b></p>\n<p>again</p>", 100)
	if got != "Hello world again" {
		t.Fatalf("unexpected excerpt: %q", got)
	}

	if got := htmlToExcerpt("plain text", 100); got != "plain text" {
		t.Fatalf("plain text should pass through, got %q", got)
	}

	if got := htmlToExcerpt("", 100); got != "" {
		t.Fatalf("empty input should stay empty, got %q", got)
	}
}
