// Package collect holds the source adapters: thin fetch/field-map wrappers
// that normalize one upstream API each into RawItems.
package collect

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"infocurator/internal/domain"
)

const (
	defaultTimeout = 12 * time.Second
	excerptLimit   = 500
	userAgent      = "infocurator/1.0"

	// freshnessWindow bounds how old collected content may be.
	freshnessWindow = 24 * time.Hour
)

func newHTTPClient(client *http.Client) *http.Client {
	if client != nil {
		return client
	}
	return &http.Client{Timeout: defaultTimeout}
}

// getJSON fetches a URL and decodes the JSON response into v.
func getJSON(ctx context.Context, client *http.Client, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// excluded reports whether the title mentions any excluded term.
func excluded(title string, terms []string) bool {
	if len(terms) == 0 {
		return false
	}
	title = strings.ToLower(title)
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term != "" && strings.Contains(title, term) {
			return true
		}
	}
	return false
}

// matchesAny returns the first keyword found in the text, case-insensitive.
func matchesAny(text string, keywords []string) (string, bool) {
	text = strings.ToLower(text)
	for _, keyword := range keywords {
		k := strings.ToLower(strings.TrimSpace(keyword))
		if k != "" && strings.Contains(text, k) {
			return keyword, true
		}
	}
	return "", false
}

func truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}

// dedupeByURL keeps the first item seen per URL.
func dedupeByURL(items []domain.RawItem) []domain.RawItem {
	seen := make(map[string]struct{}, len(items))
	out := make([]domain.RawItem, 0, len(items))
	for _, item := range items {
		key := item.URL
		if key == "" {
			key = item.ID
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}
