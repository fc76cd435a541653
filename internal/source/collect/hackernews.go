package collect

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"infocurator/internal/domain"
	"infocurator/internal/source"
)

const hackerNewsName = "hackernews"

// HackerNews collects stories through the Algolia search API.
type HackerNews struct {
	client      *http.Client
	baseURL     string
	hitsPerPage int
}

var _ source.Collector = (*HackerNews)(nil)

func NewHackerNews(client *http.Client) *HackerNews {
	return &HackerNews{
		client:      newHTTPClient(client),
		baseURL:     "https://hn.algolia.com/api/v1",
		hitsPerPage: 20,
	}
}

func (h *HackerNews) Name() string {
	return hackerNewsName
}

type algoliaHit struct {
	ObjectID    string `json:"objectID"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Points      int    `json:"points"`
	NumComments int    `json:"num_comments"`
	CreatedAtI  int64  `json:"created_at_i"`
	Author      string `json:"author"`
}

type algoliaResponse struct {
	Hits []algoliaHit `json:"hits"`
}

// Collect runs one search per keyword over the last 24 hours; without
// keywords it falls back to the current front page.
func (h *HackerNews) Collect(ctx context.Context, q source.Query) ([]domain.RawItem, error) {
	cutoff := time.Now().Add(-freshnessWindow).Unix()

	searches := q.Keywords
	if len(searches) == 0 {
		searches = []string{""}
	}

	var items []domain.RawItem
	var lastErr error
	for _, keyword := range searches {
		hits, err := h.search(ctx, keyword, cutoff)
		if err != nil {
			lastErr = fmt.Errorf("keyword %q: %w", keyword, err)
			continue
		}

		for _, hit := range hits {
			if hit.Title == "" || excluded(hit.Title, q.Exclude) {
				continue
			}
			link := hit.URL
			if link == "" {
				link = "https://news.ycombinator.com/item?id=" + hit.ObjectID
			}
			items = append(items, domain.RawItem{
				ID:                  hackerNewsName + "_" + hit.ObjectID,
				Title:               hit.Title,
				URL:                 link,
				EngagementPrimary:   hit.Points,
				EngagementSecondary: hit.NumComments,
				Source:              hackerNewsName,
				MatchedKeyword:      keyword,
				CreatedAt:           time.Unix(hit.CreatedAtI, 0).UTC(),
				Author:              hit.Author,
			})
		}
	}

	if len(items) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return dedupeByURL(items), nil
}

func (h *HackerNews) search(ctx context.Context, keyword string, cutoff int64) ([]algoliaHit, error) {
	params := url.Values{}
	if keyword != "" {
		params.Set("query", keyword)
		params.Set("tags", "story")
	} else {
		params.Set("tags", "front_page")
	}
	params.Set("hitsPerPage", strconv.Itoa(h.hitsPerPage))
	params.Set("numericFilters", fmt.Sprintf("created_at_i>%d", cutoff))

	var resp algoliaResponse
	if err := getJSON(ctx, h.client, h.baseURL+"/search?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	return resp.Hits, nil
}
