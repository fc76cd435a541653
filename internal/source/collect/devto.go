package collect

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"infocurator/internal/domain"
	"infocurator/internal/source"
)

const devtoName = "devto"

// DevTo collects through the public Forem articles API, one tag query per
// keyword. Multi-word keywords are folded into single tags the way dev.to
// slugs them.
type DevTo struct {
	client  *http.Client
	baseURL string
	perPage int
}

var _ source.Collector = (*DevTo)(nil)

func NewDevTo(client *http.Client) *DevTo {
	return &DevTo{
		client:  newHTTPClient(client),
		baseURL: "https://dev.to",
		perPage: 15,
	}
}

func (d *DevTo) Name() string {
	return devtoName
}

type devtoArticle struct {
	ID                    int    `json:"id"`
	Title                 string `json:"title"`
	URL                   string `json:"url"`
	Description           string `json:"description"`
	PositiveReactionCount int    `json:"positive_reactions_count"`
	CommentsCount         int    `json:"comments_count"`
	PublishedAt           string `json:"published_at"`
	User                  struct {
		Username string `json:"username"`
	} `json:"user"`
}

func (d *DevTo) Collect(ctx context.Context, q source.Query) ([]domain.RawItem, error) {
	cutoff := time.Now().Add(-freshnessWindow)

	queries := make([]url.Values, 0, len(q.Keywords))
	for _, keyword := range q.Keywords {
		tag := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(keyword), " ", ""))
		if tag == "" {
			continue
		}
		params := url.Values{}
		params.Set("tag", tag)
		params.Set("per_page", fmt.Sprint(d.perPage))
		queries = append(queries, params)
	}
	if len(queries) == 0 {
		params := url.Values{}
		params.Set("top", "1")
		params.Set("per_page", fmt.Sprint(d.perPage))
		queries = append(queries, params)
	}

	keywords := q.Keywords

	var items []domain.RawItem
	var lastErr error
	for i, params := range queries {
		var articles []devtoArticle
		if err := getJSON(ctx, d.client, d.baseURL+"/api/articles?"+params.Encode(), &articles); err != nil {
			lastErr = fmt.Errorf("query %q: %w", params.Encode(), err)
			continue
		}

		matched := ""
		if i < len(keywords) {
			matched = keywords[i]
		}

		for _, article := range articles {
			if article.Title == "" || excluded(article.Title, q.Exclude) {
				continue
			}
			publishedAt := time.Now().UTC()
			if ts, err := time.Parse(time.RFC3339, article.PublishedAt); err == nil {
				publishedAt = ts.UTC()
				if publishedAt.Before(cutoff) {
					continue
				}
			}
			items = append(items, domain.RawItem{
				ID:                  fmt.Sprintf("%s_%d", devtoName, article.ID),
				Title:               article.Title,
				URL:                 article.URL,
				BodyExcerpt:         truncate(article.Description, excerptLimit),
				EngagementPrimary:   article.PositiveReactionCount,
				EngagementSecondary: article.CommentsCount,
				Source:              devtoName,
				MatchedKeyword:      matched,
				CreatedAt:           publishedAt,
				Author:              article.User.Username,
			})
		}
	}

	if len(items) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return dedupeByURL(items), nil
}
