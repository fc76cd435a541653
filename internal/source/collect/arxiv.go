package collect

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"infocurator/internal/domain"
	"infocurator/internal/source"
)

const arxivName = "arxiv"

// Arxiv collects preprints through the arXiv Atom API. Papers carry no
// vote counts, so the source is registered with fixed engagement.
type Arxiv struct {
	parser     *gofeed.Parser
	baseURL    string
	categories []string
	maxResults int
}

var _ source.Collector = (*Arxiv)(nil)

func NewArxiv(client *http.Client, categories []string) *Arxiv {
	parser := gofeed.NewParser()
	parser.Client = newHTTPClient(client)
	parser.UserAgent = userAgent
	return &Arxiv{
		parser:     parser,
		baseURL:    "https://export.arxiv.org/api/query",
		categories: categories,
		maxResults: 15,
	}
}

func (a *Arxiv) Name() string {
	return arxivName
}

// Collect issues one query per keyword, scoped to the configured arXiv
// categories, sorted by submission date. Without keywords it takes the
// latest submissions per category instead.
func (a *Arxiv) Collect(ctx context.Context, q source.Query) ([]domain.RawItem, error) {
	queries := a.searchQueries(q.Keywords)

	var items []domain.RawItem
	var lastErr error
	for _, sq := range queries {
		params := url.Values{}
		params.Set("search_query", sq.query)
		params.Set("sortBy", "submittedDate")
		params.Set("sortOrder", "descending")
		params.Set("max_results", fmt.Sprint(a.maxResults))

		feed, err := a.parser.ParseURLWithContext(a.baseURL+"?"+params.Encode(), ctx)
		if err != nil {
			lastErr = fmt.Errorf("query %q: %w", sq.query, err)
			continue
		}

		for _, entry := range feed.Items {
			title := strings.Join(strings.Fields(entry.Title), " ")
			if title == "" || excluded(title, q.Exclude) {
				continue
			}
			publishedAt := time.Now().UTC()
			if entry.PublishedParsed != nil {
				publishedAt = entry.PublishedParsed.UTC()
			}
			items = append(items, domain.RawItem{
				ID:             arxivName + "_" + arxivID(entry.Link),
				Title:          title,
				URL:            entry.Link,
				BodyExcerpt:    htmlToExcerpt(entry.Description, excerptLimit),
				Source:         arxivName,
				MatchedKeyword: sq.keyword,
				CreatedAt:      publishedAt,
				Author:         entryAuthor(entry),
			})
		}
	}

	if len(items) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return dedupeByURL(items), nil
}

type arxivQuery struct {
	keyword string
	query   string
}

func (a *Arxiv) searchQueries(keywords []string) []arxivQuery {
	catFilter := ""
	if len(a.categories) > 0 {
		parts := make([]string, 0, len(a.categories))
		for _, cat := range a.categories {
			parts = append(parts, "cat:"+cat)
		}
		catFilter = "(" + strings.Join(parts, " OR ") + ")"
	}

	if len(keywords) == 0 {
		q := catFilter
		if q == "" {
			q = "all:electron" // the API rejects empty queries
		}
		return []arxivQuery{{query: q}}
	}

	queries := make([]arxivQuery, 0, len(keywords))
	for _, keyword := range keywords {
		keyword = strings.TrimSpace(keyword)
		if keyword == "" {
			continue
		}
		q := fmt.Sprintf("(ti:%q OR abs:%q)", keyword, keyword)
		if catFilter != "" {
			q += " AND " + catFilter
		}
		queries = append(queries, arxivQuery{keyword: keyword, query: q})
	}
	return queries
}

// arxivID extracts the native identifier from an abstract link such as
// http://arxiv.org/abs/2408.01234v1.
func arxivID(link string) string {
	if idx := strings.LastIndex(link, "/abs/"); idx >= 0 {
		return link[idx+len("/abs/"):]
	}
	return link
}

func entryAuthor(entry *gofeed.Item) string {
	if len(entry.Authors) > 0 {
		return entry.Authors[0].Name
	}
	return ""
}
