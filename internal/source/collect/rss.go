package collect

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed"

	"infocurator/internal/domain"
	"infocurator/internal/source"
)

const rssName = "rss"

// RSS collects from a configured list of feed URLs. Feed entries carry no
// vote counts, so the source is registered with fixed engagement.
type RSS struct {
	parser *gofeed.Parser
	feeds  []string
}

var _ source.Collector = (*RSS)(nil)

func NewRSS(client *http.Client, feeds []string) *RSS {
	parser := gofeed.NewParser()
	parser.Client = newHTTPClient(client)
	parser.UserAgent = userAgent
	return &RSS{parser: parser, feeds: feeds}
}

func (r *RSS) Name() string {
	return rssName
}

func (r *RSS) Collect(ctx context.Context, q source.Query) ([]domain.RawItem, error) {
	cutoff := time.Now().Add(-freshnessWindow)

	var items []domain.RawItem
	var lastErr error
	for _, feedURL := range r.feeds {
		feed, err := r.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			lastErr = fmt.Errorf("feed %s: %w", feedURL, err)
			continue
		}

		for _, entry := range feed.Items {
			if entry.Title == "" || entry.Link == "" || excluded(entry.Title, q.Exclude) {
				continue
			}
			publishedAt := entryTime(entry)
			if publishedAt.Before(cutoff) {
				continue
			}

			excerpt := htmlToExcerpt(entry.Description, excerptLimit)
			matched := ""
			if len(q.Keywords) > 0 {
				keyword, ok := matchesAny(entry.Title+" "+excerpt, q.Keywords)
				if !ok {
					continue
				}
				matched = keyword
			}

			items = append(items, domain.RawItem{
				ID:             rssName + "_" + linkDigest(entry.Link),
				Title:          entry.Title,
				URL:            entry.Link,
				BodyExcerpt:    excerpt,
				Source:         rssName,
				SubSource:      feedHost(feedURL),
				MatchedKeyword: matched,
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

func entryTime(entry *gofeed.Item) time.Time {
	if entry.PublishedParsed != nil {
		return entry.PublishedParsed.UTC()
	}
	if entry.UpdatedParsed != nil {
		return entry.UpdatedParsed.UTC()
	}
	return time.Now().UTC()
}

// linkDigest derives a short stable id from the entry link, since feeds
// disagree about guid formats.
func linkDigest(link string) string {
	sum := sha1.Sum([]byte(link))
	return hex.EncodeToString(sum[:])[:16]
}

func feedHost(feedURL string) string {
	if u, err := url.Parse(feedURL); err == nil && u.Host != "" {
		return u.Host
	}
	return feedURL
}
