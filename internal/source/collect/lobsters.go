package collect

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"infocurator/internal/domain"
	"infocurator/internal/source"
)

const lobstersName = "lobsters"

// Lobsters collects from the hottest.json listing. The API has no search,
// so keyword matching happens client-side against title and tags.
type Lobsters struct {
	client  *http.Client
	baseURL string
}

var _ source.Collector = (*Lobsters)(nil)

func NewLobsters(client *http.Client) *Lobsters {
	return &Lobsters{
		client:  newHTTPClient(client),
		baseURL: "https://lobste.rs",
	}
}

func (l *Lobsters) Name() string {
	return lobstersName
}

type lobstersStory struct {
	ShortID      string   `json:"short_id"`
	Title        string   `json:"title"`
	URL          string   `json:"url"`
	CommentsURL  string   `json:"comments_url"`
	Score        int      `json:"score"`
	CommentCount int      `json:"comment_count"`
	Description  string   `json:"description_plain"`
	Tags         []string `json:"tags"`
	CreatedAt    string   `json:"created_at"`
	Submitter    string   `json:"submitter_user"`
}

func (l *Lobsters) Collect(ctx context.Context, q source.Query) ([]domain.RawItem, error) {
	var stories []lobstersStory
	if err := getJSON(ctx, l.client, l.baseURL+"/hottest.json", &stories); err != nil {
		return nil, fmt.Errorf("hottest: %w", err)
	}

	cutoff := time.Now().Add(-freshnessWindow)

	var items []domain.RawItem
	for _, story := range stories {
		if story.Title == "" || excluded(story.Title, q.Exclude) {
			continue
		}

		matched := ""
		if len(q.Keywords) > 0 {
			haystack := story.Title + " " + story.Description
			for _, tag := range story.Tags {
				haystack += " " + tag
			}
			keyword, ok := matchesAny(haystack, q.Keywords)
			if !ok {
				continue
			}
			matched = keyword
		}

		createdAt := time.Now().UTC()
		if ts, err := time.Parse(time.RFC3339, story.CreatedAt); err == nil {
			createdAt = ts.UTC()
			if createdAt.Before(cutoff) {
				continue
			}
		}

		link := story.URL
		if link == "" {
			link = story.CommentsURL
		}
		items = append(items, domain.RawItem{
			ID:                  lobstersName + "_" + story.ShortID,
			Title:               story.Title,
			URL:                 link,
			BodyExcerpt:         truncate(story.Description, excerptLimit),
			EngagementPrimary:   story.Score,
			EngagementSecondary: story.CommentCount,
			Source:              lobstersName,
			MatchedKeyword:      matched,
			CreatedAt:           createdAt,
			Author:              story.Submitter,
		})
	}

	return dedupeByURL(items), nil
}
