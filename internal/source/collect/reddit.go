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

const redditName = "reddit"

// Reddit collects posts through the public search.json endpoints; no OAuth
// credentials are needed for read-only listings.
type Reddit struct {
	client     *http.Client
	baseURL    string
	subreddits []string
	limit      int
}

var _ source.Collector = (*Reddit)(nil)

func NewReddit(client *http.Client, subreddits []string) *Reddit {
	return &Reddit{
		client:     newHTTPClient(client),
		baseURL:    "https://www.reddit.com",
		subreddits: subreddits,
		limit:      15,
	}
}

func (r *Reddit) Name() string {
	return redditName
}

type redditPost struct {
	ID                    string  `json:"id"`
	Title                 string  `json:"title"`
	URL                   string  `json:"url"`
	Permalink             string  `json:"permalink"`
	Selftext              string  `json:"selftext"`
	Score                 int     `json:"score"`
	NumComments           int     `json:"num_comments"`
	SubredditNamePrefixed string  `json:"subreddit_name_prefixed"`
	CreatedUTC            float64 `json:"created_utc"`
	Author                string  `json:"author"`
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// Collect searches every configured subreddit per keyword; without
// keywords it takes each subreddit's hot listing instead.
func (r *Reddit) Collect(ctx context.Context, q source.Query) ([]domain.RawItem, error) {
	var items []domain.RawItem
	var lastErr error

	for _, subreddit := range r.subreddits {
		searches := q.Keywords
		if len(searches) == 0 {
			searches = []string{""}
		}
		for _, keyword := range searches {
			posts, err := r.fetch(ctx, subreddit, keyword)
			if err != nil {
				lastErr = fmt.Errorf("r/%s keyword %q: %w", subreddit, keyword, err)
				continue
			}

			for _, post := range posts {
				if post.Title == "" || excluded(post.Title, q.Exclude) {
					continue
				}
				subSource := post.SubredditNamePrefixed
				if subSource == "" {
					subSource = "r/" + subreddit
				}
				link := post.URL
				if link == "" {
					link = "https://reddit.com" + post.Permalink
				}
				items = append(items, domain.RawItem{
					ID:                  redditName + "_" + post.ID,
					Title:               post.Title,
					URL:                 link,
					BodyExcerpt:         truncate(post.Selftext, excerptLimit),
					EngagementPrimary:   post.Score,
					EngagementSecondary: post.NumComments,
					Source:              redditName,
					SubSource:           subSource,
					MatchedKeyword:      keyword,
					CreatedAt:           time.Unix(int64(post.CreatedUTC), 0).UTC(),
					Author:              post.Author,
				})
			}
		}
	}

	if len(items) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return dedupeByURL(items), nil
}

func (r *Reddit) fetch(ctx context.Context, subreddit, keyword string) ([]redditPost, error) {
	var endpoint string
	params := url.Values{}
	params.Set("limit", strconv.Itoa(r.limit))

	if keyword != "" {
		endpoint = fmt.Sprintf("%s/r/%s/search.json", r.baseURL, subreddit)
		params.Set("q", keyword)
		params.Set("restrict_sr", "1")
		params.Set("sort", "relevance")
		params.Set("t", "day")
	} else {
		endpoint = fmt.Sprintf("%s/r/%s/hot.json", r.baseURL, subreddit)
	}

	var listing redditListing
	if err := getJSON(ctx, r.client, endpoint+"?"+params.Encode(), &listing); err != nil {
		return nil, err
	}

	posts := make([]redditPost, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		posts = append(posts, child.Data)
	}
	return posts, nil
}
