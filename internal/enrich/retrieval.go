package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/time/rate"
)

// retrieve queries each source per topic, keeping the first article every
// source returns. Per-source failures are logged and swallowed; the
// remaining topics and sources still run. Insights are not produced by this
// strategy and come from the placeholder fill.
func (f *Fetcher) retrieve(ctx context.Context, topics []string) Enrichment {
	var e Enrichment
	for _, topic := range topics {
		if len(e.News) == maxNews {
			break
		}
		for _, src := range f.sources {
			item, err := src.Search(ctx, topic)
			if err != nil {
				log.Printf("[enrich] %s: %q: %v", src.Name(), topic, err)
				continue
			}
			if item == nil {
				continue
			}
			e.News = append(e.News, *item)
			break
		}
	}
	return e
}

// --- NewsAPI-style JSON source ---

// NewsAPISource queries a newsapi.org-compatible endpoint, key in the
// X-Api-Key header, first article wins.
type NewsAPISource struct {
	apiKey  string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

func NewNewsAPISource(baseURL, apiKey string) *NewsAPISource {
	if baseURL == "" {
		baseURL = "https://newsapi.org/v2/everything"
	}
	return &NewsAPISource{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(rate.Every(750*time.Millisecond), 1),
	}
}

func (s *NewsAPISource) Name() string { return "newsapi" }

type newsAPIResponse struct {
	Articles []struct {
		Title string `json:"title"`
		URL   string `json:"url"`
	} `json:"articles"`
}

func (s *NewsAPISource) Search(ctx context.Context, topic string) (*NewsItem, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("q", topic)
	q.Set("pageSize", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Api-Key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("news API %d: %s", resp.StatusCode, string(b))
	}

	var nr newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&nr); err != nil {
		return nil, err
	}
	if len(nr.Articles) == 0 || nr.Articles[0].Title == "" {
		return nil, nil
	}

	item := &NewsItem{Title: nr.Articles[0].Title, URL: nr.Articles[0].URL}
	if !validURL(item.URL) {
		item.URL = SearchURL(item.Title)
	}
	return item, nil
}

// --- Google News RSS source ---

// RSSSource pulls the first entry of a Google News search feed. It needs no
// API key, which makes it the default second source.
type RSSSource struct {
	baseURL string
	parser  *gofeed.Parser
	limiter *rate.Limiter
}

func NewRSSSource() *RSSSource {
	return &RSSSource{
		baseURL: "https://news.google.com/rss/search",
		parser:  gofeed.NewParser(),
		limiter: rate.NewLimiter(rate.Every(750*time.Millisecond), 1),
	}
}

func (s *RSSSource) Name() string { return "googlenews-rss" }

func (s *RSSSource) Search(ctx context.Context, topic string) (*NewsItem, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	feedURL := s.baseURL + "?q=" + url.QueryEscape(topic)
	feed, err := s.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching %s feed: %w", s.Name(), err)
	}
	if len(feed.Items) == 0 || feed.Items[0].Title == "" {
		return nil, nil
	}

	item := &NewsItem{Title: feed.Items[0].Title, URL: feed.Items[0].Link}
	if !validURL(item.URL) {
		item.URL = SearchURL(item.Title)
	}
	return item, nil
}
