// Package enrich attaches news links and insight strings to the topics of a
// feed item. Two online strategies are supported (generative and retrieval)
// plus a deterministic offline path; whatever happens, the caller always
// gets content back.
package enrich

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/lucasdcanova/SeemsSmartToMe/internal/ai"
)

// Timeout bounds one enrichment attempt; past it, fallback content is
// produced instead of waiting.
const Timeout = 10 * time.Second

// maxNews caps the news list per feed item.
const maxNews = 3

const (
	StrategyGenerative = "generative"
	StrategyRetrieval  = "retrieval"
)

// NewsItem is one news link attached to a feed item.
type NewsItem struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Enrichment holds everything fetched for one topic set.
type Enrichment struct {
	News     []NewsItem `json:"news"`
	Insights []string   `json:"insights"`
}

// Source is one external news backend used by the retrieval strategy.
type Source interface {
	Name() string
	Search(ctx context.Context, topic string) (*NewsItem, error)
}

// Options configures a Fetcher.
type Options struct {
	Client   ai.Client // generative strategy; may be nil
	Strategy string
	Sources  []Source
}

// Fetcher produces Enrichments. Identical topic sets within a session are
// served from a small LRU so back-to-back cycles about the same subject
// don't re-query the network.
type Fetcher struct {
	client   ai.Client
	strategy string
	sources  []Source
	cache    *lru.Cache[string, Enrichment]
}

func New(opts Options) *Fetcher {
	cache, _ := lru.New[string, Enrichment](32)
	strategy := opts.Strategy
	if strategy == "" {
		strategy = StrategyGenerative
	}
	return &Fetcher{
		client:   opts.Client,
		strategy: strategy,
		sources:  opts.Sources,
		cache:    cache,
	}
}

// Enrich fetches news and insights for topics. It never returns an error
// and never returns both lists empty (unless topics itself is empty, which
// short-circuits with no network call). A single bounded attempt is made;
// there are no retries.
func (f *Fetcher) Enrich(ctx context.Context, topics []string, offline bool) Enrichment {
	if len(topics) == 0 {
		return Enrichment{}
	}

	key := strings.Join(topics, "\x1f")
	if cached, ok := f.cache.Get(key); ok {
		return cached
	}

	ctx, cancel := context.WithTimeout(ctx, Timeout)
	defer cancel()

	var e Enrichment
	switch {
	case offline:
		e = Placeholder(topics)
	case f.strategy == StrategyRetrieval && len(f.sources) > 0:
		e = f.retrieve(ctx, topics)
	case f.client != nil:
		e = f.generate(ctx, topics)
	default:
		e = Placeholder(topics)
	}

	fillEmpty(&e, topics)
	f.cache.Add(key, e)
	return e
}

// Placeholder builds deterministic offline content: up to three news links
// pointing at a web search and one insight per topic.
func Placeholder(topics []string) Enrichment {
	var e Enrichment
	for i, t := range topics {
		if i < maxNews {
			e.News = append(e.News, NewsItem{
				Title: fmt.Sprintf("Notícias recentes sobre %s", t),
				URL:   SearchURL(t),
			})
		}
		e.Insights = append(e.Insights, fmt.Sprintf("O tema %q apareceu na conversa; vale acompanhar os desdobramentos.", t))
	}
	return e
}

// SearchURL builds a search-engine link for a topic or headline.
func SearchURL(query string) string {
	return "https://www.google.com/search?q=" + url.QueryEscape(query+" notícias")
}

// fillEmpty guarantees the post-condition: neither list comes back empty
// when topics exist.
func fillEmpty(e *Enrichment, topics []string) {
	placeholder := Placeholder(topics)
	if len(e.News) == 0 {
		e.News = placeholder.News
	}
	if len(e.Insights) == 0 {
		e.Insights = placeholder.Insights
	}
}

// validURL reports whether s is an absolute http(s) URL.
func validURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
