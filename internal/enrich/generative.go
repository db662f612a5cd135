package enrich

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/lucasdcanova/SeemsSmartToMe/internal/ai"
)

const enrichSystemPrompt = `You enrich conversation topics with context. Respond with pure JSON only, no markdown fences or commentary.`

const enrichUserPrompt = `For the topics below, return a JSON object with exactly these keys:
- "insights": exactly 3 short, factual insight strings connecting the topics to current events
- "news": exactly 3 objects with "title" and "url" for relevant recent news

Topics: %s`

type generativePayload struct {
	Insights []any `json:"insights"`
	News     []any `json:"news"`
}

// generate asks the AI for insights and news-like items in strict JSON.
// Any failure degrades to an empty Enrichment, which the caller fills with
// placeholders.
func (f *Fetcher) generate(ctx context.Context, topics []string) Enrichment {
	raw, err := f.client.Complete(ctx, ai.Request{
		System:      enrichSystemPrompt,
		Prompt:      fmt.Sprintf(enrichUserPrompt, strings.Join(topics, ", ")),
		MaxTokens:   512,
		Temperature: 0.4,
	})
	if err != nil {
		log.Printf("[enrich] generative call failed: %v", err)
		return Enrichment{}
	}

	var payload generativePayload
	if err := ai.DecodeJSON(raw, &payload); err != nil {
		log.Printf("[enrich] unparseable generative response: %v", err)
		return Enrichment{}
	}

	var e Enrichment
	for _, v := range payload.Insights {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			e.Insights = append(e.Insights, strings.TrimSpace(s))
		}
	}
	for _, v := range payload.News {
		obj, ok := v.(map[string]any)
		if !ok {
			continue
		}
		title, _ := obj["title"].(string)
		if strings.TrimSpace(title) == "" {
			continue
		}
		link, _ := obj["url"].(string)
		if !validURL(link) {
			// Model-invented links get replaced with a search URL built
			// from the headline.
			link = SearchURL(title)
		}
		e.News = append(e.News, NewsItem{Title: title, URL: link})
		if len(e.News) == maxNews {
			break
		}
	}
	return e
}
