// Package extract turns a drained transcript chunk into the structured
// fields of a feed item: topics, summary, intents, and questions. The remote
// path talks to the configured AI provider; every failure degrades to the
// local analyzer so a cycle always produces a usable result.
package extract

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/lucasdcanova/SeemsSmartToMe/internal/ai"
	"github.com/lucasdcanova/SeemsSmartToMe/internal/analyze"
)

// Timeout bounds one remote extraction call.
const Timeout = 15 * time.Second

// Result is the stable output of one analysis cycle. Optional fields are
// empty rather than absent.
type Result struct {
	Topics    []string `json:"topics"`
	Summary   string   `json:"summary,omitempty"`
	Intents   []string `json:"intents,omitempty"`
	Questions []string `json:"questions,omitempty"`
}

// Options carries per-cycle settings.
type Options struct {
	Language string
	Offline  bool
}

// Extractor produces a Result from raw transcript text.
type Extractor struct {
	client ai.Client // nil means local-only
}

// New creates an Extractor. A nil client pins it to the local path.
func New(client ai.Client) *Extractor {
	return &Extractor{client: client}
}

const systemPrompt = `You analyze fragments of a live speech transcript. Respond with pure JSON only, no markdown fences or commentary. Write all values in %s.`

const userPrompt = `Analyze the transcript below and return a JSON object with exactly these keys:
- "topics": up to 6 short topic labels for the subjects being discussed
- "summary": one or two factual sentences condensing the transcript
- "intents": up to 3 short labels for what the speakers are trying to do
- "questions": up to 3 questions worth asking next

Transcript:
"""
%s
"""`

// Extract analyzes text. It never fails: remote errors are logged and the
// cycle falls back to local analysis, and remote output with missing or
// mistyped fields is filled in locally. For non-empty input the returned
// topics are never empty.
func (e *Extractor) Extract(ctx context.Context, text string, opts Options) Result {
	if opts.Offline || e.client == nil {
		return localResult(text)
	}

	ctx, cancel := context.WithTimeout(ctx, Timeout)
	defer cancel()

	raw, err := e.client.Complete(ctx, ai.Request{
		System:      fmt.Sprintf(systemPrompt, opts.Language),
		Prompt:      fmt.Sprintf(userPrompt, text),
		MaxTokens:   512,
		Temperature: 0.4,
	})
	if err != nil {
		log.Printf("[extract] remote analysis failed, using local fallback: %v", err)
		return localResult(text)
	}

	res, err := parseResult(raw)
	if err != nil {
		log.Printf("[extract] unparseable response, using local fallback: %v", err)
		return localResult(text)
	}

	fillMissing(&res, text)
	return res
}

func localResult(text string) Result {
	return Result{
		Topics:    analyze.Keywords(text, analyze.MaxKeywords),
		Summary:   analyze.Summarize(text),
		Intents:   analyze.PlaceholderIntents(),
		Questions: analyze.PlaceholderQuestions(),
	}
}

// parseResult decodes the model response and drops any field whose JSON
// container type is wrong, so a mistyped field never reaches the feed.
func parseResult(raw string) (Result, error) {
	var payload map[string]any
	if err := ai.DecodeJSON(raw, &payload); err != nil {
		return Result{}, err
	}

	return Result{
		Topics:    stringSlice(payload["topics"]),
		Summary:   stringValue(payload["summary"]),
		Intents:   stringSlice(payload["intents"]),
		Questions: stringSlice(payload["questions"]),
	}, nil
}

// fillMissing completes whatever the remote path left empty using the local
// analyzer.
func fillMissing(r *Result, text string) {
	if len(r.Topics) == 0 {
		r.Topics = analyze.Keywords(text, analyze.MaxKeywords)
	}
	if r.Summary == "" {
		r.Summary = analyze.Summarize(text)
	}
	if len(r.Intents) == 0 {
		r.Intents = analyze.PlaceholderIntents()
	}
	if len(r.Questions) == 0 {
		r.Questions = analyze.PlaceholderQuestions()
	}
}

func stringSlice(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, el := range arr {
		if s, ok := el.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}
