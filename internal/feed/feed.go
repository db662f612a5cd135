// Package feed owns the running history of analysis cycles. The Correlator
// assigns ids, appends items as soon as extraction completes, and merges
// enrichment results back into the matching item when they arrive, however
// many cycles are in flight.
package feed

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"sync"
	"time"

	"github.com/lucasdcanova/SeemsSmartToMe/internal/enrich"
	"github.com/lucasdcanova/SeemsSmartToMe/internal/extract"
)

// Item is one entry of the feed: the extraction result of a cycle plus the
// enrichment that arrives later. News and Insights start empty and are
// replaced wholesale when enrichment completes.
type Item struct {
	ID        int64             `json:"id"`
	Topics    []string          `json:"topics"`
	Summary   string            `json:"summary,omitempty"`
	Intents   []string          `json:"intents,omitempty"`
	Questions []string          `json:"questions,omitempty"`
	News      []enrich.NewsItem `json:"news"`
	Insights  []string          `json:"insights"`
	Timestamp time.Time         `json:"timestamp"`
}

// Enriched reports whether enrichment already landed on this item.
func (it Item) Enriched() bool {
	return len(it.News) > 0 || len(it.Insights) > 0
}

// Extractor is the analysis step of the pipeline.
type Extractor interface {
	Extract(ctx context.Context, text string, opts extract.Options) extract.Result
}

// Enricher is the enrichment step of the pipeline.
type Enricher interface {
	Enrich(ctx context.Context, topics []string, offline bool) enrich.Enrichment
}

// Store mirrors the feed to persistent storage. It is write-through and
// best-effort: a storage failure never fails a cycle.
type Store interface {
	SaveItem(item Item) error
	UpdateEnrichment(id int64, e enrich.Enrichment) error
	LoadItems() ([]Item, error)
	Clear() error
}

// CorrelatorOpts wires a Correlator.
type CorrelatorOpts struct {
	Extractor Extractor
	Enricher  Enricher
	Store     Store      // may be nil
	Language  string
	Notify    func(Item) // called after create and after merge; may be nil
}

// Correlator runs cycles and keeps the feed consistent while extractions
// and enrichments complete out of order.
type Correlator struct {
	mu     sync.Mutex
	items  []Item
	lastID int64

	extractor Extractor
	enricher  Enricher
	store     Store
	language  string
	notify    func(Item)

	inflight sync.WaitGroup
	now      func() time.Time
}

func NewCorrelator(opts CorrelatorOpts) *Correlator {
	return &Correlator{
		extractor: opts.Extractor,
		enricher:  opts.Enricher,
		store:     opts.Store,
		language:  opts.Language,
		notify:    opts.Notify,
		now:       time.Now,
	}
}

// Restore loads the persisted history into memory. Call once at startup,
// before any cycle runs.
func (c *Correlator) Restore() error {
	if c.store == nil {
		return nil
	}
	items, err := c.store.LoadItems()
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = items
	for _, it := range items {
		if it.ID > c.lastID {
			c.lastID = it.ID
		}
	}
	return nil
}

// Cycle runs one full analysis cycle for a drained transcript chunk: the
// item is appended (and persisted) the moment topics are known, then
// enrichment runs on its own goroutine and is merged back by id.
func (c *Correlator) Cycle(ctx context.Context, text string, offline bool) Item {
	res := c.extractor.Extract(ctx, text, extract.Options{Language: c.language, Offline: offline})
	item := c.append(res)

	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		e := c.enricher.Enrich(ctx, item.Topics, offline)
		c.Merge(item.ID, e)
	}()

	return item
}

// append creates the feed item for a fresh extraction result. Ids come from
// the wall clock in milliseconds; a same-millisecond cycle bumps past the
// previous id so ids stay unique and monotonic.
func (c *Correlator) append(res extract.Result) Item {
	c.mu.Lock()
	now := c.now()
	id := now.UnixMilli()
	if id <= c.lastID {
		id = c.lastID + 1
	}
	c.lastID = id

	item := Item{
		ID:        id,
		Topics:    res.Topics,
		Summary:   res.Summary,
		Intents:   res.Intents,
		Questions: res.Questions,
		News:      []enrich.NewsItem{},
		Insights:  []string{},
		Timestamp: now,
	}
	c.items = append(c.items, item)
	c.mu.Unlock()

	if c.store != nil {
		if err := c.store.SaveItem(item); err != nil {
			log.Printf("[feed] persisting item %d: %v", item.ID, err)
		}
	}
	if c.notify != nil {
		c.notify(item)
	}
	return item
}

// Merge attaches an enrichment to the item with the given id, replacing the
// news and insight lists. An unknown id is silently dropped: the history may
// have been cleared while the enrichment was in flight.
func (c *Correlator) Merge(id int64, e enrich.Enrichment) {
	c.mu.Lock()
	idx := -1
	for i := range c.items {
		if c.items[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		c.mu.Unlock()
		return
	}
	c.items[idx].News = e.News
	c.items[idx].Insights = e.Insights
	item := c.items[idx]
	c.mu.Unlock()

	if c.store != nil {
		if err := c.store.UpdateEnrichment(id, e); err != nil {
			log.Printf("[feed] persisting enrichment %d: %v", id, err)
		}
	}
	if c.notify != nil {
		c.notify(item)
	}
}

// Items returns a snapshot of the feed, oldest first.
func (c *Correlator) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Clear wipes the whole history, in memory and in the store. Enrichments
// still in flight for cleared items will find no matching id and be
// dropped.
func (c *Correlator) Clear() error {
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()
	if c.store != nil {
		return c.store.Clear()
	}
	return nil
}

// Export writes the entire feed as indented JSON.
func (c *Correlator) Export(w io.Writer) error {
	items := c.Items()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

// Wait blocks until all in-flight enrichments have merged. Used on
// shutdown and in tests.
func (c *Correlator) Wait() {
	c.inflight.Wait()
}
