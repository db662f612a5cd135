package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/lucasdcanova/SeemsSmartToMe/internal/ai"
	"github.com/lucasdcanova/SeemsSmartToMe/internal/config"
	"github.com/lucasdcanova/SeemsSmartToMe/internal/enrich"
	"github.com/lucasdcanova/SeemsSmartToMe/internal/extract"
	"github.com/lucasdcanova/SeemsSmartToMe/internal/feed"
	"github.com/lucasdcanova/SeemsSmartToMe/internal/segment"
	"github.com/lucasdcanova/SeemsSmartToMe/internal/store"
	"github.com/lucasdcanova/SeemsSmartToMe/internal/transcript"
	"github.com/lucasdcanova/SeemsSmartToMe/internal/tui"
)

// session wires the whole pipeline: input pump, buffer, scheduler,
// correlator, and persistence.
type session struct {
	cfg     *config.Config
	db      *store.Store
	corr    *feed.Correlator
	buf     *transcript.Buffer
	sched   *transcript.Scheduler
	items   chan feed.Item
	interim chan string
}

// validCadence checks an override value from --cadence.
func validCadence(seconds int) error {
	for _, v := range config.Cadences {
		if seconds == v {
			return nil
		}
	}
	return fmt.Errorf("cadence must be one of %v, got %d", config.Cadences, seconds)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if flagCadence != 0 {
		if err := validCadence(flagCadence); err != nil {
			return nil, err
		}
		cfg.Cadence = flagCadence
	}
	if flagLanguage != "" {
		cfg.Language = flagLanguage
	}
	if flagOffline {
		cfg.Offline = true
	}
	return cfg, nil
}

// newSession builds the pipeline. notify, when nil, sends feed updates to
// the session's items channel (TUI mode); otherwise it is invoked directly.
func newSession(notify func(feed.Item)) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	db, err := store.Open(config.StorePath())
	if err != nil {
		return nil, fmt.Errorf("opening feed store: %w", err)
	}

	var client ai.Client
	if !cfg.Offline && cfg.AIEnabled() {
		client, err = ai.New(cfg.AI, cfg.AIKey())
		if err != nil {
			log.Printf("[seemsmart] AI disabled: %v", err)
			client = nil
		}
	}

	var sources []enrich.Source
	if cfg.Strategy() == enrich.StrategyRetrieval {
		var newsURL string
		if cfg.Enrichment != nil {
			newsURL = cfg.Enrichment.NewsAPIURL
		}
		if key := cfg.NewsKey(); key != "" {
			sources = append(sources, enrich.NewNewsAPISource(newsURL, key))
		}
		// Keyless RSS search works as a second (or only) source.
		sources = append(sources, enrich.NewRSSSource())
	}
	fetcher := enrich.New(enrich.Options{
		Client:   client,
		Strategy: cfg.Strategy(),
		Sources:  sources,
	})

	s := &session{
		cfg:     cfg,
		db:      db,
		items:   make(chan feed.Item, 64),
		interim: make(chan string, 16),
	}
	if notify == nil {
		notify = func(it feed.Item) {
			select {
			case s.items <- it:
			default: // a stalled viewer never blocks the pipeline
			}
		}
	}

	s.corr = feed.NewCorrelator(feed.CorrelatorOpts{
		Extractor: extract.New(client),
		Enricher:  fetcher,
		Store:     db,
		Language:  cfg.Lang(),
		Notify:    notify,
	})
	if err := s.corr.Restore(); err != nil {
		log.Printf("[seemsmart] restoring history: %v", err)
	}

	s.buf = transcript.NewBuffer()
	s.sched = transcript.NewScheduler(s.buf, func(text string, offline bool) {
		s.corr.Cycle(context.Background(), text, offline)
	})
	s.sched.Init(cfg.CadenceDuration())

	return s, nil
}

// pump feeds transcriber output into the pipeline until the stream ends,
// then runs one last cycle for whatever is still buffered and waits for
// in-flight enrichments.
func (s *session) pump(ctx context.Context, r io.Reader) {
	segs := make(chan segment.Segment, 16)
	go func() {
		if err := segment.Stream(ctx, r, segs); err != nil && ctx.Err() == nil {
			log.Printf("[seemsmart] reading transcript: %v", err)
		}
	}()

	for seg := range segs {
		if seg.Final {
			s.buf.Append(seg.Text, s.cfg.Offline || seg.Offline)
		} else {
			select {
			case s.interim <- seg.Text:
			default:
			}
		}
	}
	close(s.interim)

	s.sched.Stop()
	if text, offline := s.buf.Drain(); text != "" {
		s.corr.Cycle(ctx, text, offline)
	}
	s.corr.Wait()
}

func (s *session) close() {
	s.sched.Stop()
	s.db.Close()
}

func runTUI(cmd *cobra.Command, args []string) error {
	s, err := newSession(nil)
	if err != nil {
		return err
	}
	defer s.close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.pump(ctx, os.Stdin)

	return tui.Run(tui.RunOpts{
		Correlator: s.corr,
		Items:      s.items,
		Interim:    s.interim,
		ExportPath: flagExport,
	})
}

var pipeCmd = &cobra.Command{
	Use:   "pipe",
	Short: "Run headless: read the transcript from stdin, print feed entries",
	Long: `Read transcriber output from stdin without the TUI, printing each
analysis cycle and its enrichment as they complete. Ends at EOF, after a
final cycle for whatever is still buffered.`,
	RunE: runPipe,
}

func runPipe(cmd *cobra.Command, args []string) error {
	var mu sync.Mutex
	s, err := newSession(func(it feed.Item) {
		mu.Lock()
		defer mu.Unlock()
		printItem(it)
	})
	if err != nil {
		return err
	}
	defer s.close()

	s.pump(context.Background(), os.Stdin)
	return nil
}

var (
	pipeTopicStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"})
	pipeDimStyle     = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#626262"})
	pipeSectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#25D366"})
)

func printItem(it feed.Item) {
	if !it.Enriched() {
		fmt.Printf("%s %s\n", pipeDimStyle.Render(it.Timestamp.Format("15:04:05")), pipeTopicStyle.Render(strings.Join(it.Topics, ", ")))
		if it.Summary != "" {
			fmt.Printf("  %s\n", it.Summary)
		}
		return
	}
	fmt.Printf("%s %s\n", pipeDimStyle.Render(it.Timestamp.Format("15:04:05")), pipeSectionStyle.Render("enriquecido:"))
	for _, n := range it.News {
		fmt.Printf("  • %s\n    %s\n", n.Title, pipeDimStyle.Render(n.URL))
	}
	for _, in := range it.Insights {
		fmt.Printf("  › %s\n", in)
	}
}
