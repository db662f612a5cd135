// Package tui renders the running feed while the pipeline listens. It is
// purely presentational: every mutation happens in the correlator, and the
// view only reacts to its notifications.
package tui

import (
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasdcanova/SeemsSmartToMe/internal/browser"
	"github.com/lucasdcanova/SeemsSmartToMe/internal/feed"
)

// RunOpts holds all parameters for launching the TUI.
type RunOpts struct {
	Correlator *feed.Correlator
	Items      chan feed.Item
	Interim    chan string
	ExportPath string
}

type App struct {
	correlator *feed.Correlator
	itemCh     chan feed.Item
	interimCh  chan string
	exportPath string

	items    []feed.Item // newest first
	cursor   int
	inflight int
	interim  string
	status   string

	width  int
	height int

	spinner spinner.Model
}

func NewApp(opts RunOpts) *App {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	app := &App{
		correlator: opts.Correlator,
		itemCh:     opts.Items,
		interimCh:  opts.Interim,
		exportPath: opts.ExportPath,
		spinner:    sp,
	}
	// History restored before launch shows up immediately.
	app.resync()
	return app
}

// resync rebuilds the newest-first view of the feed.
func (a *App) resync() {
	items := a.correlator.Items()
	a.items = a.items[:0]
	a.inflight = 0
	for i := len(items) - 1; i >= 0; i-- {
		a.items = append(a.items, items[i])
		if !items[i].Enriched() {
			a.inflight++
		}
	}
	if a.cursor >= len(a.items) {
		a.cursor = 0
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, a.waitForItem(), a.waitForInterim())
}

func (a *App) waitForItem() tea.Cmd {
	return func() tea.Msg {
		it, ok := <-a.itemCh
		if !ok {
			return nil
		}
		return itemMsg{item: it}
	}
}

func (a *App) waitForInterim() tea.Cmd {
	return func() tea.Msg {
		text, ok := <-a.interimCh
		if !ok {
			// Input stream ended; items may still arrive from in-flight
			// enrichments.
			return streamClosedMsg{}
		}
		return interimMsg{text: text}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case itemMsg:
		a.resync()
		return a, a.waitForItem()

	case interimMsg:
		a.interim = msg.text
		return a, a.waitForInterim()

	case streamClosedMsg:
		a.interim = ""
		a.status = "transcrição encerrada"
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		return a.handleKey(msg)
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.items)-1 {
			a.cursor++
		}
	case "o":
		if it := a.selected(); it != nil && len(it.News) > 0 {
			if err := browser.Open(it.News[0].URL); err != nil {
				a.status = err.Error()
			}
		}
	case "e":
		a.status = a.export()
	case "c":
		if err := a.correlator.Clear(); err != nil {
			a.status = err.Error()
		} else {
			a.status = "histórico limpo"
		}
		a.resync()
	}
	return a, nil
}

func (a *App) export() string {
	f, err := os.Create(a.exportPath)
	if err != nil {
		return err.Error()
	}
	defer f.Close()
	if err := a.correlator.Export(f); err != nil {
		return err.Error()
	}
	return "exportado para " + a.exportPath
}

func (a *App) selected() *feed.Item {
	if a.cursor < 0 || a.cursor >= len(a.items) {
		return nil
	}
	return &a.items[a.cursor]
}

func (a *App) View() string {
	if a.width == 0 {
		return "carregando..."
	}

	header := headerStyle.Render("seemsmart")
	if a.inflight > 0 {
		header += " " + a.spinner.View()
	}

	bottom := renderStatusBar(len(a.items), a.inflight, a.width)
	interimLine := ""
	if a.interim != "" {
		interimLine = interimStyle.Render("… " + truncateStr(a.interim, a.width-4))
	} else if a.status != "" {
		interimLine = interimStyle.Render(a.status)
	}

	bodyHeight := a.height - lipgloss.Height(header) - lipgloss.Height(bottom) - 1
	if bodyHeight < 3 {
		bodyHeight = 3
	}

	listWidth := a.width / 3
	detailWidth := a.width - listWidth - 4

	list := listPaneActiveStyle.Width(listWidth).Height(bodyHeight).
		Render(renderList(a.items, a.cursor, bodyHeight, listWidth))
	detail := listPaneStyle.Width(detailWidth).Height(bodyHeight).
		Render(renderDetail(a.selected(), detailWidth, bodyHeight))

	body := lipgloss.JoinHorizontal(lipgloss.Top, list, detail)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, interimLine, bottom)
}

// Run launches the TUI and blocks until the user quits. Stdin carries the
// transcript, so keyboard input comes from the controlling terminal.
func Run(opts RunOpts) error {
	teaOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if tty, err := os.Open("/dev/tty"); err == nil {
		defer tty.Close()
		teaOpts = append(teaOpts, tea.WithInput(tty))
	}
	p := tea.NewProgram(NewApp(opts), teaOpts...)
	_, err := p.Run()
	return err
}
