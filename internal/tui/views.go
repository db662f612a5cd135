package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasdcanova/SeemsSmartToMe/internal/feed"
)

func relativeTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "agora"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return t.Format("Jan 2")
	}
}

func truncateStr(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

func topicsLabel(it feed.Item) string {
	if len(it.Topics) == 0 {
		return "(sem tópicos)"
	}
	return strings.Join(it.Topics, ", ")
}

func renderListItem(it feed.Item, selected bool, width int) string {
	if width < 10 {
		width = 30
	}

	var title string
	if selected {
		title = itemSelectedStyle.Render("> " + truncateStr(topicsLabel(it), width-4))
	} else {
		title = itemTopicsStyle.Render("  " + truncateStr(topicsLabel(it), width-4))
	}

	meta := "  " + itemTimeStyle.Render(relativeTime(it.Timestamp))
	if !it.Enriched() {
		meta += " " + pendingStyle.Render("· enriquecendo...")
	}

	return title + "\n" + meta
}

// renderList shows the feed newest-first.
func renderList(items []feed.Item, cursor int, height, width int) string {
	if len(items) == 0 {
		return lipglossCenter("Aguardando a primeira análise...", width, height)
	}

	itemHeight := 3
	visible := height / itemHeight
	if visible < 1 {
		visible = 1
	}

	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}
	end := start + visible
	if end > len(items) {
		end = len(items)
		start = end - visible
		if start < 0 {
			start = 0
		}
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(renderListItem(items[i], i == cursor, width))
		if i < end-1 {
			b.WriteString("\n\n")
		}
	}
	return b.String()
}

func renderDetail(it *feed.Item, width, height int) string {
	if it == nil {
		return lipglossCenter("Selecione um item", width, height)
	}

	contentWidth := width - 2
	if contentWidth < 10 {
		contentWidth = 10
	}

	sections := []string{
		detailTitleStyle.Width(contentWidth).Render(topicsLabel(*it)),
		itemTimeStyle.Render(it.Timestamp.Format("02 Jan 2006 15:04:05")),
	}

	if it.Summary != "" {
		sections = append(sections, "", detailLabelStyle.Render("Resumo"),
			detailBodyStyle.Width(contentWidth).Render(wrapText(it.Summary, contentWidth)))
	}
	if len(it.Intents) > 0 {
		sections = append(sections, "", detailLabelStyle.Render("Intenções"))
		for _, in := range it.Intents {
			sections = append(sections, detailBodyStyle.Render("• "+truncateStr(in, contentWidth-2)))
		}
	}
	if len(it.Questions) > 0 {
		sections = append(sections, "", detailLabelStyle.Render("Perguntas"))
		for _, q := range it.Questions {
			sections = append(sections, detailBodyStyle.Render("• "+truncateStr(q, contentWidth-2)))
		}
	}

	if it.Enriched() {
		if len(it.News) > 0 {
			sections = append(sections, "", detailLabelStyle.Render("Notícias"))
			for _, n := range it.News {
				sections = append(sections, detailBodyStyle.Render("• "+truncateStr(n.Title, contentWidth-2)))
				sections = append(sections, "  "+detailLinkStyle.Render(truncateStr(n.URL, contentWidth-2)))
			}
		}
		if len(it.Insights) > 0 {
			sections = append(sections, "", detailLabelStyle.Render("Insights"))
			for _, in := range it.Insights {
				sections = append(sections, detailBodyStyle.Width(contentWidth).Render(wrapText("• "+in, contentWidth)))
			}
		}
	} else {
		sections = append(sections, "", pendingStyle.Render("Buscando notícias e insights..."))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	lines := strings.Split(content, "\n")
	if len(lines) < height {
		lines = append(lines, make([]string, height-len(lines))...)
	} else if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

func renderStatusBar(itemCount, inflight int, width int) string {
	left := fmt.Sprintf(" %d análises", itemCount)
	if inflight > 0 {
		left += fmt.Sprintf(" · %d em andamento", inflight)
	}
	right := " o abrir notícia  e exportar  c limpar  q sair "

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return statusBarStyle.Width(width).Render(left + fmt.Sprintf("%*s", gap, "") + right)
}

func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > width {
			lines = append(lines, line)
			line = w
		} else {
			line += " " + w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

func lipglossCenter(s string, width, height int) string {
	return strings.Repeat("\n", height/3) + strings.Repeat(" ", max(0, (width-len(s))/2)) + s
}
