package tui

import "github.com/lucasdcanova/SeemsSmartToMe/internal/feed"

// itemMsg arrives when the correlator creates or updates a feed item.
type itemMsg struct {
	item feed.Item
}

// interimMsg carries an interim (not yet finalized) transcript segment for
// display only.
type interimMsg struct {
	text string
}

// streamClosedMsg means the transcript input ended.
type streamClosedMsg struct{}
