// Package segment adapts the external speech-to-text collaborator. The
// transcriber is expected to write one segment per line on a stream: plain
// text for a finalized utterance, or a JSON object for finer control.
package segment

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strings"
)

// Segment is one unit delivered by the transcriber. Only finalized segments
// may enter the analysis buffer; interim ones are display-only.
type Segment struct {
	Text    string
	Final   bool
	Offline bool
}

type jsonSegment struct {
	Text    string `json:"text"`
	Final   *bool  `json:"final"`
	Offline bool   `json:"offline"`
}

// Parse interprets one input line. Plain text lines are finalized segments;
// lines starting with '{' use the JSONL contract, where a missing "final"
// field means finalized. Blank lines and JSON lines without text are
// skipped.
func Parse(line string) (Segment, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Segment{}, false
	}

	if strings.HasPrefix(line, "{") {
		var js jsonSegment
		if err := json.Unmarshal([]byte(line), &js); err == nil {
			if strings.TrimSpace(js.Text) == "" {
				return Segment{}, false
			}
			final := js.Final == nil || *js.Final
			return Segment{Text: strings.TrimSpace(js.Text), Final: final, Offline: js.Offline}, true
		}
		// Not valid JSON after all; treat as spoken text.
	}

	return Segment{Text: line, Final: true}, true
}

// Stream reads segments from r until EOF or ctx cancellation, sending each
// parsed segment on out. The channel is closed when the stream ends.
func Stream(ctx context.Context, r io.Reader, out chan<- Segment) error {
	defer close(out)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		seg, ok := Parse(scanner.Text())
		if !ok {
			continue
		}
		select {
		case out <- seg:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return scanner.Err()
}
