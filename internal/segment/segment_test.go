package segment

import (
	"context"
	"strings"
	"testing"
)

func TestParsePlainText(t *testing.T) {
	seg, ok := Parse("bom dia a todos")
	if !ok {
		t.Fatal("expected segment")
	}
	if !seg.Final {
		t.Error("plain text lines are finalized")
	}
	if seg.Text != "bom dia a todos" {
		t.Errorf("unexpected text %q", seg.Text)
	}
}

func TestParseBlankLine(t *testing.T) {
	if _, ok := Parse("   "); ok {
		t.Error("expected blank line to be skipped")
	}
}

func TestParseJSONDefaults(t *testing.T) {
	seg, ok := Parse(`{"text": "segmento final"}`)
	if !ok {
		t.Fatal("expected segment")
	}
	if !seg.Final {
		t.Error("missing final field should default to finalized")
	}
	if seg.Offline {
		t.Error("missing offline field should default to false")
	}
}

func TestParseJSONInterim(t *testing.T) {
	seg, ok := Parse(`{"text": "ainda falando", "final": false}`)
	if !ok {
		t.Fatal("expected segment")
	}
	if seg.Final {
		t.Error("expected interim segment")
	}
}

func TestParseJSONOffline(t *testing.T) {
	seg, _ := Parse(`{"text": "sem rede", "final": true, "offline": true}`)
	if !seg.Offline {
		t.Error("expected offline segment")
	}
}

func TestParseJSONEmptyText(t *testing.T) {
	if _, ok := Parse(`{"text": "  "}`); ok {
		t.Error("expected JSON segment without text to be skipped")
	}
}

func TestParseMalformedJSONAsText(t *testing.T) {
	seg, ok := Parse(`{oops not json`)
	if !ok {
		t.Fatal("expected fallback to plain text")
	}
	if !seg.Final || seg.Text != `{oops not json` {
		t.Errorf("unexpected fallback segment: %+v", seg)
	}
}

func TestStream(t *testing.T) {
	input := strings.Join([]string{
		"primeira fala",
		"",
		`{"text": "parcial", "final": false}`,
		`{"text": "completa"}`,
	}, "\n")

	out := make(chan Segment, 8)
	if err := Stream(context.Background(), strings.NewReader(input), out); err != nil {
		t.Fatalf("Stream: %v", err)
	}

	var got []Segment
	for seg := range out {
		got = append(got, seg)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 segments, got %d: %+v", len(got), got)
	}
	if got[1].Final {
		t.Error("second segment should be interim")
	}
	if !got[2].Final {
		t.Error("third segment should be finalized")
	}
}

func TestStreamCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := make(chan Segment) // unbuffered so send blocks
	err := Stream(ctx, strings.NewReader("uma linha\n"), out)
	if err == nil {
		t.Error("expected context error")
	}
}
