package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStripFencesJSON(t *testing.T) {
	in := "```json\n{\"topics\": [\"mercado\"]}\n```"
	got := StripFences(in)
	want := `{"topics": ["mercado"]}`
	if got != want {
		t.Errorf("StripFences = %q, want %q", got, want)
	}
}

func TestStripFencesBare(t *testing.T) {
	in := "```\n{\"a\": 1}\n```"
	if got := StripFences(in); got != `{"a": 1}` {
		t.Errorf("StripFences = %q", got)
	}
}

func TestStripFencesNoFence(t *testing.T) {
	in := `{"a": 1}`
	if got := StripFences(in); got != in {
		t.Errorf("StripFences changed unfenced input: %q", got)
	}
}

func TestDecodeJSONFenced(t *testing.T) {
	var out struct {
		Topics []string `json:"topics"`
	}
	err := DecodeJSON("```json\n{\"topics\": [\"alta\", \"mercado\"]}\n```", &out)
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if len(out.Topics) != 2 {
		t.Errorf("expected 2 topics, got %v", out.Topics)
	}
}

func TestDecodeJSONRepairsTrailingComma(t *testing.T) {
	var out map[string]any
	err := DecodeJSON(`{"topics": ["a", "b",],}`, &out)
	if err != nil {
		t.Fatalf("DecodeJSON with repairable input: %v", err)
	}
	if _, ok := out["topics"]; !ok {
		t.Error("expected topics key after repair")
	}
}

func TestDecodeJSONHopeless(t *testing.T) {
	var out map[string]any
	if err := DecodeJSON("not even close to json <<<", &out); err == nil {
		t.Error("expected error for unrepairable input")
	}
}

func TestClaudeCompleteOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "k" {
			t.Errorf("missing api key header")
		}
		var req claudeRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.MaxTokens != 256 {
			t.Errorf("expected max_tokens 256, got %d", req.MaxTokens)
		}
		json.NewEncoder(w).Encode(claudeResponse{Content: []struct {
			Text string `json:"text"`
		}{{Text: "hello"}}})
	}))
	defer srv.Close()

	p := &claudeProvider{apiKey: "k", model: "m", client: srv.Client(), baseURL: srv.URL}
	got, err := p.Complete(context.Background(), Request{Prompt: "hi", MaxTokens: 256, Temperature: 0.4})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "hello" {
		t.Errorf("Complete = %q", got)
	}
}

func TestOpenAICompleteHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := &openaiProvider{apiKey: "k", model: "m", client: srv.Client(), baseURL: srv.URL}
	if _, err := p.Complete(context.Background(), Request{Prompt: "hi"}); err == nil {
		t.Error("expected error on non-200 status")
	}
}

func TestNewUnknownProvider(t *testing.T) {
	if _, err := New(nil, "key"); err == nil {
		t.Error("expected error for nil config")
	}
}
