// Package vision extracts trade records from broker app screenshots with a
// Gemini vision model. The model is prompted to transcribe the visible order
// table into a JSON array; the raw output is cleaned up here and handed to
// the normalize package for parsing.
package vision

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"google.golang.org/genai"
)

// DefaultModel is the vision model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

func errUnknownKind(str string) error {
	return fmt.Errorf("unknown screenshot kind %q, want %q or %q", str, HKStock, Futures)
}

// Extractor transcribes screenshots through a Gemini vision model.
type Extractor struct {
	client *genai.Client
	model  string
}

// NewExtractor returns an Extractor on the given client. An empty model
// selects [DefaultModel].
func NewExtractor(client *genai.Client, model string) *Extractor {
	if model == "" {
		model = DefaultModel
	}
	return &Extractor{client: client, model: model}
}

// Extract submits one screenshot and returns the extracted trade array as
// raw JSON, ready for normalize.ParseAITrades.
func (e *Extractor) Extract(ctx context.Context, image []byte, mimeType string, kind Kind) ([]byte, error) {
	chat, err := e.client.Chats.Create(ctx, e.model, &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: ocrSystemPrompt}}},
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("cannot create extraction chat: %w", err)
	}

	resp, err := chat.Send(ctx,
		&genai.Part{Text: kind.prompt()},
		&genai.Part{InlineData: &genai.Blob{MIMEType: mimeType, Data: image}},
	)
	if err != nil {
		return nil, fmt.Errorf("extraction model call failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no response from extraction model")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	return CleanArray(text.String())
}

// CleanArray turns the model's raw output into a bare JSON array. The prompt
// forbids markdown fences and wrapper objects, but models emit them anyway,
// so both are stripped here.
func CleanArray(raw string) ([]byte, error) {
	raw = strings.TrimSpace(stripFences(raw))

	var jobj any
	if err := json.Unmarshal([]byte(raw), &jobj); err != nil {
		return nil, fmt.Errorf("extraction output is not JSON: %w", err)
	}
	if _, ok := jobj.([]any); ok {
		return []byte(raw), nil
	}

	// Some models wrap the array in an object like {"trades": [...]}. Pull
	// out the first array-valued field.
	jval, err := jsonpath.Get("$.*", jobj)
	if err == nil {
		if jlist, ok := jval.([]any); ok {
			for _, v := range jlist {
				if arr, ok := v.([]any); ok {
					return json.Marshal(arr)
				}
			}
		}
	}
	return nil, fmt.Errorf("extraction output holds no trade array: %q", raw)
}

// stripFences removes a markdown code fence around the payload, if any.
func stripFences(s string) string {
	if _, after, ok := strings.Cut(s, "```json"); ok {
		inner, _, _ := strings.Cut(after, "```")
		return inner
	}
	if _, after, ok := strings.Cut(s, "```"); ok {
		inner, _, _ := strings.Cut(after, "```")
		return inner
	}
	return s
}
