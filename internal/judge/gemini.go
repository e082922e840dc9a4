package judge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

// GeminiJudge implements Judge using the Google Gemini SDK.
type GeminiJudge struct {
	client *genai.Client
	model  string
}

// NewGeminiJudge creates a Gemini-backed judge.
func NewGeminiJudge(ctx context.Context, cfg GeminiConfig) (*GeminiJudge, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}

	return &GeminiJudge{client: client, model: model}, nil
}

func (j *GeminiJudge) Evaluate(ctx context.Context, clip Clip, expectedText string) (*Verdict, error) {
	if len(clip.Data) == 0 {
		return nil, &ErrInvalidVerdict{Err: fmt.Errorf("empty audio clip")}
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   geminiVerdictSchema(),
	}

	contents := []*genai.Content{{
		Role: "user",
		Parts: []*genai.Part{
			{InlineData: &genai.Blob{MIMEType: clip.MIMEType, Data: clip.Data}},
			{Text: examinerInstruction(expectedText)},
		},
	}}

	result, err := j.client.Models.GenerateContent(ctx, j.model, contents, config)
	if err != nil {
		return nil, mapGeminiError(err)
	}

	return parseVerdict(json.RawMessage(result.Text()))
}

func (j *GeminiJudge) ModelID() string {
	return j.model
}

// geminiVerdictSchema is the native structured-output schema, mirroring
// verdictSchemaDef.
func geminiVerdictSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"score":         {Type: genai.TypeInteger},
			"transcription": {Type: genai.TypeString},
			"errors":        {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			"feedback":      {Type: genai.TypeString},
		},
		Required: []string{"score", "transcription", "errors", "feedback"},
	}
}

func mapGeminiError(err error) error {
	var apiErr *genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= 500 {
			return &ErrUnavailable{Err: err}
		}
	}
	return &ErrUnavailable{Err: err}
}
