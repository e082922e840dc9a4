package judge

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIJudge implements Judge as a two-step pipeline: Whisper transcribes
// the clip, then a chat model in JSON mode scores the transcript against
// the expected verse. The chat completions API takes no audio input, so
// transcription is a separate call.
type OpenAIJudge struct {
	client *openai.Client
	model  string
}

// NewOpenAIJudge creates an OpenAI-backed judge.
func NewOpenAIJudge(cfg OpenAIConfig) (*OpenAIJudge, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}

	return &OpenAIJudge{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}, nil
}

func (j *OpenAIJudge) Evaluate(ctx context.Context, clip Clip, expectedText string) (*Verdict, error) {
	if len(clip.Data) == 0 {
		return nil, &ErrInvalidVerdict{Err: fmt.Errorf("empty audio clip")}
	}

	transcript, err := j.transcribe(ctx, clip)
	if err != nil {
		return nil, err
	}

	req := openai.ChatCompletionRequest{
		Model: j.model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: examinerInstructionForTranscript(expectedText, transcript),
		}},
	}

	resp, err := j.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, mapOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, &ErrInvalidVerdict{Err: fmt.Errorf("no choices in OpenAI response")}
	}

	v, err := parseVerdict(json.RawMessage(resp.Choices[0].Message.Content))
	if err != nil {
		return nil, err
	}
	// Whisper's output is what was actually heard; never trust the chat
	// model to echo it back.
	v.Transcription = transcript
	return v, nil
}

func (j *OpenAIJudge) ModelID() string {
	return j.model
}

// transcribe runs the clip through Whisper. Raw PCM clips are wrapped in a
// WAV container first; the transcription endpoint rejects headerless audio.
func (j *OpenAIJudge) transcribe(ctx context.Context, clip Clip) (string, error) {
	data := clip.Data
	name := "recitation" + audioExtension(clip.MIMEType)
	if isRawPCM(clip.MIMEType) {
		data = wavFromPCM(clip.Data, pcmSampleRate(clip.MIMEType))
		name = "recitation.wav"
	}

	resp, err := j.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: name,
		Reader:   bytes.NewReader(data),
		Language: "ar",
	})
	if err != nil {
		return "", mapOpenAIError(err)
	}
	return strings.TrimSpace(resp.Text), nil
}

func isRawPCM(mimeType string) bool {
	return strings.HasPrefix(mimeType, "audio/pcm")
}

// pcmSampleRate reads the rate parameter of an audio/pcm MIME type,
// defaulting to 16 kHz.
func pcmSampleRate(mimeType string) int {
	const def = 16000
	_, params, ok := strings.Cut(mimeType, ";")
	if !ok {
		return def
	}
	for _, p := range strings.Split(params, ";") {
		k, v, ok := strings.Cut(strings.TrimSpace(p), "=")
		if !ok || k != "rate" {
			continue
		}
		if rate, err := strconv.Atoi(v); err == nil && rate > 0 {
			return rate
		}
	}
	return def
}

func audioExtension(mimeType string) string {
	switch {
	case strings.Contains(mimeType, "mp3"), strings.Contains(mimeType, "mpeg"):
		return ".mp3"
	case strings.Contains(mimeType, "ogg"):
		return ".ogg"
	default:
		return ".wav"
	}
}

// wavFromPCM wraps mono signed 16-bit little-endian samples in a minimal
// RIFF/WAVE header.
func wavFromPCM(pcm []byte, sampleRate int) []byte {
	const (
		channels      = 1
		bitsPerSample = 16
	)
	byteRate := sampleRate * channels * bitsPerSample / 8
	blockAlign := channels * bitsPerSample / 8

	buf := &bytes.Buffer{}
	buf.Grow(44 + len(pcm))
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM format
	binary.Write(buf, binary.LittleEndian, uint16(channels))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(buf, binary.LittleEndian, uint16(bitsPerSample))
	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)
	return buf.Bytes()
}

func mapOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= 500 {
			return &ErrUnavailable{Err: err}
		}
	}
	return &ErrUnavailable{Err: err}
}
