// Package judge sends recorded recitations to an external AI evaluation
// service and returns a structured verdict. Providers are opaque network
// collaborators: the caller gets a full verdict or a single failure, never
// partial results.
package judge

import (
	"context"
)

// Clip is a recorded utterance handed to a provider.
type Clip struct {
	// Data is the encoded audio payload.
	Data []byte

	// MIMEType describes the encoding, e.g. "audio/pcm;rate=16000".
	MIMEType string

	// VerseID is the catalog verse being recited, carried through to the
	// judge event log.
	VerseID int
}

// Verdict is the structured result of judging one recitation.
type Verdict struct {
	// Score is the pronunciation accuracy in [0,100].
	Score int `json:"score"`

	// Transcription is what the service actually heard, in Arabic.
	Transcription string `json:"transcription"`

	// Errors lists specific mistakes, in Malay. May be empty.
	Errors []string `json:"errors"`

	// Feedback is the examiner's remark.
	Feedback string `json:"feedback"`
}

// Judge evaluates a recitation clip against the expected verse text.
type Judge interface {
	// Evaluate sends the clip and expected text to the service and returns
	// the verdict. Any transport, parse, or schema failure is returned as
	// an error; no partial verdicts are produced.
	Evaluate(ctx context.Context, clip Clip, expectedText string) (*Verdict, error)

	// ModelID returns the model identifier this judge is configured to use.
	ModelID() string
}
