package drill

import (
	"time"

	"github.com/mohdridwan/etasmik/internal/judge"
)

// verdictMsg is sent when the judging service returns for a submitted clip.
type verdictMsg struct {
	Verdict *judge.Verdict
	Err     error
}

// tickMsg drives the elapsed-time display while recording and the
// spinner while a verdict is pending.
type tickMsg time.Time

// SequenceCompleteMsg is emitted when the learner passes the final verse
// of the catalog. The dashboard listens for it.
type SequenceCompleteMsg struct{}
