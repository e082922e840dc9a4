package learner

import (
	"math"

	"github.com/mohdridwan/etasmik/internal/catalog"
)

// Attempt is one scored recitation try for a specific verse. Records are
// immutable once created.
type Attempt struct {
	ID        string `json:"id"`
	VerseID   int    `json:"verseId"`
	VerseText string `json:"verseText"`
	Score     int    `json:"score"`
	IsCorrect bool   `json:"isCorrect"`
	Timestamp int64  `json:"timestamp"`
}

// History is the ordered attempt sequence for one learner, newest first.
type History []Attempt

// Prepend returns a new history with the attempt at the front.
func (h History) Prepend(a Attempt) History {
	out := make(History, 0, len(h)+1)
	out = append(out, a)
	out = append(out, h...)
	return out
}

// PassedVerses returns the set of verse ids with at least one correct
// attempt. Passing is idempotent: retaking a passed verse never un-passes it.
func (h History) PassedVerses() map[int]bool {
	passed := make(map[int]bool)
	for _, a := range h {
		if a.IsCorrect {
			passed[a.VerseID] = true
		}
	}
	return passed
}

// ProgressPercent computes round(100 * distinct passed / catalogSize).
// Only verses actually in the catalog count; a stray verse id in a synced
// history can never push progress past what the catalog defines.
func (h History) ProgressPercent(catalogSize int) int {
	if catalogSize <= 0 {
		return 0
	}
	count := 0
	for id := range h.PassedVerses() {
		if _, ok := catalog.Get(id); ok {
			count++
		}
	}
	return int(math.Round(100 * float64(count) / float64(catalogSize)))
}

// NextIncompleteIndex returns the first catalog index whose verse has no
// passing attempt, or 0 when every verse has been passed.
func (h History) NextIncompleteIndex(verses []catalog.Verse) int {
	passed := h.PassedVerses()
	for i, v := range verses {
		if !passed[v.ID] {
			return i
		}
	}
	return 0
}
