// Package catalog holds the fixed, ordered verse catalog for the
// Matan al-Bayquniyyah. The catalog is embedded at build time and is
// read-only reference data: order defines the canonical drilling sequence.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed verses.json
var versesJSON []byte

// Verse is one numbered unit of the matan being memorized.
type Verse struct {
	ID          int    `json:"id"`
	Text        string `json:"text"`
	Translation string `json:"translation"`
}

var verses []Verse

func init() {
	v, err := load(versesJSON)
	if err != nil {
		// Embedded data is part of the binary; a failure here is a build defect.
		panic(fmt.Sprintf("catalog: %v", err))
	}
	verses = v
}

func load(data []byte) ([]Verse, error) {
	var v []Verse
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parse verses: %w", err)
	}
	if len(v) == 0 {
		return nil, fmt.Errorf("empty catalog")
	}
	seen := make(map[int]bool, len(v))
	for i, verse := range v {
		if verse.Text == "" {
			return nil, fmt.Errorf("verse at index %d has empty text", i)
		}
		if seen[verse.ID] {
			return nil, fmt.Errorf("duplicate verse id %d", verse.ID)
		}
		seen[verse.ID] = true
	}
	return v, nil
}

// All returns every verse in drilling order. Callers must not mutate
// the returned slice.
func All() []Verse {
	return verses
}

// Get returns the verse with the given id.
func Get(id int) (Verse, bool) {
	for _, v := range verses {
		if v.ID == id {
			return v, true
		}
	}
	return Verse{}, false
}

// At returns the verse at the given catalog index.
func At(index int) (Verse, bool) {
	if index < 0 || index >= len(verses) {
		return Verse{}, false
	}
	return verses[index], true
}

// Size returns the number of verses in the catalog.
func Size() int {
	return len(verses)
}
