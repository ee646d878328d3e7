package extract

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// PlaceholderPrefix starts every identifier invented for a package that
// carries no IdentFrom.
const PlaceholderPrefix = "UkjentSSCC-"

// PlaceholderMode selects how package placeholders are numbered.
type PlaceholderMode string

const (
	// PlaceholderRandom draws four random digits. Output differs between
	// runs on the same input.
	PlaceholderRandom PlaceholderMode = "random"
	// PlaceholderSequence numbers placeholders 0001, 0002, ... per document.
	PlaceholderSequence PlaceholderMode = "sequence"
)

// ParsePlaceholderMode accepts "random" or "sequence" in any case. The empty
// string selects PlaceholderRandom.
func ParsePlaceholderMode(s string) (PlaceholderMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(PlaceholderRandom):
		return PlaceholderRandom, nil
	case string(PlaceholderSequence):
		return PlaceholderSequence, nil
	}
	return "", fmt.Errorf("unknown placeholder mode %q (want random or sequence)", s)
}

// placeholders hands out identifiers for one document.
type placeholders struct {
	mode PlaceholderMode
	rng  *rand.Rand
	seq  int
}

// next returns an identifier that taken does not report as used. Random
// mode gives up avoiding collisions after a bounded number of draws, which
// only matters for documents with thousands of unidentified packages.
func (p *placeholders) next(taken func(string) bool) string {
	if p.mode == PlaceholderSequence {
		for {
			p.seq++
			id := fmt.Sprintf("%s%04d", PlaceholderPrefix, p.seq)
			if !taken(id) {
				return id
			}
		}
	}
	var id string
	for try := 0; try < 100; try++ {
		id = fmt.Sprintf("%s%d", PlaceholderPrefix, 1000+p.intN(9000))
		if !taken(id) {
			break
		}
	}
	return id
}

func (p *placeholders) intN(n int) int {
	if p.rng != nil {
		return p.rng.IntN(n)
	}
	return rand.IntN(n)
}
