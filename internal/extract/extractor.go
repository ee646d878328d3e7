package extract

import (
	"errors"
	"fmt"
)

// Strategy turns the recovered XML text of one document type into a Result.
// Implementations parse the text themselves, so a strategy may normalise the
// text before parsing. They hold no state shared between calls.
type Strategy interface {
	// Extract parses text and projects it. On error the Result is zero; a
	// call never returns partial output.
	Extract(text string) (Result, error)
}

// ErrNoMatchingElements is returned when the element a strategy is built
// around does not occur in the parsed document.
var ErrNoMatchingElements = errors.New("no matching elements")

func noElements(tag string) error {
	return fmt.Errorf("%w: no <%s> elements found", ErrNoMatchingElements, tag)
}
