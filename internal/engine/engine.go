// Package engine runs the extraction pipeline: sanitize the raw text,
// recover its XML block, classify it and hand it to the matching strategy.
package engine

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/fiksextract/internal/extract"
	"github.com/hyperifyio/fiksextract/internal/registry"
	"github.com/hyperifyio/fiksextract/internal/sanitize"
	"github.com/hyperifyio/fiksextract/internal/xmltree"
)

// Engine is safe for concurrent use; every call works on its own tree.
type Engine struct {
	reg  *registry.Registry
	opts sanitize.Options
}

// New returns an engine classifying against reg.
func New(reg *registry.Registry, opts sanitize.Options) *Engine {
	return &Engine{reg: reg, opts: opts}
}

// Extraction is the outcome of one Extract call.
type Extraction struct {
	// Format is the name of the descriptor that matched.
	Format string
	Result extract.Result
}

// Prepare sanitizes raw and recovers the XML block from it.
func (e *Engine) Prepare(raw string) (string, error) {
	return sanitize.RecoverXML(sanitize.Input(raw, e.opts))
}

// Extract runs the full pipeline on raw. Errors wrap
// sanitize.ErrNoXMLContent, registry.ErrUnknownFormat,
// xmltree.ErrParseRecoveryFailed or extract.ErrNoMatchingElements.
func (e *Engine) Extract(raw string) (Extraction, error) {
	text, err := e.Prepare(raw)
	if err != nil {
		return Extraction{}, err
	}
	name, strategy, err := e.reg.Classify(text)
	if err != nil {
		return Extraction{}, err
	}
	res, err := strategy.Extract(text)
	if err != nil {
		return Extraction{}, fmt.Errorf("%s: %w", name, err)
	}
	log.Debug().Str("format", name).Str("kind", string(res.Kind)).Int("records", res.Count()).Msg("extracted")
	return Extraction{Format: name, Result: res}, nil
}

// Classify reports which format raw would be extracted as.
func (e *Engine) Classify(raw string) (string, error) {
	text, err := e.Prepare(raw)
	if err != nil {
		return "", err
	}
	d, err := e.reg.Match(text)
	if err != nil {
		return "", err
	}
	return d.Name, nil
}

// Tags lists the distinct local element names of raw, sorted.
func (e *Engine) Tags(raw string) ([]string, error) {
	text, err := e.Prepare(raw)
	if err != nil {
		return nil, err
	}
	doc, err := xmltree.Parse(text)
	if err != nil {
		return nil, err
	}
	return xmltree.UniqueTags(doc), nil
}
