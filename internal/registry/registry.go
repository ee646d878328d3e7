// Package registry decides which extraction strategy handles a document.
//
// A Registry is an ordered, immutable list of descriptors built once with a
// Builder. Classification runs cheap predicates over the raw text, so it
// works on documents that would not survive a strict parse.
package registry

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/fiksextract/internal/extract"
)

// ErrUnknownFormat is returned when no registered predicate matches.
var ErrUnknownFormat = errors.New("unknown document format")

// Descriptor registers one document type.
type Descriptor struct {
	// Name identifies the format in logs, manifests and output.
	Name string
	// Match reports whether the document is of this type. It receives the
	// text already lower-cased.
	Match func(lowered string) bool
	// New returns a fresh strategy for one extraction.
	New func() extract.Strategy
}

var nameRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// Builder collects descriptors in registration order.
type Builder struct {
	order  []string
	byName map[string]Descriptor
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{byName: make(map[string]Descriptor)}
}

// Register validates d and adds it. Registering a name again replaces the
// earlier descriptor but keeps its position.
func (b *Builder) Register(d Descriptor) error {
	if !nameRe.MatchString(d.Name) {
		return fmt.Errorf("invalid descriptor name %q: must start with a letter and contain only letters, digits, '_' or '-'", d.Name)
	}
	if d.Match == nil {
		return fmt.Errorf("descriptor %s: match predicate must not be nil", d.Name)
	}
	if d.New == nil {
		return fmt.Errorf("descriptor %s: strategy factory must not be nil", d.Name)
	}
	if b.byName == nil {
		b.byName = make(map[string]Descriptor)
	}
	if _, dup := b.byName[d.Name]; dup {
		log.Warn().Str("format", d.Name).Msg("format registered twice; later registration wins")
	} else {
		b.order = append(b.order, d.Name)
	}
	b.byName[d.Name] = d
	return nil
}

// MustRegister is Register for static tables; it panics on an invalid
// descriptor.
func (b *Builder) MustRegister(d Descriptor) *Builder {
	if err := b.Register(d); err != nil {
		panic(err)
	}
	return b
}

// Build freezes the registered descriptors. The builder may be reused; later
// registrations do not affect registries already built.
func (b *Builder) Build() *Registry {
	r := &Registry{entries: make([]Descriptor, 0, len(b.order))}
	for _, name := range b.order {
		r.entries = append(r.entries, b.byName[name])
	}
	return r
}

// Registry is safe for concurrent use.
type Registry struct {
	entries []Descriptor
}

// Match returns the first descriptor, in registration order, whose
// predicate accepts text.
func (r *Registry) Match(text string) (Descriptor, error) {
	lowered := strings.ToLower(text)
	for _, d := range r.entries {
		if d.Match(lowered) {
			log.Debug().Str("format", d.Name).Msg("document classified")
			return d, nil
		}
	}
	return Descriptor{}, fmt.Errorf("%w: none of %s matched", ErrUnknownFormat, strings.Join(r.Names(), ", "))
}

// Classify returns the format name and a fresh strategy for text.
func (r *Registry) Classify(text string) (string, extract.Strategy, error) {
	d, err := r.Match(text)
	if err != nil {
		return "", nil, err
	}
	return d.Name, d.New(), nil
}

// Names lists the registered formats in evaluation order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.entries))
	for _, d := range r.entries {
		out = append(out, d.Name)
	}
	return out
}
