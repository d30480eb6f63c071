package formats

import (
	"fmt"
	"sync"

	"lyrics-convert-go/metadata"
	"lyrics-convert-go/model"
)

// Parser turns one document format into the shared IR.
type Parser interface {
	// Format returns the format this parser reads.
	Format() model.LyricFormat

	// Parse converts source text into ParsedSourceData. Recoverable
	// trouble lands in the result's Warnings; an error means nothing
	// usable survived.
	Parse(content string, options *model.ConversionOptions) (*model.ParsedSourceData, error)
}

// Generator renders the shared IR into one document format.
type Generator interface {
	// Format returns the format this generator writes.
	Format() model.LyricFormat

	// Generate renders lines plus side tables into output text.
	Generate(lines []model.Line, meta *metadata.Store, agents *model.AgentStore, isLineTimed bool, options *model.ConversionOptions) (string, error)
}

// Registry holds all registered parsers and generators keyed by format.
type Registry struct {
	mu         sync.RWMutex
	parsers    map[model.LyricFormat]Parser
	generators map[model.LyricFormat]Generator
}

var (
	globalRegistry *Registry
	registryOnce   sync.Once
)

// GetRegistry returns the global format registry.
func GetRegistry() *Registry {
	registryOnce.Do(func() {
		globalRegistry = &Registry{
			parsers:    make(map[model.LyricFormat]Parser),
			generators: make(map[model.LyricFormat]Generator),
		}
	})
	return globalRegistry
}

// RegisterParser adds a parser to the registry.
func (r *Registry) RegisterParser(p Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parsers[p.Format()] = p
}

// RegisterGenerator adds a generator to the registry.
func (r *Registry) RegisterGenerator(g Generator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generators[g.Format()] = g
}

// GetParser retrieves a parser by format.
func (r *Registry) GetParser(format model.LyricFormat) (Parser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.parsers[format]
	if !ok {
		return nil, fmt.Errorf("no parser registered for format: %s", format)
	}
	return p, nil
}

// GetGenerator retrieves a generator by format.
func (r *Registry) GetGenerator(format model.LyricFormat) (Generator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.generators[format]
	if !ok {
		return nil, fmt.Errorf("no generator registered for format: %s", format)
	}
	return g, nil
}

// ListParsers returns the formats with a registered parser.
func (r *Registry) ListParsers() []model.LyricFormat {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.LyricFormat, 0, len(r.parsers))
	for f := range r.parsers {
		out = append(out, f)
	}
	return out
}

// ListGenerators returns the formats with a registered generator.
func (r *Registry) ListGenerators() []model.LyricFormat {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.LyricFormat, 0, len(r.generators))
	for f := range r.generators {
		out = append(out, f)
	}
	return out
}
