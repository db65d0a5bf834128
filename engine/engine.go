// Package engine connects the language server to the authoritative schema engine,
// an external program that validates and formats schema text. The engine is a black
// box: text goes in, diagnostics or formatted text come out.
package engine

import (
	"context"
	"errors"

	"github.com/rlch/psl"
)

// ErrNoCommand is returned when a command engine is built without an executable.
var ErrNoCommand = errors.New("engine command not configured")

// Diagnostic is a problem reported by the engine. Start and End are byte offsets
// into the schema text that was linted.
type Diagnostic struct {
	Start   int
	End     int
	Message string
	Warning bool
}

// Range maps the diagnostic's byte offsets onto positions in text.
func (d Diagnostic) Range(text string) psl.Range {
	return psl.Range{
		Start: psl.OffsetToPosition(text, d.Start),
		End:   psl.OffsetToPosition(text, max(d.Start, d.End)),
	}
}

// Engine validates and formats schema text.
type Engine interface {
	// Name identifies the engine in logs.
	Name() string

	// Lint returns the diagnostics for schema.
	Lint(ctx context.Context, schema string) ([]Diagnostic, error)

	// Format returns schema formatted by the engine.
	Format(ctx context.Context, schema string) (string, error)
}

// New returns the engine described by cfg: a Command when a command is set, Nop
// otherwise.
func New(cfg *psl.Config) Engine { //nolint:ireturn
	if cfg == nil || cfg.Engine.Command == "" {
		return Nop{}
	}

	return &Command{
		Path:    cfg.Engine.Command,
		Args:    cfg.Engine.Args,
		Timeout: cfg.EngineTimeout(),
	}
}

// Nop is the engine used when none is configured. It reports nothing and leaves
// text unchanged.
type Nop struct{}

// Name implements Engine.
func (Nop) Name() string { return "none" }

// Lint implements Engine.
func (Nop) Lint(context.Context, string) ([]Diagnostic, error) { return nil, nil }

// Format implements Engine.
func (Nop) Format(_ context.Context, schema string) (string, error) { return schema, nil }
