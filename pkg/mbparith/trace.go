package mbparith

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Tracer is the structured-record sink named in spec.md §9 ("treat as a
// sink interface taking structured records; not a control-flow
// concern"). It is a thin wrapper over zerolog.Logger, the structured
// logger already wired into this retrieval pack by Consensys-gnark's
// constraint/log.go, rather than a hand-rolled record type.
type Tracer struct {
	log zerolog.Logger
}

// NewTracer builds a Tracer writing structured records to w. Pass
// io.Discard for a silent tracer (the default used when a caller doesn't
// supply one).
func NewTracer(w io.Writer) *Tracer {
	return &Tracer{log: zerolog.New(w).With().Timestamp().Logger()}
}

// NopTracer discards everything; used when a caller doesn't configure
// tracing.
func NopTracer() *Tracer { return NewTracer(io.Discard) }

// DefaultTracer writes compact, colorized records to stderr — handy for
// ad-hoc debugging of the example program.
func DefaultTracer() *Tracer {
	return &Tracer{log: zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()}
}

func (t *Tracer) literal(stage string, lit Formula, absorbed bool) {
	if t == nil {
		return
	}
	t.log.Debug().Str("stage", stage).Str("literal", lit.String()).Bool("absorbed", absorbed).Msg("linearize")
}

func (t *Tracer) row(stage string, r Row) {
	if t == nil {
		return
	}
	t.log.Debug().Str("stage", stage).Str("row", r.String()).Msg("row")
}

func (t *Tracer) varAlloc(id VarID, value Rational, isInt bool) {
	if t == nil {
		return
	}
	t.log.Debug().Int("var", int(id)).Str("value", value.String()).Bool("int", isInt).Msg("alloc")
}

func (t *Tracer) eliminate(v VarID, hasDef bool) {
	if t == nil {
		return
	}
	t.log.Debug().Int("var", int(v)).Bool("has_def", hasDef).Msg("eliminate")
}
