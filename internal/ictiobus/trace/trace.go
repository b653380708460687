// Package trace generalizes the pluggable trace sink both the lr and glr
// drivers invoke at each stack operation, grounded on lrParser's
// notifyTrace/notifyTraceFn pair in the teacher's parse/lr.go (a
// func(string) listener set via SetTrace and called at every push/pop/action
// decision).
package trace

// Tracer receives one line of parser trace output at a time. Implementations
// must not retain refs to anything passed via the formatted string beyond
// the call and must return promptly; the driver calls it synchronously on
// every stack operation when tracing is enabled.
type Tracer interface {
	Trace(line string)
}

// NopTracer discards every line. It is the default for both lr.Parser and
// glr.Parser when no Tracer is supplied.
type NopTracer struct{}

func (NopTracer) Trace(string) {}

// TracerFunc adapts a plain func(string) to a Tracer, mirroring the
// teacher's SetTrace(listener func(string)) signature so callers can wire a
// closure, log.Logger.Print, or testing.T.Log directly.
type TracerFunc func(line string)

func (f TracerFunc) Trace(line string) { f(line) }

// Fn wraps t so a lazily-computed trace line is only formatted when tracing
// is actually active, mirroring notifyTraceFn's guard against building a
// string that will just be discarded.
func Fn(t Tracer, build func() string) {
	if t == nil {
		return
	}
	if _, isNop := t.(NopTracer); isNop {
		return
	}
	t.Trace(build())
}
