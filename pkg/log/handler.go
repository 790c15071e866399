package log

import (
	"context"
	"log/slog"
	"reflect"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// stackHandler decorates records that carry an error under ErrAttrKey with
// the stack trace recorded by cockroachdb/errors and, for the typed errors of
// pkg/errors, the error type under ErrorTypeKey.
type stackHandler struct {
	next slog.Handler
}

// WrapByErrFmtHandler wraps next with the error decoration described above.
func WrapByErrFmtHandler(next slog.Handler) slog.Handler {
	return &stackHandler{next: next}
}

func (h *stackHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return h.next.Enabled(ctx, l)
}

func (h *stackHandler) Handle(ctx context.Context, r slog.Record) error {
	var err error
	r.Attrs(func(attr slog.Attr) bool {
		if attr.Key != ErrAttrKey {
			return true
		}
		err, _ = attr.Value.Any().(error)
		return false
	})
	if err == nil {
		return h.next.Handle(ctx, r)
	}

	if typeName := errorTypeName(err); typeName != "" {
		r.AddAttrs(slog.String(ErrorTypeKey, typeName))
	}
	if stack := stackOf(err); stack != "" {
		r.AddAttrs(slog.String(StacktraceAttrKey, stack))
	}
	return h.next.Handle(ctx, r)
}

func (h *stackHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &stackHandler{next: h.next.WithAttrs(attrs)}
}

func (h *stackHandler) WithGroup(g string) slog.Handler {
	return &stackHandler{next: h.next.WithGroup(g)}
}

// stackOf returns the outermost stack trace found in the chain of err.
func stackOf(err error) string {
	for e := err; e != nil; e = errors.UnwrapOnce(e) {
		if details := errors.GetSafeDetails(e).SafeDetails; len(details) > 0 && details[0] != "" {
			return details[0]
		}
	}
	return ""
}

// errorTypeName names the first typed error (one that knows how to log
// itself to zerolog) in the chain of err, e.g. "DataError".
func errorTypeName(err error) string {
	var typed zerolog.LogObjectMarshaler
	if !errors.As(err, &typed) {
		return ""
	}
	t := reflect.TypeOf(typed)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}
