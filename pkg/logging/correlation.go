package logging

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
)

const correlationAttr = "correlation_id"

type correlationKey struct{}

// NewCorrelationID returns a short random hex tag for one relayed request.
func NewCorrelationID() string {
	var b [4]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationID reports the tag stored by WithCorrelationID. Empty tags
// count as missing.
func CorrelationID(ctx context.Context) (string, bool) {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id, id != ""
}

// CorrelationHandler stamps every record logged with a tagged context, so
// the request log line, the relay log lines and any upstream error of one
// browser call can be grepped together.
type CorrelationHandler struct {
	slog.Handler
}

func NewCorrelationHandler(next slog.Handler) *CorrelationHandler {
	return &CorrelationHandler{Handler: next}
}

func (h *CorrelationHandler) Handle(ctx context.Context, r slog.Record) error {
	if id, ok := CorrelationID(ctx); ok {
		r.AddAttrs(slog.String(correlationAttr, id))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *CorrelationHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return NewCorrelationHandler(h.Handler.WithAttrs(attrs))
}

func (h *CorrelationHandler) WithGroup(name string) slog.Handler {
	return NewCorrelationHandler(h.Handler.WithGroup(name))
}
