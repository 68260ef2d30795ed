package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldProvider is the structured log field key for the completion provider name.
	FieldProvider = "llm_provider"
	// FieldModel is the structured log field key for the model identifier.
	FieldModel = "llm_model"
	// FieldSession is the structured log field key for an interview session id.
	FieldSession = "session_id"
)

// CommonFields returns zap fields describing the provider and model.
// Empty values are dropped to keep log entries compact.
func CommonFields(provider, model string) []zap.Field {
	fields := make([]zap.Field, 0, 2)
	if p := strings.TrimSpace(provider); p != "" {
		fields = append(fields, zap.String(FieldProvider, p))
	}
	if m := strings.TrimSpace(model); m != "" {
		fields = append(fields, zap.String(FieldModel, m))
	}
	return fields
}

// WithCommonFields attaches provider and model fields; a nil logger becomes a no-op logger.
func WithCommonFields(l *zap.Logger, provider, model string) *zap.Logger {
	l = OrNop(l)
	fields := CommonFields(provider, model)
	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}
