package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	FieldSessionID   = "session_id"
	FieldParticipant = "participant"
	FieldTurnID      = "turn_id"
	FieldTopic       = "topic"
	FieldDifficulty  = "difficulty"
	FieldAction      = "action"
	FieldQuality     = "quality"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts key/value pairs into zap fields, trimming whitespace
// and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}
		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}
		result = append(result, zap.String(key, value))
	}
	return result
}

// WithFields attaches fields to logger. A nil logger becomes a no-op logger.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}

// SessionFields returns the fields that identify an interview session.
func SessionFields(sessionID, participant string) []zap.Field {
	return StringFields(
		StringField{Key: FieldSessionID, Value: sessionID},
		StringField{Key: FieldParticipant, Value: participant},
	)
}

// WithSession scopes logger to one interview session.
func WithSession(logger *zap.Logger, sessionID, participant string) *zap.Logger {
	return WithFields(logger, SessionFields(sessionID, participant)...)
}
