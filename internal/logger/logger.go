// Package logger builds the zap logger shared by the CLI, tracker and MCP server.
package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Structured field keys
const (
	FieldDocument     = "document"
	FieldDocumentType = "document_type"
	FieldJob          = "job"
	FieldRunID        = "run_id"
	FieldScore        = "overall_score"
)

// maxFieldLength caps free-form names and labels in log fields
const maxFieldLength = 80

// New builds a logger. Output always goes to stderr: stdout carries command
// output and the MCP stream.
func New(json bool, debug bool) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	encoding := "console"

	if json {
		encoding = "json"
	}

	if debug {
		level = zapcore.DebugLevel
	}

	cfg := zap.Config{
		Encoding:         encoding,
		Level:            zap.NewAtomicLevelAt(level),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey: "msg",

			LevelKey:    "level",
			EncodeLevel: zapcore.LowercaseLevelEncoder,

			TimeKey:    "time",
			EncodeTime: zapcore.RFC3339TimeEncoder,

			CallerKey:    "caller",
			EncodeCaller: zapcore.ShortCallerEncoder,
		},
	}
	return cfg.Build()
}

// OrNop returns l, or a no-op logger when l is nil
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

// DocumentFields describes a scored document. Empty values are omitted and
// long ones truncated.
func DocumentFields(name, docType, job string) []zap.Field {
	fields := make([]zap.Field, 0, 3)
	for _, kv := range [][2]string{
		{FieldDocument, name},
		{FieldDocumentType, docType},
		{FieldJob, job},
	} {
		if v := strings.TrimSpace(kv[1]); v != "" {
			fields = append(fields, zap.String(kv[0], Truncate(v, maxFieldLength)))
		}
	}
	return fields
}

// Truncate shortens s to limit runes, appending an ellipsis when cut
func Truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
