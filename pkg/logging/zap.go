package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// zapLogger implements Logger on top of uber-go/zap.
//
// The MCP server speaks JSON-RPC on stdout, so the zap backend writes to
// stderr by default to keep the protocol stream clean.
type zapLogger struct {
	logger *zap.Logger
	level  zap.AtomicLevel
	fields []Field
}

// ZapOption configures the zap-backed logger.
type ZapOption func(*zapOptions)

type zapOptions struct {
	development bool
	level       Level
	outputPaths []string
}

// WithDevelopmentMode enables the human-readable console encoder.
func WithDevelopmentMode() ZapOption {
	return func(o *zapOptions) { o.development = true }
}

// WithLogLevel sets the minimum emitted level.
func WithLogLevel(level Level) ZapOption {
	return func(o *zapOptions) { o.level = level }
}

// WithOutputPaths overrides the log destinations (zap path syntax).
func WithOutputPaths(paths ...string) ZapOption {
	return func(o *zapOptions) { o.outputPaths = paths }
}

// NewZapLogger creates a Logger backed by zap. Falls back to the plain JSON
// logger if the zap core cannot be built.
func NewZapLogger(options ...ZapOption) Logger {
	opts := &zapOptions{level: INFO, outputPaths: []string{"stderr"}}
	for _, opt := range options {
		opt(opts)
	}

	config := zap.NewProductionConfig()
	if opts.development {
		config = zap.NewDevelopmentConfig()
	}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.OutputPaths = opts.outputPaths
	config.Level = zap.NewAtomicLevelAt(toZapLevel(opts.level))

	logger, err := config.Build(
		zap.AddCaller(),
		zap.AddCallerSkip(1),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
	if err != nil {
		return NewLogger()
	}

	return &zapLogger{logger: logger, level: config.Level}
}

func toZapLevel(level Level) zapcore.Level {
	switch level {
	case DEBUG:
		return zapcore.DebugLevel
	case WARN:
		return zapcore.WarnLevel
	case ERROR:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func (l *zapLogger) Debug(msg string, fields ...Field) { l.write(zapcore.DebugLevel, msg, fields) }
func (l *zapLogger) Info(msg string, fields ...Field)  { l.write(zapcore.InfoLevel, msg, fields) }
func (l *zapLogger) Warn(msg string, fields ...Field)  { l.write(zapcore.WarnLevel, msg, fields) }
func (l *zapLogger) Error(msg string, fields ...Field) { l.write(zapcore.ErrorLevel, msg, fields) }

func (l *zapLogger) write(level zapcore.Level, msg string, fields []Field) {
	if ce := l.logger.Check(level, msg); ce != nil {
		ce.Write(l.convertFields(fields)...)
	}
}

func (l *zapLogger) WithFields(fields ...Field) Logger {
	clone := *l
	clone.fields = make([]Field, 0, len(l.fields)+len(fields))
	clone.fields = append(clone.fields, l.fields...)
	clone.fields = append(clone.fields, fields...)
	return &clone
}

func (l *zapLogger) SetLevel(level Level) {
	l.level.SetLevel(toZapLevel(level))
}

func (l *zapLogger) convertFields(fields []Field) []zap.Field {
	zapFields := make([]zap.Field, 0, len(l.fields)+len(fields))
	for _, f := range l.fields {
		zapFields = append(zapFields, zap.Any(f.Key, f.Value))
	}
	for _, f := range fields {
		zapFields = append(zapFields, zap.Any(f.Key, f.Value))
	}
	return zapFields
}

// Sync flushes any buffered entries.
func (l *zapLogger) Sync() error {
	return l.logger.Sync()
}
