package depcache

// Fields carries structured context for a log line.
type Fields map[string]any

// Logger is the small leveled interface the facade logs through. Adapters
// for zap, slog, and logrus live under log/. A nil Options.Logger disables
// logging entirely.
type Logger interface {
	Debug(msg string, f Fields)
	Info(msg string, f Fields)
	Warn(msg string, f Fields)
	Error(msg string, f Fields)
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, Fields) {}
func (NopLogger) Info(string, Fields)  {}
func (NopLogger) Warn(string, Fields)  {}
func (NopLogger) Error(string, Fields) {}
