package repcache

// Fields is a minimal structured field map for logs.
type Fields map[string]any

// Logger is the leveled logger the cache and the API write through.
// Adapters for zap, logrus, zerolog and slog live under log/.
// A nil Logger in Options disables logging.
type Logger interface {
	Debug(msg string, f Fields)
	Info(msg string, f Fields)
	Warn(msg string, f Fields)
	Error(msg string, f Fields)
}

type NopLogger struct{}

func (NopLogger) Debug(string, Fields) {}
func (NopLogger) Info(string, Fields)  {}
func (NopLogger) Warn(string, Fields)  {}
func (NopLogger) Error(string, Fields) {}

// entryFields is the common field set for entry-level events.
func entryFields(k EntryKey, extra Fields) Fields {
	f := Fields{"key": k.String(), "resource": k.Resource.String(), "rep": k.Kind.String()}
	for n, v := range extra {
		f[n] = v
	}
	return f
}
