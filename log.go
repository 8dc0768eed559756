package rollglue

// Logger receives progress messages. It matches lpsolve.Logger, so the same
// value can be handed to both.
type Logger interface {
	Print(v ...interface{})
}

type noopLogger struct{}

func (noopLogger) Print(v ...interface{}) {}
