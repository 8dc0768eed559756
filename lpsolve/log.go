package lpsolve

// Logger receives lp_solve's progress messages. *log.Logger and
// *logrus.Logger both satisfy it.
type Logger interface {
	Print(v ...interface{})
}

type noopLogger struct{}

func (noopLogger) Print(v ...interface{}) {}
