package core

// Logger logs messages to a local diagnostic stream and, depending on the
// implementation, reports them to an error tracking service.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
