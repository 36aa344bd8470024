// Package logging provides the logging abstraction used across the application.
// Components depend on the Logger interface; the logrus-backed adapter is
// created once by the container and handed down through constructors.
package logging

// Logger defines structured logging for the application.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// WithError returns a logger that attaches err to every entry
	WithError(err error) Logger

	// WithField returns a logger that attaches key=value to every entry
	WithField(key string, value interface{}) Logger

	// WithFields returns a logger that attaches all fields to every entry
	WithFields(fields ...Field) Logger

	// Fatal logs at fatal level and exits the program
	Fatal(msg string, fields ...Field)
}

// Field is a key-value pair attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

// F is shorthand for building a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}
