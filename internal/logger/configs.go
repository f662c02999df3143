package logger

import "os"

// Log levels accepted in LOG_LEVEL.
const (
	Debug   = "debug"
	Info    = "info"
	Warning = "warning"
	Error   = "error"
)

// Config controls logger construction.
type Config struct {
	// Level is the minimum level that will be emitted. Defaults to Info.
	Level string

	// ServiceName is attached to every log entry as the "service" field.
	ServiceName string
}

// NewConfig reads the logger configuration from environment variables.
//
//	LOG_LEVEL    debug | info | warning | error (default: info)
//	SERVICE_NAME service label on every entry   (default: materialsd)
func NewConfig() Config {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = Info
	}

	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "materialsd"
	}

	return Config{
		Level:       level,
		ServiceName: service,
	}
}
