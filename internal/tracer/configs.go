package tracer

import "os"

// Config holds tracing settings.
type Config struct {
	// ServiceName identifies this service in traces.
	ServiceName string

	// AppEnv tags spans with the deployment environment.
	AppEnv string

	// EnableExport sends spans to the OTLP HTTP endpoint configured via
	// the standard OTEL_EXPORTER_OTLP_* environment variables.
	EnableExport bool
}

// NewConfig reads from environment variables.
//
//	SERVICE_NAME, APP_ENV, TRACING_ENABLED
func NewConfig() Config {
	serviceName := os.Getenv("SERVICE_NAME")
	if serviceName == "" {
		serviceName = "materialsd"
	}

	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "development"
	}

	return Config{
		ServiceName:  serviceName,
		AppEnv:       appEnv,
		EnableExport: os.Getenv("TRACING_ENABLED") == "true",
	}
}
