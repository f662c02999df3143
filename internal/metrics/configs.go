package metrics

import "os"

// Config holds settings for the metrics endpoint.
type Config struct {
	// Address the metrics server listens on.
	Address string

	// ServiceName becomes the constant "service" label on every metric.
	ServiceName string

	// EnableDefaultCollectors adds the Go, process and build info
	// collectors.
	EnableDefaultCollectors bool
}

// NewConfig reads from environment variables.
//
//	METRICS_ADDRESS, SERVICE_NAME, METRICS_DEFAULT_COLLECTORS
func NewConfig() Config {
	address := os.Getenv("METRICS_ADDRESS")
	if address == "" {
		address = ":9090"
	}

	serviceName := os.Getenv("SERVICE_NAME")
	if serviceName == "" {
		serviceName = "materialsd"
	}

	return Config{
		Address:                 address,
		ServiceName:             serviceName,
		EnableDefaultCollectors: os.Getenv("METRICS_DEFAULT_COLLECTORS") != "false",
	}
}
