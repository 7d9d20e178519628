package observability

import (
	"strings"

	"github.com/smallbiznis/propertydesk/internal/config"
)

const defaultServiceName = "propertydesk"

// Config is the logging and telemetry slice of the service configuration.
type Config struct {
	ServiceName string
	Environment string
	Version     string

	LogLevel  string
	LogFormat string

	TracingEnabled bool
	OTLPEndpoint   string
	OTLPProtocol   string
	SamplingRatio  float64
}

func LoadConfig(cfg config.Config) Config {
	name := strings.TrimSpace(cfg.AppName)
	if name == "" {
		name = defaultServiceName
	}

	return Config{
		ServiceName:    name,
		Environment:    strings.ToLower(strings.TrimSpace(cfg.Environment)),
		Version:        strings.TrimSpace(cfg.AppVersion),
		LogLevel:       strings.ToLower(strings.TrimSpace(cfg.LogLevel)),
		LogFormat:      strings.ToLower(strings.TrimSpace(cfg.LogFormat)),
		TracingEnabled: cfg.TracingEnabled,
		OTLPEndpoint:   strings.TrimSpace(cfg.OTLPEndpoint),
		OTLPProtocol:   strings.ToLower(strings.TrimSpace(cfg.OTLPProtocol)),
		SamplingRatio:  cfg.TraceSamplingRatio,
	}
}

// Debug reports whether request logs should carry full detail.
func (c Config) Debug() bool {
	if c.LogLevel == "debug" {
		return true
	}
	switch c.Environment {
	case "dev", "development", "local", "test":
		return true
	}
	return false
}
