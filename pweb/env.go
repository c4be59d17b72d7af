package pweb

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"github.com/pipehttp/phttp"
	"go.uber.org/zap/zapcore"
)

// Environment defines the interface that all environment configurations must implement.
// Embed BaseEnvironment in your struct to satisfy this interface.
type Environment interface {
	port() int
	serviceName() string
	runtime() phttp.Environment
	logLevel() zapcore.Level
	otelExporter() string
	requestTimeout() time.Duration
}

// BaseEnvironment contains the required environment variables. Embed this in your custom
// environment struct.
type BaseEnvironment struct {
	Port        int    `env:"PW_PORT" envDefault:"8080"`
	ServiceName string `env:"PW_SERVICE_NAME,required"`
	// Runtime gates the error normalizer's diagnostic verbosity: "production",
	// "development" or "testing".
	Runtime        phttp.Environment `env:"PW_ENVIRONMENT" envDefault:"development"`
	LogLevel       zapcore.Level     `env:"PW_LOG_LEVEL" envDefault:"info"`
	OtelExporter   string            `env:"PW_OTEL_EXPORTER" envDefault:"stdout"`
	RequestTimeout time.Duration     `env:"PW_REQUEST_TIMEOUT" envDefault:"30s"`
}

func (e BaseEnvironment) port() int {
	return e.Port
}

func (e BaseEnvironment) serviceName() string {
	return e.ServiceName
}

func (e BaseEnvironment) runtime() phttp.Environment {
	return e.Runtime
}

func (e BaseEnvironment) logLevel() zapcore.Level {
	return e.LogLevel
}

func (e BaseEnvironment) otelExporter() string {
	return e.OtelExporter
}

func (e BaseEnvironment) requestTimeout() time.Duration {
	return e.RequestTimeout
}

var _ Environment = BaseEnvironment{}

// ParseEnv parses environment variables into the given Environment type.
func ParseEnv[E Environment]() func() (E, error) {
	return func() (e E, err error) {
		if err := env.Parse(&e); err != nil {
			return e, errors.Wrap(err, "failed to parse environment")
		}
		return e, nil
	}
}
