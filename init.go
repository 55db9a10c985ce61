package algotrade

import (
	"fmt"
	"os"
	"strconv"

	"github.com/iamshubhamw08/AlgoTrade/core"
	"github.com/iamshubhamw08/AlgoTrade/logger/logrus"
	"github.com/iamshubhamw08/AlgoTrade/logger/zerolog"
)

// DefaultLog is the logger used by engines built without WithLogger.
var DefaultLog core.Logger

const (
	// Default configuration values
	defaultLogLevel      = "info"
	defaultLogTimeFormat = "2006-01-02 15:04:05"
	defaultLogColored    = "true"
	defaultLogJSON       = "false"
	defaultLogBackend    = "zerolog"
)

// Environment variable names
const (
	envLogLevel      = "ALGOTRADE_LOG_LEVEL"
	envLogTimeFormat = "ALGOTRADE_LOG_TIME_FORMAT"
	envLogColor      = "ALGOTRADE_LOG_COLOR"
	envLogJSON       = "ALGOTRADE_LOG_JSON"
	envLogBackend    = "ALGOTRADE_LOG_BACKEND"
)

func init() {
	// Initialize the logger with configuration from environment variables
	log, err := initLogger()
	if err != nil {
		panic(err)
	}

	DefaultLog = log
}

// initLogger creates a new logger instance configured from environment variables
func initLogger() (core.Logger, error) {
	logLevel := getEnvWithDefault(envLogLevel, defaultLogLevel)
	logTimeFormat := getEnvWithDefault(envLogTimeFormat, defaultLogTimeFormat)
	logBackend := getEnvWithDefault(envLogBackend, defaultLogBackend)

	switch logBackend {
	case "logrus":
		return logrus.New(logLevel, logTimeFormat)
	case "zerolog":
		logColored, err := parseBoolEnv(envLogColor, defaultLogColored)
		if err != nil {
			return nil, err
		}

		logJSON, err := parseBoolEnv(envLogJSON, defaultLogJSON)
		if err != nil {
			return nil, err
		}

		return zerolog.New(logLevel, logTimeFormat, logColored, logJSON)
	default:
		return nil, fmt.Errorf("unknown log backend %q", logBackend)
	}
}

// getEnvWithDefault returns the value of the environment variable or the default if not set
func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// parseBoolEnv gets a boolean environment variable with a default value
func parseBoolEnv(key, defaultValue string) (bool, error) {
	value := getEnvWithDefault(key, defaultValue)
	return strconv.ParseBool(value)
}
