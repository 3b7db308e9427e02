package config

import "time"

// Application info
const (
	AppName    = "University Students Dashboard"
	AppVersion = "1.0.0"
	ServiceID  = "unidash"
)

// EnvPrefix namespaces every environment variable, e.g. UNIDASH_SERVER_PORT.
const EnvPrefix = "UNIDASH"

// Defaults
const (
	DefaultPort           = 8080
	DefaultDataFile       = "university_student_data.csv"
	DefaultLogFile        = "logs/unidash.log"
	DefaultRequestTimeout = 30 * time.Second
	DefaultRateLimitRPS   = 100
	DefaultRateLimitBurst = 50
)

// Logging values accepted by LoggingConfig.
const (
	LogFormatJSON = "json"
	LogFormatText = "text"

	LogOutputConsole = "console"
	LogOutputFile    = "file"
	LogOutputBoth    = "both"
)
