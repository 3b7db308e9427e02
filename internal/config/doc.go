// Package config loads the dashboard configuration.
//
// # Configuration Sources
//
// Values are resolved in the following order, later sources winning:
//
//	1. Default() values
//	2. A YAML file (UNIDASH_CONFIG_FILE, ./config.yaml or ./configs/config.yaml)
//	3. Environment variables, including those read from a local .env file
//
// # Environment Variables
//
// Every variable uses the UNIDASH prefix followed by the section and field:
//
//	UNIDASH_SERVER_PORT=8080
//	UNIDASH_DATA_FILE=/srv/data/university_student_data.csv
//	UNIDASH_LOGGING_LEVEL=debug
//	UNIDASH_SECURITY_ALLOWED_ORIGINS=http://localhost:8080,http://127.0.0.1:8080
//	UNIDASH_TELEMETRY_ENABLE_TRACING=true
//
// # Example File
//
//	server:
//	  port: 8080
//	  request_timeout: 30s
//	data:
//	  file: university_student_data.csv
//	logging:
//	  level: info
//	  format: json
//	  output: both
//	  file_path: logs/unidash.log
package config
