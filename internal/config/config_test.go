package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFile(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     string
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no file and no env",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
				assert.Equal(t, []string{"http://localhost:8080"}, cfg.Security.AllowedOrigins)
				assert.True(t, cfg.Security.RateLimit.Enabled)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.Equal(t, "console", cfg.Logging.Output)
				assert.Equal(t, DefaultDataFile, cfg.Data.File)
				assert.Equal(t, "prometheus", cfg.Telemetry.MetricExporter)
				assert.Equal(t, int64(64*1024), cfg.WebSocket.MaxMessageSize)
			},
		},
		{
			name: "file overrides defaults",
			file: `
server:
  port: 9090
  read_timeout: 5s
data:
  file: /srv/students.csv
logging:
  level: debug
  output: both
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
				assert.Equal(t, "/srv/students.csv", cfg.Data.File)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "both", cfg.Logging.Output)
				assert.Equal(t, DefaultLogFile, cfg.Logging.FilePath)
			},
		},
		{
			name: "env overrides file",
			file: "server:\n  port: 9090\ndata:\n  file: from-file.csv\n",
			env: map[string]string{
				"UNIDASH_SERVER_PORT":              "7070",
				"UNIDASH_SECURITY_ALLOWED_ORIGINS": "http://a.test,http://b.test",
				"UNIDASH_LOGGING_FORMAT":           "TEXT",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7070, cfg.Server.Port)
				assert.Equal(t, "from-file.csv", cfg.Data.File)
				assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Security.AllowedOrigins)
				assert.Equal(t, "text", cfg.Logging.Format)
			},
		},
		{
			name:    "invalid port",
			env:     map[string]string{"UNIDASH_SERVER_PORT": "70000"},
			wantErr: "invalid server port",
		},
		{
			name:    "empty data file",
			file:    "data:\n  file: \"  \"\n",
			wantErr: "data file must be specified",
		},
		{
			name:    "unknown log output",
			env:     map[string]string{"UNIDASH_LOGGING_OUTPUT": "syslog"},
			wantErr: "invalid log output",
		},
		{
			name:    "bad rate limit",
			env:     map[string]string{"UNIDASH_SECURITY_RATE_LIMIT_RPS": "0"},
			wantErr: "invalid rate limit",
		},
		{
			name:    "rate limit disabled skips check",
			env:     map[string]string{"UNIDASH_SECURITY_RATE_LIMIT_ENABLED": "false", "UNIDASH_SECURITY_RATE_LIMIT_RPS": "0"},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.False(t, cfg.Security.RateLimit.Enabled)
			},
		},
		{
			name:    "sample ratio out of range",
			env:     map[string]string{"UNIDASH_TELEMETRY_SAMPLE_RATIO": "1.5"},
			wantErr: "sample ratio",
		},
		{
			name:    "malformed env value",
			env:     map[string]string{"UNIDASH_SERVER_READ_TIMEOUT": "soon"},
			wantErr: "failed to load config from env",
		},
		{
			name:    "malformed file",
			file:    "server: [",
			wantErr: "failed to load config from file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeConfigFile(t, tt.file)
			}

			cfg, err := LoadFile(path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestGetConfigFilePath_EnvOverride(t *testing.T) {
	t.Setenv("UNIDASH_CONFIG_FILE", "/etc/unidash/config.yaml")
	assert.Equal(t, "/etc/unidash/config.yaml", getConfigFilePath())
}

func TestServerConfig_Addr(t *testing.T) {
	assert.Equal(t, ":8080", ServerConfig{Port: 8080}.Addr())
	assert.Equal(t, "127.0.0.1:9000", ServerConfig{Host: "127.0.0.1", Port: 9000}.Addr())
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.validate())
}
