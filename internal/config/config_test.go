package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		flags []string
		want  Config
	}{
		{
			name:  "defaults",
			env:   map[string]string{},
			flags: []string{},
			want: Config{
				APIBaseURL:     "http://localhost:8080",
				RequestTimeout: 15 * time.Second,
				LogLevel:       "info",
			},
		},
		{
			name: "env only",
			env: map[string]string{
				"BAZAARX_API_URL":   "https://api.bazaarx.example",
				"BAZAARX_STATE_DIR": "/tmp/bzx",
				"BAZAARX_TIMEOUT":   "3s",
				"BAZAARX_LOG_LEVEL": "debug",
			},
			flags: []string{},
			want: Config{
				APIBaseURL:     "https://api.bazaarx.example",
				StateDir:       "/tmp/bzx",
				RequestTimeout: 3 * time.Second,
				LogLevel:       "debug",
			},
		},
		{
			name: "flags only",
			env:  map[string]string{},
			flags: []string{
				"-api", "http://flag.example",
				"-state-dir", "/tmp/flagdir",
				"-timeout", "7s",
			},
			want: Config{
				APIBaseURL:     "http://flag.example",
				StateDir:       "/tmp/flagdir",
				RequestTimeout: 7 * time.Second,
				LogLevel:       "info",
			},
		},
		{
			name: "env overrides flags",
			env: map[string]string{
				"BAZAARX_API_URL": "https://env.example",
			},
			flags: []string{"-api", "http://flag.example", "-state-dir", "/tmp/x"},
			want: Config{
				APIBaseURL:     "https://env.example",
				StateDir:       "/tmp/x",
				RequestTimeout: 15 * time.Second,
				LogLevel:       "info",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)

			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			os.Args = append([]string{"test"}, tt.flags...)

			cfg, err := Parse()
			require.NoError(t, err)

			assert.Equal(t, tt.want.APIBaseURL, cfg.APIBaseURL)
			assert.Equal(t, tt.want.RequestTimeout, cfg.RequestTimeout)
			assert.Equal(t, tt.want.LogLevel, cfg.LogLevel)
			if tt.want.StateDir != "" {
				assert.Equal(t, tt.want.StateDir, cfg.StateDir)
			} else {
				assert.NotEmpty(t, cfg.StateDir, "falls back to the user config dir")
			}
		})
	}
}

func TestDefaultStateDir_HonorsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, "/tmp/xdg/bazaarx", defaultStateDir())
}
