package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// isolate points XDG_CONFIG_HOME and the working directory at fresh temp dirs
// and clears every LMSENV_* variable the loader reads.
func isolate(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	for _, env := range envBindings {
		t.Setenv(env, "")
		_ = os.Unsetenv(env)
	}

	origWd, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origWd) })
	require.NoError(t, os.Chdir(tmpDir))

	return tmpDir
}

func TestGlobalPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	require.Equal(t, "/custom/config/lmsenv/lmsenv.yml", GlobalPath())

	t.Setenv("XDG_CONFIG_HOME", "")
	got := GlobalPath()
	require.True(t, filepath.IsAbs(got), "GlobalPath() should be absolute, got %s", got)
	require.Equal(t, "lmsenv.yml", filepath.Base(got))
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, DefaultAPIURL, cfg.APIURL)
	require.Equal(t, []string{"acceptatie", "test", "development"}, cfg.Environments)
	require.Equal(t, 30*time.Second, cfg.RefreshInterval)
	require.Equal(t, 2*time.Second, cfg.RedirectDelay)
	require.Equal(t, DefaultRateLimit, cfg.RateLimit)
	require.Equal(t, "info", cfg.LogLevel)
	require.Empty(t, cfg.LogFile)
	require.NoError(t, cfg.Validate())
}

func TestLoad_ProjectOverridesGlobal(t *testing.T) {
	isolate(t)

	global := Defaults()
	global.APIURL = "https://global.example.edu"
	global.LogLevel = "warn"
	require.NoError(t, WriteGlobal(global))

	require.NoError(t, os.WriteFile(ProjectPath(), []byte("api_url: https://project.example.edu/\nrefresh_interval: 10s\n"), 0644))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "https://project.example.edu", cfg.APIURL, "trailing slash is trimmed")
	require.Equal(t, 10*time.Second, cfg.RefreshInterval)
	require.Equal(t, "warn", cfg.LogLevel, "unset project keys fall back to global")
}

func TestLoad_EnvOverridesFiles(t *testing.T) {
	isolate(t)

	require.NoError(t, os.WriteFile(ProjectPath(), []byte("api_url: https://project.example.edu\n"), 0644))
	t.Setenv("LMSENV_API_URL", "https://env.example.edu")
	t.Setenv("LMSENV_ENVIRONMENTS", "test,acceptatie")
	t.Setenv("LMSENV_REDIRECT_DELAY", "500ms")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "https://env.example.edu", cfg.APIURL)
	require.Equal(t, []string{"test", "acceptatie"}, cfg.Environments)
	require.Equal(t, 500*time.Millisecond, cfg.RedirectDelay)
}

func TestLoad_InvalidProjectConfig(t *testing.T) {
	isolate(t)

	require.NoError(t, os.WriteFile(ProjectPath(), []byte("api_url: [unterminated\n"), 0644))

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "merging project config")
}

func TestExists(t *testing.T) {
	isolate(t)

	require.False(t, Exists())

	require.NoError(t, WriteProject(Defaults()))
	require.True(t, Exists())

	require.NoError(t, os.Remove(ProjectPath()))
	require.NoError(t, WriteGlobal(Defaults()))
	require.True(t, Exists())
}

func TestWriteGlobal_RoundTrip(t *testing.T) {
	isolate(t)

	cfg := &Config{
		APIURL:          "https://lms-tools.example.edu",
		Environments:    []string{"test"},
		RefreshInterval: time.Minute,
		RedirectDelay:   3 * time.Second,
		RateLimit:       2,
		LogLevel:        "debug",
		LogFile:         "/tmp/lmsenv.log",
	}
	require.NoError(t, WriteGlobal(cfg))

	data, err := os.ReadFile(GlobalPath())
	require.NoError(t, err)
	content := string(data)
	for _, field := range []string{
		"api_url: https://lms-tools.example.edu",
		"refresh_interval: 1m0s",
		"redirect_delay: 3s",
		"log_level: debug",
		"log_file: /tmp/lmsenv.log",
	} {
		require.True(t, strings.Contains(content, field), "config file missing %q\n%s", field, content)
	}

	loaded, err := Load()
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"empty api url", func(c *Config) { c.APIURL = "  " }, "api_url"},
		{"zero refresh", func(c *Config) { c.RefreshInterval = 0 }, "refresh_interval"},
		{"negative delay", func(c *Config) { c.RedirectDelay = -time.Second }, "redirect_delay"},
		{"negative rate", func(c *Config) { c.RateLimit = -1 }, "rate_limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
