package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConf(t *testing.T, yaml string) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "conf"), 0o755))
	if yaml != "" {
		require.NoError(t, os.WriteFile(filepath.Join(root, "conf", "client.yaml"), []byte(yaml), 0o644))
	}
	return root
}

func TestLoadFrom_DefaultsWithoutFile(t *testing.T) {
	root := writeConf(t, "")

	cfg, err := LoadFrom(root)
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, cfg.Service.BaseURL)
	assert.Zero(t, cfg.Service.Timeout)
	assert.Equal(t, 1500*time.Millisecond, cfg.Messaging.RedirectDelay)
	assert.Equal(t, DefaultGenericError, cfg.Messaging.GenericError)
	assert.Equal(t, ":8080", cfg.DevServer.ListenAddr)
	assert.Equal(t, root, cfg.Paths.Root)
}

func TestLoadFrom_YAMLAndEnvOverlay(t *testing.T) {
	root := writeConf(t, `
service:
  base_url: https://tt.example.org
  timeout: 5s
messaging:
  redirect_delay: 2s
forms:
  dir: /etc/tourney/forms
`)
	t.Setenv("TOURNEY_MESSAGING__REDIRECT_DELAY", "250ms")
	t.Setenv("TOURNEY_LOG__LEVEL", "debug")

	cfg, err := LoadFrom(root)
	require.NoError(t, err)
	assert.Equal(t, "https://tt.example.org", cfg.Service.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Service.Timeout)
	assert.Equal(t, 250*time.Millisecond, cfg.Messaging.RedirectDelay)
	assert.Equal(t, "/etc/tourney/forms", cfg.Forms.Dir)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadFrom_DotEnv(t *testing.T) {
	root := writeConf(t, "")
	require.NoError(t, os.WriteFile(filepath.Join(root, "conf", ".env"),
		[]byte("TOURNEY_SERVICE__BASE_URL=http://dotenv.test:9000\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("TOURNEY_SERVICE__BASE_URL") })

	cfg, err := LoadFrom(root)
	require.NoError(t, err)
	assert.Equal(t, "http://dotenv.test:9000", cfg.Service.BaseURL)
}

func TestLoadFrom_Invalid(t *testing.T) {
	cases := map[string]string{
		"scheme":   "service:\n  base_url: ftp://files.example.org\n",
		"level":    "log:\n  level: loud\n",
		"listen":   "devserver:\n  listen_addr: nowhere\n",
		"bad yaml": "service: [",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFrom(writeConf(t, body))
			assert.Error(t, err)
		})
	}
}

func TestRootDir_EnvOverride(t *testing.T) {
	t.Setenv(EnvRoot, "/srv/tourney")
	assert.Equal(t, "/srv/tourney", rootDir())
}
