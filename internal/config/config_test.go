package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Valid(t *testing.T) {
	cfg := loadFromString(t, `
scanner:
  interval: 5m
  rpc_timeout: 10s
  excluded_nodes: [b.example]
nodes:
  - name: a.example
    endpoint: https://a.example
  - name: b.example
    endpoint: https://b.example
  - name: c.example
    endpoint: https://c.example
    website_only: true
ranking:
  best_threshold: 90
  valid_threshold: 60
  min_nodes: 3
`)

	assert.Equal(t, 5*time.Minute, cfg.Scanner.Interval)
	assert.Equal(t, 10*time.Second, cfg.Scanner.RPCTimeout)
	require.Len(t, cfg.Nodes, 3)
	assert.True(t, cfg.Nodes[2].WebsiteOnly)
	assert.Equal(t, RankingConfig{BestThreshold: 90, ValidThreshold: 60, MinNodes: 3}, cfg.Ranking)

	active := cfg.ActiveNodes()
	require.Len(t, active, 2)
	assert.Equal(t, "a.example", active[0].Name)
	assert.Equal(t, "c.example", active[1].Name)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultScanInterval, cfg.Scanner.Interval)
	assert.Equal(t, DefaultRPCTimeout, cfg.Scanner.RPCTimeout)
	assert.Equal(t, DefaultChainID, cfg.Battery.ChainID)
	assert.Equal(t, DefaultAccount, cfg.Battery.Account)
	assert.Equal(t, DefaultHTTPPort, cfg.Server.HTTPPort)
	assert.Equal(t, DefaultBestThreshold, cfg.Ranking.BestThreshold)
	assert.Equal(t, DefaultValidThreshold, cfg.Ranking.ValidThreshold)
	assert.Equal(t, DefaultMinNodes, cfg.Ranking.MinNodes)
	assert.Len(t, cfg.Nodes, len(DefaultNodes))
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	cfg := loadFromString(t, `
server:
  http_port: 8081
`)
	assert.Equal(t, 8081, cfg.Server.HTTPPort)
	assert.Equal(t, DefaultCacheTTL, cfg.Server.CacheTTL)
	assert.Equal(t, DefaultRateRequests, cfg.Server.RateLimit.Requests)
	assert.Equal(t, DefaultPostingKeyEnv, cfg.Credentials.PostingKeyEnv)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"duplicate node": `
nodes:
  - {name: a, endpoint: https://a}
  - {name: a, endpoint: https://b}
`,
		"missing endpoint": `
nodes:
  - {name: a}
`,
		"short chain id": `
battery:
  chain_id: beeab0de
`,
		"valid above best": `
ranking:
  best_threshold: 70
  valid_threshold: 80
`,
		"bad check kind": `
battery:
  checks:
    - {name: x, kind: poke, method: m, weight: 1}
`,
		"zero weight": `
battery:
  checks:
    - {name: x, kind: read, method: m, weight: 0}
`,
		"bad auth mode": `
server:
  auth:
    mode: magictoken
`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := loadStringErr(t, body)
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestScannerConfig_ExcludedFromEnv(t *testing.T) {
	t.Setenv("TEST_EXCLUDED", " a.example, ,b.example")
	s := ScannerConfig{ExcludedNodes: []string{"c.example"}, ExcludedNodesEnv: "TEST_EXCLUDED"}

	ex := s.Excluded()
	assert.Len(t, ex, 3)
	assert.True(t, ex["a.example"])
	assert.True(t, ex["b.example"])
	assert.True(t, ex["c.example"])
}

func TestCredentialsConfig(t *testing.T) {
	t.Setenv("TEST_ACCOUNT", "beacon.bot")
	t.Setenv("TEST_POSTING", "  5Kposting \n")
	c := CredentialsConfig{
		Account:       "fallback",
		AccountEnv:    "TEST_ACCOUNT",
		PostingKeyEnv: "TEST_POSTING",
		ActiveKeyEnv:  "TEST_ACTIVE_UNSET",
	}

	assert.Equal(t, "beacon.bot", c.Name())
	assert.Equal(t, "5Kposting", c.PostingKey())
	assert.Empty(t, c.ActiveKey())

	assert.Equal(t, "fallback", CredentialsConfig{Account: "fallback"}.Name())
}

func TestAuthConfig(t *testing.T) {
	t.Setenv("TEST_API_KEY", "supersecret")
	a := AuthConfig{Mode: "apikey", KeyEnv: "TEST_API_KEY"}
	assert.Equal(t, "supersecret", a.Key())
	assert.Equal(t, "x-api-key", a.EffectiveHeader())
	assert.Empty(t, AuthConfig{}.Key())
}

func TestLoadDotenv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("BEACON_TEST_DOTENV=from-file\n"), 0o600))
	t.Setenv("BEACON_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("BEACON_TEST_DOTENV"))

	require.NoError(t, LoadDotenv(filepath.Join(dir, ".env.dev"), path))
	assert.Equal(t, "from-file", os.Getenv("BEACON_TEST_DOTENV"))
}

func TestWatch_Reload(t *testing.T) {
	path := writeConfig(t, "scanner:\n  interval: 1m\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan *Config, 4)
	go func() {
		_ = Watch(ctx, path, func(c *Config) { got <- c })
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("scanner:\n  interval: 2m\n"), 0o600))

	select {
	case c := <-got:
		assert.Equal(t, 2*time.Minute, c.Scanner.Interval)
	case <-time.After(3 * time.Second):
		t.Fatal("no reload observed")
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func loadFromString(t *testing.T, content string) *Config {
	t.Helper()
	cfg, err := Load(writeConfig(t, content))
	require.NoError(t, err)
	return cfg
}

func loadStringErr(t *testing.T, content string) (*Config, error) {
	t.Helper()
	return Load(writeConfig(t, content))
}
