package config

import (
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/nodebeacon/beacon/pkg/types"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultScanInterval   = 10 * time.Minute
	DefaultRPCTimeout     = 30 * time.Second
	DefaultHTTPPort       = 3000
	DefaultCacheTTL       = 30 * time.Second
	DefaultCacheSize      = 1000
	DefaultRateRequests   = 100
	DefaultRateWindow     = 15 * time.Minute
	DefaultStreamInterval = 5 * time.Second

	DefaultBestThreshold  = 100
	DefaultValidThreshold = 75
	DefaultMinNodes       = 5

	DefaultChainID        = "beeab0de00000000000000000000000000000000000000000000000000000000"
	DefaultAccount        = "peakd"
	DefaultCommunity      = "hive-156509"
	DefaultHistoryAccount = "peak.beacon"

	DefaultExcludedNodesEnv = "EXCLUDED_NODES"
	DefaultAccountEnv       = "BEACON_ACCOUNT"
	DefaultPostingKeyEnv    = "BEACON_ACCOUNT_POSTING_KEY"
	DefaultActiveKeyEnv     = "BEACON_ACCOUNT_ACTIVE_KEY"
)

// DefaultNodes is the node set scanned when the config file lists none.
var DefaultNodes = []types.NodeConfig{
	{Name: "api.hive.blog", Endpoint: "https://api.hive.blog"},
	{Name: "anyx.io", Endpoint: "https://anyx.io"},
	{Name: "api.hivekings.com", Endpoint: "https://api.hivekings.com"},
	{Name: "api.deathwing.me", Endpoint: "https://api.deathwing.me"},
	{Name: "api.openhive.network", Endpoint: "https://api.openhive.network"},
	{Name: "hive.roelandp.nl", Endpoint: "https://hive.roelandp.nl"},
	{Name: "rpc.ausbit.dev", Endpoint: "https://rpc.ausbit.dev"},
	{Name: "api.pharesim.me", Endpoint: "https://api.pharesim.me"},
	{Name: "hive-api.arcange.eu", Endpoint: "https://hive-api.arcange.eu"},
	{Name: "hived.privex.io", Endpoint: "https://hived.privex.io"},
	{Name: "fin.hive.3speak.co", Endpoint: "https://fin.hive.3speak.co"},
}

// Config is the top-level beacon configuration.
// Fields map 1:1 to config.example.yaml.
type Config struct {
	Scanner     ScannerConfig      `yaml:"scanner"`
	Nodes       []types.NodeConfig `yaml:"nodes"`
	Battery     BatteryConfig      `yaml:"battery"`
	Credentials CredentialsConfig  `yaml:"credentials"`
	Ranking     RankingConfig      `yaml:"ranking"`
	Server      ServerConfig       `yaml:"server"`
	Alerts      AlertsConfig       `yaml:"alerts"`
}

// ScannerConfig controls the scan schedule and per-call limits.
type ScannerConfig struct {
	// Interval between scheduled cycles. The first cycle fires at startup.
	Interval time.Duration `yaml:"interval"`

	// RPCTimeout bounds every individual RPC call and broadcast.
	RPCTimeout time.Duration `yaml:"rpc_timeout"`

	// ExcludedNodes lists node names skipped entirely.
	ExcludedNodes []string `yaml:"excluded_nodes"`

	// ExcludedNodesEnv names a comma-separated environment variable whose
	// entries are added to ExcludedNodes.
	ExcludedNodesEnv string `yaml:"excluded_nodes_env"`

	// CheckCerts enables TLS certificate inspection of every node endpoint.
	CheckCerts bool `yaml:"check_certs"`

	// InsecureSkipVerify disables certificate verification for RPC calls.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify"`
}

// Excluded returns the union of the configured and environment exclusions.
func (s ScannerConfig) Excluded() map[string]bool {
	out := make(map[string]bool, len(s.ExcludedNodes))
	for _, n := range s.ExcludedNodes {
		if n = strings.TrimSpace(n); n != "" {
			out[n] = true
		}
	}
	if s.ExcludedNodesEnv == "" {
		return out
	}
	for _, n := range strings.Split(os.Getenv(s.ExcludedNodesEnv), ",") {
		if n = strings.TrimSpace(n); n != "" {
			out[n] = true
		}
	}
	return out
}

// BatteryConfig holds the values the check battery is built from.
type BatteryConfig struct {
	// ChainID is the hex chain id get_version must report. It is also the
	// signing domain for write checks.
	ChainID string `yaml:"chain_id"`

	// Account is substituted for $account in read checks.
	Account string `yaml:"account"`

	// Community is substituted for $community.
	Community string `yaml:"community"`

	// HistoryAccount is substituted for $history_account.
	HistoryAccount string `yaml:"history_account"`

	// MinVersion, when set, fails get_version for nodes reporting an older
	// blockchain_version.
	MinVersion string `yaml:"min_version"`

	// Checks replaces the built-in battery when non-empty.
	Checks []CheckConfig `yaml:"checks"`
}

// CheckConfig is one check in a custom battery.
type CheckConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`

	// Kind is read | write.
	Kind   string `yaml:"kind"`
	Method string `yaml:"method"`

	// Params is the JSON-RPC params template; it may contain placeholders.
	Params any `yaml:"params"`

	Weight int `yaml:"weight"`

	// Validator names a registered validator; empty always passes.
	Validator string `yaml:"validator"`

	// Credential is none | posting | active.
	Credential string `yaml:"credential"`
}

// CredentialsConfig identifies the beacon account used by write checks.
// Keys are never stored in the file; only the variable names are.
type CredentialsConfig struct {
	// Account is the literal account name. AccountEnv overrides it when set
	// and present in the environment.
	Account    string `yaml:"account"`
	AccountEnv string `yaml:"account_env"`

	PostingKeyEnv string `yaml:"posting_key_env"`
	ActiveKeyEnv  string `yaml:"active_key_env"`
}

// Name returns the beacon account name.
func (c CredentialsConfig) Name() string {
	if c.AccountEnv != "" {
		if v := strings.TrimSpace(os.Getenv(c.AccountEnv)); v != "" {
			return v
		}
	}
	return c.Account
}

// PostingKey returns the WIF posting key resolved from the environment.
func (c CredentialsConfig) PostingKey() string {
	if c.PostingKeyEnv == "" {
		return ""
	}
	return strings.TrimSpace(os.Getenv(c.PostingKeyEnv))
}

// ActiveKey returns the WIF active key resolved from the environment.
func (c CredentialsConfig) ActiveKey() string {
	if c.ActiveKeyEnv == "" {
		return ""
	}
	return strings.TrimSpace(os.Getenv(c.ActiveKeyEnv))
}

// RankingConfig holds the best-node selection thresholds.
type RankingConfig struct {
	BestThreshold  int `yaml:"best_threshold"`
	ValidThreshold int `yaml:"valid_threshold"`
	MinNodes       int `yaml:"min_nodes"`
}

// ServerConfig holds the HTTP surface settings.
type ServerConfig struct {
	// HTTPPort is the port the REST API, metrics and WebSocket hub listen on.
	HTTPPort int `yaml:"http_port"`

	// CacheTTL is how long GET responses under /api are cached. Zero disables.
	CacheTTL  time.Duration `yaml:"cache_ttl"`
	CacheSize int           `yaml:"cache_size"`

	RateLimit RateLimitConfig `yaml:"rate_limit"`

	// CORSOrigins lists allowed origins. Empty allows any origin.
	CORSOrigins []string `yaml:"cors_origins"`

	// StreamInterval is the WebSocket push period.
	StreamInterval time.Duration `yaml:"stream_interval"`

	// Auth protects /metrics.
	Auth AuthConfig `yaml:"auth"`
}

// RateLimitConfig is a per-client request budget.
type RateLimitConfig struct {
	// Requests per Window per client IP. Zero disables limiting.
	Requests int           `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
}

// AuthConfig controls API key authentication of operator endpoints.
type AuthConfig struct {
	// Mode is one of: apikey | none.
	Mode string `yaml:"mode"`

	// KeyEnv is the name of the environment variable that holds the expected key.
	KeyEnv string `yaml:"key_env"`

	// Header is the HTTP header to read the key from. Defaults to "x-api-key".
	Header string `yaml:"header"`
}

// Key returns the expected API key resolved from the environment.
func (a AuthConfig) Key() string {
	if a.KeyEnv == "" {
		return ""
	}
	return os.Getenv(a.KeyEnv)
}

// EffectiveHeader returns the configured header name, or "x-api-key".
func (a AuthConfig) EffectiveHeader() string {
	if a.Header != "" {
		return a.Header
	}
	return "x-api-key"
}

// AlertsConfig holds alerting rules and webhook delivery targets.
type AlertsConfig struct {
	Rules    []AlertRule     `yaml:"rules"`
	Webhooks []WebhookConfig `yaml:"webhooks"`
}

// AlertRule defines one threshold-based alert condition evaluated per node.
type AlertRule struct {
	// Name is the alert identifier, used with the node name as the dedup key.
	Name string `yaml:"name"`

	// Condition is a simple expression: "score < 75", "fail_count > 2",
	// "failed == get_version", "state == down", "cert_days_left < 14".
	Condition string `yaml:"condition"`

	// Severity is one of: critical | warning | info.
	Severity string `yaml:"severity"`

	// Cooldown suppresses re-fires for this duration. Defaults to 15 minutes.
	Cooldown time.Duration `yaml:"cooldown"`
}

// WebhookConfig defines one webhook delivery target.
type WebhookConfig struct {
	// Type is one of: teams | slack | http.
	Type string `yaml:"type"`

	// URLEnv is the name of the environment variable that holds the webhook URL.
	URLEnv string `yaml:"url_env"`
}

// URL returns the webhook URL resolved from the environment.
func (w WebhookConfig) URL() string {
	if w.URLEnv == "" {
		return ""
	}
	return os.Getenv(w.URLEnv)
}

// ActiveNodes returns the configured nodes minus the excluded ones, in order.
func (c *Config) ActiveNodes() []types.NodeConfig {
	excluded := c.Scanner.Excluded()
	out := make([]types.NodeConfig, 0, len(c.Nodes))
	for _, n := range c.Nodes {
		if !excluded[n.Name] {
			out = append(out, n)
		}
	}
	return out
}

// Load reads and parses the YAML config file at path. An empty path yields
// the defaults. Missing optional fields are filled with defaults.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "config: read %q", path)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(err, "config: parse yaml")
		}
	}

	if len(cfg.Nodes) == 0 {
		cfg.Nodes = append([]types.NodeConfig(nil), DefaultNodes...)
	}

	if err := validate(cfg); err != nil {
		return nil, errors.Wrap(err, "config")
	}
	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Scanner: ScannerConfig{
			Interval:         DefaultScanInterval,
			RPCTimeout:       DefaultRPCTimeout,
			ExcludedNodesEnv: DefaultExcludedNodesEnv,
		},
		Battery: BatteryConfig{
			ChainID:        DefaultChainID,
			Account:        DefaultAccount,
			Community:      DefaultCommunity,
			HistoryAccount: DefaultHistoryAccount,
		},
		Credentials: CredentialsConfig{
			AccountEnv:    DefaultAccountEnv,
			PostingKeyEnv: DefaultPostingKeyEnv,
			ActiveKeyEnv:  DefaultActiveKeyEnv,
		},
		Ranking: RankingConfig{
			BestThreshold:  DefaultBestThreshold,
			ValidThreshold: DefaultValidThreshold,
			MinNodes:       DefaultMinNodes,
		},
		Server: ServerConfig{
			HTTPPort:  DefaultHTTPPort,
			CacheTTL:  DefaultCacheTTL,
			CacheSize: DefaultCacheSize,
			RateLimit: RateLimitConfig{
				Requests: DefaultRateRequests,
				Window:   DefaultRateWindow,
			},
			StreamInterval: DefaultStreamInterval,
		},
	}
}

// validate checks required fields and structural constraints.
func validate(cfg *Config) error {
	if cfg.Scanner.Interval <= 0 {
		return errors.New("scanner.interval must be positive")
	}
	if cfg.Scanner.RPCTimeout <= 0 {
		return errors.New("scanner.rpc_timeout must be positive")
	}

	seen := make(map[string]bool, len(cfg.Nodes))
	for i, n := range cfg.Nodes {
		if n.Name == "" {
			return errors.Errorf("nodes[%d]: name is required", i)
		}
		if n.Endpoint == "" {
			return errors.Errorf("nodes[%d] %q: endpoint is required", i, n.Name)
		}
		if seen[n.Name] {
			return errors.Errorf("nodes[%d] %q: duplicate name", i, n.Name)
		}
		seen[n.Name] = true
	}

	if len(cfg.Battery.ChainID) != 64 {
		return errors.Errorf("battery.chain_id must be 64 hex characters, got %d", len(cfg.Battery.ChainID))
	}
	for i, c := range cfg.Battery.Checks {
		if c.Name == "" {
			return errors.Errorf("battery.checks[%d]: name is required", i)
		}
		if c.Weight <= 0 {
			return errors.Errorf("battery.checks[%d] %q: weight must be positive", i, c.Name)
		}
		switch c.Kind {
		case "read", "write":
		default:
			return errors.Errorf("battery.checks[%d] %q: unknown kind %q", i, c.Name, c.Kind)
		}
		switch c.Credential {
		case "", "none", "posting", "active":
		default:
			return errors.Errorf("battery.checks[%d] %q: unknown credential %q", i, c.Name, c.Credential)
		}
	}

	r := cfg.Ranking
	if r.BestThreshold < 0 || r.BestThreshold > 100 || r.ValidThreshold < 0 || r.ValidThreshold > 100 {
		return errors.New("ranking thresholds must be within [0, 100]")
	}
	if r.ValidThreshold > r.BestThreshold {
		return errors.Errorf("ranking.valid_threshold %d exceeds best_threshold %d", r.ValidThreshold, r.BestThreshold)
	}
	if r.MinNodes < 0 {
		return errors.New("ranking.min_nodes must not be negative")
	}

	if cfg.Server.HTTPPort <= 0 || cfg.Server.HTTPPort > 65535 {
		return errors.Errorf("server.http_port %d is out of range [1, 65535]", cfg.Server.HTTPPort)
	}
	if cfg.Server.CacheTTL < 0 {
		return errors.New("server.cache_ttl must not be negative")
	}
	if cfg.Server.RateLimit.Requests > 0 && cfg.Server.RateLimit.Window <= 0 {
		return errors.New("server.rate_limit.window must be positive when requests is set")
	}
	switch cfg.Server.Auth.Mode {
	case "apikey", "none", "":
	default:
		return errors.Errorf("server.auth.mode %q unknown: want apikey|none", cfg.Server.Auth.Mode)
	}
	return nil
}
