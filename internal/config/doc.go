// Package config loads and watches the beacon configuration file.
//
// Top-level types:
//   - Config{Scanner, Nodes, Battery, Credentials, Ranking, Server, Alerts}
//   - ScannerConfig: interval, rpc_timeout, excluded_nodes, check_certs
//   - BatteryConfig: chain id, target account and community, optional
//     min_version gate and an optional full override of the check list
//   - CredentialsConfig: beacon account plus *_env names for the posting
//     and active keys; PostingKey() and ActiveKey() resolve from the environment
//   - RankingConfig: best/valid thresholds and the minimum best-tier size
//   - ServerConfig: HTTP port, response cache, rate limit, CORS, metrics auth
//   - AlertsConfig: alert rules and webhook targets
//
// Load(path) applies defaults, unmarshals the YAML file when path is set and
// validates the result. LoadDotenv reads .env.dev and .env into the process
// environment without overriding variables that are already set.
//
// Watch(ctx, path, onChange) uses fsnotify to reload the file on write and
// hands the new Config to onChange; invalid files are logged and ignored.
package config
