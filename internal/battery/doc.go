// Package battery defines the ordered list of weighted checks run against
// every node in a scan cycle.
//
// A Battery is immutable once built. Each TestSpec carries a params template
// whose whole-string placeholders ($account, $beacon, $community,
// $history_account, $memo) are resolved per execution by Context.Resolve.
//
// Validators are named functions kept in a registry separate from battery
// data, so a battery loaded from YAML refers to them by name. Default builds
// the fourteen-check Hive battery (twelve reads, two writes, max score 255).
package battery
