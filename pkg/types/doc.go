// Package types defines the JSON contract shared by the beacon server and any
// Go application that consumes its API: node configuration, per-check results,
// per-node status snapshots and the compact scored view used for ranking.
package types
