// Package scanner runs the check battery against every node and publishes
// the scored results.
//
// Executor runs one check against one node. It makes a single attempt bounded
// by the RPC timeout, skips write checks whose signing key or account is not
// configured, and converts every error or panic into a failed result.
//
// Cycle runs the whole battery over a node list, strictly sequentially, and
// scores each node as round(100 * remaining / max) where remaining starts at
// the battery's max score and loses each failed check's weight.
//
// Scheduler fires a cycle at startup and then on a fixed interval. A trigger
// that arrives while a cycle is running is logged and dropped. Only a cycle
// that completes replaces the published snapshot.
package scanner
