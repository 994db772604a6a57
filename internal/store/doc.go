// Package store holds the most recent complete scan result as an immutable
// snapshot behind an atomic pointer. Readers never observe a partial cycle.
package store
