// Package ranking turns a list of scanned nodes into the "all" and "best"
// views served to clients.
//
// Best selection uses a two-tier threshold fallback: when at least MinNodes
// eligible nodes reach BestThreshold, only those are recommended; otherwise
// every eligible node at or above ValidThreshold is. Eligible means a score
// above zero and not website-only. Both views are sorted by score, highest
// first, with ties kept in scan order.
package ranking
