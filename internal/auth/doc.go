// Package auth guards operator endpoints such as /metrics with a static API
// key read from a request header.
package auth
