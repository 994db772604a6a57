// Package certs inspects the TLS leaf certificate presented by a node
// endpoint. The result is attached to the node's status for operators and
// alert rules; it never affects the score.
package certs
