// Package alerts evaluates per-node alert rules after every published scan
// cycle and delivers fire and resolve notifications to webhooks.
package alerts
