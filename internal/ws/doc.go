// Package ws pushes the ranked node list to WebSocket clients on a fixed
// interval so dashboards need not poll the REST API.
package ws
