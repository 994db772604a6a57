// Package api serves the read-only HTTP surface of the beacon.
//
// Routes (all GET):
//
//	/api/ping          liveness probe, returns "pong"
//	/api/best          recommended nodes, best first
//	/api/nodes         every scanned node, best first
//	/api/nodes/{name}  full check results of one node plus diagnostics
//	/api/status        scheduler state and last cycle metadata
//	/api/alerts        firing and recently resolved alerts
//	/api/docs/*        Swagger UI
//	/metrics           Prometheus exposition
//	/ws/stream         WebSocket push of the node list
//
// Handlers read the store snapshot that was current when the request
// arrived; they never block on a running scan.
package api
