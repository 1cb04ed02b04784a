// Package api serves the KOERI bulletin as JSON over HTTP.
//
// Routes:
//
//	GET /healthz             liveness
//	GET /metrics             Prometheus metrics
//	GET /v1/events/latest    most recent event
//	GET /v1/events           ?count=N&min_magnitude=&max_depth=&province=
//
// Fetch, structure and field failures are reported as 502 with a JSON body
// naming the failing row and column where known.
package api
