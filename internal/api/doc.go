// Package api serves the display-consumer surface over HTTP.
//
// Endpoints (all JSON):
//   - GET  /api/v1/ranking?dc={name|all}: the current ranked board with
//     per-row change annotations
//   - GET  /api/v1/datacenters: sorted data center names
//   - GET  /api/v1/deltas: the raw per-server delta map for this cycle
//   - GET  /api/v1/health: last update time, cycle id, record count
//   - POST /api/v1/refresh: trigger a scrape now; 409 while one is running
package api
