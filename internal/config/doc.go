// Package config loads and watches the gradewatch configuration file
// (config.yaml).
//
// Top-level sections:
//   - source: report mirror URLs (tried in order), refresh_interval,
//     fetch_timeout
//   - server: http_port for the REST API, WebSocket feed and /metrics
//   - storage: path of the bbolt database file for cross-cycle state
//
// Load(path) reads the YAML file, applies defaults (5m refresh, 15s fetch
// timeout, port 8080, gradewatch.db) and validates required fields.
//
// Watch(ctx, path, onChange) uses fsnotify to detect file changes and calls
// onChange with the newly parsed Config. It handles the rename→create
// pattern used by atomic-save editors by re-adding the watch after a rename
// event.
package config
