// Package server provides HTTP routing, middleware, and the local publish API.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Publish API
//
// [API] is a single [Handler] exposing the orchestrator and the stored
// history on localhost:
//
//	POST /api/publish    run one publish round, returns the aggregate result
//	POST /api/cancel     stop a running task
//	GET  /api/tasks      task history, newest first
//	GET  /api/task?id=   one task with its per-account entries
//	GET  /api/accounts   stored accounts
//	GET  /api/platforms  registered platform descriptors
//	GET  /health         liveness probe
//
// Validation failures on /api/publish return 400 with the stable error code
// so clients can render the same hints the CLI shows.
//
// The server binds to loopback only; it drives a local browser and has no
// authentication of its own.
package server
