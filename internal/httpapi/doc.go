// Package httpapi exposes the materials service over HTTP.
//
// Routes:
//
//	POST /api/materials                  register an uploaded material
//	POST /api/materials/{id}/process     request processing (async, 202)
//	GET  /api/materials/{id}             fetch a material's state
//	GET  /api/materials/search           similarity search over completed materials
//	GET  /healthz                        liveness and readiness
//
// All /api routes pass the per-client rate limiter; denied requests get
// 429 with Retry-After. Handlers reach the application through the service
// container, so a not-yet-initialized service answers 503 instead of
// panicking.
package httpapi
