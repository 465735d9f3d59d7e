// Package api implements the HTTP REST API and WebSocket server for the
// wire panel service.
//
// This package provides:
//   - REST endpoints to list boards, rename them, toggle maintenance panels
//     and cut, mend or pulse wires on behalf of an operator
//   - Operator endpoints to hand tools to operators and move them
//   - Layout endpoints to list and forget cached wire layouts
//   - WebSocket hub pushing board snapshots, feedback and events
//   - Middleware stack (request ID, logging, recovery, CORS, body limit)
//
// # Status Codes
//
// Operator-facing rejections are not HTTP errors. A wire action an
// operator cannot perform (no hands, out of reach, wrong tool) answers 200
// with ok=false and the feedback key. Unknown boards, operators and wire
// ids answer 404; malformed bodies and unknown actions answer 400.
//
// # Graceful Degradation
//
// The server runs without MQTT; only the health report changes.
package api
