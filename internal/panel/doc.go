// Package panel serves the browser board viewer as an embedded asset.
//
// The viewer is a static page that lists every board over the REST API,
// follows snapshots and feedback over the WebSocket, and lets an operator
// cut, mend and pulse wires. It is embedded into the binary with go:embed.
// Handler serves it with SPA fallback routing: if a requested file does
// not exist, index.html is served.
package panel
