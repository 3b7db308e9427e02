// Package websocket serves live dashboard sessions. A browser sends
// "select" requests carrying a selection and receives the rendered
// view-model as a "dashboard" message; failures arrive as "error"
// messages with the same codes the HTTP API uses.
package websocket
