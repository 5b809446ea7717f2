// Package httpserver serves the user directory over HTTP.
//
//   - server.go: http.Server lifecycle, optional TLS
//   - router.go: route table and middleware order
//   - middleware.go: request IDs, session resolution, rate limiting,
//     audit logging with metrics, panic recovery, CORS
//
// Mutating /users routes require a session token in X-Session-Token or
// Authorization: Bearer. The token is resolved before the directory is
// touched.
package httpserver
