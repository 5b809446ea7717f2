// Package handler implements the HTTP endpoints of the user directory.
//
// Handlers translate requests into DirectoryService and SessionService
// calls and service errors into the JSON error envelope. Routing and
// middleware live in the parent httpserver package.
package handler
