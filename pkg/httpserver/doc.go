// Package httpserver wraps net/http's Server with graceful shutdown,
// signal handling, environment configuration and health check probes.
package httpserver
