// Package orchestrator wires the add-product pipeline (form definition, route
// resolution, HTTP client, session lookup, and submit workflow) behind a
// single constructor for consumers that prefer one entry point.
package orchestrator
