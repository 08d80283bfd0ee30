// Package routes resolves named API routes from an OpenAPI 3 document so
// clients address operations by operationId rather than hard-coded paths.
package routes

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed inventory.yaml
var inventoryDocument []byte

var (
	// ErrOperationNotFound is returned when no operation carries the id.
	ErrOperationNotFound = errors.New("routes: operation not found")
	// ErrEmptyDocument is returned for empty document payloads.
	ErrEmptyDocument = errors.New("routes: document payload is empty")
)

// Route is a resolved HTTP method and path.
type Route struct {
	OperationID string
	Method      string
	Path        string
}

// Table maps operation ids to routes.
type Table map[string]Route

// Lookup returns the route for operationID.
func (t Table) Lookup(operationID string) (Route, error) {
	route, ok := t[operationID]
	if !ok {
		return Route{}, fmt.Errorf("%w: %q", ErrOperationNotFound, operationID)
	}
	return route, nil
}

// DefaultDocument returns the embedded inventory API description.
func DefaultDocument() []byte {
	out := make([]byte, len(inventoryDocument))
	copy(out, inventoryDocument)
	return out
}

// Parse loads an OpenAPI document (JSON or YAML) and collects every
// operation that declares an operationId.
func Parse(ctx context.Context, raw []byte) (Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, ErrEmptyDocument
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("routes: load document: %w", err)
	}

	table := make(Table)
	if spec.Paths == nil {
		return table, nil
	}
	for path, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op == nil || strings.TrimSpace(op.OperationID) == "" {
				continue
			}
			table[op.OperationID] = Route{
				OperationID: op.OperationID,
				Method:      strings.ToUpper(method),
				Path:        path,
			}
		}
	}
	return table, nil
}

// Resolve parses raw and looks up a single operation.
func Resolve(ctx context.Context, raw []byte, operationID string) (Route, error) {
	table, err := Parse(ctx, raw)
	if err != nil {
		return Route{}, err
	}
	return table.Lookup(operationID)
}

// ResolveFile reads the document at path and looks up operationID. An empty
// path resolves against the embedded document.
func ResolveFile(ctx context.Context, path, operationID string) (Route, error) {
	if strings.TrimSpace(path) == "" {
		return Default(ctx, operationID)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Route{}, fmt.Errorf("routes: read %s: %w", path, err)
	}
	return Resolve(ctx, raw, operationID)
}

// Default resolves operationID against the embedded document.
func Default(ctx context.Context, operationID string) (Route, error) {
	return Resolve(ctx, inventoryDocument, operationID)
}
