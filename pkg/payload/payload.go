// Package payload assembles the request body sent to the add-product route
// from a validated form snapshot and the current session.
package payload

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-stockform/pkg/model"
	"github.com/goliatone/go-stockform/pkg/session"
)

// ErrUnknownProductType is returned when the product type value is not one
// of the closed power rating options.
var ErrUnknownProductType = errors.New("payload: unknown product type")

// Payload is the wire shape of an add-product request.
type Payload struct {
	GodownID        string  `json:"godownId"`
	ProductName     string  `json:"productName"`
	ProductCategory string  `json:"productCategory"`
	TotalQuantity   string  `json:"totalQuantity"`
	ProductVolume   string  `json:"productVolume"`
	Price           string  `json:"price"`
	ProductType     float64 `json:"productType"`
}

// Builder turns form values into a Payload.
type Builder struct {
	sessions session.Provider
}

// NewBuilder returns a builder reading the godown id from sessions.
func NewBuilder(sessions session.Provider) *Builder {
	return &Builder{sessions: sessions}
}

// Build reads the session and maps values onto the payload. Values are
// expected to have passed validation; string fields are copied verbatim.
func (b *Builder) Build(ctx context.Context, values map[string]string) (Payload, error) {
	if b == nil || b.sessions == nil {
		return Payload{}, fmt.Errorf("payload: %w", session.ErrSessionMissing)
	}

	current, err := b.sessions.Current(ctx)
	if err != nil {
		if errors.Is(err, session.ErrSessionMissing) {
			return Payload{}, fmt.Errorf("payload: %w", err)
		}
		return Payload{}, fmt.Errorf("payload: %w: %v", session.ErrSessionMissing, err)
	}
	if current.GodownID == "" {
		return Payload{}, fmt.Errorf("payload: %w: godownId is empty", session.ErrSessionMissing)
	}

	rating, ok := model.ParsePowerRating(values[model.FieldProductType])
	if !ok {
		return Payload{}, fmt.Errorf("%w: %q", ErrUnknownProductType, values[model.FieldProductType])
	}

	return Payload{
		GodownID:        current.GodownID,
		ProductName:     values[model.FieldProductName],
		ProductCategory: values[model.FieldProductCategory],
		TotalQuantity:   values[model.FieldTotalQuantity],
		ProductVolume:   values[model.FieldProductVolume],
		Price:           values[model.FieldPrice],
		ProductType:     rating.Kilowatts(),
	}, nil
}
