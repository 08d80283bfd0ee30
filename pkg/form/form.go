// Package form tracks the values entered into a form and evaluates each
// field's validation rules on demand.
package form

import (
	"fmt"
	"sync"

	"github.com/goliatone/go-stockform/pkg/model"
	"github.com/goliatone/go-stockform/pkg/validation"
)

// Form holds raw field values keyed by field name together with the most
// recent validation result. Values are only replaced through SetValue/Select;
// validation never mutates them.
type Form struct {
	mu     sync.RWMutex
	def    model.FormModel
	rules  map[string]validation.Rules
	values map[string]string
	errors map[string]string
}

// New seeds an empty form for the provided definition.
func New(def model.FormModel) *Form {
	rules := make(map[string]validation.Rules, len(def.Fields))
	values := make(map[string]string, len(def.Fields))
	for _, field := range def.Fields {
		rules[field.Name] = validation.Compile(field)
		values[field.Name] = ""
	}
	return &Form{
		def:    def,
		rules:  rules,
		values: values,
		errors: make(map[string]string),
	}
}

// Definition returns the form model the form was built from.
func (f *Form) Definition() model.FormModel {
	return f.def
}

// SetValue replaces the raw value of a field.
func (f *Form) SetValue(field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.values[field]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	f.values[field] = value
	return nil
}

// Select binds an enumerated field to one of the power rating options.
func (f *Form) Select(field string, rating model.PowerRating) error {
	def, ok := f.def.Field(field)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	if def.Type != model.FieldTypeEnum {
		return fmt.Errorf("%w: %q", ErrNotEnumerated, field)
	}
	if !rating.Valid() {
		return fmt.Errorf("%w: %v", ErrInvalidOption, rating)
	}
	return f.SetValue(field, rating.Tag())
}

// Value returns the current raw value of a field.
func (f *Form) Value(field string) string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.values[field]
}

// Snapshot returns a copy of every field value.
func (f *Form) Snapshot() map[string]string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return cloneStrings(f.values)
}

// ValidateAll evaluates every field and returns the first failing message per
// invalid field. Valid fields are absent from the result. The result is also
// retained and exposed through Errors.
func (f *Form) ValidateAll() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()

	errs := make(map[string]string)
	for _, field := range f.def.Fields {
		if msg, ok := f.rules[field.Name].Check(f.values[field.Name]); !ok {
			errs[field.Name] = msg
		}
	}
	f.errors = errs
	return cloneStrings(errs)
}

// ValidateField evaluates a single field without touching the retained
// error set.
func (f *Form) ValidateField(field string) (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	rules, ok := f.rules[field]
	if !ok {
		return "", true
	}
	return rules.Check(f.values[field])
}

// Errors returns the result of the last ValidateAll call.
func (f *Form) Errors() map[string]string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return cloneStrings(f.errors)
}

// ErrorFor returns the retained error for a field, if any.
func (f *Form) ErrorFor(field string) string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.errors[field]
}

func cloneStrings(src map[string]string) map[string]string {
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
