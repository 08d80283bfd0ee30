// Package testsupport holds fixture helpers shared by package tests.
package testsupport

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-stockform/pkg/model"
)

// UpdateEnv enables golden rewrites when set to any non-empty value.
const UpdateEnv = "UPDATE_GOLDENS"

// MustLoadFormModel loads a JSON golden file into a FormModel structure.
func MustLoadFormModel(t *testing.T, path string) model.FormModel {
	t.Helper()

	form, err := LoadFormModel(path)
	if err != nil {
		t.Fatalf("load form model: %v", err)
	}
	return form
}

// LoadFormModel reads a JSON fixture into a FormModel, returning an error for
// callers managing setup outside of *testing.T.
func LoadFormModel(path string) (model.FormModel, error) {
	if path == "" {
		return model.FormModel{}, errors.New("testsupport: form model path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return model.FormModel{}, fmt.Errorf("testsupport: read form model: %w", err)
	}
	var out model.FormModel
	if err := json.Unmarshal(data, &out); err != nil {
		return model.FormModel{}, fmt.Errorf("testsupport: unmarshal form model: %w", err)
	}
	return out, nil
}

// EncodeFormModel renders the canonical golden representation.
func EncodeFormModel(value model.FormModel) ([]byte, error) {
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("testsupport: marshal form model: %w", err)
	}
	return append(payload, '\n'), nil
}

// WriteFormModel writes a form model golden when UPDATE_GOLDENS is enabled and
// reports whether it did.
func WriteFormModel(t *testing.T, path string, value model.FormModel) bool {
	t.Helper()

	if os.Getenv(UpdateEnv) == "" {
		return false
	}
	payload, err := EncodeFormModel(value)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// CompareFormModel rewrites the golden when requested, otherwise fails the
// test with a (-want +got) diff against it.
func CompareFormModel(t *testing.T, path string, got model.FormModel) {
	t.Helper()

	if WriteFormModel(t, path, got) {
		return
	}
	want := MustLoadFormModel(t, path)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("form model mismatch with %s (-want +got):\n%s\nrun with %s=1 to update", path, diff, UpdateEnv)
	}
}
