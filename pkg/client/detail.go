package client

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goliatone/go-stockform/pkg/model"
)

var detailKeys = []string{"message", "error", "detail", "msg"}

var fieldErrorKeys = []string{"errors", "fields", "validation"}

// decodeServerError reads a structured error body. Accepted shapes: a JSON
// string, a JSON object with a message-like key and an optional errors map,
// or plain text.
func decodeServerError(status int, raw []byte, form model.FormModel) *ServerError {
	serverErr := &ServerError{
		StatusCode: status,
		Body:       raw,
	}

	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return serverErr
	}

	var decoded any
	if err := json.Unmarshal([]byte(trimmed), &decoded); err != nil {
		serverErr.Detail = trimmed
		return serverErr
	}

	switch body := decoded.(type) {
	case string:
		serverErr.Detail = strings.TrimSpace(body)
	case map[string]any:
		serverErr.Detail = detailFromObject(body)
		fields, formLevel := mapFieldErrors(form, fieldErrorsFromObject(body))
		if len(fields) > 0 {
			serverErr.Fields = fields
		}
		if serverErr.Detail == "" && len(formLevel) > 0 {
			serverErr.Detail = strings.Join(formLevel, "\n")
		}
	}
	return serverErr
}

func detailFromObject(body map[string]any) string {
	for _, key := range detailKeys {
		switch v := body[key].(type) {
		case string:
			if msg := strings.TrimSpace(v); msg != "" {
				return msg
			}
		case map[string]any:
			if msg := detailFromObject(v); msg != "" {
				return msg
			}
		}
	}
	return ""
}

func fieldErrorsFromObject(body map[string]any) map[string][]string {
	out := make(map[string][]string)
	for _, key := range fieldErrorKeys {
		entries, ok := body[key].(map[string]any)
		if !ok {
			continue
		}
		for path, value := range entries {
			switch v := value.(type) {
			case string:
				out[path] = append(out[path], v)
			case []any:
				for _, item := range v {
					out[path] = append(out[path], fmt.Sprint(item))
				}
			}
		}
	}
	return out
}

// mapFieldErrors normalises server error paths ("body.price", "/price",
// "data[price]") onto the form's field names. Unknown paths become form-level
// messages so nothing is lost.
func mapFieldErrors(form model.FormModel, payload map[string][]string) (map[string][]string, []string) {
	if len(payload) == 0 {
		return nil, nil
	}

	known := make(map[string]struct{}, len(form.Fields))
	for _, field := range form.Fields {
		known[field.Name] = struct{}{}
	}

	fields := make(map[string][]string)
	var formLevel []string
	for rawPath, messages := range payload {
		normalized := normalizeMessages(messages)
		if len(normalized) == 0 {
			continue
		}
		name := matchField(rawPath, known)
		if name == "" {
			formLevel = append(formLevel, normalized...)
			continue
		}
		fields[name] = normalizeMessages(append(fields[name], normalized...))
	}
	if len(fields) == 0 {
		fields = nil
	}
	return fields, normalizeMessages(formLevel)
}

func matchField(raw string, known map[string]struct{}) string {
	if isFormLevelKey(raw) {
		return ""
	}
	for _, segment := range dropWrapperSegments(parsePathSegments(raw)) {
		if _, ok := known[segment]; ok {
			return segment
		}
	}
	return ""
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}
	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func parsePathSegments(path string) []string {
	clean := strings.TrimSpace(path)
	clean = strings.TrimLeft(clean, "#$/.")
	clean = strings.NewReplacer("[", ".", "]", "").Replace(clean)
	clean = strings.Trim(clean, "./")
	if clean == "" {
		return nil
	}
	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if segment := strings.TrimSpace(part); segment != "" {
			out = append(out, segment)
		}
	}
	return out
}

func dropWrapperSegments(segments []string) []string {
	wrappers := map[string]struct{}{
		"body":       {},
		"request":    {},
		"payload":    {},
		"data":       {},
		"attributes": {},
	}

	out := segments
	for len(out) > 0 {
		if _, ok := wrappers[strings.ToLower(out[0])]; !ok {
			break
		}
		out = out[1:]
	}
	return out
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "base", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}
