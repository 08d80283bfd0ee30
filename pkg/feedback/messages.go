package feedback

import (
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-stockform/pkg/client"
	"github.com/goliatone/go-stockform/pkg/payload"
	"github.com/goliatone/go-stockform/pkg/session"
)

// Messages holds the user-facing texts. Success texts are pongo2 templates
// rendered with the submitted payload available as `product`.
type Messages struct {
	SuccessTitle       string `yaml:"success_title" env:"SUCCESS_TITLE"`
	SuccessDescription string `yaml:"success_description" env:"SUCCESS_DESCRIPTION"`
	ErrorTitle         string `yaml:"error_title" env:"ERROR_TITLE"`
	GenericError       string `yaml:"generic_error" env:"GENERIC_ERROR"`
	SessionMissing     string `yaml:"session_missing" env:"SESSION_MISSING"`
}

// DefaultMessages returns the stock texts.
func DefaultMessages() Messages {
	return Messages{
		SuccessTitle:       "Success",
		SuccessDescription: "Product added successfully",
		ErrorTitle:         "Error",
		GenericError:       "Something went wrong. Please try again.",
		SessionMissing:     "Session expired. Please sign in again.",
	}
}

// WithDefaults fills blank texts from DefaultMessages.
func (m Messages) WithDefaults() Messages {
	def := DefaultMessages()
	if strings.TrimSpace(m.SuccessTitle) == "" {
		m.SuccessTitle = def.SuccessTitle
	}
	if strings.TrimSpace(m.SuccessDescription) == "" {
		m.SuccessDescription = def.SuccessDescription
	}
	if strings.TrimSpace(m.ErrorTitle) == "" {
		m.ErrorTitle = def.ErrorTitle
	}
	if strings.TrimSpace(m.GenericError) == "" {
		m.GenericError = def.GenericError
	}
	if strings.TrimSpace(m.SessionMissing) == "" {
		m.SessionMissing = def.SessionMissing
	}
	return m
}

// Success renders the success notification for p.
func (m Messages) Success(p payload.Payload) (string, string, error) {
	ctx := pongo2.Context{"product": p}
	title, err := renderTemplate(m.SuccessTitle, ctx)
	if err != nil {
		return "", "", err
	}
	description, err := renderTemplate(m.SuccessDescription, ctx)
	if err != nil {
		return "", "", err
	}
	return title, description, nil
}

// ErrorDetail picks the alert text for a failed submission: the sanitized
// server detail when present, the session message for session failures, and
// the generic text otherwise.
func (m Messages) ErrorDetail(err error) string {
	if err == nil {
		return m.GenericError
	}
	if errors.Is(err, session.ErrSessionMissing) {
		return m.SessionMissing
	}
	if detail, ok := client.DetailOf(err); ok {
		if clean := Sanitize(detail); clean != "" {
			return clean
		}
	}
	return m.GenericError
}

var (
	detailPolicyOnce sync.Once
	detailPolicy     *bluemonday.Policy
)

// Sanitize strips markup from server-provided text before it is shown. Runs
// of spaces collapse within a line; line breaks between non-empty lines stay.
func Sanitize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	detailPolicyOnce.Do(func() {
		detailPolicy = bluemonday.StrictPolicy()
	})
	cleaned := html.UnescapeString(detailPolicy.Sanitize(trimmed))
	lines := make([]string, 0, strings.Count(cleaned, "\n")+1)
	for _, line := range strings.Split(cleaned, "\n") {
		if collapsed := strings.Join(strings.Fields(line), " "); collapsed != "" {
			lines = append(lines, collapsed)
		}
	}
	return strings.Join(lines, "\n")
}

func renderTemplate(source string, ctx pongo2.Context) (string, error) {
	if !strings.Contains(source, "{{") && !strings.Contains(source, "{%") {
		return source, nil
	}
	// Texts are shown in a terminal, not embedded in HTML.
	tpl, err := pongo2.FromString("{% autoescape off %}" + source + "{% endautoescape %}")
	if err != nil {
		return "", fmt.Errorf("feedback: parse template: %w", err)
	}
	out, err := tpl.Execute(ctx)
	if err != nil {
		return "", fmt.Errorf("feedback: render template: %w", err)
	}
	return out, nil
}
