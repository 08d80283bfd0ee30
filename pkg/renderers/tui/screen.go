// Package tui drives the add-product form from a terminal. A Screen prompts
// for each field, asks for an explicit confirmation before submitting, and
// hands the attempt to a workflow; a Presenter shows the outcome.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-stockform/pkg/form"
	"github.com/goliatone/go-stockform/pkg/model"
	"github.com/goliatone/go-stockform/pkg/workflow"
)

// Submitter runs one submission attempt.
type Submitter interface {
	Submit(ctx context.Context) (workflow.Result, error)
}

// Screen collects values into a form and submits them.
type Screen struct {
	form      *form.Form
	submitter Submitter
	driver    PromptDriver
	theme     Theme
	inline    bool
}

// NewScreen builds a screen over f. Without WithPromptDriver the survey
// driver writing to stdout is used.
func NewScreen(f *form.Form, submitter Submitter, options ...Option) *Screen {
	s := &Screen{
		form:      f,
		submitter: submitter,
		theme:     DefaultTheme(),
		inline:    true,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(nil)
	}
	return s
}

// Run prompts until a submission succeeds and returns the destination to
// navigate to. It returns ErrAborted on Ctrl+C and ErrDiscarded when the user
// declines to submit or retry.
func (s *Screen) Run(ctx context.Context) (string, error) {
	def := s.form.Definition()
	if def.Title != "" {
		if err := s.driver.Info(ctx, def.Title); err != nil {
			return "", err
		}
	}

	pending := fieldNames(def, nil)
	for {
		for _, name := range pending {
			field, _ := def.Field(name)
			if err := s.promptField(ctx, field); err != nil {
				return "", err
			}
		}

		ok, err := s.review(ctx, def)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", ErrDiscarded
		}

		res, err := s.submitter.Submit(ctx)
		if err != nil {
			return "", err
		}

		switch res.Outcome {
		case workflow.OutcomeSuccess:
			return res.Destination, nil
		case workflow.OutcomeInvalid:
			pending = fieldNames(def, func(name string) bool {
				_, bad := res.FieldErrors[name]
				return bad
			})
			for _, name := range pending {
				field, _ := def.Field(name)
				if err := s.driver.Info(ctx, prefixed(s.theme.ErrorPrefix, field.Label+": "+res.FieldErrors[name])); err != nil {
					return "", err
				}
			}
		default:
			retry, err := s.driver.Confirm(ctx, ConfirmConfig{Message: "Retry submission?", Default: true})
			if err != nil {
				return "", err
			}
			if !retry {
				return "", ErrDiscarded
			}
			// Fields the server rejected are offered for editing before
			// the retry; everything else is resent as is.
			pending = fieldNames(def, func(name string) bool {
				_, bad := res.ServerFieldErrors[name]
				return bad
			})
		}
	}
}

func (s *Screen) promptField(ctx context.Context, field model.Field) error {
	if field.Type == model.FieldTypeEnum {
		return s.promptOption(ctx, field)
	}

	for {
		response, err := s.driver.Input(ctx, InputConfig{
			Message: promptLabel(field),
			Default: s.form.Value(field.Name),
			Help:    field.Placeholder,
		})
		if err != nil {
			return err
		}
		if err := s.form.SetValue(field.Name, response); err != nil {
			return err
		}
		if ok, err := s.checkInline(ctx, field); err != nil || ok {
			return err
		}
	}
}

func (s *Screen) promptOption(ctx context.Context, field model.Field) error {
	labels := make([]string, len(field.Options))
	current := -1
	for i, opt := range field.Options {
		labels[i] = opt.Label
		if opt.Value == s.form.Value(field.Name) {
			current = i
		}
	}

	for {
		idx, err := s.driver.Select(ctx, SelectConfig{
			Message:      promptLabel(field),
			Options:      labels,
			DefaultIndex: current,
			Help:         field.Placeholder,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(field.Options) {
			if err := s.driver.Info(ctx, prefixed(s.theme.ErrorPrefix, "Invalid "+field.Label+" selection")); err != nil {
				return err
			}
			continue
		}
		if err := s.form.SetValue(field.Name, field.Options[idx].Value); err != nil {
			return err
		}
		if ok, err := s.checkInline(ctx, field); err != nil || ok {
			return err
		}
	}
}

// checkInline reports whether the field may be left. With deferred
// validation every value is accepted here.
func (s *Screen) checkInline(ctx context.Context, field model.Field) (bool, error) {
	if !s.inline {
		return true, nil
	}
	msg, ok := s.form.ValidateField(field.Name)
	if ok {
		return true, nil
	}
	return false, s.driver.Info(ctx, prefixed(s.theme.ErrorPrefix, msg))
}

func (s *Screen) review(ctx context.Context, def model.FormModel) (bool, error) {
	var b strings.Builder
	for i, field := range def.Fields {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(prefixed(s.theme.InfoPrefix, fmt.Sprintf("%s: %s", field.Label, displayValue(field, s.form.Value(field.Name)))))
	}
	if err := s.driver.Info(ctx, b.String()); err != nil {
		return false, err
	}
	return s.driver.Confirm(ctx, ConfirmConfig{Message: "Add product?", Default: true})
}

func fieldNames(def model.FormModel, keep func(string) bool) []string {
	out := make([]string, 0, len(def.Fields))
	for _, field := range def.Fields {
		if keep == nil || keep(field.Name) {
			out = append(out, field.Name)
		}
	}
	return out
}

func promptLabel(field model.Field) string {
	if field.Required() {
		return field.Label + " *"
	}
	return field.Label
}

func displayValue(field model.Field, value string) string {
	for _, opt := range field.Options {
		if opt.Value == value {
			return opt.Label
		}
	}
	return value
}

func prefixed(prefix, text string) string {
	if prefix == "" {
		return text
	}
	return prefix + " " + text
}
