package workflow

import (
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"

	"github.com/goliatone/go-stockform/pkg/feedback"
)

// Option configures a Workflow.
type Option func(*Workflow)

// WithLogger routes workflow logs to logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(w *Workflow) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithMessages overrides the notification texts.
func WithMessages(messages feedback.Messages) Option {
	return func(w *Workflow) {
		w.messages = messages.WithDefaults()
	}
}

// WithDestination overrides where the presenter navigates after success.
func WithDestination(destination string) Option {
	return func(w *Workflow) {
		if destination != "" {
			w.destination = destination
		}
	}
}

// WithObserver registers a callback invoked on every state transition. The
// callback runs synchronously and must not call back into the workflow.
func WithObserver(fn func(Transition)) Option {
	return func(w *Workflow) {
		w.observer = fn
	}
}

// WithTracer overrides the tracer used for submission spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(w *Workflow) {
		if tracer != nil {
			w.tracer = tracer
		}
	}
}
