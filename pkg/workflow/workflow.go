// Package workflow drives a single add-product submission through
// validation, payload assembly, the network call, and user feedback.
//
// The workflow is a small state machine:
//
//	Idle -> Validating -> Invalid -> Idle
//	Idle -> Validating -> Submitting -> Success|Failed -> Idle
//
// Submit is only accepted from Idle, so at most one submission is in flight
// per Workflow. The loading flag is true exactly while the workflow is in
// Submitting.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/goliatone/go-stockform/pkg/client"
	"github.com/goliatone/go-stockform/pkg/feedback"
	"github.com/goliatone/go-stockform/pkg/form"
	"github.com/goliatone/go-stockform/pkg/payload"
)

const tracerName = "github.com/goliatone/go-stockform/pkg/workflow"

// PayloadBuilder assembles the request body from validated values.
type PayloadBuilder interface {
	Build(ctx context.Context, values map[string]string) (payload.Payload, error)
}

// Result describes a finished attempt. Err is set for OutcomeFailed and
// Destination for OutcomeSuccess.
type Result struct {
	Outcome           Outcome
	Destination       string
	FieldErrors       map[string]string
	ServerFieldErrors map[string][]string
	Payload           payload.Payload
	Response          client.Response
	Err               error
}

// Workflow wires the form to its collaborators.
type Workflow struct {
	form        *form.Form
	builder     PayloadBuilder
	sender      client.Sender
	presenter   feedback.Presenter
	messages    feedback.Messages
	destination string
	logger      logrus.FieldLogger
	tracer      trace.Tracer
	observer    func(Transition)

	mu      sync.Mutex
	state   State
	loading bool
}

// New builds an idle workflow.
func New(f *form.Form, builder PayloadBuilder, sender client.Sender, presenter feedback.Presenter, options ...Option) *Workflow {
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)

	w := &Workflow{
		form:        f,
		builder:     builder,
		sender:      sender,
		presenter:   presenter,
		messages:    feedback.DefaultMessages(),
		destination: feedback.DestinationProductList,
		logger:      quiet,
		tracer:      otel.Tracer(tracerName),
		state:       StateIdle,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(w)
	}
	return w
}

// State returns the current state.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Loading reports whether a network submission is in progress.
func (w *Workflow) Loading() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.loading
}

// Errors returns the field errors of the last validation pass.
func (w *Workflow) Errors() map[string]string {
	return w.form.Errors()
}

// Submit runs one attempt. Validation failures and submission failures are
// reported through the Result; the returned error is ErrSubmissionInFlight
// when another attempt is active, or a presenter failure (for example the
// user aborting an alert) after the workflow has returned to idle.
func (w *Workflow) Submit(ctx context.Context) (Result, error) {
	if !w.begin() {
		return Result{}, ErrSubmissionInFlight
	}
	defer func() {
		// A panicking collaborator must not leave the workflow stuck or
		// loading.
		if r := recover(); r != nil {
			w.transition(StateIdle, false)
			panic(r)
		}
	}()

	if errs := w.form.ValidateAll(); len(errs) > 0 {
		w.logger.WithField("fields", len(errs)).Debug("submission blocked by validation")
		w.transition(StateInvalid, false)
		w.transition(StateIdle, false)
		return Result{Outcome: OutcomeInvalid, FieldErrors: errs}, nil
	}

	result := w.submit(ctx)

	var presentErr error
	if result.Outcome == OutcomeSuccess {
		result.Destination = w.destination
		presentErr = w.presentSuccess(ctx, result.Payload)
	} else {
		presentErr = w.presentFailure(ctx, result.Err)
	}
	w.transition(StateIdle, false)

	if presentErr != nil {
		return result, fmt.Errorf("workflow: present outcome: %w", presentErr)
	}
	return result, nil
}

func (w *Workflow) submit(ctx context.Context) (result Result) {
	w.transition(StateSubmitting, true)

	ctx, span := w.tracer.Start(ctx, "workflow.submit")
	defer span.End()

	p, err := w.builder.Build(ctx, w.form.Snapshot())
	if err != nil {
		return w.fail(span, Result{Outcome: OutcomeFailed, Err: err})
	}
	span.SetAttributes(
		attribute.String("stockform.godown_id", p.GodownID),
		attribute.Float64("stockform.product_type", p.ProductType),
	)

	resp, err := w.sender.Send(ctx, p)
	if err != nil {
		res := Result{Outcome: OutcomeFailed, Payload: p, Err: err}
		var serverErr *client.ServerError
		if errors.As(err, &serverErr) {
			res.ServerFieldErrors = serverErr.Fields
		}
		return w.fail(span, res)
	}

	span.SetAttributes(attribute.String("stockform.request_id", resp.RequestID))
	w.logger.WithFields(logrus.Fields{
		"request_id": resp.RequestID,
		"godown_id":  p.GodownID,
		"product":    p.ProductName,
	}).Info("product added")
	w.transition(StateSuccess, false)
	return Result{Outcome: OutcomeSuccess, Payload: p, Response: resp}
}

func (w *Workflow) fail(span trace.Span, res Result) Result {
	span.RecordError(res.Err)
	span.SetStatus(codes.Error, res.Err.Error())
	w.logger.WithError(res.Err).Warn("product submission failed")
	w.transition(StateFailed, false)
	return res
}

func (w *Workflow) presentSuccess(ctx context.Context, p payload.Payload) error {
	title, description, err := w.messages.Success(p)
	if err != nil {
		w.logger.WithError(err).Warn("render success message")
		def := feedback.DefaultMessages()
		title, description = def.SuccessTitle, def.SuccessDescription
	}
	if err := w.presenter.NotifySuccess(ctx, title, description); err != nil {
		return err
	}
	return w.presenter.NavigateTo(ctx, w.destination)
}

func (w *Workflow) presentFailure(ctx context.Context, cause error) error {
	return w.presenter.NotifyError(ctx, w.messages.ErrorDetail(cause))
}

func (w *Workflow) begin() bool {
	w.mu.Lock()
	if w.state != StateIdle {
		w.mu.Unlock()
		return false
	}
	from := w.state
	w.state = StateValidating
	w.mu.Unlock()

	w.notify(Transition{From: from, To: StateValidating})
	return true
}

func (w *Workflow) transition(to State, loading bool) {
	w.mu.Lock()
	from := w.state
	w.state = to
	w.loading = loading
	w.mu.Unlock()

	w.logger.WithFields(logrus.Fields{"from": from.String(), "to": to.String()}).Debug("workflow transition")
	w.notify(Transition{From: from, To: to, Loading: loading})
}

func (w *Workflow) notify(t Transition) {
	if w.observer != nil {
		w.observer(t)
	}
}
